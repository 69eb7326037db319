package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"fable-server/internal/api"
	"fable-server/internal/config"
	"fable-server/internal/database"
	"fable-server/internal/generation"
	"fable-server/internal/logger"
	"fable-server/internal/messaging"
	"fable-server/internal/prompt"
	"fable-server/internal/repository"
	"fable-server/internal/service"
	"fable-server/internal/storage"
	"fable-server/internal/voice"
)

func main() {
	// .env is for local development; in containers the environment comes
	// from the orchestrator.
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			zap.NewExample().Warn("Error loading .env file", zap.Error(err))
		}
	}

	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("Failed to load config", zap.Error(err))
	}

	log, err := logger.New(logger.Config{
		Level:    cfg.LogLevel,
		Encoding: cfg.LogEncoding,
	})
	if err != nil {
		zap.NewExample().Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer log.Sync()

	log.Info("Starting fable-server",
		zap.String("port", cfg.ServerPort),
		zap.String("db", cfg.MaskedDSN()),
		zap.String("ai_model", cfg.AIModel))

	rootCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- Database --- //
	dbpool, err := database.Connect(rootCtx, cfg.GetDSN(), cfg.MigrationsDir, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer dbpool.Close()

	// --- Redis --- //
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})
	if err := rdb.Ping(rootCtx).Err(); err != nil {
		// The fragment cache degrades to direct reads, so a missing Redis
		// is a warning, not a startup failure.
		log.Warn("Redis unavailable, fragment cache disabled", zap.Error(err))
	}
	defer rdb.Close()

	// --- RabbitMQ --- //
	rabbitConn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
	}
	defer rabbitConn.Close()

	rabbitCh, err := rabbitConn.Channel()
	if err != nil {
		log.Fatal("Failed to open RabbitMQ channel", zap.Error(err))
	}
	defer rabbitCh.Close()

	if err := messaging.DeclareTopology(rabbitCh); err != nil {
		log.Fatal("Failed to declare queue topology", zap.Error(err))
	}

	// --- Repositories --- //
	fragmentRepo := repository.NewCachedFragmentRepository(
		repository.NewPgFragmentRepository(dbpool), rdb, cfg.FragmentCacheTTL)
	attemptRepo := repository.NewPgAttemptRepository(dbpool)
	storyRepo := repository.NewPgStoryRepository(dbpool)
	heroRepo := repository.NewPgHeroRepository(dbpool)

	// --- Generation pipeline --- //
	aiClient, err := generation.NewOpenAIClient(cfg.AIBaseURL, cfg.AIAPIKey, cfg.AIModel, log)
	if err != nil {
		log.Fatal("Failed to create AI client", zap.Error(err))
	}
	evalClient, err := generation.NewOpenAIClient(cfg.AIBaseURL, cfg.AIAPIKey, cfg.AIEvaluatorModel, log)
	if err != nil {
		log.Fatal("Failed to create evaluator AI client", zap.Error(err))
	}

	composer := prompt.NewComposer(log)
	evaluator := generation.NewAIEvaluator(evalClient, log)
	orchestrator := generation.NewOrchestrator(generation.Config{
		MaxAttempts:     cfg.MaxAttempts,
		AcceptThreshold: cfg.AcceptThreshold,
		BaseRetryDelay:  cfg.BaseRetryDelay,
		MaxRetryDelay:   cfg.MaxRetryDelay,
		AttemptTimeout:  cfg.AITimeout,
	}, composer, fragmentRepo, aiClient, evaluator, attemptRepo, log)

	// --- Voice synthesis --- //
	providers := []voice.Provider{
		voice.NewOpenAITTSProvider(cfg.AIAPIKey, cfg.OpenAITTSModel, cfg.OpenAITTSVoice),
		voice.NewElevenLabsProvider(cfg.ElevenLabsBaseURL, cfg.ElevenLabsAPIKey, cfg.ElevenLabsVoiceID),
		voice.NewPiperProvider(cfg.PiperURL, []string{"en", "ru"}),
	}
	registry := voice.NewRegistry(providers, cfg.VoiceDefaultProvider, cfg.VoiceFallbackOrder, log)
	coordinator := voice.NewCoordinator(registry, cfg.VoiceTimeout, log)

	audioStore, err := storage.NewLocalAudioStore(cfg.AudioSavePath, cfg.AudioPublicBaseURL, log)
	if err != nil {
		log.Fatal("Failed to create audio store", zap.Error(err))
	}

	// --- Service and workers --- //
	storyService := service.NewStoryService(orchestrator, coordinator, audioStore, storyRepo, heroRepo, log)

	notifier, err := messaging.NewRabbitMQNotifier(rabbitCh, log)
	if err != nil {
		log.Fatal("Failed to create notifier", zap.Error(err))
	}
	consumer := messaging.NewTaskConsumer(rabbitCh, storyService, notifier, log)
	if err := consumer.Start(rootCtx); err != nil {
		log.Fatal("Failed to start task consumer", zap.Error(err))
	}

	publisher := messaging.NewRabbitMQTaskPublisher(rabbitCh, log)

	// --- HTTP server --- //
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(api.ZapLogger(log))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		MaxAge:           12 * time.Hour,
		AllowCredentials: false,
	}))

	handler := api.NewStoryHandler(storyService, publisher, fragmentRepo, registry, log)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown --- //
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("Shutdown signal received", zap.String("signal", sig.String()))

	cancel() // stop the consumer

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown failed", zap.Error(err))
	}

	log.Info("Server stopped")
}
