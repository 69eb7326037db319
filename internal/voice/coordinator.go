package voice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"fable-server/internal/models"
)

var audioSynthesisTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "fable_audio_synthesis_total",
		Help: "Total audio synthesis calls, partitioned by provider and status.",
	},
	[]string{"provider", "status"},
)

// Coordinator drives one narration attempt across the provider fallback
// chain. It never returns an error: callers always receive a structured
// AudioGenerationResult and decide whether to proceed without audio.
type Coordinator struct {
	registry *Registry
	timeout  time.Duration
	logger   *zap.Logger
}

// NewCoordinator creates a Coordinator. timeout bounds each individual
// provider call; zero disables the bound.
func NewCoordinator(registry *Registry, timeout time.Duration, logger *zap.Logger) *Coordinator {
	return &Coordinator{
		registry: registry,
		timeout:  timeout,
		logger:   logger.Named("AudioCoordinator"),
	}
}

// Synthesize turns text into narration audio. Empty text short-circuits
// before any provider is touched. Provider failures advance the chain; the
// result reports the first provider that produced audio, or the last
// failure when all are exhausted.
func (c *Coordinator) Synthesize(ctx context.Context, text, language, requestedProvider string, opts Options) models.AudioGenerationResult {
	if strings.TrimSpace(text) == "" {
		return models.AudioFailure("empty text")
	}

	candidates := c.registry.Candidates(requestedProvider)
	if len(candidates) == 0 {
		c.logger.Warn("No voice provider available",
			zap.String("requested", requestedProvider), zap.String("language", language))
		return models.AudioFailure("no provider available")
	}

	var lastFailure string
	for _, provider := range candidates {
		desc := provider.Descriptor()
		if !desc.SupportsLanguage(language) {
			lastFailure = fmt.Sprintf("provider %s does not support language %q", provider.Name(), language)
			c.logger.Debug("Skipping provider: unsupported language",
				zap.String("provider", provider.Name()), zap.String("language", language))
			continue
		}
		if !desc.FitsText(text) {
			lastFailure = fmt.Sprintf("text exceeds provider %s limit of %d characters",
				provider.Name(), desc.MaxTextLength)
			c.logger.Debug("Skipping provider: text too long",
				zap.String("provider", provider.Name()), zap.Int("limit", desc.MaxTextLength))
			continue
		}

		audio, err := c.callProvider(ctx, provider, text, language, opts)
		if err != nil {
			audioSynthesisTotal.With(prometheus.Labels{"provider": provider.Name(), "status": "error"}).Inc()
			lastFailure = fmt.Sprintf("provider %s: %v", provider.Name(), err)
			c.logger.Warn("Voice provider failed, trying next",
				zap.String("provider", provider.Name()), zap.Error(err))
			if ctx.Err() != nil {
				break
			}
			continue
		}
		if len(audio.Bytes) == 0 {
			audioSynthesisTotal.With(prometheus.Labels{"provider": provider.Name(), "status": "empty"}).Inc()
			lastFailure = fmt.Sprintf("provider %s returned empty audio", provider.Name())
			c.logger.Warn("Voice provider returned empty audio, trying next",
				zap.String("provider", provider.Name()))
			continue
		}

		audioSynthesisTotal.With(prometheus.Labels{"provider": provider.Name(), "status": "success"}).Inc()
		c.logger.Info("Audio synthesized",
			zap.String("provider", provider.Name()),
			zap.Int("bytes", len(audio.Bytes)),
			zap.String("voice_id", audio.VoiceID))

		metadata := map[string]string{}
		for k, v := range audio.Metadata {
			metadata[k] = v
		}
		if audio.VoiceID != "" {
			metadata["voice_id"] = audio.VoiceID
		}
		if audio.ModelID != "" {
			metadata["model_id"] = audio.ModelID
		}
		return models.AudioGenerationResult{
			Success:      true,
			Audio:        audio.Bytes,
			ProviderName: provider.Name(),
			Metadata:     metadata,
		}
	}

	if lastFailure == "" {
		lastFailure = "no provider available"
	}
	return models.AudioFailure(lastFailure)
}

// callProvider runs one provider call under the per-call timeout,
// converting provider panics into failures so a misbehaving integration
// can never take down story generation.
func (c *Coordinator) callProvider(ctx context.Context, provider Provider, text, language string, opts Options) (audio Audio, err error) {
	callCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: provider panicked: %v", ErrSynthesisFailed, r)
		}
	}()
	return provider.Synthesize(callCtx, text, language, opts)
}
