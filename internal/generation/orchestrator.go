package generation

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"fable-server/internal/models"
	"fable-server/internal/prompt"
	"fable-server/internal/repository"
)

// GenerationFailure is the terminal error of a generation whose attempts
// were exhausted with no scored success. It carries the full attempt
// history for diagnostics.
type GenerationFailure struct {
	GenerationID  uuid.UUID
	AttemptsCount int
	LastError     string
	Attempts      []models.GenerationAttempt
}

func (e *GenerationFailure) Error() string {
	return fmt.Sprintf("generation %s failed after %d attempt(s): %s",
		e.GenerationID, e.AttemptsCount, e.LastError)
}

// Config bounds the attempt loop. All values come from configuration, not
// engine behavior.
type Config struct {
	MaxAttempts     int
	AcceptThreshold int
	BaseRetryDelay  time.Duration
	MaxRetryDelay   time.Duration
	AttemptTimeout  time.Duration
}

// Orchestrator drives the bounded generate-score-select loop for one
// request. Attempts are strictly sequential: attempt n+1 never starts
// before attempt n is scored and recorded.
type Orchestrator struct {
	cfg       Config
	composer  *prompt.Composer
	fragments repository.FragmentRepository
	ai        AIClient
	evaluator Evaluator
	attempts  repository.AttemptRepository
	logger    *zap.Logger
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(
	cfg Config,
	composer *prompt.Composer,
	fragments repository.FragmentRepository,
	ai AIClient,
	evaluator Evaluator,
	attempts repository.AttemptRepository,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		cfg:       cfg,
		composer:  composer,
		fragments: fragments,
		ai:        ai,
		evaluator: evaluator,
		attempts:  attempts,
		logger:    logger.Named("Orchestrator"),
	}
}

const storySystemPrompt = "You are a warm, imaginative children's storyteller. " +
	"Write one complete story following every instruction you are given. " +
	"Answer with the story text only, starting with a short title on the first line as a markdown heading."

// GenerateStory runs the attempt loop and returns the winning Story. The
// returned story is not yet persisted; the caller owns that. On exhaustion
// with no scored attempt it returns *GenerationFailure.
func (o *Orchestrator) GenerateStory(ctx context.Context, req *models.GenerationRequest) (*models.Story, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.GenerationID == uuid.Nil {
		req.GenerationID = uuid.New()
	}
	log := o.logger.With(zap.String("generation_id", req.GenerationID.String()))

	// Composition happens exactly once: a failed template aborts before any
	// backend spend, and retries reuse the same prompt.
	fragments, err := o.fragments.ListActive(ctx, req.Language, req.StoryType)
	if err != nil {
		return nil, fmt.Errorf("failed to load prompt fragments: %w", err)
	}
	promptText, err := o.composer.Compose(req, fragments)
	if err != nil {
		return nil, err
	}
	if promptText == "" {
		return nil, fmt.Errorf("no prompt fragments configured for language %q, story type %q",
			req.Language, req.StoryType)
	}

	wordCount := req.TargetLengthMinutes * prompt.WordsPerMinute(req.Language)
	params := GenerationParams{
		Temperature: float64Ptr(0.8),
		// Roughly two tokens per word leaves headroom for any language.
		MaxTokens: intPtr(wordCount * 2),
	}

	var (
		history  []models.GenerationAttempt
		selected *models.GenerationAttempt
		best     *models.GenerationAttempt
		lastErr  string
	)

	for attempt := 1; attempt <= o.cfg.MaxAttempts; attempt++ {
		log.Info("Starting generation attempt",
			zap.Int("attempt", attempt), zap.Int("max_attempts", o.cfg.MaxAttempts))

		record, attemptErr := o.runAttempt(ctx, req, promptText, params, attempt)
		if attemptErr != nil && ctx.Err() != nil {
			// Client went away mid-call: abort without persisting the
			// partial attempt. Already-persisted attempts stay as they are.
			log.Warn("Generation cancelled", zap.Int("attempt", attempt), zap.Error(ctx.Err()))
			return nil, ctx.Err()
		}

		if err := o.attempts.Save(ctx, record); err != nil {
			return nil, fmt.Errorf("failed to record attempt %d: %w", attempt, err)
		}
		history = append(history, *record)

		if record.Scored() {
			attemptQualityScore.Observe(float64(*record.QualityScore))
			if *record.QualityScore >= o.cfg.AcceptThreshold {
				generationAttemptsTotal.With(prometheus.Labels{"outcome": "accepted"}).Inc()
				log.Info("Attempt accepted",
					zap.Int("attempt", attempt), zap.Int("score", *record.QualityScore))
				selected = record
				break
			}
			generationAttemptsTotal.With(prometheus.Labels{"outcome": "below_threshold"}).Inc()
			log.Info("Attempt below threshold",
				zap.Int("attempt", attempt),
				zap.Int("score", *record.QualityScore),
				zap.Int("threshold", o.cfg.AcceptThreshold))
			if best == nil || *record.QualityScore > *best.QualityScore {
				best = record
			}
			continue
		}

		generationAttemptsTotal.With(prometheus.Labels{"outcome": "errored"}).Inc()
		lastErr = record.ErrorNote
		log.Warn("Attempt errored", zap.Int("attempt", attempt), zap.String("error", record.ErrorNote))

		if attempt < o.cfg.MaxAttempts {
			if err := o.backoff(ctx, attempt); err != nil {
				return nil, err
			}
		}
	}

	if selected == nil {
		selected = best
	}
	if selected == nil {
		generationsTotal.With(prometheus.Labels{"result": "failed"}).Inc()
		if lastErr == "" {
			lastErr = "no attempt produced a quality score"
		}
		return nil, &GenerationFailure{
			GenerationID:  req.GenerationID,
			AttemptsCount: len(history),
			LastError:     lastErr,
			Attempts:      history,
		}
	}

	generationsTotal.With(prometheus.Labels{"result": "completed"}).Inc()
	story := &models.Story{
		ID:                      uuid.New(),
		UserID:                  req.UserID,
		Title:                   models.DeriveTitle(selected.Content),
		Content:                 selected.Content,
		Moral:                   req.Moral,
		Language:                req.Language,
		StoryType:               req.StoryType,
		TargetLengthMinutes:     req.TargetLengthMinutes,
		SelectedAttemptNumber:   selected.AttemptNumber,
		QualityScore:            *selected.QualityScore,
		GenerationAttemptsCount: len(history),
		CreatedAt:               time.Now().UTC(),
	}
	log.Info("Generation completed",
		zap.String("story_id", story.ID.String()),
		zap.Int("selected_attempt", story.SelectedAttemptNumber),
		zap.Int("quality_score", story.QualityScore),
		zap.Int("attempts", story.GenerationAttemptsCount))
	return story, nil
}

// runAttempt performs one backend call plus scoring and returns the
// attempt record. Backend and evaluator failures are folded into the
// record's ErrorNote with a nil score; the caller decides whether to retry.
func (o *Orchestrator) runAttempt(
	ctx context.Context,
	req *models.GenerationRequest,
	promptText string,
	params GenerationParams,
	attempt int,
) (*models.GenerationAttempt, error) {
	record := &models.GenerationAttempt{
		GenerationID:  req.GenerationID,
		AttemptNumber: attempt,
		CreatedAt:     time.Now().UTC(),
	}

	callCtx := ctx
	if o.cfg.AttemptTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, o.cfg.AttemptTimeout)
		defer cancel()
	}

	gen, err := o.ai.GenerateText(callCtx, storySystemPrompt, promptText, params)
	if err != nil {
		record.ErrorNote = fmt.Sprintf("backend call failed: %v", err)
		return record, err
	}
	record.Content = gen.Content
	record.ModelUsed = gen.ModelUsed
	record.Metadata = gen.Metadata

	eval, err := o.evaluator.Score(callCtx, gen.Content, req)
	if err != nil {
		// A missing score is an errored attempt, never a zero score.
		record.ErrorNote = fmt.Sprintf("evaluation failed: %v", err)
		return record, err
	}
	score := eval.Score
	record.QualityScore = &score
	record.QualityDetail = eval.Detail
	return record, nil
}

// backoff waits before the next attempt: base delay doubling per attempt
// with ±10% jitter, capped at MaxRetryDelay. Cancellation interrupts the
// wait.
func (o *Orchestrator) backoff(ctx context.Context, attempt int) error {
	delay := float64(o.cfg.BaseRetryDelay) * math.Pow(2, float64(attempt-1))
	jitter := delay * 0.1
	delay += jitter * (rand.Float64()*2 - 1)

	wait := time.Duration(delay)
	if wait < o.cfg.BaseRetryDelay {
		wait = o.cfg.BaseRetryDelay
	}
	if o.cfg.MaxRetryDelay > 0 && wait > o.cfg.MaxRetryDelay {
		wait = o.cfg.MaxRetryDelay
	}

	o.logger.Debug("Waiting before retry", zap.Duration("delay", wait))
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		return nil
	}
}
