package generation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"fable-server/internal/models"
	"fable-server/internal/prompt"
)

// ErrEvaluationFailed is returned when no usable quality score could be
// obtained. A missing score is never reported as a low score.
var ErrEvaluationFailed = errors.New("quality evaluation failed")

// Rubric criteria every candidate is scored against.
const (
	CriterionAgeAppropriateness = "age_appropriateness"
	CriterionMoralClarity       = "moral_clarity"
	CriterionCoherence          = "coherence"
	CriterionLengthAdherence    = "length_adherence"
)

var rubricCriteria = []string{
	CriterionAgeAppropriateness,
	CriterionMoralClarity,
	CriterionCoherence,
	CriterionLengthAdherence,
}

// Evaluation is a 1..10 overall score plus the per-criterion breakdown.
type Evaluation struct {
	Score  int
	Detail map[string]int
}

// Evaluator scores one generated candidate against the rubric.
type Evaluator interface {
	Score(ctx context.Context, candidate string, req *models.GenerationRequest) (Evaluation, error)
}

type aiEvaluator struct {
	ai     AIClient
	logger *zap.Logger
}

// NewAIEvaluator creates an Evaluator backed by a secondary AI call. The
// call runs at temperature 0 so repeated evaluations of the same candidate
// are as stable as the backend allows.
func NewAIEvaluator(ai AIClient, logger *zap.Logger) Evaluator {
	return &aiEvaluator{ai: ai, logger: logger.Named("QualityEvaluator")}
}

const evaluatorSystemPrompt = `You are a strict children's story editor. Score the story you are given on four criteria, each an integer from 1 (unacceptable) to 10 (excellent):
- age_appropriateness: vocabulary and themes fit the listener's age
- moral_clarity: the intended moral comes through without preaching
- coherence: the narrative has a beginning, a conflict and a resolution
- length_adherence: the word count is close to the requested target
Respond with a single JSON object and nothing else, for example:
{"age_appropriateness": 8, "moral_clarity": 7, "coherence": 9, "length_adherence": 6, "overall": 8}`

func (e *aiEvaluator) Score(ctx context.Context, candidate string, req *models.GenerationRequest) (Evaluation, error) {
	if strings.TrimSpace(candidate) == "" {
		return Evaluation{}, fmt.Errorf("%w: empty candidate", ErrEvaluationFailed)
	}

	userPrompt := fmt.Sprintf(
		"Language: %s\nIntended moral: %s\nTarget length: about %d words\n\nStory:\n%s",
		req.Language, req.Moral, req.TargetLengthMinutes*prompt.WordsPerMinute(req.Language), candidate)

	gen, err := e.ai.GenerateText(ctx, evaluatorSystemPrompt, userPrompt, GenerationParams{
		Temperature: float64Ptr(0),
		MaxTokens:   intPtr(200),
	})
	if err != nil {
		return Evaluation{}, fmt.Errorf("%w: %v", ErrEvaluationFailed, err)
	}

	eval, err := parseEvaluation(gen.Content)
	if err != nil {
		e.logger.Warn("Unparseable evaluator response",
			zap.String("response", truncateForLog(gen.Content, 300)), zap.Error(err))
		return Evaluation{}, fmt.Errorf("%w: %v", ErrEvaluationFailed, err)
	}
	return eval, nil
}

// parseEvaluation extracts the rubric JSON from the model's reply. Models
// occasionally wrap the object in code fences or prose, so the parser takes
// the outermost {...} span.
func parseEvaluation(response string) (Evaluation, error) {
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start < 0 || end <= start {
		return Evaluation{}, errors.New("no JSON object in response")
	}

	var raw map[string]json.Number
	if err := json.Unmarshal([]byte(response[start:end+1]), &raw); err != nil {
		return Evaluation{}, fmt.Errorf("invalid JSON: %w", err)
	}

	detail := make(map[string]int, len(rubricCriteria))
	for _, criterion := range rubricCriteria {
		num, ok := raw[criterion]
		if !ok {
			return Evaluation{}, fmt.Errorf("criterion %q missing", criterion)
		}
		v, err := num.Int64()
		if err != nil {
			return Evaluation{}, fmt.Errorf("criterion %q is not an integer: %w", criterion, err)
		}
		detail[criterion] = clampScore(int(v))
	}

	score := 0
	if num, ok := raw["overall"]; ok {
		if v, err := num.Int64(); err == nil && v >= 1 && v <= 10 {
			score = int(v)
		}
	}
	if score == 0 {
		// Overall missing or out of range: average the criteria, rounding
		// half up.
		sum := 0
		for _, v := range detail {
			sum += v
		}
		score = clampScore((sum + len(detail)/2) / len(detail))
	}

	return Evaluation{Score: score, Detail: detail}, nil
}

func clampScore(v int) int {
	if v < 1 {
		return 1
	}
	if v > 10 {
		return 10
	}
	return v
}

func truncateForLog(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
