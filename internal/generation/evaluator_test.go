package generation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fable-server/internal/models"
)

// stubAIClient returns a canned response; declared locally because the
// shared mocks package would import this one back.
type stubAIClient struct {
	response string
	err      error
	lastCall struct {
		systemPrompt string
		userPrompt   string
		params       GenerationParams
	}
}

func (s *stubAIClient) GenerateText(_ context.Context, systemPrompt, userPrompt string, params GenerationParams) (Generation, error) {
	s.lastCall.systemPrompt = systemPrompt
	s.lastCall.userPrompt = userPrompt
	s.lastCall.params = params
	if s.err != nil {
		return Generation{}, s.err
	}
	return Generation{Content: s.response}, nil
}

func evaluatorRequest() *models.GenerationRequest {
	return &models.GenerationRequest{
		Language:            "en",
		Moral:               "kindness",
		TargetLengthMinutes: 5,
	}
}

func TestScore_ParsesCleanResponse(t *testing.T) {
	stub := &stubAIClient{
		response: `{"age_appropriateness": 8, "moral_clarity": 7, "coherence": 9, "length_adherence": 6, "overall": 8}`,
	}
	evaluator := NewAIEvaluator(stub, zap.NewNop())

	eval, err := evaluator.Score(context.Background(), "a story", evaluatorRequest())
	require.NoError(t, err)

	assert.Equal(t, 8, eval.Score)
	assert.Equal(t, map[string]int{
		CriterionAgeAppropriateness: 8,
		CriterionMoralClarity:       7,
		CriterionCoherence:          9,
		CriterionLengthAdherence:    6,
	}, eval.Detail)
}

func TestScore_RunsDeterministically(t *testing.T) {
	stub := &stubAIClient{
		response: `{"age_appropriateness": 8, "moral_clarity": 7, "coherence": 9, "length_adherence": 6, "overall": 8}`,
	}
	evaluator := NewAIEvaluator(stub, zap.NewNop())

	_, err := evaluator.Score(context.Background(), "a story", evaluatorRequest())
	require.NoError(t, err)

	require.NotNil(t, stub.lastCall.params.Temperature)
	assert.Zero(t, *stub.lastCall.params.Temperature)
	assert.Contains(t, stub.lastCall.userPrompt, "750 words")
	assert.Contains(t, stub.lastCall.userPrompt, "kindness")
}

func TestScore_StripsCodeFences(t *testing.T) {
	stub := &stubAIClient{
		response: "```json\n{\"age_appropriateness\": 5, \"moral_clarity\": 5, \"coherence\": 5, \"length_adherence\": 5, \"overall\": 5}\n```",
	}
	evaluator := NewAIEvaluator(stub, zap.NewNop())

	eval, err := evaluator.Score(context.Background(), "a story", evaluatorRequest())
	require.NoError(t, err)
	assert.Equal(t, 5, eval.Score)
}

func TestScore_BackendErrorIsEvaluationFailure(t *testing.T) {
	stub := &stubAIClient{err: errors.New("backend down")}
	evaluator := NewAIEvaluator(stub, zap.NewNop())

	_, err := evaluator.Score(context.Background(), "a story", evaluatorRequest())
	assert.ErrorIs(t, err, ErrEvaluationFailed)
}

func TestScore_EmptyCandidateFails(t *testing.T) {
	evaluator := NewAIEvaluator(&stubAIClient{}, zap.NewNop())

	_, err := evaluator.Score(context.Background(), "   ", evaluatorRequest())
	assert.ErrorIs(t, err, ErrEvaluationFailed)
}

func TestParseEvaluation(t *testing.T) {
	tests := []struct {
		name      string
		response  string
		wantScore int
		wantErr   bool
	}{
		{
			name:      "overall present",
			response:  `{"age_appropriateness": 8, "moral_clarity": 7, "coherence": 9, "length_adherence": 6, "overall": 7}`,
			wantScore: 7,
		},
		{
			name: "overall missing, average rounds half up",
			// (30 + 4/2) / 4 = 8
			response:  `{"age_appropriateness": 8, "moral_clarity": 7, "coherence": 9, "length_adherence": 6}`,
			wantScore: 8,
		},
		{
			name:      "overall out of range falls back to average",
			response:  `{"age_appropriateness": 4, "moral_clarity": 4, "coherence": 4, "length_adherence": 4, "overall": 42}`,
			wantScore: 4,
		},
		{
			name:      "criteria clamped into 1..10",
			response:  `{"age_appropriateness": 99, "moral_clarity": -3, "coherence": 10, "length_adherence": 1, "overall": 6}`,
			wantScore: 6,
		},
		{
			name:      "prose around the object",
			response:  `Here is my assessment: {"age_appropriateness": 6, "moral_clarity": 6, "coherence": 6, "length_adherence": 6, "overall": 6} Hope this helps!`,
			wantScore: 6,
		},
		{
			name:     "criterion missing",
			response: `{"age_appropriateness": 8, "moral_clarity": 7, "overall": 7}`,
			wantErr:  true,
		},
		{
			name:     "no JSON at all",
			response: `The story is quite good, I would say 8 out of 10.`,
			wantErr:  true,
		},
		{
			name:     "malformed JSON",
			response: `{"age_appropriateness": 8,`,
			wantErr:  true,
		},
		{
			name:     "non-integer criterion",
			response: `{"age_appropriateness": "high", "moral_clarity": 7, "coherence": 9, "length_adherence": 6}`,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eval, err := parseEvaluation(tt.response)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantScore, eval.Score)
		})
	}
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 1, clampScore(-5))
	assert.Equal(t, 1, clampScore(0))
	assert.Equal(t, 5, clampScore(5))
	assert.Equal(t, 10, clampScore(11))
}
