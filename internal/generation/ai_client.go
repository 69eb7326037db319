package generation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkoukk/tiktoken-go"
	"github.com/prometheus/client_golang/prometheus"
	openaigo "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// ErrAIGenerationFailed is returned when the text-generation backend fails
// or produces an unusable response.
var ErrAIGenerationFailed = errors.New("ai text generation failed")

// GenerationParams are optional sampling parameters. Pointers distinguish
// "not set" from zero values.
type GenerationParams struct {
	Temperature *float64
	MaxTokens   *int
	TopP        *float64
}

// Generation is the backend's answer to a single prompt.
type Generation struct {
	Content   string
	ModelUsed string
	Metadata  map[string]string
}

// AIClient is the text-generation backend.
type AIClient interface {
	// GenerateText sends the prompt pair to the backend and returns the
	// generated text with backend-reported metadata.
	GenerateText(ctx context.Context, systemPrompt, userPrompt string, params GenerationParams) (Generation, error)
}

type openAIClient struct {
	client *openaigo.Client
	model  string
	logger *zap.Logger
}

// NewOpenAIClient creates an AIClient backed by an OpenAI-compatible API
// (OpenRouter, OpenAI, a local gateway).
func NewOpenAIClient(baseURL, apiKey, model string, logger *zap.Logger) (AIClient, error) {
	if apiKey == "" {
		return nil, errors.New("AI API key is empty")
	}
	if model == "" {
		return nil, errors.New("AI model is empty")
	}
	clientCfg := openaigo.DefaultConfig(apiKey)
	if baseURL != "" {
		clientCfg.BaseURL = baseURL
	}
	return &openAIClient{
		client: openaigo.NewClientWithConfig(clientCfg),
		model:  model,
		logger: logger.Named("AIClient"),
	}, nil
}

func (c *openAIClient) GenerateText(ctx context.Context, systemPrompt, userPrompt string, params GenerationParams) (Generation, error) {
	if strings.TrimSpace(systemPrompt) == "" {
		return Generation{}, fmt.Errorf("%w: system prompt is empty", ErrAIGenerationFailed)
	}

	messages := []openaigo.ChatCompletionMessage{
		{Role: openaigo.ChatMessageRoleSystem, Content: systemPrompt},
	}
	if userPrompt != "" {
		messages = append(messages, openaigo.ChatCompletionMessage{
			Role: openaigo.ChatMessageRoleUser, Content: userPrompt,
		})
	}

	startTime := time.Now()
	c.logger.Debug("Sending AI request",
		zap.String("model", c.model),
		zap.Int("system_prompt_bytes", len(systemPrompt)),
		zap.Int("user_prompt_bytes", len(userPrompt)))

	resp, err := c.client.CreateChatCompletion(ctx, openaigo.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: float32Val(params.Temperature),
		MaxTokens:   intVal(params.MaxTokens),
		TopP:        float32Val(params.TopP),
	})
	duration := time.Since(startTime)

	if err != nil {
		aiRequestsTotal.With(prometheus.Labels{"model": c.model, "status": "error"}).Inc()
		c.logger.Warn("AI request failed", zap.Duration("duration", duration), zap.Error(err))
		return Generation{}, fmt.Errorf("%w: %v", ErrAIGenerationFailed, err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		aiRequestsTotal.With(prometheus.Labels{"model": c.model, "status": "error_empty_response"}).Inc()
		c.logger.Warn("AI returned empty response", zap.Duration("duration", duration))
		return Generation{}, fmt.Errorf("%w: empty response", ErrAIGenerationFailed)
	}

	aiRequestsTotal.With(prometheus.Labels{"model": c.model, "status": "success"}).Inc()
	aiRequestDuration.With(prometheus.Labels{"model": c.model}).Observe(duration.Seconds())

	content := resp.Choices[0].Message.Content
	metadata := map[string]string{
		"finish_reason": string(resp.Choices[0].FinishReason),
	}

	promptTokens := resp.Usage.PromptTokens
	completionTokens := resp.Usage.CompletionTokens
	if resp.Usage.TotalTokens == 0 {
		// Some OpenRouter models omit usage; estimate with the tokenizer so
		// the audit trail still carries token counts.
		promptTokens = estimateTokens(c.model, systemPrompt) + estimateTokens(c.model, userPrompt)
		completionTokens = estimateTokens(c.model, content)
	}
	if promptTokens > 0 || completionTokens > 0 {
		metadata["prompt_tokens"] = strconv.Itoa(promptTokens)
		metadata["completion_tokens"] = strconv.Itoa(completionTokens)
		aiPromptTokens.With(prometheus.Labels{"model": c.model}).Observe(float64(promptTokens))
		aiCompletionTokens.With(prometheus.Labels{"model": c.model}).Observe(float64(completionTokens))
	}

	c.logger.Debug("AI response received",
		zap.Duration("duration", duration),
		zap.Int("content_chars", len(content)),
		zap.Int("prompt_tokens", promptTokens),
		zap.Int("completion_tokens", completionTokens))

	return Generation{Content: content, ModelUsed: resp.Model, Metadata: metadata}, nil
}

// estimateTokens counts tokens with tiktoken, falling back to a rough
// 4-characters-per-token estimate for models the tokenizer doesn't know.
func estimateTokens(model, text string) int {
	if text == "" {
		return 0
	}
	tke, err := tiktoken.EncodingForModel(model)
	if err != nil {
		tke, err = tiktoken.GetEncoding("cl100k_base")
	}
	if err != nil {
		return len(text) / 4
	}
	return len(tke.Encode(text, nil, nil))
}

func float32Val(f64 *float64) float32 {
	if f64 == nil {
		return 0
	}
	return float32(*f64)
}

func intVal(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}

func float64Ptr(f float64) *float64 { return &f }

func intPtr(i int) *int { return &i }
