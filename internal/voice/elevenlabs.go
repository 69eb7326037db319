package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	elevenLabsMaxInputLength = 5000
	elevenLabsModelID        = "eleven_multilingual_v2"
)

// ElevenLabsProvider synthesizes speech through the ElevenLabs HTTP API.
// There is no official Go SDK, so the provider speaks the REST API
// directly.
type ElevenLabsProvider struct {
	httpClient   *http.Client
	baseURL      string
	apiKey       string
	defaultVoice string
}

func NewElevenLabsProvider(baseURL, apiKey, defaultVoice string) *ElevenLabsProvider {
	if baseURL == "" {
		baseURL = "https://api.elevenlabs.io"
	}
	return &ElevenLabsProvider{
		httpClient:   &http.Client{Timeout: 120 * time.Second},
		baseURL:      baseURL,
		apiKey:       apiKey,
		defaultVoice: defaultVoice,
	}
}

func (p *ElevenLabsProvider) Name() string { return "elevenlabs" }

func (p *ElevenLabsProvider) Descriptor() Descriptor {
	return Descriptor{
		Name:          p.Name(),
		MaxTextLength: elevenLabsMaxInputLength,
		Voices:        []string{p.defaultVoice},
	}
}

func (p *ElevenLabsProvider) ValidateConfig() error {
	if p.apiKey == "" {
		return errors.New("elevenlabs: API key is not configured")
	}
	if p.defaultVoice == "" {
		return errors.New("elevenlabs: default voice id is not configured")
	}
	return nil
}

type elevenLabsRequest struct {
	Text    string `json:"text"`
	ModelID string `json:"model_id"`
}

func (p *ElevenLabsProvider) Synthesize(ctx context.Context, text, language string, opts Options) (Audio, error) {
	voice := opts.VoiceID
	if voice == "" {
		voice = p.defaultVoice
	}

	body, err := json.Marshal(elevenLabsRequest{Text: text, ModelID: elevenLabsModelID})
	if err != nil {
		return Audio{}, fmt.Errorf("%w: marshaling request: %v", ErrSynthesisFailed, err)
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s", p.baseURL, voice)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Audio{}, fmt.Errorf("%w: building request: %v", ErrSynthesisFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("xi-api-key", p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return Audio{}, fmt.Errorf("%w: %v", ErrSynthesisFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Audio{}, fmt.Errorf("%w: status %d: %s", ErrSynthesisFailed, resp.StatusCode, string(detail))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Audio{}, fmt.Errorf("%w: reading audio: %v", ErrSynthesisFailed, err)
	}

	return Audio{
		Bytes:    data,
		VoiceID:  voice,
		ModelID:  elevenLabsModelID,
		Metadata: map[string]string{"format": "mp3"},
	}, nil
}
