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

// PiperProvider synthesizes speech through a self-hosted Piper TTS server,
// the cheapest link of the fallback chain. Quality is below the hosted
// providers, so it is normally configured last.
type PiperProvider struct {
	httpClient *http.Client
	serverURL  string
	languages  []string
}

func NewPiperProvider(serverURL string, languages []string) *PiperProvider {
	return &PiperProvider{
		httpClient: &http.Client{Timeout: 120 * time.Second},
		serverURL:  serverURL,
		languages:  languages,
	}
}

func (p *PiperProvider) Name() string { return "piper" }

func (p *PiperProvider) Descriptor() Descriptor {
	return Descriptor{
		Name:      p.Name(),
		Languages: p.languages,
	}
}

func (p *PiperProvider) ValidateConfig() error {
	if p.serverURL == "" {
		return errors.New("piper: server URL is not configured")
	}
	return nil
}

type piperRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
	Voice    string `json:"voice,omitempty"`
}

func (p *PiperProvider) Synthesize(ctx context.Context, text, language string, opts Options) (Audio, error) {
	body, err := json.Marshal(piperRequest{Text: text, Language: language, Voice: opts.VoiceID})
	if err != nil {
		return Audio{}, fmt.Errorf("%w: marshaling request: %v", ErrSynthesisFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.serverURL+"/api/tts", bytes.NewReader(body))
	if err != nil {
		return Audio{}, fmt.Errorf("%w: building request: %v", ErrSynthesisFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

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
		VoiceID:  opts.VoiceID,
		Metadata: map[string]string{"format": "wav"},
	}, nil
}
