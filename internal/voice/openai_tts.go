package voice

import (
	"context"
	"errors"
	"fmt"
	"io"

	openaigo "github.com/sashabaranov/go-openai"
)

const openAIMaxInputLength = 4096 // API limit on TTS input, in characters

// OpenAITTSProvider synthesizes speech through the OpenAI audio API.
type OpenAITTSProvider struct {
	client       *openaigo.Client
	apiKey       string
	model        string
	defaultVoice string
}

// NewOpenAITTSProvider creates the provider. An empty apiKey is allowed;
// ValidateConfig will fail and the registry will skip the provider.
func NewOpenAITTSProvider(apiKey, model, defaultVoice string) *OpenAITTSProvider {
	var client *openaigo.Client
	if apiKey != "" {
		client = openaigo.NewClient(apiKey)
	}
	if model == "" {
		model = string(openaigo.TTSModel1)
	}
	if defaultVoice == "" {
		defaultVoice = string(openaigo.VoiceNova)
	}
	return &OpenAITTSProvider{
		client:       client,
		apiKey:       apiKey,
		model:        model,
		defaultVoice: defaultVoice,
	}
}

func (p *OpenAITTSProvider) Name() string { return "openai" }

func (p *OpenAITTSProvider) Descriptor() Descriptor {
	return Descriptor{
		Name:          p.Name(),
		MaxTextLength: openAIMaxInputLength,
		Voices: []string{
			string(openaigo.VoiceAlloy), string(openaigo.VoiceEcho), string(openaigo.VoiceFable),
			string(openaigo.VoiceOnyx), string(openaigo.VoiceNova), string(openaigo.VoiceShimmer),
		},
	}
}

func (p *OpenAITTSProvider) ValidateConfig() error {
	if p.apiKey == "" {
		return errors.New("openai tts: API key is not configured")
	}
	return nil
}

func (p *OpenAITTSProvider) Synthesize(ctx context.Context, text, language string, opts Options) (Audio, error) {
	voice := opts.VoiceID
	if voice == "" {
		voice = p.defaultVoice
	}
	speed := opts.Speed
	if speed == 0 {
		speed = 1.0
	}

	resp, err := p.client.CreateSpeech(ctx, openaigo.CreateSpeechRequest{
		Model: openaigo.SpeechModel(p.model),
		Input: text,
		Voice: openaigo.SpeechVoice(voice),
		Speed: speed,
	})
	if err != nil {
		return Audio{}, fmt.Errorf("%w: %v", ErrSynthesisFailed, err)
	}
	defer resp.Close()

	data, err := io.ReadAll(resp)
	if err != nil {
		return Audio{}, fmt.Errorf("%w: reading audio stream: %v", ErrSynthesisFailed, err)
	}

	return Audio{
		Bytes:    data,
		VoiceID:  voice,
		ModelID:  p.model,
		Metadata: map[string]string{"format": "mp3"},
	}, nil
}
