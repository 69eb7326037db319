package voice

import (
	"context"
	"errors"
)

// ErrSynthesisFailed is returned by providers whose speech call failed or
// produced no audio.
var ErrSynthesisFailed = errors.New("speech synthesis failed")

// Descriptor is a provider's capability sheet.
type Descriptor struct {
	Name          string   `json:"name"`
	MaxTextLength int      `json:"maxTextLength"` // runes; 0 means unlimited
	Languages     []string `json:"languages"`     // empty means any
	Voices        []string `json:"voices"`
}

// SupportsLanguage reports whether the provider can speak the language.
func (d Descriptor) SupportsLanguage(language string) bool {
	if len(d.Languages) == 0 {
		return true
	}
	for _, l := range d.Languages {
		if l == language {
			return true
		}
	}
	return false
}

// FitsText reports whether the text length is within the provider's limit.
func (d Descriptor) FitsText(text string) bool {
	return d.MaxTextLength == 0 || len([]rune(text)) <= d.MaxTextLength
}

// Options tune a single synthesis call.
type Options struct {
	VoiceID string
	Speed   float64
}

// Audio is one provider's successful synthesis output.
type Audio struct {
	Bytes    []byte
	VoiceID  string
	ModelID  string
	Metadata map[string]string
}

// Provider wraps one speech-synthesis backend. Implementations must be
// safe for concurrent use: the registry holding them is shared across
// requests.
type Provider interface {
	Name() string
	Descriptor() Descriptor
	// ValidateConfig reports whether the provider is usable (credentials
	// and endpoints present). Called by the registry during resolution.
	ValidateConfig() error
	Synthesize(ctx context.Context, text, language string, opts Options) (Audio, error)
}
