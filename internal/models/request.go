package models

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

const (
	MinTargetLengthMinutes = 1
	MaxTargetLengthMinutes = 30
)

var (
	ErrInvalidLanguage     = errors.New("unsupported language")
	ErrInvalidStoryType    = errors.New("invalid story type")
	ErrInvalidTargetLength = errors.New("target length out of range")
	ErrProfileMismatch     = errors.New("character profile does not match story type")
	ErrMissingProfile      = errors.New("character profile is required")
)

// SupportedLanguages lists the languages stories can be generated in.
var SupportedLanguages = []string{"en", "ru", "es", "de", "fr"}

// GenerationRequest is the transient, request-scoped input to a story
// generation. GenerationID ties together the attempts produced for it.
type GenerationRequest struct {
	GenerationID        uuid.UUID
	UserID              string
	Language            string
	StoryType           StoryType
	Profile             CharacterProfile
	Moral               string
	TargetLengthMinutes int
	// ParentStorySummary carries the previous story's summary for
	// continuation stories; empty for standalone ones.
	ParentStorySummary string

	WithAudio     bool
	VoiceProvider string
	VoiceID       string
}

// Validate checks the request invariants before any backend spend.
func (r *GenerationRequest) Validate() error {
	if !languageSupported(r.Language) {
		return fmt.Errorf("%w: %q", ErrInvalidLanguage, r.Language)
	}
	if !r.StoryType.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStoryType, r.StoryType)
	}
	if r.TargetLengthMinutes < MinTargetLengthMinutes || r.TargetLengthMinutes > MaxTargetLengthMinutes {
		return fmt.Errorf("%w: %d (want %d..%d)", ErrInvalidTargetLength,
			r.TargetLengthMinutes, MinTargetLengthMinutes, MaxTargetLengthMinutes)
	}
	if r.Profile == nil {
		return ErrMissingProfile
	}
	if got := StoryTypeFor(r.Profile); got != r.StoryType {
		return fmt.Errorf("%w: profile is %q, request is %q", ErrProfileMismatch, got, r.StoryType)
	}
	return nil
}

func languageSupported(lang string) bool {
	for _, l := range SupportedLanguages {
		if l == lang {
			return true
		}
	}
	return false
}
