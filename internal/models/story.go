package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Story is the winning artifact of a generation. Content is immutable after
// creation; only the rating and the audio fields may change later.
type Story struct {
	ID                      uuid.UUID `db:"id" json:"id"`
	UserID                  string    `db:"user_id" json:"userId"`
	Title                   string    `db:"title" json:"title"`
	Content                 string    `db:"content" json:"content"`
	Moral                   string    `db:"moral" json:"moral"`
	Language                string    `db:"language" json:"language"`
	StoryType               StoryType `db:"story_type" json:"storyType"`
	TargetLengthMinutes     int       `db:"target_length_minutes" json:"targetLengthMinutes"`
	SelectedAttemptNumber   int       `db:"selected_attempt_number" json:"selectedAttemptNumber"`
	QualityScore            int       `db:"quality_score" json:"qualityScore"`
	GenerationAttemptsCount int       `db:"generation_attempts_count" json:"generationAttemptsCount"`
	Rating                  *int      `db:"rating" json:"rating,omitempty"`

	AudioURL      *string `db:"audio_url" json:"audioUrl,omitempty"`
	AudioProvider *string `db:"audio_provider" json:"audioProvider,omitempty"`
	AudioVoiceID  *string `db:"audio_voice_id" json:"audioVoiceId,omitempty"`
	// AudioError notes why a requested narration is missing. A story
	// without audio is still a successful story.
	AudioError *string `db:"audio_error" json:"audioError,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

const maxDerivedTitleLen = 80

// DeriveTitle extracts a title from generated story text: a leading
// markdown heading if the model produced one, otherwise the first sentence,
// truncated on a word boundary.
func DeriveTitle(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			return truncateTitle(strings.TrimSpace(strings.TrimLeft(line, "# ")))
		}
		if idx := strings.IndexAny(line, ".!?"); idx > 0 {
			return truncateTitle(line[:idx])
		}
		return truncateTitle(line)
	}
	return ""
}

func truncateTitle(s string) string {
	runes := []rune(s)
	if len(runes) <= maxDerivedTitleLen {
		return s
	}
	cut := string(runes[:maxDerivedTitleLen])
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "…"
}
