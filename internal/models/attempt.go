package models

import (
	"time"

	"github.com/google/uuid"
)

// GenerationAttempt is one full backend call plus its scored or errored
// outcome. Attempts form an append-only audit trail: rows are written once
// as the generation loop progresses and never mutated or deleted.
// (generation_id, attempt_number) is unique.
type GenerationAttempt struct {
	GenerationID  uuid.UUID         `db:"generation_id" json:"generationId"`
	AttemptNumber int               `db:"attempt_number" json:"attemptNumber"`
	Content       string            `db:"content" json:"content"`
	QualityScore  *int              `db:"quality_score" json:"qualityScore,omitempty"`
	QualityDetail map[string]int    `db:"quality_detail" json:"qualityDetail,omitempty"`
	ModelUsed     string            `db:"model_used" json:"modelUsed"`
	Metadata      map[string]string `db:"metadata" json:"metadata,omitempty"`
	// ErrorNote records why the attempt produced no score. A nil
	// QualityScore with a non-empty ErrorNote means the attempt errored;
	// it is never conflated with a low score.
	ErrorNote string    `db:"error_note" json:"errorNote,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Scored reports whether the attempt produced a usable quality score.
func (a *GenerationAttempt) Scored() bool {
	return a.QualityScore != nil
}
