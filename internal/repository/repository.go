package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"fable-server/internal/models"
)

var (
	ErrFragmentNotFound     = errors.New("prompt fragment not found")
	ErrFragmentSlotOccupied = errors.New("active fragment already exists for this language, story type and priority")
	ErrStoryNotFound        = errors.New("story not found")
	ErrHeroNotFound         = errors.New("hero not found")
	ErrAttemptAlreadyExists = errors.New("generation attempt already recorded")
)

// FragmentRepository stores prompt fragments.
type FragmentRepository interface {
	// ListActive returns the active fragments applicable to the language
	// and story type: the type-specific ones plus the universal ones.
	ListActive(ctx context.Context, language string, storyType models.StoryType) ([]models.PromptFragment, error)
	Create(ctx context.Context, fragment *models.PromptFragment) error
	Update(ctx context.Context, fragment *models.PromptFragment) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.PromptFragment, error)
}

// AttemptRepository is the append-only audit trail of generation attempts.
type AttemptRepository interface {
	// Save inserts an attempt row. Attempts are immutable: a duplicate
	// (generation_id, attempt_number) is an error, never an update.
	Save(ctx context.Context, attempt *models.GenerationAttempt) error
	ListByGeneration(ctx context.Context, generationID uuid.UUID) ([]models.GenerationAttempt, error)
}

// StoryRepository persists winning stories.
type StoryRepository interface {
	Save(ctx context.Context, story *models.Story) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Story, error)
	// UpdateRating and AttachAudio are the only mutations a story admits
	// after creation.
	UpdateRating(ctx context.Context, id uuid.UUID, rating int) error
	AttachAudio(ctx context.Context, id uuid.UUID, url, provider, voiceID string) error
	SetAudioError(ctx context.Context, id uuid.UUID, note string) error
}

// HeroRepository supplies stored character profiles.
type HeroRepository interface {
	GetByID(ctx context.Context, id string) (*models.Hero, error)
}
