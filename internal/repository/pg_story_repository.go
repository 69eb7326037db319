package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"fable-server/internal/models"
)

const storyFields = `id, user_id, title, content, moral, language, story_type, target_length_minutes,
	selected_attempt_number, quality_score, generation_attempts_count, rating,
	audio_url, audio_provider, audio_voice_id, audio_error, created_at`

// PgStoryRepository persists stories in PostgreSQL. Content is written once
// at creation; only rating and the audio columns change afterwards.
type PgStoryRepository struct {
	db *pgxpool.Pool
}

func NewPgStoryRepository(db *pgxpool.Pool) *PgStoryRepository {
	if db == nil {
		log.Fatal().Msg("Database pool is nil for PgStoryRepository")
	}
	return &PgStoryRepository{db: db}
}

func (r *PgStoryRepository) Save(ctx context.Context, story *models.Story) error {
	query := `INSERT INTO stories
		(id, user_id, title, content, moral, language, story_type, target_length_minutes,
		 selected_attempt_number, quality_score, generation_attempts_count, audio_url,
		 audio_provider, audio_voice_id, audio_error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.db.Exec(ctx, query,
		story.ID, story.UserID, story.Title, story.Content, story.Moral,
		story.Language, story.StoryType, story.TargetLengthMinutes,
		story.SelectedAttemptNumber, story.QualityScore, story.GenerationAttemptsCount,
		story.AudioURL, story.AudioProvider, story.AudioVoiceID, story.AudioError,
		story.CreatedAt,
	)
	if err != nil {
		log.Error().Err(err).Str("story_id", story.ID.String()).Msg("Failed to save story")
		return fmt.Errorf("failed to save story %s: %w", story.ID, err)
	}
	log.Info().Str("story_id", story.ID.String()).Str("user_id", story.UserID).Msg("Story saved")
	return nil
}

func (r *PgStoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Story, error) {
	query := fmt.Sprintf(`SELECT %s FROM stories WHERE id = $1`, storyFields)
	var story models.Story
	if err := pgxscan.Get(ctx, r.db, &story, query, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStoryNotFound
		}
		log.Error().Err(err).Str("story_id", id.String()).Msg("Failed to get story")
		return nil, fmt.Errorf("failed to get story: %w", err)
	}
	return &story, nil
}

func (r *PgStoryRepository) UpdateRating(ctx context.Context, id uuid.UUID, rating int) error {
	commandTag, err := r.db.Exec(ctx,
		`UPDATE stories SET rating = $1 WHERE id = $2`, rating, id)
	if err != nil {
		log.Error().Err(err).Str("story_id", id.String()).Msg("Failed to update story rating")
		return fmt.Errorf("failed to update rating: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return ErrStoryNotFound
	}
	return nil
}

func (r *PgStoryRepository) AttachAudio(ctx context.Context, id uuid.UUID, url, provider, voiceID string) error {
	commandTag, err := r.db.Exec(ctx,
		`UPDATE stories SET audio_url = $1, audio_provider = $2, audio_voice_id = $3, audio_error = NULL WHERE id = $4`,
		url, provider, voiceID, id)
	if err != nil {
		log.Error().Err(err).Str("story_id", id.String()).Msg("Failed to attach audio")
		return fmt.Errorf("failed to attach audio: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return ErrStoryNotFound
	}
	log.Info().Str("story_id", id.String()).Str("provider", provider).Msg("Audio attached to story")
	return nil
}

func (r *PgStoryRepository) SetAudioError(ctx context.Context, id uuid.UUID, note string) error {
	commandTag, err := r.db.Exec(ctx,
		`UPDATE stories SET audio_error = $1 WHERE id = $2`, note, id)
	if err != nil {
		log.Error().Err(err).Str("story_id", id.String()).Msg("Failed to set audio error")
		return fmt.Errorf("failed to set audio error: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return ErrStoryNotFound
	}
	return nil
}
