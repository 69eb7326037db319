package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"fable-server/internal/models"
)

const fragmentFields = `id, priority, language, story_type, template, active, created_at, updated_at`

// PgFragmentRepository is the PostgreSQL store of prompt fragments. The
// (language, story_type, priority) uniqueness invariant for active
// fragments is enforced by a partial unique index.
type PgFragmentRepository struct {
	db *pgxpool.Pool
}

func NewPgFragmentRepository(db *pgxpool.Pool) *PgFragmentRepository {
	if db == nil {
		log.Fatal().Msg("Database pool is nil for PgFragmentRepository")
	}
	return &PgFragmentRepository{db: db}
}

func (r *PgFragmentRepository) ListActive(ctx context.Context, language string, storyType models.StoryType) ([]models.PromptFragment, error) {
	query := fmt.Sprintf(`SELECT %s FROM prompt_fragments
		WHERE active AND language = $1 AND (story_type = $2 OR story_type IS NULL)
		ORDER BY priority, id`, fragmentFields)

	rows, err := r.db.Query(ctx, query, language, string(storyType))
	if err != nil {
		log.Error().Err(err).Str("language", language).Str("story_type", string(storyType)).
			Msg("Failed to list active fragments")
		return nil, fmt.Errorf("failed to list active fragments: %w", err)
	}
	defer rows.Close()

	fragments := make([]models.PromptFragment, 0)
	for rows.Next() {
		var f models.PromptFragment
		if err := rows.Scan(&f.ID, &f.Priority, &f.Language, &f.StoryType,
			&f.Template, &f.Active, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan fragment row: %w", err)
		}
		fragments = append(fragments, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during fragment rows iteration: %w", err)
	}
	return fragments, nil
}

func (r *PgFragmentRepository) Create(ctx context.Context, fragment *models.PromptFragment) error {
	query := `INSERT INTO prompt_fragments (priority, language, story_type, template, active)
		VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		fragment.Priority, fragment.Language, fragment.StoryType, fragment.Template, fragment.Active,
	).Scan(&fragment.ID, &fragment.CreatedAt, &fragment.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return ErrFragmentSlotOccupied
		}
		log.Error().Err(err).Str("language", fragment.Language).Int("priority", fragment.Priority).
			Msg("Failed to create fragment")
		return fmt.Errorf("failed to create fragment: %w", err)
	}
	log.Info().Int64("id", fragment.ID).Str("language", fragment.Language).
		Int("priority", fragment.Priority).Msg("Fragment created")
	return nil
}

func (r *PgFragmentRepository) Update(ctx context.Context, fragment *models.PromptFragment) error {
	query := `UPDATE prompt_fragments
		SET priority = $1, language = $2, story_type = $3, template = $4, active = $5, updated_at = NOW()
		WHERE id = $6 RETURNING updated_at`
	err := r.db.QueryRow(ctx, query,
		fragment.Priority, fragment.Language, fragment.StoryType, fragment.Template, fragment.Active, fragment.ID,
	).Scan(&fragment.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrFragmentNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrFragmentSlotOccupied
		}
		log.Error().Err(err).Int64("id", fragment.ID).Msg("Failed to update fragment")
		return fmt.Errorf("failed to update fragment: %w", err)
	}
	log.Info().Int64("id", fragment.ID).Msg("Fragment updated")
	return nil
}

func (r *PgFragmentRepository) Delete(ctx context.Context, id int64) error {
	commandTag, err := r.db.Exec(ctx, `DELETE FROM prompt_fragments WHERE id = $1`, id)
	if err != nil {
		log.Error().Err(err).Int64("id", id).Msg("Failed to delete fragment")
		return fmt.Errorf("failed to delete fragment: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return ErrFragmentNotFound
	}
	log.Info().Int64("id", id).Msg("Fragment deleted")
	return nil
}

func (r *PgFragmentRepository) GetByID(ctx context.Context, id int64) (*models.PromptFragment, error) {
	query := fmt.Sprintf(`SELECT %s FROM prompt_fragments WHERE id = $1`, fragmentFields)
	var f models.PromptFragment
	err := r.db.QueryRow(ctx, query, id).Scan(&f.ID, &f.Priority, &f.Language, &f.StoryType,
		&f.Template, &f.Active, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFragmentNotFound
		}
		log.Error().Err(err).Int64("id", id).Msg("Failed to get fragment")
		return nil, fmt.Errorf("failed to get fragment: %w", err)
	}
	return &f, nil
}
