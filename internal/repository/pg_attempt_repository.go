package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"fable-server/internal/models"
)

// PgAttemptRepository writes generation attempts to PostgreSQL. Inserts
// only: the table is an append-only audit trail and rows are never updated
// or deleted.
type PgAttemptRepository struct {
	db *pgxpool.Pool
}

func NewPgAttemptRepository(db *pgxpool.Pool) *PgAttemptRepository {
	if db == nil {
		log.Fatal().Msg("Database pool is nil for PgAttemptRepository")
	}
	return &PgAttemptRepository{db: db}
}

func (r *PgAttemptRepository) Save(ctx context.Context, attempt *models.GenerationAttempt) error {
	query := `INSERT INTO generation_attempts
		(generation_id, attempt_number, content, quality_score, quality_detail, model_used, metadata, error_note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.Exec(ctx, query,
		attempt.GenerationID,
		attempt.AttemptNumber,
		attempt.Content,
		attempt.QualityScore,
		attempt.QualityDetail,
		attempt.ModelUsed,
		attempt.Metadata,
		attempt.ErrorNote,
		attempt.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return ErrAttemptAlreadyExists
		}
		log.Error().Err(err).Str("generation_id", attempt.GenerationID.String()).
			Int("attempt", attempt.AttemptNumber).Msg("Failed to save generation attempt")
		return fmt.Errorf("failed to save attempt %d of generation %s: %w",
			attempt.AttemptNumber, attempt.GenerationID, err)
	}
	return nil
}

func (r *PgAttemptRepository) ListByGeneration(ctx context.Context, generationID uuid.UUID) ([]models.GenerationAttempt, error) {
	query := `SELECT generation_id, attempt_number, content, quality_score, quality_detail, model_used, metadata, error_note, created_at
		FROM generation_attempts WHERE generation_id = $1 ORDER BY attempt_number`

	rows, err := r.db.Query(ctx, query, generationID)
	if err != nil {
		log.Error().Err(err).Str("generation_id", generationID.String()).Msg("Failed to list attempts")
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	defer rows.Close()

	attempts := make([]models.GenerationAttempt, 0)
	for rows.Next() {
		var a models.GenerationAttempt
		if err := rows.Scan(&a.GenerationID, &a.AttemptNumber, &a.Content, &a.QualityScore,
			&a.QualityDetail, &a.ModelUsed, &a.Metadata, &a.ErrorNote, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attempt row: %w", err)
		}
		attempts = append(attempts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during attempt rows iteration: %w", err)
	}
	return attempts, nil
}
