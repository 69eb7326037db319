package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"fable-server/internal/models"
)

// PgHeroRepository reads stored character profiles. Profile CRUD lives in
// another service; the engine only resolves profiles by id.
type PgHeroRepository struct {
	db *pgxpool.Pool
}

func NewPgHeroRepository(db *pgxpool.Pool) *PgHeroRepository {
	if db == nil {
		log.Fatal().Msg("Database pool is nil for PgHeroRepository")
	}
	return &PgHeroRepository{db: db}
}

func (r *PgHeroRepository) GetByID(ctx context.Context, id string) (*models.Hero, error) {
	query := `SELECT id, user_id, kind, name, age_years, age_band, gender, interests,
		appearance, personality, strengths, description, created_at, updated_at
		FROM heroes WHERE id = $1`
	var hero models.Hero
	if err := pgxscan.Get(ctx, r.db, &hero, query, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrHeroNotFound
		}
		log.Error().Err(err).Str("hero_id", id).Msg("Failed to get hero")
		return nil, fmt.Errorf("failed to get hero: %w", err)
	}
	return &hero, nil
}
