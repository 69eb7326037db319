package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"fable-server/internal/models"
)

// CachedFragmentRepository fronts a FragmentRepository with a Redis cache
// keyed by (language, story type). Composition reads fragments on every
// request, so list results are cached with a TTL; any write invalidates the
// affected language to keep admin edits visible within one request.
type CachedFragmentRepository struct {
	inner FragmentRepository
	rdb   *redis.Client
	ttl   time.Duration
}

func NewCachedFragmentRepository(inner FragmentRepository, rdb *redis.Client, ttl time.Duration) *CachedFragmentRepository {
	return &CachedFragmentRepository{inner: inner, rdb: rdb, ttl: ttl}
}

func cacheKey(language string, storyType models.StoryType) string {
	return fmt.Sprintf("fragments:%s:%s", language, storyType)
}

func (r *CachedFragmentRepository) ListActive(ctx context.Context, language string, storyType models.StoryType) ([]models.PromptFragment, error) {
	key := cacheKey(language, storyType)

	cached, err := r.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var fragments []models.PromptFragment
		if err := json.Unmarshal(cached, &fragments); err == nil {
			return fragments, nil
		}
		// Corrupt entry: fall through to the source and overwrite it.
		log.Warn().Str("key", key).Msg("Dropping unreadable fragment cache entry")
	} else if err != redis.Nil {
		// Redis being down must not block generation.
		log.Warn().Err(err).Str("key", key).Msg("Fragment cache read failed, falling back to database")
	}

	fragments, err := r.inner.ListActive(ctx, language, storyType)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(fragments); err == nil {
		if err := r.rdb.Set(ctx, key, data, r.ttl).Err(); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Fragment cache write failed")
		}
	}
	return fragments, nil
}

func (r *CachedFragmentRepository) Create(ctx context.Context, fragment *models.PromptFragment) error {
	if err := r.inner.Create(ctx, fragment); err != nil {
		return err
	}
	r.invalidateLanguage(ctx, fragment.Language)
	return nil
}

func (r *CachedFragmentRepository) Update(ctx context.Context, fragment *models.PromptFragment) error {
	if err := r.inner.Update(ctx, fragment); err != nil {
		return err
	}
	r.invalidateLanguage(ctx, fragment.Language)
	return nil
}

func (r *CachedFragmentRepository) Delete(ctx context.Context, id int64) error {
	fragment, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := r.inner.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidateLanguage(ctx, fragment.Language)
	return nil
}

func (r *CachedFragmentRepository) GetByID(ctx context.Context, id int64) (*models.PromptFragment, error) {
	return r.inner.GetByID(ctx, id)
}

func (r *CachedFragmentRepository) invalidateLanguage(ctx context.Context, language string) {
	for _, st := range []models.StoryType{models.StoryTypeSolo, models.StoryTypeCompanion, models.StoryTypeCombined} {
		if err := r.rdb.Del(ctx, cacheKey(language, st)).Err(); err != nil {
			log.Warn().Err(err).Str("language", language).Msg("Fragment cache invalidation failed")
		}
	}
}
