package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gigmarket-backend/internal/domains/gig/model"
	"gigmarket-backend/pkg/cache"
	"gigmarket-backend/pkg/logger"
)

// =====================================================
// CACHED REPOSITORY DECORATOR
// =====================================================

const gigCacheTTL = 10 * time.Minute

// cachedGigRepository wraps the postgres repository with a read-through
// cache on single-gig lookups. Cache failures degrade to the database,
// never to an error.
type cachedGigRepository struct {
	inner GigRepository
	cache cache.Cache
}

func NewCachedGigRepository(inner GigRepository, c cache.Cache) GigRepository {
	return &cachedGigRepository{inner: inner, cache: c}
}

func gigCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("gig:%s", id)
}

func (r *cachedGigRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Gig, error) {
	key := gigCacheKey(id)

	var cached model.Gig
	found, err := r.cache.Get(ctx, key, &cached)
	if err != nil {
		logger.Warn("gig cache read failed", map[string]interface{}{"gig_id": id, "error": err.Error()})
	} else if found {
		return &cached, nil
	}

	gig, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, key, gig, gigCacheTTL); err != nil {
		logger.Warn("gig cache write failed", map[string]interface{}{"gig_id": id, "error": err.Error()})
	}
	return gig, nil
}

func (r *cachedGigRepository) Create(ctx context.Context, gig *model.Gig) error {
	return r.inner.Create(ctx, gig)
}

func (r *cachedGigRepository) GetBySlug(ctx context.Context, slug string) (*model.Gig, error) {
	return r.inner.GetBySlug(ctx, slug)
}

func (r *cachedGigRepository) Update(ctx context.Context, gig *model.Gig) error {
	if err := r.inner.Update(ctx, gig); err != nil {
		return err
	}
	r.invalidate(ctx, gig.ID)
	return nil
}

func (r *cachedGigRepository) List(ctx context.Context, req *model.ListGigsRequest) ([]*model.Gig, int, error) {
	return r.inner.List(ctx, req)
}

func (r *cachedGigRepository) UpdateStats(ctx context.Context, gigID uuid.UUID, rating decimal.Decimal, totalReviews int) error {
	if err := r.inner.UpdateStats(ctx, gigID, rating, totalReviews); err != nil {
		return err
	}
	r.invalidate(ctx, gigID)
	return nil
}

func (r *cachedGigRepository) ListIDsBySeller(ctx context.Context, sellerID uuid.UUID) ([]uuid.UUID, error) {
	return r.inner.ListIDsBySeller(ctx, sellerID)
}

func (r *cachedGigRepository) invalidate(ctx context.Context, gigID uuid.UUID) {
	if err := r.cache.Delete(ctx, gigCacheKey(gigID)); err != nil {
		logger.Warn("gig cache invalidation failed", map[string]interface{}{"gig_id": gigID, "error": err.Error()})
	}
}
