package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	gigrepo "gigmarket-backend/internal/domains/gig/repository"
	reviewrepo "gigmarket-backend/internal/domains/review/repository"
	"gigmarket-backend/pkg/logger"
)

// =====================================================
// RATING SERVICE
// =====================================================

// SellerRatingWriter updates the denormalized rating on a seller profile
type SellerRatingWriter interface {
	UpdateSellerRating(ctx context.Context, sellerID uuid.UUID, rating decimal.Decimal, totalReviews int) error
}

// RatingService recomputes rating aggregates from scratch. Every
// recompute reads all published reviews for the target, so running it
// twice, or after a missed trigger, converges on the same value.
type RatingService interface {
	RecomputeGigRating(ctx context.Context, gigID uuid.UUID) error
	RecomputeSellerRating(ctx context.Context, sellerID uuid.UUID) error

	// RepairRecent re-runs the recompute for every target whose reviews
	// changed in the window, catching any trigger that was lost.
	RepairRecent(ctx context.Context, window time.Duration, limit int) (int, error)
}

type ratingService struct {
	reviewRepo reviewrepo.ReviewRepository
	gigRepo    gigrepo.GigRepository
	sellers    SellerRatingWriter
	now        func() time.Time
}

func NewRatingService(reviewRepo reviewrepo.ReviewRepository, gigRepo gigrepo.GigRepository, sellers SellerRatingWriter) RatingService {
	return &ratingService{
		reviewRepo: reviewRepo,
		gigRepo:    gigRepo,
		sellers:    sellers,
		now:        time.Now,
	}
}

func (s *ratingService) RecomputeGigRating(ctx context.Context, gigID uuid.UUID) error {
	stats, err := s.reviewRepo.GigRatingStats(ctx, gigID)
	if err != nil {
		return err
	}

	if err := s.gigRepo.UpdateStats(ctx, gigID, stats.Average, stats.Count); err != nil {
		return err
	}

	logger.Info("gig rating recomputed", map[string]interface{}{
		"gig_id":  gigID,
		"rating":  stats.Average.String(),
		"reviews": stats.Count,
	})
	return nil
}

func (s *ratingService) RecomputeSellerRating(ctx context.Context, sellerID uuid.UUID) error {
	stats, err := s.reviewRepo.SellerRatingStats(ctx, sellerID)
	if err != nil {
		return err
	}

	if err := s.sellers.UpdateSellerRating(ctx, sellerID, stats.Average, stats.Count); err != nil {
		return err
	}

	logger.Info("seller rating recomputed", map[string]interface{}{
		"seller_id": sellerID,
		"rating":    stats.Average.String(),
		"reviews":   stats.Count,
	})
	return nil
}

func (s *ratingService) RepairRecent(ctx context.Context, window time.Duration, limit int) (int, error) {
	since := s.now().Add(-window)

	targets, err := s.reviewRepo.ListRecentlyReviewed(ctx, since, limit)
	if err != nil {
		return 0, err
	}

	repaired := 0
	sellers := make(map[uuid.UUID]bool)
	for _, t := range targets {
		if err := s.RecomputeGigRating(ctx, t.GigID); err != nil {
			logger.Error("rating repair failed for gig", err)
			continue
		}
		repaired++
		sellers[t.SellerID] = true
	}
	for sellerID := range sellers {
		if err := s.RecomputeSellerRating(ctx, sellerID); err != nil {
			logger.Error("rating repair failed for seller", err)
		}
	}
	return repaired, nil
}
