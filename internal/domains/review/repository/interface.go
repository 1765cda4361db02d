package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gigmarket-backend/internal/domains/review/model"
)

// RatingStats is a freshly computed aggregate over published reviews.
// Average is rounded to one decimal place and zero when Count is zero.
type RatingStats struct {
	Average decimal.Decimal
	Count   int
}

// ReviewRepository is the persistence contract for the review domain
type ReviewRepository interface {
	// Create inserts a review; returns model.ErrDuplicateReview when the
	// order already has one.
	Create(ctx context.Context, review *model.Review) error

	GetByID(ctx context.Context, id uuid.UUID) (*model.Review, error)
	GetByOrderID(ctx context.Context, orderID uuid.UUID) (*model.Review, error)
	ListByGig(ctx context.Context, gigID uuid.UUID, page, limit int) ([]*model.Review, int, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID, page, limit int) ([]*model.Review, int, error)

	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error

	// MarkHelpful adds the voter to the helpful set if absent. The write
	// is guarded in SQL, so concurrent duplicate votes count once.
	// Returns whether the vote changed anything.
	MarkHelpful(ctx context.Context, reviewID, voterID uuid.UUID) (bool, error)
	UnmarkHelpful(ctx context.Context, reviewID, voterID uuid.UUID) (bool, error)

	// AddFlag records a distinct user flag and escalates the review to
	// flagged once the threshold is reached, whatever status it held.
	// Repeat flags by the same user change nothing. Returns the distinct
	// flag count and whether this call escalated the review.
	AddFlag(ctx context.Context, flag *model.ReviewFlag) (int, bool, error)

	SetSellerResponse(ctx context.Context, reviewID uuid.UUID, response string, respondedAt time.Time) error

	// Rating aggregates, computed in full on every call
	GigRatingStats(ctx context.Context, gigID uuid.UUID) (*RatingStats, error)
	SellerRatingStats(ctx context.Context, sellerID uuid.UUID) (*RatingStats, error)

	// ListRecentlyReviewed finds targets whose reviews changed since the
	// given time, for the periodic rating repair sweep.
	ListRecentlyReviewed(ctx context.Context, since time.Time, limit int) ([]ReviewedTarget, error)
}

// ReviewedTarget identifies the aggregates a review feeds
type ReviewedTarget struct {
	GigID    uuid.UUID
	SellerID uuid.UUID
}
