package service

import (
	"context"

	"github.com/google/uuid"

	ordermodel "gigmarket-backend/internal/domains/order/model"
	"gigmarket-backend/internal/domains/review/model"
	"gigmarket-backend/internal/shared"
)

// OrderReader is the slice of the order domain the review service needs:
// checking that an order is completed and owned by the reviewer.
type OrderReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*ordermodel.Order, error)
}

// RatingRecomputer refreshes the denormalized rating aggregates
type RatingRecomputer interface {
	RecomputeGigRating(ctx context.Context, gigID uuid.UUID) error
	RecomputeSellerRating(ctx context.Context, sellerID uuid.UUID) error
}

// RecomputeEnqueuer schedules a rating recompute for later when the
// inline recompute fails.
type RecomputeEnqueuer interface {
	EnqueueRatingRecompute(ctx context.Context, gigID, sellerID uuid.UUID) error
}

// ReviewService manages reviews and their effect on rating aggregates
type ReviewService interface {
	Create(ctx context.Context, actor shared.Actor, req *model.CreateReviewRequest) (*model.ReviewResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*model.ReviewResponse, error)
	GetByOrder(ctx context.Context, actor shared.Actor, orderID uuid.UUID) (*model.ReviewResponse, error)
	ListByGig(ctx context.Context, gigID uuid.UUID, req *model.ListReviewsRequest) ([]model.ReviewResponse, int, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID, req *model.ListReviewsRequest) ([]model.ReviewResponse, int, error)

	MarkHelpful(ctx context.Context, actor shared.Actor, reviewID uuid.UUID) (*model.ReviewResponse, error)
	UnmarkHelpful(ctx context.Context, actor shared.Actor, reviewID uuid.UUID) (*model.ReviewResponse, error)
	Flag(ctx context.Context, actor shared.Actor, reviewID uuid.UUID, req *model.FlagReviewRequest) error
	Respond(ctx context.Context, actor shared.Actor, reviewID uuid.UUID, req *model.SellerResponseRequest) (*model.ReviewResponse, error)

	// Moderate publishes or hides a review. Admin only; hiding a review
	// removes it from rating aggregates.
	Moderate(ctx context.Context, actor shared.Actor, reviewID uuid.UUID, req *model.ModerateReviewRequest) (*model.ReviewResponse, error)
}
