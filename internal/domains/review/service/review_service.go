package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	ordermodel "gigmarket-backend/internal/domains/order/model"
	"gigmarket-backend/internal/domains/review/model"
	"gigmarket-backend/internal/domains/review/repository"
	"gigmarket-backend/internal/shared"
	"gigmarket-backend/pkg/logger"
)

// =====================================================
// SERVICE IMPLEMENTATION
// =====================================================

type reviewService struct {
	reviewRepo repository.ReviewRepository
	orders     OrderReader
	ratings    RatingRecomputer
	enqueuer   RecomputeEnqueuer
	now        func() time.Time
}

func NewReviewService(reviewRepo repository.ReviewRepository, orders OrderReader, ratings RatingRecomputer, enqueuer RecomputeEnqueuer) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		orders:     orders,
		ratings:    ratings,
		enqueuer:   enqueuer,
		now:        time.Now,
	}
}

// =====================================================
// CREATE
// =====================================================

func (s *reviewService) Create(ctx context.Context, actor shared.Actor, req *model.CreateReviewRequest) (*model.ReviewResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewReviewError(model.ErrCodeInvalidReview, err.Error(), err)
	}

	order, err := s.orders.GetByID(ctx, req.OrderID)
	if err != nil {
		return nil, model.NewReviewError(model.ErrCodeOrderNotReviewable, "order not found", model.ErrOrderNotReviewable)
	}
	if order.BuyerID != actor.ID {
		return nil, model.NewReviewError(model.ErrCodeReviewForbidden, "only the buyer can review an order", model.ErrReviewForbidden)
	}
	if order.Status != ordermodel.StatusCompleted {
		return nil, model.NewReviewError(model.ErrCodeOrderNotReviewable, "only completed orders can be reviewed", model.ErrOrderNotReviewable)
	}

	now := s.now()
	review := &model.Review{
		ID:       uuid.New(),
		OrderID:  order.ID,
		GigID:    order.GigID,
		BuyerID:  order.BuyerID,
		SellerID: order.SellerID,
		Rating: model.Rating{
			Overall:       req.OverallScore(),
			Communication: req.Communication,
			Quality:       req.Quality,
			Delivery:      req.Delivery,
		},
		Comment:   req.Comment,
		Status:    model.ReviewStatusPublished,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	logger.Info("review created", map[string]interface{}{
		"review_id": review.ID,
		"order_id":  review.OrderID,
		"gig_id":    review.GigID,
		"rating":    review.Rating.Overall,
	})

	s.recompute(ctx, review.GigID, review.SellerID)

	resp := review.ToResponse()
	return &resp, nil
}

// =====================================================
// READS
// =====================================================

func (s *reviewService) Get(ctx context.Context, id uuid.UUID) (*model.ReviewResponse, error) {
	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := review.ToResponse()
	return &resp, nil
}

func (s *reviewService) GetByOrder(ctx context.Context, actor shared.Actor, orderID uuid.UUID) (*model.ReviewResponse, error) {
	review, err := s.reviewRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if review.BuyerID != actor.ID && review.SellerID != actor.ID && !actor.IsAdmin() && !review.IsPublished() {
		return nil, model.NewReviewError(model.ErrCodeReviewForbidden, "review is not visible", model.ErrReviewForbidden)
	}
	resp := review.ToResponse()
	return &resp, nil
}

func (s *reviewService) ListByGig(ctx context.Context, gigID uuid.UUID, req *model.ListReviewsRequest) ([]model.ReviewResponse, int, error) {
	req.Normalize()
	reviews, total, err := s.reviewRepo.ListByGig(ctx, gigID, req.Page, req.Limit)
	if err != nil {
		return nil, 0, err
	}
	return toResponses(reviews), total, nil
}

func (s *reviewService) ListBySeller(ctx context.Context, sellerID uuid.UUID, req *model.ListReviewsRequest) ([]model.ReviewResponse, int, error) {
	req.Normalize()
	reviews, total, err := s.reviewRepo.ListBySeller(ctx, sellerID, req.Page, req.Limit)
	if err != nil {
		return nil, 0, err
	}
	return toResponses(reviews), total, nil
}

// =====================================================
// HELPFUL VOTES
// =====================================================

func (s *reviewService) MarkHelpful(ctx context.Context, actor shared.Actor, reviewID uuid.UUID) (*model.ReviewResponse, error) {
	changed, err := s.reviewRepo.MarkHelpful(ctx, reviewID, actor.ID)
	if err != nil {
		return nil, err
	}
	if changed {
		logger.Debug("review marked helpful")
	}
	return s.Get(ctx, reviewID)
}

func (s *reviewService) UnmarkHelpful(ctx context.Context, actor shared.Actor, reviewID uuid.UUID) (*model.ReviewResponse, error) {
	if _, err := s.reviewRepo.UnmarkHelpful(ctx, reviewID, actor.ID); err != nil {
		return nil, err
	}
	return s.Get(ctx, reviewID)
}

// =====================================================
// FLAGS
// =====================================================

func (s *reviewService) Flag(ctx context.Context, actor shared.Actor, reviewID uuid.UUID, req *model.FlagReviewRequest) error {
	if err := req.Validate(); err != nil {
		return model.NewReviewError(model.ErrCodeInvalidReview, err.Error(), err)
	}

	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}

	flag := &model.ReviewFlag{
		ID:        uuid.New(),
		ReviewID:  reviewID,
		UserID:    actor.ID,
		Reason:    req.Reason,
		CreatedAt: s.now(),
	}

	count, escalated, err := s.reviewRepo.AddFlag(ctx, flag)
	if err != nil {
		return err
	}

	if escalated {
		logger.Warn("review pulled pending moderation", map[string]interface{}{
			"review_id": reviewID,
			"flags":     count,
		})
		// a review that was not published never counted toward the
		// aggregates, so only the published crossing changes them
		if review.Status == model.ReviewStatusPublished {
			s.recompute(ctx, review.GigID, review.SellerID)
		}
	}
	return nil
}

// =====================================================
// SELLER RESPONSE
// =====================================================

func (s *reviewService) Respond(ctx context.Context, actor shared.Actor, reviewID uuid.UUID, req *model.SellerResponseRequest) (*model.ReviewResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewReviewError(model.ErrCodeInvalidReview, err.Error(), err)
	}

	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.SellerID != actor.ID {
		return nil, model.NewReviewError(model.ErrCodeReviewForbidden, "only the reviewed seller can respond", model.ErrReviewForbidden)
	}

	if err := s.reviewRepo.SetSellerResponse(ctx, reviewID, req.Response, s.now()); err != nil {
		return nil, err
	}
	return s.Get(ctx, reviewID)
}

// =====================================================
// MODERATION
// =====================================================

func (s *reviewService) Moderate(ctx context.Context, actor shared.Actor, reviewID uuid.UUID, req *model.ModerateReviewRequest) (*model.ReviewResponse, error) {
	if !actor.IsAdmin() {
		return nil, model.NewReviewError(model.ErrCodeReviewForbidden, "only an admin can moderate reviews", model.ErrReviewForbidden)
	}
	if err := req.Validate(); err != nil {
		return nil, model.NewReviewError(model.ErrCodeInvalidReview, err.Error(), err)
	}

	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	if review.Status != req.Status {
		if err := s.reviewRepo.UpdateStatus(ctx, reviewID, req.Status); err != nil {
			return nil, err
		}
		// Visibility changed, so the aggregates over published reviews
		// must be rebuilt.
		s.recompute(ctx, review.GigID, review.SellerID)
	}
	return s.Get(ctx, reviewID)
}

// =====================================================
// HELPERS
// =====================================================

// recompute refreshes both aggregates. A failure never fails the review
// operation: it is logged and retried through the task queue.
func (s *reviewService) recompute(ctx context.Context, gigID, sellerID uuid.UUID) {
	gigErr := s.ratings.RecomputeGigRating(ctx, gigID)
	sellerErr := s.ratings.RecomputeSellerRating(ctx, sellerID)
	if gigErr == nil && sellerErr == nil {
		return
	}

	if gigErr != nil {
		logger.Error("inline gig rating recompute failed", gigErr)
	}
	if sellerErr != nil {
		logger.Error("inline seller rating recompute failed", sellerErr)
	}

	if err := s.enqueuer.EnqueueRatingRecompute(ctx, gigID, sellerID); err != nil {
		logger.Error("failed to enqueue rating recompute", err)
	}
}

func toResponses(reviews []*model.Review) []model.ReviewResponse {
	responses := make([]model.ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		responses = append(responses, r.ToResponse())
	}
	return responses
}
