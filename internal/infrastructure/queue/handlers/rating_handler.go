package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	ratingservice "gigmarket-backend/internal/domains/rating/service"
	"gigmarket-backend/internal/shared"
	"gigmarket-backend/pkg/logger"
)

// =====================================================
// RATING TASK HANDLERS
// =====================================================

type RatingRecomputeHandler struct {
	ratingService ratingservice.RatingService
}

func NewRatingRecomputeHandler(ratingService ratingservice.RatingService) *RatingRecomputeHandler {
	return &RatingRecomputeHandler{ratingService: ratingService}
}

// ProcessTask re-runs the aggregate recompute that failed inline. The
// recompute reads current state, so a stale or duplicate task converges
// on the right value.
func (h *RatingRecomputeHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.RatingRecomputePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}

	if payload.GigID != "" {
		gigID, err := uuid.Parse(payload.GigID)
		if err != nil {
			return fmt.Errorf("invalid gig id: %w", err)
		}
		if err := h.ratingService.RecomputeGigRating(ctx, gigID); err != nil {
			return err
		}
	}

	if payload.SellerID != "" {
		sellerID, err := uuid.Parse(payload.SellerID)
		if err != nil {
			return fmt.Errorf("invalid seller id: %w", err)
		}
		if err := h.ratingService.RecomputeSellerRating(ctx, sellerID); err != nil {
			return err
		}
	}
	return nil
}

type RatingRepairHandler struct {
	ratingService ratingservice.RatingService
}

func NewRatingRepairHandler(ratingService ratingservice.RatingService) *RatingRepairHandler {
	return &RatingRepairHandler{ratingService: ratingService}
}

func (h *RatingRepairHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.RatingRepairPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}

	window := time.Duration(payload.WindowHours) * time.Hour
	repaired, err := h.ratingService.RepairRecent(ctx, window, payload.Limit)
	if err != nil {
		return err
	}

	logger.Info("rating repair sweep finished", map[string]interface{}{
		"repaired": repaired,
	})
	return nil
}
