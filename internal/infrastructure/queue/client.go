package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"gigmarket-backend/internal/shared"
	"gigmarket-backend/pkg/logger"
)

// =====================================================
// TASK CLIENT
// =====================================================

// Client enqueues background tasks
type Client struct {
	client *asynq.Client
}

func NewClient(redisAddr, redisPassword string) *Client {
	return &Client{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     redisAddr,
			Password: redisPassword,
		}),
	}
}

// EnqueueRatingRecompute schedules a retryable recompute of the rating
// aggregates for a gig and its seller, used when the inline recompute
// after a review mutation fails.
func (c *Client) EnqueueRatingRecompute(ctx context.Context, gigID, sellerID uuid.UUID) error {
	payload, err := json.Marshal(shared.RatingRecomputePayload{
		GigID:    gigID.String(),
		SellerID: sellerID.String(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	task := asynq.NewTask(shared.TypeRatingRecompute, payload)
	info, err := c.client.EnqueueContext(ctx, task,
		asynq.Queue(shared.QueueRating),
		asynq.MaxRetry(5),
		asynq.Timeout(time.Minute),
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue rating recompute: %w", err)
	}

	logger.Info("rating recompute enqueued", map[string]interface{}{
		"task_id": info.ID,
		"gig_id":  gigID,
	})
	return nil
}

func (c *Client) Close() error {
	return c.client.Close()
}
