package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	orderservice "gigmarket-backend/internal/domains/order/service"
	"gigmarket-backend/internal/shared"
	"gigmarket-backend/pkg/logger"
)

// =====================================================
// ORDER TASK HANDLERS
// =====================================================

type OrderAutoCompleteHandler struct {
	orderService orderservice.OrderService
}

func NewOrderAutoCompleteHandler(orderService orderservice.OrderService) *OrderAutoCompleteHandler {
	return &OrderAutoCompleteHandler{orderService: orderService}
}

func (h *OrderAutoCompleteHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.OrderAutoCompletePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}

	completed, err := h.orderService.AutoCompleteDelivered(ctx, payload.Limit)
	if err != nil {
		return err
	}

	logger.Info("auto-complete sweep finished", map[string]interface{}{
		"completed": completed,
	})
	return nil
}
