package main

import (
	"github.com/hibiken/asynq"

	"gigmarket-backend/internal/infrastructure/queue/handlers"
	"gigmarket-backend/internal/shared"
	"gigmarket-backend/pkg/container"
)

// HandlerRegistry holds all task handlers
type HandlerRegistry struct {
	ratingRecompute *handlers.RatingRecomputeHandler
	ratingRepair    *handlers.RatingRepairHandler
	autoComplete    *handlers.OrderAutoCompleteHandler
}

// initializeHandlers creates all task handlers with their dependencies
func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		ratingRecompute: handlers.NewRatingRecomputeHandler(c.RatingService),
		ratingRepair:    handlers.NewRatingRepairHandler(c.RatingService),
		autoComplete:    handlers.NewOrderAutoCompleteHandler(c.OrderService),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeRatingRecompute, h.ratingRecompute.ProcessTask)
	mux.HandleFunc(shared.TypeRatingRepair, h.ratingRepair.ProcessTask)
	mux.HandleFunc(shared.TypeOrderAutoComplete, h.autoComplete.ProcessTask)
}
