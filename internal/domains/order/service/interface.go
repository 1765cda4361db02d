package service

import (
	"context"

	"github.com/google/uuid"

	gigmodel "gigmarket-backend/internal/domains/gig/model"
	"gigmarket-backend/internal/domains/order/model"
	"gigmarket-backend/internal/shared"
)

// GigReader is the slice of the gig domain the order service needs:
// reading a gig to snapshot its package terms at order creation.
type GigReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*gigmodel.Gig, error)
}

// OrderService drives the order lifecycle. Every transition validates the
// caller's role and the current state before handing the write to the
// repository, which re-checks the state at write time.
type OrderService interface {
	Create(ctx context.Context, actor shared.Actor, req *model.CreateOrderRequest) (*model.OrderResponse, error)
	Get(ctx context.Context, actor shared.Actor, orderID uuid.UUID) (*model.OrderDetailResponse, error)
	ListForBuyer(ctx context.Context, actor shared.Actor, req *model.ListOrdersRequest) ([]model.OrderResponse, int, error)
	ListForSeller(ctx context.Context, actor shared.Actor, req *model.ListOrdersRequest) ([]model.OrderResponse, int, error)
	StatusHistory(ctx context.Context, actor shared.Actor, orderID uuid.UUID) ([]model.OrderStatusHistory, error)

	Accept(ctx context.Context, actor shared.Actor, orderID uuid.UUID) (*model.OrderResponse, error)
	Start(ctx context.Context, actor shared.Actor, orderID uuid.UUID) (*model.OrderResponse, error)
	Deliver(ctx context.Context, actor shared.Actor, orderID uuid.UUID, req *model.DeliverRequest) (*model.OrderResponse, error)
	RequestRevision(ctx context.Context, actor shared.Actor, orderID uuid.UUID, req *model.RequestRevisionRequest) (*model.OrderResponse, error)
	Complete(ctx context.Context, actor shared.Actor, orderID uuid.UUID) (*model.OrderResponse, error)
	Cancel(ctx context.Context, actor shared.Actor, orderID uuid.UUID, req *model.CancelOrderRequest) (*model.OrderResponse, error)
	Dispute(ctx context.Context, actor shared.Actor, orderID uuid.UUID, req *model.DisputeOrderRequest) (*model.OrderResponse, error)
	ResolveDispute(ctx context.Context, actor shared.Actor, orderID uuid.UUID, req *model.ResolveDisputeRequest) (*model.OrderResponse, error)

	Earnings(ctx context.Context, actor shared.Actor, sellerID uuid.UUID) (*model.EarningsSummary, error)

	// AutoCompleteDelivered completes delivered orders older than the
	// approval window, acting as the system. Returns how many completed.
	AutoCompleteDelivered(ctx context.Context, limit int) (int, error)
}
