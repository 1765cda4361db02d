package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gigmarket-backend/internal/domains/order/model"
)

// TransitionUpdate describes one lifecycle transition as a single atomic
// write. From is the status the caller validated against; the write only
// applies when the row still carries it, so a concurrent transition can
// never produce an illegal edge.
type TransitionUpdate struct {
	OrderID   uuid.UUID
	From      model.Status
	To        model.Status
	ChangedBy *uuid.UUID
	Notes     *string

	// Optional field effects, applied in the same statement as the status
	// change. DueAt, PlatformFee and SellerEarnings are set-once: the
	// statement keeps an existing value, so replays are field-level no-ops.
	AcceptedAt         *time.Time
	DueAt              *time.Time
	DeliveredAt        *time.Time
	CompletedAt        *time.Time
	CancelledAt        *time.Time
	PlatformFee        *decimal.Decimal
	SellerEarnings     *decimal.Decimal
	IncrementRevisions bool

	// MarkRevisionsDelivered flips pending revision requests to delivered,
	// used when the seller redelivers.
	MarkRevisionsDelivered bool

	// Sub-records inserted in the same transaction
	Deliverables []model.Deliverable
	Revision     *model.RevisionRequest
	Cancellation *model.Cancellation
	Dispute      *model.Dispute
	Resolution   *DisputeResolution
}

// DisputeResolution closes an open dispute record
type DisputeResolution struct {
	ResolvedBy uuid.UUID
	Outcome    string
	Note       *string
	ResolvedAt time.Time
}

// OrderRepository is the persistence contract for the order domain
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// ApplyTransition applies a validated transition atomically and returns
	// the updated order. Returns model.ErrInvalidTransition when the row no
	// longer carries the expected From status, model.ErrOrderNotFound when
	// the order does not exist.
	ApplyTransition(ctx context.Context, update TransitionUpdate) (*model.Order, error)

	ListByBuyer(ctx context.Context, buyerID uuid.UUID, status *string, page, limit int) ([]*model.Order, int, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID, status *string, page, limit int) ([]*model.Order, int, error)

	ListDeliverables(ctx context.Context, orderID uuid.UUID) ([]model.Deliverable, error)
	ListRevisions(ctx context.Context, orderID uuid.UUID) ([]model.RevisionRequest, error)
	GetCancellation(ctx context.Context, orderID uuid.UUID) (*model.Cancellation, error)
	GetDispute(ctx context.Context, orderID uuid.UUID) (*model.Dispute, error)
	ListStatusHistory(ctx context.Context, orderID uuid.UUID) ([]model.OrderStatusHistory, error)

	// ListAutoCompletable finds delivered orders whose delivery is older
	// than the cutoff, for the auto-approval sweep.
	ListAutoCompletable(ctx context.Context, deliveredBefore time.Time, limit int) ([]*model.Order, error)

	EarningsSummary(ctx context.Context, sellerID uuid.UUID) (*model.EarningsSummary, error)
	ListCompletedBySeller(ctx context.Context, sellerID uuid.UUID, from, to time.Time) ([]*model.Order, error)
}
