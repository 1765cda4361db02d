package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// PACKAGE TIER CONSTANTS
// =====================================================
const (
	PackageTierBasic    = "basic"
	PackageTierStandard = "standard"
	PackageTierPremium  = "premium"
)

// =====================================================
// BUSINESS CONSTANTS
// =====================================================

// PlatformFeeRate is the fraction of the subtotal retained by the
// marketplace. Earnings math always runs through ComputeEarnings so the
// identity sellerEarnings + platformFee == subtotal holds exactly.
var PlatformFeeRate = decimal.RequireFromString("0.10")

const DefaultCurrency = "USD"

// =====================================================
// ENTITY: Order
// =====================================================

// PackageSnapshot is the package terms copied onto the order at creation.
// Later edits to the gig's packages never touch an existing order.
type PackageSnapshot struct {
	Title        string          `json:"title"`
	Price        decimal.Decimal `json:"price"`
	DeliveryDays int             `json:"delivery_days"`
	Revisions    int             `json:"revisions"`
}

// OrderDates holds the milestone dates; each stays nil until reached
type OrderDates struct {
	Ordered   time.Time  `json:"ordered"`
	Accepted  *time.Time `json:"accepted,omitempty"`
	Due       *time.Time `json:"due,omitempty"`
	Delivered *time.Time `json:"delivered,omitempty"`
	Completed *time.Time `json:"completed,omitempty"`
	Cancelled *time.Time `json:"cancelled,omitempty"`
}

type Order struct {
	ID          uuid.UUID `json:"id"`
	OrderNumber string    `json:"order_number"`
	BuyerID     uuid.UUID `json:"buyer_id"`
	SellerID    uuid.UUID `json:"seller_id"`
	GigID       uuid.UUID `json:"gig_id"`

	PackageTier string          `json:"package_tier"`
	Package     PackageSnapshot `json:"package"`

	Subtotal decimal.Decimal `json:"subtotal"`
	Total    decimal.Decimal `json:"total"`
	Currency string          `json:"currency"`

	// PlatformFee and SellerEarnings stay nil until the order completes,
	// and are computed exactly once.
	PlatformFee    *decimal.Decimal `json:"platform_fee,omitempty"`
	SellerEarnings *decimal.Decimal `json:"seller_earnings,omitempty"`

	Status        Status     `json:"status"`
	Dates         OrderDates `json:"dates"`
	RevisionsUsed int        `json:"revisions_used"`

	Requirements *string `json:"requirements,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasRevisionsLeft checks the snapshotted allowance, not the live gig
func (o *Order) HasRevisionsLeft() bool {
	return o.RevisionsUsed < o.Package.Revisions
}

// DueDateFor computes the due date from an acceptance time and the
// snapshotted delivery window.
func (o *Order) DueDateFor(acceptedAt time.Time) time.Time {
	return acceptedAt.Add(time.Duration(o.Package.DeliveryDays) * 24 * time.Hour)
}

// EarningsComputed reports whether the one-shot earnings split has been applied
func (o *Order) EarningsComputed() bool {
	return o.SellerEarnings != nil
}

// =====================================================
// ENTITY: Deliverable
// =====================================================

// Deliverable is one delivered artifact. The list on an order is
// append-only: redeliveries add to the history, never replace it.
type Deliverable struct {
	ID          uuid.UUID `json:"id"`
	OrderID     uuid.UUID `json:"order_id"`
	FileName    string    `json:"file_name"`
	FileURL     string    `json:"file_url"`
	Message     *string   `json:"message,omitempty"`
	DeliveredAt time.Time `json:"delivered_at"`
}

// =====================================================
// ENTITY: RevisionRequest
// =====================================================
const (
	RevisionStatusPending   = "pending"
	RevisionStatusDelivered = "delivered"
)

type RevisionRequest struct {
	ID          uuid.UUID `json:"id"`
	OrderID     uuid.UUID `json:"order_id"`
	RequestedBy uuid.UUID `json:"requested_by"`
	Reason      string    `json:"reason"`
	Details     *string   `json:"details,omitempty"`
	Status      string    `json:"status"`
	RequestedAt time.Time `json:"requested_at"`
}

// =====================================================
// ENTITY: Cancellation / Dispute
// =====================================================
type Cancellation struct {
	OrderID     uuid.UUID `json:"order_id"`
	RequestedBy uuid.UUID `json:"requested_by"`
	Reason      string    `json:"reason"`
	RequestedAt time.Time `json:"requested_at"`
}

const (
	DisputeOutcomeCompleted = "completed"
	DisputeOutcomeCancelled = "cancelled"
	DisputeOutcomeRefunded  = "refunded"
)

type Dispute struct {
	OrderID     uuid.UUID  `json:"order_id"`
	InitiatedBy uuid.UUID  `json:"initiated_by"`
	Reason      string     `json:"reason"`
	Details     *string    `json:"details,omitempty"`
	OpenedAt    time.Time  `json:"opened_at"`
	ResolvedBy  *uuid.UUID `json:"resolved_by,omitempty"`
	Outcome     *string    `json:"outcome,omitempty"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
	Note        *string    `json:"note,omitempty"`
}

// =====================================================
// ENTITY: OrderStatusHistory
// =====================================================
type OrderStatusHistory struct {
	ID         uuid.UUID  `json:"id"`
	OrderID    uuid.UUID  `json:"order_id"`
	FromStatus *string    `json:"from_status,omitempty"`
	ToStatus   string     `json:"to_status"`
	ChangedBy  *uuid.UUID `json:"changed_by,omitempty"`
	Notes      *string    `json:"notes,omitempty"`
	ChangedAt  time.Time  `json:"changed_at"`
}
