package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// REQUEST DTOs
// =====================================================

// CreateOrderRequest is a buyer committing to a gig package
type CreateOrderRequest struct {
	GigID        uuid.UUID `json:"gig_id" binding:"required"`
	PackageTier  string    `json:"package_tier" binding:"required"`
	Requirements *string   `json:"requirements"`
}

func (r *CreateOrderRequest) Validate() error {
	if r.GigID == uuid.Nil {
		return fmt.Errorf("gig_id is required")
	}
	if !IsValidPackageTier(r.PackageTier) {
		return fmt.Errorf("package_tier must be one of basic, standard, premium")
	}
	if r.Requirements != nil && len(*r.Requirements) > 5000 {
		return fmt.Errorf("requirements must not exceed 5000 characters")
	}
	return nil
}

// DeliverRequest carries the deliverables of one delivery
type DeliverRequest struct {
	Deliverables []DeliverableInput `json:"deliverables" binding:"required"`
	Message      *string            `json:"message"`
}

type DeliverableInput struct {
	FileName string  `json:"file_name" binding:"required"`
	FileURL  string  `json:"file_url" binding:"required"`
	Message  *string `json:"message"`
}

func (r *DeliverRequest) Validate() error {
	if len(r.Deliverables) == 0 {
		return fmt.Errorf("at least one deliverable is required")
	}
	for _, d := range r.Deliverables {
		if d.FileName == "" || d.FileURL == "" {
			return fmt.Errorf("every deliverable needs file_name and file_url")
		}
	}
	return nil
}

// RequestRevisionRequest is a buyer asking for changes on a delivery
type RequestRevisionRequest struct {
	Reason  string  `json:"reason" binding:"required,min=5,max=500"`
	Details *string `json:"details"`
}

func (r *RequestRevisionRequest) Validate() error {
	if len(r.Reason) < 5 {
		return fmt.Errorf("reason must be at least 5 characters")
	}
	if len(r.Reason) > 500 {
		return fmt.Errorf("reason must not exceed 500 characters")
	}
	if r.Details != nil && len(*r.Details) > 5000 {
		return fmt.Errorf("details must not exceed 5000 characters")
	}
	return nil
}

// CancelOrderRequest records why an order was cancelled
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required,min=5,max=500"`
}

func (r *CancelOrderRequest) Validate() error {
	if len(r.Reason) < 5 || len(r.Reason) > 500 {
		return fmt.Errorf("reason must be between 5 and 500 characters")
	}
	return nil
}

// DisputeOrderRequest opens a dispute on an order
type DisputeOrderRequest struct {
	Reason  string  `json:"reason" binding:"required,min=5,max=500"`
	Details *string `json:"details"`
}

func (r *DisputeOrderRequest) Validate() error {
	if len(r.Reason) < 5 || len(r.Reason) > 500 {
		return fmt.Errorf("reason must be between 5 and 500 characters")
	}
	return nil
}

// ResolveDisputeRequest is the admin resolution of a dispute
type ResolveDisputeRequest struct {
	Outcome string  `json:"outcome" binding:"required"`
	Note    *string `json:"note"`
}

func (r *ResolveDisputeRequest) Validate() error {
	switch r.Outcome {
	case DisputeOutcomeCompleted, DisputeOutcomeCancelled, DisputeOutcomeRefunded:
		return nil
	}
	return fmt.Errorf("outcome must be one of completed, cancelled, refunded")
}

// ListOrdersRequest lists orders with an optional status filter
type ListOrdersRequest struct {
	Status *string `form:"status"`
	Page   int     `form:"page"`
	Limit  int     `form:"limit"`
}

func (r *ListOrdersRequest) Validate() error {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 || r.Limit > 100 {
		r.Limit = 20
	}
	if r.Status != nil && !Status(*r.Status).IsValid() {
		return fmt.Errorf("invalid status filter: %s", *r.Status)
	}
	return nil
}

// =====================================================
// RESPONSE DTOs
// =====================================================

// OrderResponse is the order shape returned to clients
type OrderResponse struct {
	ID             uuid.UUID        `json:"id"`
	OrderNumber    string           `json:"order_number"`
	BuyerID        uuid.UUID        `json:"buyer_id"`
	SellerID       uuid.UUID        `json:"seller_id"`
	GigID          uuid.UUID        `json:"gig_id"`
	PackageTier    string           `json:"package_tier"`
	Package        PackageSnapshot  `json:"package"`
	Subtotal       decimal.Decimal  `json:"subtotal"`
	Total          decimal.Decimal  `json:"total"`
	Currency       string           `json:"currency"`
	PlatformFee    *decimal.Decimal `json:"platform_fee,omitempty"`
	SellerEarnings *decimal.Decimal `json:"seller_earnings,omitempty"`
	Status         Status           `json:"status"`
	Dates          OrderDates       `json:"dates"`
	RevisionsUsed  int              `json:"revisions_used"`
	CreatedAt      time.Time        `json:"created_at"`
}

// OrderDetailResponse includes the append-only sub-records
type OrderDetailResponse struct {
	OrderResponse
	Deliverables []Deliverable     `json:"deliverables"`
	Revisions    []RevisionRequest `json:"revisions"`
	Cancellation *Cancellation     `json:"cancellation,omitempty"`
	Dispute      *Dispute          `json:"dispute,omitempty"`
}

// EarningsSummary aggregates a seller's completed orders
type EarningsSummary struct {
	TotalEarnings   decimal.Decimal `json:"total_earnings"`
	TotalFees       decimal.Decimal `json:"total_fees"`
	CompletedOrders int             `json:"completed_orders"`
	ActiveOrders    int             `json:"active_orders"`
}

// ToResponse maps an order entity to its response shape
func (o *Order) ToResponse() OrderResponse {
	return OrderResponse{
		ID:             o.ID,
		OrderNumber:    o.OrderNumber,
		BuyerID:        o.BuyerID,
		SellerID:       o.SellerID,
		GigID:          o.GigID,
		PackageTier:    o.PackageTier,
		Package:        o.Package,
		Subtotal:       o.Subtotal,
		Total:          o.Total,
		Currency:       o.Currency,
		PlatformFee:    o.PlatformFee,
		SellerEarnings: o.SellerEarnings,
		Status:         o.Status,
		Dates:          o.Dates,
		RevisionsUsed:  o.RevisionsUsed,
		CreatedAt:      o.CreatedAt,
	}
}
