package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// GIG STATUS CONSTANTS
// =====================================================
const (
	GigStatusDraft    = "draft"
	GigStatusActive   = "active"
	GigStatusPaused   = "paused"
	GigStatusArchived = "archived"
)

// =====================================================
// ENTITY: Gig
// =====================================================

// Package is one purchasable tier of a gig. Orders copy the package terms
// at creation time, so edits here never affect running orders.
type Package struct {
	Tier         string          `json:"tier"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	DeliveryDays int             `json:"delivery_days"`
	Revisions    int             `json:"revisions"`
}

// GigStats is the denormalized rating aggregate, recomputed in full from
// published reviews after every review mutation.
type GigStats struct {
	Rating       decimal.Decimal `json:"rating"`
	TotalReviews int             `json:"total_reviews"`
	TotalOrders  int             `json:"total_orders"`
}

type Gig struct {
	ID          uuid.UUID `json:"id"`
	SellerID    uuid.UUID `json:"seller_id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags"`

	CoverImageURL *string `json:"cover_image_url,omitempty"`
	ThumbnailURL  *string `json:"thumbnail_url,omitempty"`

	Status   string    `json:"status"`
	Packages []Package `json:"packages"`
	Stats    GigStats  `json:"stats"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PackageFor finds the package for a tier name
func (g *Gig) PackageFor(tier string) (*Package, bool) {
	for i := range g.Packages {
		if g.Packages[i].Tier == tier {
			return &g.Packages[i], true
		}
	}
	return nil, false
}

// IsOrderable reports whether new orders may be placed against the gig
func (g *Gig) IsOrderable() bool {
	return g.Status == GigStatusActive
}
