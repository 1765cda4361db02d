package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gigmarket-backend/internal/domains/gig/model"
)

// GigRepository is the persistence contract for the gig domain
type GigRepository interface {
	Create(ctx context.Context, gig *model.Gig) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Gig, error)
	GetBySlug(ctx context.Context, slug string) (*model.Gig, error)
	Update(ctx context.Context, gig *model.Gig) error
	List(ctx context.Context, req *model.ListGigsRequest) ([]*model.Gig, int, error)

	// UpdateStats overwrites the denormalized rating aggregate. Callers
	// always pass a freshly recomputed value, so replaying is harmless.
	UpdateStats(ctx context.Context, gigID uuid.UUID, rating decimal.Decimal, totalReviews int) error

	// ListIDsBySeller returns every gig id a seller owns, for seller-wide
	// rating recomputes.
	ListIDsBySeller(ctx context.Context, sellerID uuid.UUID) ([]uuid.UUID, error)
}
