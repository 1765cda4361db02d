package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// REQUEST DTOs
// =====================================================

type PackageInput struct {
	Tier         string          `json:"tier"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	DeliveryDays int             `json:"delivery_days"`
	Revisions    int             `json:"revisions"`
}

func (p PackageInput) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Tier, validation.Required, validation.In("basic", "standard", "premium")),
		validation.Field(&p.Title, validation.Required, validation.Length(3, 100)),
		validation.Field(&p.Description, validation.Length(0, 1000)),
		validation.Field(&p.Price, validation.Required, validation.By(positiveDecimal)),
		validation.Field(&p.DeliveryDays, validation.Required, validation.Min(1), validation.Max(90)),
		validation.Field(&p.Revisions, validation.Min(0), validation.Max(20)),
	)
}

func positiveDecimal(value interface{}) error {
	d, ok := value.(decimal.Decimal)
	if !ok || !d.IsPositive() {
		return validation.NewError("validation_positive", "must be a positive amount")
	}
	return nil
}

type CreateGigRequest struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	Tags        []string       `json:"tags"`
	Packages    []PackageInput `json:"packages"`
}

func (r CreateGigRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(10, 120)),
		validation.Field(&r.Description, validation.Required, validation.Length(30, 5000)),
		validation.Field(&r.Category, validation.Required, validation.Length(2, 50)),
		validation.Field(&r.Tags, validation.Length(0, 10)),
		validation.Field(&r.Packages, validation.Required, validation.Length(1, 3), validation.By(uniqueTiers)),
	)
}

func uniqueTiers(value interface{}) error {
	packages, ok := value.([]PackageInput)
	if !ok {
		return validation.NewError("validation_packages", "invalid package list")
	}
	seen := make(map[string]bool, len(packages))
	for _, p := range packages {
		if seen[p.Tier] {
			return validation.NewError("validation_duplicate_tier", "each tier may only appear once")
		}
		seen[p.Tier] = true
	}
	return nil
}

type UpdateGigRequest struct {
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	Category    *string        `json:"category"`
	Tags        []string       `json:"tags"`
	Status      *string        `json:"status"`
	Packages    []PackageInput `json:"packages"`
}

func (r UpdateGigRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Length(10, 120)),
		validation.Field(&r.Description, validation.Length(30, 5000)),
		validation.Field(&r.Category, validation.Length(2, 50)),
		validation.Field(&r.Status, validation.In(GigStatusDraft, GigStatusActive, GigStatusPaused, GigStatusArchived)),
		validation.Field(&r.Packages, validation.Length(0, 3), validation.By(uniqueTiers)),
	)
}

// ListGigsRequest filters the public catalog
type ListGigsRequest struct {
	Category  *string `form:"category"`
	SellerID  *string `form:"seller_id"`
	Search    *string `form:"search"`
	MinRating *string `form:"min_rating"`
	Page      int     `form:"page"`
	Limit     int     `form:"limit"`
}

func (r *ListGigsRequest) Normalize() {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 || r.Limit > 50 {
		r.Limit = 20
	}
}

// =====================================================
// RESPONSE DTOs
// =====================================================

type GigResponse struct {
	ID            uuid.UUID `json:"id"`
	SellerID      uuid.UUID `json:"seller_id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	Tags          []string  `json:"tags"`
	CoverImageURL *string   `json:"cover_image_url,omitempty"`
	ThumbnailURL  *string   `json:"thumbnail_url,omitempty"`
	Status        string    `json:"status"`
	Packages      []Package `json:"packages"`
	Stats         GigStats  `json:"stats"`
	CreatedAt     time.Time `json:"created_at"`
}

func (g *Gig) ToResponse() GigResponse {
	return GigResponse{
		ID:            g.ID,
		SellerID:      g.SellerID,
		Title:         g.Title,
		Slug:          g.Slug,
		Description:   g.Description,
		Category:      g.Category,
		Tags:          g.Tags,
		CoverImageURL: g.CoverImageURL,
		ThumbnailURL:  g.ThumbnailURL,
		Status:        g.Status,
		Packages:      g.Packages,
		Stats:         g.Stats,
		CreatedAt:     g.CreatedAt,
	}
}
