package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// =====================================================
// REQUEST DTOs
// =====================================================

type CreateReviewRequest struct {
	OrderID       uuid.UUID `json:"order_id"`
	Overall       int       `json:"overall"`
	Communication *int      `json:"communication"`
	Quality       *int      `json:"quality"`
	Delivery      *int      `json:"delivery"`
	Comment       string    `json:"comment"`
}

func (r CreateReviewRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.OrderID, validation.Required, validation.By(notNilUUID)),
		validation.Field(&r.Overall, validation.Min(1), validation.Max(5)),
		validation.Field(&r.Communication, validation.Min(1), validation.Max(5)),
		validation.Field(&r.Quality, validation.Min(1), validation.Max(5)),
		validation.Field(&r.Delivery, validation.Min(1), validation.Max(5)),
		validation.Field(&r.Comment, validation.Required, validation.Length(5, 3000)),
	)
	if err != nil {
		return err
	}
	if r.Overall == 0 && r.Communication == nil && r.Quality == nil && r.Delivery == nil {
		return validation.NewError("validation_rating", "an overall score or at least one sub-score is required")
	}
	return nil
}

// OverallScore returns the overall rating, deriving the rounded mean of
// the sub-scores when the buyer did not score overall explicitly.
func (r CreateReviewRequest) OverallScore() int {
	if r.Overall != 0 {
		return r.Overall
	}
	sum, count := 0, 0
	for _, score := range []*int{r.Communication, r.Quality, r.Delivery} {
		if score != nil {
			sum += *score
			count++
		}
	}
	// rounded mean; Validate guarantees count > 0 when Overall is unset
	return (sum + count/2) / count
}

func notNilUUID(value interface{}) error {
	id, ok := value.(uuid.UUID)
	if !ok || id == uuid.Nil {
		return validation.NewError("validation_uuid", "must be a valid id")
	}
	return nil
}

type FlagReviewRequest struct {
	Reason string `json:"reason"`
}

func (r FlagReviewRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Reason, validation.Required, validation.Length(5, 500)),
	)
}

type SellerResponseRequest struct {
	Response string `json:"response"`
}

func (r SellerResponseRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Response, validation.Required, validation.Length(5, 3000)),
	)
}

type ModerateReviewRequest struct {
	Status string `json:"status"`
}

func (r ModerateReviewRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.Required,
			validation.In(ReviewStatusPublished, ReviewStatusHidden)),
	)
}

type ListReviewsRequest struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

func (r *ListReviewsRequest) Normalize() {
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

type ReviewResponse struct {
	ID                uuid.UUID  `json:"id"`
	OrderID           uuid.UUID  `json:"order_id"`
	GigID             uuid.UUID  `json:"gig_id"`
	BuyerID           uuid.UUID  `json:"buyer_id"`
	SellerID          uuid.UUID  `json:"seller_id"`
	Rating            Rating     `json:"rating"`
	Comment           string     `json:"comment"`
	Status            string     `json:"status"`
	HelpfulCount      int        `json:"helpful_count"`
	SellerResponse    *string    `json:"seller_response,omitempty"`
	SellerRespondedAt *time.Time `json:"seller_responded_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

func (r *Review) ToResponse() ReviewResponse {
	return ReviewResponse{
		ID:                r.ID,
		OrderID:           r.OrderID,
		GigID:             r.GigID,
		BuyerID:           r.BuyerID,
		SellerID:          r.SellerID,
		Rating:            r.Rating,
		Comment:           r.Comment,
		Status:            r.Status,
		HelpfulCount:      r.HelpfulCount,
		SellerResponse:    r.SellerResponse,
		SellerRespondedAt: r.SellerRespondedAt,
		CreatedAt:         r.CreatedAt,
	}
}
