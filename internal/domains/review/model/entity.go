package model

import (
	"time"

	"github.com/google/uuid"
)

// =====================================================
// REVIEW STATUS CONSTANTS
// =====================================================
const (
	ReviewStatusPending   = "pending"
	ReviewStatusPublished = "published"
	ReviewStatusHidden    = "hidden"
	ReviewStatusFlagged   = "flagged"
)

// FlagThreshold is how many distinct users must flag a review before it
// is pulled from the published set pending moderation.
const FlagThreshold = 3

// =====================================================
// ENTITY: Review
// =====================================================

// Rating is the buyer's scores. Overall is required; the facet scores
// are optional and do not feed the aggregate.
type Rating struct {
	Overall       int  `json:"overall"`
	Communication *int `json:"communication,omitempty"`
	Quality       *int `json:"quality,omitempty"`
	Delivery      *int `json:"delivery,omitempty"`
}

type Review struct {
	ID       uuid.UUID `json:"id"`
	OrderID  uuid.UUID `json:"order_id"`
	GigID    uuid.UUID `json:"gig_id"`
	BuyerID  uuid.UUID `json:"buyer_id"`
	SellerID uuid.UUID `json:"seller_id"`

	Rating  Rating `json:"rating"`
	Comment string `json:"comment"`
	Status  string `json:"status"`

	// HelpfulVoters is the set of users who marked the review helpful.
	// HelpfulCount is derived from it and kept in the same row.
	HelpfulCount  int         `json:"helpful_count"`
	HelpfulVoters []uuid.UUID `json:"-"`

	FlagCount int `json:"flag_count"`

	SellerResponse    *string    `json:"seller_response,omitempty"`
	SellerRespondedAt *time.Time `json:"seller_responded_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsPublished reports whether the review counts toward rating aggregates
func (r *Review) IsPublished() bool {
	return r.Status == ReviewStatusPublished
}

// HasVoted checks membership in the helpful voter set
func (r *Review) HasVoted(userID uuid.UUID) bool {
	for _, v := range r.HelpfulVoters {
		if v == userID {
			return true
		}
	}
	return false
}

// =====================================================
// ENTITY: ReviewFlag
// =====================================================
type ReviewFlag struct {
	ID        uuid.UUID `json:"id"`
	ReviewID  uuid.UUID `json:"review_id"`
	UserID    uuid.UUID `json:"user_id"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}
