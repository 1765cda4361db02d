package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// ENTITY: User
// =====================================================

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Username     string    `json:"username"`
	FullName     string    `json:"full_name"`
	Role         string    `json:"role"`

	// Seller profile fields, meaningful only for sellers. The rating
	// pair is denormalized and rebuilt by the rating recompute.
	Bio                string          `json:"bio,omitempty"`
	Skills             []string        `json:"skills,omitempty"`
	SellerRating       decimal.Decimal `json:"seller_rating"`
	SellerTotalReviews int             `json:"seller_total_reviews"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) IsSeller() bool {
	return u.Role == "seller"
}
