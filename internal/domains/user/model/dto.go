package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// REQUEST DTOs
// =====================================================

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 72)),
		validation.Field(&r.Username, validation.Required, validation.Length(3, 30), is.Alphanumeric),
		validation.Field(&r.FullName, validation.Length(0, 100)),
		validation.Field(&r.Role, validation.Required, validation.In("buyer", "seller")),
	)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (r RefreshRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RefreshToken, validation.Required),
	)
}

type UpdateProfileRequest struct {
	FullName *string  `json:"full_name"`
	Bio      *string  `json:"bio"`
	Skills   []string `json:"skills"`
}

func (r UpdateProfileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FullName, validation.Length(0, 100)),
		validation.Field(&r.Bio, validation.Length(0, 2000)),
		validation.Field(&r.Skills, validation.Length(0, 20)),
	)
}

// =====================================================
// RESPONSE DTOs
// =====================================================

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type SellerProfileResponse struct {
	ID           uuid.UUID       `json:"id"`
	Username     string          `json:"username"`
	FullName     string          `json:"full_name"`
	Bio          string          `json:"bio"`
	Skills       []string        `json:"skills"`
	Rating       decimal.Decimal `json:"rating"`
	TotalReviews int             `json:"total_reviews"`
	MemberSince  time.Time       `json:"member_since"`
}

type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		FullName:  u.FullName,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

func (u *User) ToSellerProfile() SellerProfileResponse {
	return SellerProfileResponse{
		ID:           u.ID,
		Username:     u.Username,
		FullName:     u.FullName,
		Bio:          u.Bio,
		Skills:       u.Skills,
		Rating:       u.SellerRating,
		TotalReviews: u.SellerTotalReviews,
		MemberSince:  u.CreatedAt,
	}
}
