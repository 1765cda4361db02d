package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gigmarket-backend/internal/domains/user/model"
)

// UserRepository is the persistence contract for the user domain
type UserRepository interface {
	// Create inserts a user; returns model.ErrDuplicateEmail when the
	// email or username is taken.
	Create(ctx context.Context, user *model.User) error

	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateProfile(ctx context.Context, user *model.User) error

	// UpdateSellerRating overwrites the denormalized seller aggregate
	UpdateSellerRating(ctx context.Context, sellerID uuid.UUID, rating decimal.Decimal, totalReviews int) error
}
