package model

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// =====================================================
// ENTITY: Message
// =====================================================

// Message is one message in an order's conversation. Every order has an
// implicit two-party conversation between its buyer and seller.
type Message struct {
	ID          uuid.UUID  `json:"id"`
	OrderID     uuid.UUID  `json:"order_id"`
	SenderID    uuid.UUID  `json:"sender_id"`
	RecipientID uuid.UUID  `json:"recipient_id"`
	Body        string     `json:"body"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// =====================================================
// ERRORS
// =====================================================
const (
	ErrCodeMessageForbidden = "MSG001"
	ErrCodeInvalidMessage   = "MSG002"
)

var (
	ErrMessageForbidden = errors.New("conversation is only visible to the order's participants")
)

// =====================================================
// DTOs
// =====================================================

type SendMessageRequest struct {
	Body string `json:"body"`
}

func (r SendMessageRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Body, validation.Required, validation.Length(1, 5000)),
	)
}

type ListMessagesRequest struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

func (r *ListMessagesRequest) Normalize() {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 || r.Limit > 100 {
		r.Limit = 50
	}
}
