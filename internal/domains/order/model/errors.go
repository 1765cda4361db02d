package model

import (
	"errors"
	"fmt"
)

// =====================================================
// ERROR CODES
// =====================================================
const (
	ErrCodeOrderNotFound         = "ORD001"
	ErrCodeInvalidTransition     = "ORD002"
	ErrCodeForbidden             = "ORD003"
	ErrCodeRevisionLimitExceeded = "ORD004"
	ErrCodeInvalidPackageTier    = "ORD005"
	ErrCodeInvalidOrder          = "ORD006"
	ErrCodeGigNotFound           = "ORD007"
)

// =====================================================
// ERROR DEFINITIONS
// =====================================================
var (
	ErrOrderNotFound         = errors.New("order not found")
	ErrInvalidTransition     = errors.New("transition not allowed from current order status")
	ErrForbidden             = errors.New("caller is not permitted to perform this transition")
	ErrRevisionLimitExceeded = errors.New("revision allowance for this package is exhausted")
	ErrInvalidPackageTier    = errors.New("invalid package tier")
	ErrGigNotFound           = errors.New("gig not found")
)

// =====================================================
// CUSTOM ERROR TYPE
// =====================================================
type OrderError struct {
	Code    string
	Message string
	Err     error
}

func (e *OrderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *OrderError) Unwrap() error {
	return e.Err
}

// NewOrderError creates a new OrderError
func NewOrderError(code, message string, err error) *OrderError {
	return &OrderError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error constructors for the common cases

func NewInvalidTransitionError(from, to Status) *OrderError {
	return &OrderError{
		Code:    ErrCodeInvalidTransition,
		Message: fmt.Sprintf("cannot move order from %s to %s", from, to),
		Err:     ErrInvalidTransition,
	}
}

func NewForbiddenError(message string) *OrderError {
	return &OrderError{
		Code:    ErrCodeForbidden,
		Message: message,
		Err:     ErrForbidden,
	}
}

func NewRevisionLimitError(used, allowed int) *OrderError {
	return &OrderError{
		Code:    ErrCodeRevisionLimitExceeded,
		Message: fmt.Sprintf("all %d revisions already used (%d requested)", allowed, used),
		Err:     ErrRevisionLimitExceeded,
	}
}
