package model

import (
	"errors"
	"fmt"
)

// =====================================================
// ERROR CODES
// =====================================================
const (
	ErrCodeReviewNotFound     = "REV001"
	ErrCodeDuplicateReview    = "REV002"
	ErrCodeReviewForbidden    = "REV003"
	ErrCodeOrderNotReviewable = "REV004"
	ErrCodeInvalidReview      = "REV005"
	ErrCodeAlreadyResponded   = "REV006"
)

// =====================================================
// ERROR DEFINITIONS
// =====================================================
var (
	ErrReviewNotFound     = errors.New("review not found")
	ErrDuplicateReview    = errors.New("order already has a review")
	ErrReviewForbidden    = errors.New("caller is not permitted to act on this review")
	ErrOrderNotReviewable = errors.New("only completed orders can be reviewed by their buyer")
	ErrAlreadyResponded   = errors.New("seller has already responded to this review")
)

// =====================================================
// CUSTOM ERROR TYPE
// =====================================================
type ReviewError struct {
	Code    string
	Message string
	Err     error
}

func (e *ReviewError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ReviewError) Unwrap() error {
	return e.Err
}

func NewReviewError(code, message string, err error) *ReviewError {
	return &ReviewError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
