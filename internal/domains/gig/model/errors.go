package model

import (
	"errors"
	"fmt"
)

// =====================================================
// ERROR CODES
// =====================================================
const (
	ErrCodeGigNotFound     = "GIG001"
	ErrCodeGigForbidden    = "GIG002"
	ErrCodeGigNotOrderable = "GIG003"
	ErrCodeDuplicateSlug   = "GIG004"
	ErrCodePackageNotFound = "GIG005"
	ErrCodeInvalidGig      = "GIG006"
)

// =====================================================
// ERROR DEFINITIONS
// =====================================================
var (
	ErrGigNotFound     = errors.New("gig not found")
	ErrGigForbidden    = errors.New("caller does not own this gig")
	ErrGigNotOrderable = errors.New("gig is not accepting orders")
	ErrDuplicateSlug   = errors.New("gig slug already exists")
	ErrPackageNotFound = errors.New("package tier not offered by this gig")
)

// =====================================================
// CUSTOM ERROR TYPE
// =====================================================
type GigError struct {
	Code    string
	Message string
	Err     error
}

func (e *GigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *GigError) Unwrap() error {
	return e.Err
}

func NewGigError(code, message string, err error) *GigError {
	return &GigError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewPackageNotFoundError(tier string) *GigError {
	return &GigError{
		Code:    ErrCodePackageNotFound,
		Message: fmt.Sprintf("gig does not offer a %s package", tier),
		Err:     ErrPackageNotFound,
	}
}
