package model

import (
	"errors"
	"fmt"
)

// =====================================================
// ERROR CODES
// =====================================================
const (
	ErrCodeUserNotFound       = "USR001"
	ErrCodeDuplicateEmail     = "USR002"
	ErrCodeInvalidCredentials = "USR003"
	ErrCodeUserForbidden      = "USR004"
	ErrCodeInvalidUser        = "USR005"
)

// =====================================================
// ERROR DEFINITIONS
// =====================================================
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateEmail     = errors.New("email or username already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserForbidden      = errors.New("caller is not permitted to act on this user")
)

// =====================================================
// CUSTOM ERROR TYPE
// =====================================================
type UserError struct {
	Code    string
	Message string
	Err     error
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *UserError) Unwrap() error {
	return e.Err
}

func NewUserError(code, message string, err error) *UserError {
	return &UserError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
