// Package domain defines the CloudPocket client data model.
package domain

import (
	"errors"
	"fmt"
	"strings"
)

// DomainError represents a client-side error with a structured error code.
// Codes follow the format PK-<AREA>-<NNNN>.
type DomainError struct {
	Code    string // Error code (e.g., "PK-AUTH-4001")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support, comparing by code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// IsValidation reports whether err is a local field-level validation error.
// Validation errors never reach the network.
func IsValidation(err error) bool {
	var de *DomainError
	if !errors.As(err, &de) {
		return false
	}
	num := de.Code[strings.LastIndex(de.Code, "-")+1:]
	return strings.HasPrefix(num, "400")
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// Authentication errors (AUTH).
var (
	ErrEmailRequired    = NewDomainError("PK-AUTH-4001", "email is required")
	ErrPasswordRequired = NewDomainError("PK-AUTH-4002", "password is required")
	ErrNameRequired     = NewDomainError("PK-AUTH-4003", "name is required")

	// ErrNotAuthenticated is returned by operations that need a user
	// while the session is anonymous.
	ErrNotAuthenticated = NewDomainError("PK-AUTH-4010", "not logged in")
)

// Wallet errors (WLT).
var (
	ErrWalletNameRequired = NewDomainError("PK-WLT-4001", "wallet name is required")
	ErrWalletGoalNegative = NewDomainError("PK-WLT-4002", "wallet goal must not be negative")
	ErrWalletIDInvalid    = NewDomainError("PK-WLT-4003", "invalid wallet id")
	ErrWalletNotFound     = NewDomainError("PK-WLT-4040", "wallet not found")
)

// Transaction errors (TXN).
var (
	ErrTxTitleRequired = NewDomainError("PK-TXN-4001", "transaction title is required")
	ErrTxTypeInvalid   = NewDomainError("PK-TXN-4002", "transaction type must be income or expense")
	ErrTxAmountInvalid = NewDomainError("PK-TXN-4003", "transaction amount must be positive")
	ErrTxDateInvalid   = NewDomainError("PK-TXN-4004", "transaction date must be YYYY-MM-DD")
	ErrTxIDInvalid     = NewDomainError("PK-TXN-4005", "invalid transaction id")
)

// Share errors (SHR).
var (
	ErrShareEmailRequired = NewDomainError("PK-SHR-4001", "recipient email is required")
	ErrSharePermission    = NewDomainError("PK-SHR-4002", "permission must be read or write")
	ErrShareStatusInvalid = NewDomainError("PK-SHR-4003", "share status must be accepted or rejected")
	ErrShareIDInvalid     = NewDomainError("PK-SHR-4004", "invalid share id")
)

// Session errors (SESS).
var (
	// ErrMissingToken indicates a login response without a token.
	ErrMissingToken = NewDomainError("PK-SESS-5001", "login response missing token")

	// ErrEmptyUser indicates a /api/me response that names no user.
	ErrEmptyUser = NewDomainError("PK-SESS-5002", "user response is empty")
)
