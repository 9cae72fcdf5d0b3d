// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrStoreUnavailable indicates a transient backend failure.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// ValidationError reports a blank or malformed input field. It is never
// retried; the caller fixes the input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// NewValidationError creates a field-specific validation error.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// ConflictAxis identifies which alias uniqueness axis collided.
type ConflictAxis string

// Alias uniqueness axes.
const (
	// ConflictAxisOCRMerchant means the raw merchant string is already aliased.
	ConflictAxisOCRMerchant ConflictAxis = "ocr_merchant"
	// ConflictAxisUserAlias means the alias display name is already in use.
	ConflictAxisUserAlias ConflictAxis = "user_alias"
)

// ConflictError reports an alias uniqueness violation. The caller is expected
// to prompt the user rather than retry.
type ConflictError struct {
	Axis  ConflictAxis
	Value string
}

func (e *ConflictError) Error() string {
	switch e.Axis {
	case ConflictAxisOCRMerchant:
		return fmt.Sprintf("merchant %q is already aliased", e.Value)
	case ConflictAxisUserAlias:
		return fmt.Sprintf("alias name %q is already used", e.Value)
	}
	return fmt.Sprintf("alias conflict on %q", e.Value)
}

// StoreUnavailableError wraps a transient backend failure with the operation
// that hit it. Read paths degrade on it; write paths surface it.
type StoreUnavailableError struct {
	Err error
	Op  string
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("%s: store unavailable: %v", e.Op, e.Err)
}

func (e *StoreUnavailableError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrStoreUnavailable) match wrapped store failures.
func (e *StoreUnavailableError) Is(target error) bool {
	return target == ErrStoreUnavailable
}
