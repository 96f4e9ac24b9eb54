package models

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors shared by every service
var (
	// ErrNotFound is returned when a record does not exist
	ErrNotFound = errors.New("record not found")

	// ErrInvalidStatus is returned when a status is outside the allowed set
	ErrInvalidStatus = errors.New("invalid status")
)

// NotFoundError names the missing resource
type NotFoundError struct {
	Resource string // e.g. "post", "review"
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource string, id interface{}) error {
	return &NotFoundError{
		Resource: resource,
		ID:       fmt.Sprint(id),
	}
}

// IsNotFound checks if err is, or wraps, a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// InvalidStatusError carries the rejected value and what would have been accepted
type InvalidStatusError struct {
	Status  string
	Allowed []Status
}

func (e *InvalidStatusError) Error() string {
	allowed := make([]string, len(e.Allowed))
	for i, s := range e.Allowed {
		allowed[i] = string(s)
	}
	return fmt.Sprintf("invalid status %q: only %s are allowed", e.Status, strings.Join(allowed, " or "))
}

func (e *InvalidStatusError) Unwrap() error {
	return ErrInvalidStatus
}

// NewInvalidStatusError creates a new invalid status error
func NewInvalidStatusError(status string, allowed []Status) error {
	return &InvalidStatusError{
		Status:  status,
		Allowed: allowed,
	}
}

// IsInvalidStatus checks if err is, or wraps, an invalid status error
func IsInvalidStatus(err error) bool {
	return errors.Is(err, ErrInvalidStatus)
}

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error (%s): %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) error {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// IsValidationError checks if err is a validation error
func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}
