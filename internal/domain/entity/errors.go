package entity

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for domain layer operations.
var (
	// ErrNotFound indicates that a requested entity was not found
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidInput indicates that the provided input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownCategory indicates a category outside the fixed category set
	ErrUnknownCategory = errors.New("unknown category")
)

// ValidationError represents a validation error with detailed field information.
// It implements the error interface and provides context about which field failed validation.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// Unwrap marks every validation error as an ErrInvalidInput.
func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// UnknownCategoryError reports a category that is not part of the fixed set.
// It unwraps to ErrUnknownCategory so callers can match with errors.Is.
type UnknownCategoryError struct {
	Category Category
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown category %q", string(e.Category))
}

func (e *UnknownCategoryError) Unwrap() error { return ErrUnknownCategory }

// AnomalyError is returned when a user exceeds the event-rate ceiling
// within the anomaly window. The offending event is rejected before any
// state change; RetryAfter tells the caller when capacity frees up.
type AnomalyError struct {
	UserID     string
	Count      int
	Limit      int
	RetryAfter time.Duration
}

func (e *AnomalyError) Error() string {
	return fmt.Sprintf("anomalous event rate for user %s: %d events exceeds limit %d", e.UserID, e.Count, e.Limit)
}

// IsAnomaly reports whether err is (or wraps) an AnomalyError.
func IsAnomaly(err error) bool {
	var anomalyErr *AnomalyError
	return errors.As(err, &anomalyErr)
}
