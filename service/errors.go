package service

import "fmt"

// ValidationError signals a caller-supplied value that was rejected before any
// state mutation
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// NewValidationError creates a validation error for a named input
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NotFoundError signals an operation against a record that does not exist
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.Key)
}

// NewNotFoundError creates a not-found error for a keyed resource
func NewNotFoundError(resource, key string) *NotFoundError {
	return &NotFoundError{Resource: resource, Key: key}
}

// ErrFeatureDisabled is returned when a guild-gated feature is not configured
// for the guild the request came from
var ErrFeatureDisabled = fmt.Errorf("feature is not enabled for this guild")

// ErrRateLimited is returned when a per-user request budget is exhausted
var ErrRateLimited = fmt.Errorf("rate limit exceeded")

// ErrAlreadyTracked is returned when a YouTube channel is already tracked for a guild
var ErrAlreadyTracked = fmt.Errorf("channel is already being tracked")
