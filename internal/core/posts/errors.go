package posts

import (
	"context"
	"errors"
	"fmt"

	"Socialite/internal/core/validation"
)

// Sentinel errors for common post operations
var (
	// ErrNotFound is returned when a post is not found by ID
	ErrNotFound = errors.New("post not found")

	// ErrNotAuthorized is returned when a caller edits or deletes another user's post
	ErrNotAuthorized = errors.New("not authorized to modify this post")

	// ErrInvalidContent is returned for general content violations
	ErrInvalidContent = errors.New("invalid post content")

	// ErrTimeout is returned when the store does not answer in time
	ErrTimeout = errors.New("post store timed out")
)

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string // e.g., "post", "user"
	ID       string // Resource identifier
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource, id string) error {
	return &NotFoundError{
		Resource: resource,
		ID:       id,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) error {
	return validation.New(field, message)
}

// IsValidationError checks if error is a validation error
func IsValidationError(err error) bool {
	return validation.IsValidationError(err) || errors.Is(err, ErrInvalidContent)
}

// IsNotFound checks if error is a not found error
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr) || errors.Is(err, ErrNotFound)
}

// IsForbidden checks if error is an authorization failure
func IsForbidden(err error) bool {
	return errors.Is(err, ErrNotAuthorized)
}

// IsTimeout checks if error is a store timeout
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded)
}
