package comments

import (
	"context"
	"errors"
)

var (
	// ErrCommentNotFound indicates the requested comment doesn't exist
	ErrCommentNotFound = errors.New("comment not found")

	// ErrParentNotFound indicates the comment being replied to doesn't exist
	ErrParentNotFound = errors.New("parent comment not found")

	// ErrPostNotFound indicates the post being commented on doesn't exist
	ErrPostNotFound = errors.New("post not found")

	// ErrUserNotFound indicates the user whose comments were requested doesn't exist
	ErrUserNotFound = errors.New("user not found")

	// ErrDepthExceeded indicates a reply to a comment already at MaxDepth
	ErrDepthExceeded = errors.New("maximum comment depth reached")

	// ErrContentTooLong indicates comment content exceeds 10000 graphemes
	ErrContentTooLong = errors.New("comment content exceeds 10000 graphemes")

	// ErrContentEmpty indicates comment content is empty
	ErrContentEmpty = errors.New("comment content is required")

	// ErrInvalidID indicates a path id that is not a UUID
	ErrInvalidID = errors.New("invalid id")

	// ErrUnauthenticated indicates the operation needs a caller identity
	ErrUnauthenticated = errors.New("authentication required")

	// ErrNotAuthorized indicates the caller may not modify this comment
	ErrNotAuthorized = errors.New("not authorized")

	// ErrTimeout indicates the store did not answer in time
	ErrTimeout = errors.New("comment store timed out")
)

// IsNotFound checks if an error is a "not found" error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCommentNotFound) ||
		errors.Is(err, ErrParentNotFound) ||
		errors.Is(err, ErrPostNotFound) ||
		errors.Is(err, ErrUserNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrContentTooLong) ||
		errors.Is(err, ErrContentEmpty)
}

// IsDepthExceeded checks if a reply was rejected for depth
func IsDepthExceeded(err error) bool {
	return errors.Is(err, ErrDepthExceeded)
}

// IsForbidden checks if an error is an authorization failure
func IsForbidden(err error) bool {
	return errors.Is(err, ErrNotAuthorized)
}

// IsTimeout checks if an error is a store timeout
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded)
}
