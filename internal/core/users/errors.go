package users

import (
	"context"
	"errors"

	"Socialite/internal/core/validation"
)

// Sentinel errors for common user operations
var (
	// ErrUserNotFound is returned when a user lookup finds no matching record
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameTaken is returned when a username belongs to another user
	ErrUsernameTaken = errors.New("username already taken")

	// ErrEmailTaken is returned when an email belongs to another user
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials is returned when the password does not match
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotAuthorized is returned when a caller modifies another user's account
	ErrNotAuthorized = errors.New("not authorized to modify this user")

	ErrCannotFollowSelf = errors.New("you cannot follow yourself")
	ErrAlreadyFollowing = errors.New("already following this user")
	ErrNotFollowing     = errors.New("not following this user")

	// ErrInvalidUserID is returned for ids that are not UUIDs
	ErrInvalidUserID = errors.New("invalid user id")

	// ErrTimeout is returned when the store does not answer in time
	ErrTimeout = errors.New("user store timed out")
)

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}

// IsConflict checks if an error is a uniqueness conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrUsernameTaken) || errors.Is(err, ErrEmailTaken)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return validation.IsValidationError(err) ||
		errors.Is(err, ErrInvalidUserID) ||
		errors.Is(err, ErrCannotFollowSelf) ||
		errors.Is(err, ErrAlreadyFollowing) ||
		errors.Is(err, ErrNotFollowing)
}

// IsTimeout checks if an error is a store timeout
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded)
}
