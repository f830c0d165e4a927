package users

import (
	"context"
	"time"
)

// UserRepository defines the interface for user data persistence
type UserRepository interface {
	// Create inserts a user. Returns ErrUsernameTaken or ErrEmailTaken on conflicts.
	Create(ctx context.Context, user *User) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetByIDs retrieves multiple users in a single batch query.
	// Missing users are not included in the result map (no error for missing users).
	GetByIDs(ctx context.Context, ids []string) (map[string]*User, error)

	// Update persists every mutable field of user, including social links.
	Update(ctx context.Context, user *User) (*User, error)
	Delete(ctx context.Context, id string) error

	// GetProfileStats retrieves aggregated statistics for a user profile.
	GetProfileStats(ctx context.Context, id string) (*ProfileStats, error)

	// Follow records followerID following followeeID. Returns ErrAlreadyFollowing
	// if the edge exists.
	Follow(ctx context.Context, followerID, followeeID string) error
	// Unfollow removes the edge. Returns ErrNotFollowing if it did not exist.
	Unfollow(ctx context.Context, followerID, followeeID string) error
	IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error)

	ListFollowers(ctx context.Context, id string, limit, offset int) ([]*User, error)
	ListFollowing(ctx context.Context, id string, limit, offset int) ([]*User, error)

	// Search matches term case-insensitively against username and full name.
	Search(ctx context.Context, term string, limit, offset int) ([]*User, error)
}

// TokenIssuer signs session tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID string) (string, time.Time, error)
}

// UserService defines the interface for user business logic
type UserService interface {
	Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error)
	Signin(ctx context.Context, req SigninRequest) (*AuthResponse, error)

	// GetProfile retrieves a user's profile with aggregated statistics.
	// viewerID may be empty for anonymous callers.
	GetProfile(ctx context.Context, userID, viewerID string) (*ProfileViewDetailed, error)
	UpdateProfile(ctx context.Context, callerID, userID string, req UpdateProfileRequest) (*User, error)
	DeleteProfile(ctx context.Context, callerID, userID string) error

	SetSocialLink(ctx context.Context, callerID, userID, platform, link string) (*User, error)
	RemoveSocialLink(ctx context.Context, callerID, userID, platform string) (*User, error)

	Follow(ctx context.Context, callerID, userID string) error
	Unfollow(ctx context.Context, callerID, userID string) error
	ListFollowers(ctx context.Context, userID string, page, limit int) (*ListUsersResponse, error)
	ListFollowing(ctx context.Context, userID string, page, limit int) (*ListUsersResponse, error)
	SearchUsers(ctx context.Context, term string, page, limit int) (*ListUsersResponse, error)
}
