package users

import (
	"time"
)

// User is a registered account.
// PasswordHash is never serialized.
type User struct {
	CreatedAt    time.Time         `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time         `json:"updatedAt" db:"updated_at"`
	SocialLinks  map[string]string `json:"socialLinks" db:"social_links"`
	ID           string            `json:"id" db:"id"`
	Username     string            `json:"username" db:"username"`
	Email        string            `json:"email" db:"email"`
	PasswordHash string            `json:"-" db:"password_hash"`
	FullName     string            `json:"fullName" db:"full_name"`
	Bio          string            `json:"bio" db:"bio"`
	AvatarURL    string            `json:"avatarUrl" db:"avatar_url"`
}

// AuthorView is the public subset of a user embedded in posts and comments.
type AuthorView struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FullName  string `json:"fullName,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// AuthorView returns the public author projection of u.
func (u *User) AuthorView() *AuthorView {
	return &AuthorView{
		ID:        u.ID,
		Username:  u.Username,
		FullName:  u.FullName,
		AvatarURL: u.AvatarURL,
	}
}

// SignupRequest is the input for creating an account.
type SignupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50,alphanum"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// SigninRequest is the input for signing in.
type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by signup and signin.
type AuthResponse struct {
	ExpiresAt time.Time `json:"expiresAt"`
	User      *User     `json:"user"`
	Token     string    `json:"token"`
}

// UpdateProfileRequest carries the profile fields to change. Nil fields are left as-is.
type UpdateProfileRequest struct {
	Username  *string `json:"username,omitempty" validate:"omitempty,min=3,max=20,alphanum,lowercase"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	Password  *string `json:"password,omitempty" validate:"omitempty,min=6,max=72"`
	FullName  *string `json:"fullName,omitempty" validate:"omitempty,max=100"`
	Bio       *string `json:"bio,omitempty" validate:"omitempty,max=250"`
	AvatarURL *string `json:"avatarUrl,omitempty" validate:"omitempty,url"`
}

// SupportedSocialPlatforms lists the keys accepted in User.SocialLinks.
var SupportedSocialPlatforms = []string{
	"instagram", "twitter", "facebook", "linkedin", "github", "youtube", "tiktok", "website",
}

// ProfileStats contains aggregated user statistics.
type ProfileStats struct {
	PostCount      int `json:"postCount"`
	CommentCount   int `json:"commentCount"`
	FollowerCount  int `json:"followerCount"`
	FollowingCount int `json:"followingCount"`
}

// ViewerState describes the caller's relationship to a profile.
type ViewerState struct {
	Following bool `json:"following"`
}

// ProfileViewDetailed is the full profile response.
type ProfileViewDetailed struct {
	*User
	Stats  *ProfileStats `json:"stats,omitempty"`
	Viewer *ViewerState  `json:"viewer,omitempty"`
}

// ListUsersResponse is a page of users.
type ListUsersResponse struct {
	NextPage *int          `json:"nextPage"`
	Users    []*AuthorView `json:"users"`
}
