package posts

import (
	"time"

	"Socialite/internal/core/users"
)

// Post represents a post in the database.
// NumberOfComments counts every comment on the post, replies included.
type Post struct {
	CreatedAt        time.Time         `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time         `json:"updatedAt" db:"updated_at"`
	Author           *users.AuthorView `json:"author,omitempty"`
	Viewer           *ViewerState      `json:"viewer,omitempty"`
	ID               string            `json:"id" db:"id"`
	AuthorID         string            `json:"authorId" db:"author_id"`
	Caption          string            `json:"caption" db:"caption"`
	Location         string            `json:"location,omitempty" db:"location"`
	ImageURL         string            `json:"imageUrl,omitempty" db:"image_url"`
	Tags             []string          `json:"tags" db:"tags"`
	NumberOfLikes    int               `json:"numberOfLikes" db:"number_of_likes"`
	NumberOfComments int               `json:"numberOfComments" db:"number_of_comments"`
}

// ViewerState is the caller's relationship to a post.
type ViewerState struct {
	Liked bool `json:"liked"`
	Saved bool `json:"saved"`
}

// CreatePostRequest represents input for creating a new post
type CreatePostRequest struct {
	Caption  string   `json:"caption"`
	Location string   `json:"location,omitempty" validate:"max=200"`
	ImageURL string   `json:"imageUrl,omitempty" validate:"omitempty,url"`
	Tags     []string `json:"tags,omitempty" validate:"max=30"`
}

// UpdatePostRequest carries the fields to change. Nil fields are left as-is.
type UpdatePostRequest struct {
	Caption  *string   `json:"caption,omitempty"`
	Location *string   `json:"location,omitempty" validate:"omitempty,max=200"`
	ImageURL *string   `json:"imageUrl,omitempty" validate:"omitempty,url"`
	Tags     *[]string `json:"tags,omitempty" validate:"omitempty,max=30"`
}

// Sort orders for ListPosts.
const (
	OrderDesc = "desc"
	OrderAsc  = "asc"
)

// ListPostsRequest filters the public post listing.
type ListPostsRequest struct {
	Order      string
	UserID     string
	PostID     string
	SearchTerm string
	StartIndex int
	Limit      int
}

// ListPostsResponse is a window of posts with a continuation flag.
type ListPostsResponse struct {
	Posts   []*Post `json:"posts"`
	HasMore bool    `json:"hasMore"`
}

// PagedPostsResponse is a page of posts for per-user listings.
type PagedPostsResponse struct {
	NextPage *int    `json:"nextPage"`
	Posts    []*Post `json:"posts"`
}

// LikeResult is the outcome of a like toggle.
type LikeResult struct {
	Liked         bool `json:"liked"`
	NumberOfLikes int  `json:"numberOfLikes"`
}

// ListFilter is the repository-level form of ListPostsRequest.
type ListFilter struct {
	AuthorID   string
	PostID     string
	SearchTerm string
	Ascending  bool
	Limit      int
	Offset     int
}
