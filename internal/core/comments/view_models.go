package comments

import (
	"time"

	"Socialite/internal/core/users"
)

// CommentView is a comment with its author resolved and its replies
// materialized in creation order.
// Truncated marks a node whose stored subtree could not be expanded safely.
type CommentView struct {
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
	Author        *users.AuthorView `json:"author"`
	ParentID      *string           `json:"parentComment,omitempty"`
	ID            string            `json:"id"`
	PostID        string            `json:"post"`
	Content       string            `json:"content"`
	Likes         []string          `json:"likes"`
	Replies       []*CommentView    `json:"replies"`
	Depth         int               `json:"depth"`
	NumberOfLikes int               `json:"numberOfLikes"`
	Truncated     bool              `json:"truncated,omitempty"`
}

// CommentDetail is a single comment with its author resolved; Replies
// stays a list of ids.
type CommentDetail struct {
	*Comment
	Author *users.AuthorView `json:"author"`
}

// CommentTreeResponse is one page of a post's root comments.
type CommentTreeResponse struct {
	Comments    []*CommentView `json:"comments"`
	TotalRoots  int            `json:"totalRoots"`
	TotalPages  int            `json:"totalPages"`
	CurrentPage int            `json:"currentPage"`
}

// RepliesResponse is one page of a comment's immediate replies.
type RepliesResponse struct {
	Replies      []*CommentView `json:"replies"`
	TotalReplies int            `json:"totalReplies"`
	TotalPages   int            `json:"totalPages"`
	CurrentPage  int            `json:"currentPage"`
}

// ActorCommentsResponse is a page of one user's comments.
type ActorCommentsResponse struct {
	NextPage *int           `json:"nextPage"`
	Comments []*CommentView `json:"comments"`
}
