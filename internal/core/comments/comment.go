package comments

import (
	"time"
)

// MaxDepth is the deepest level a comment may sit at. Roots are depth 0,
// so a thread holds at most MaxDepth+1 levels.
const MaxDepth = 5

// MaxBatchSize is the largest id list handed to one repository batch call.
// It matches the limit the SQL repositories enforce.
const MaxBatchSize = 1000

// Comment represents a stored comment.
// Replies and Likes are derived from the comment_likes table and the rows
// whose parent is this comment; they are only filled by single-comment reads.
type Comment struct {
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
	ParentID      *string   `json:"parentComment,omitempty" db:"parent_id"`
	ID            string    `json:"id" db:"id"`
	PostID        string    `json:"post" db:"post_id"`
	AuthorID      string    `json:"authorId" db:"author_id"`
	Content       string    `json:"content" db:"content"`
	Replies       []string  `json:"replies"`
	Likes         []string  `json:"likes"`
	Depth         int       `json:"depth" db:"depth"`
	NumberOfLikes int       `json:"numberOfLikes" db:"number_of_likes"`
}

// IsRoot reports whether the comment has no parent.
func (c *Comment) IsRoot() bool {
	return c.ParentID == nil
}

// LikeResult is the outcome of a like toggle.
type LikeResult struct {
	Liked         bool `json:"liked"`
	NumberOfLikes int  `json:"numberOfLikes"`
}

// DeleteResult reports how many comments a delete removed, the target included.
type DeleteResult struct {
	Deleted int `json:"deleted"`
}
