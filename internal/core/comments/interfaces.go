package comments

import (
	"context"

	"Socialite/internal/core/posts"
)

// Repository defines the data access interface for comments.
// Every write keeps posts.number_of_comments and comments.number_of_likes
// consistent inside the same transaction as the row change.
type Repository interface {
	// CreateRoot inserts a depth-0 comment and increments the post's comment
	// count. Fills ID and timestamps. Returns ErrPostNotFound if the post is gone.
	CreateRoot(ctx context.Context, comment *Comment) error

	// CreateReply inserts a reply under comment.ParentID with the parent row
	// locked. PostID and Depth are taken from the parent. Returns
	// ErrParentNotFound or ErrDepthExceeded without writing anything.
	CreateReply(ctx context.Context, comment *Comment) error

	// GetByID returns a comment with its reply ids and liker ids filled in
	GetByID(ctx context.Context, id string) (*Comment, error)

	// UpdateContent replaces the content and bumps updated_at
	UpdateContent(ctx context.Context, id, content string) (*Comment, error)

	// DeleteSubtree removes the comment and all its descendants, decrements
	// the post's comment count by the number removed, and returns that number.
	DeleteSubtree(ctx context.Context, id string) (int, error)

	// ToggleLike adds userID to the comment's likes, or removes it if present.
	ToggleLike(ctx context.Context, commentID, userID string) (*LikeResult, error)

	// ListRootsByPost returns root comments newest first
	ListRootsByPost(ctx context.Context, postID string, limit, offset int) ([]*Comment, error)
	CountRootsByPost(ctx context.Context, postID string) (int, error)

	// ListByParent returns direct replies in creation order
	ListByParent(ctx context.Context, parentID string, limit, offset int) ([]*Comment, error)
	CountByParent(ctx context.Context, parentID string) (int, error)

	// ListByParentsBatch returns the direct replies of each parent in creation
	// order, keyed by parent id. Parents without replies are absent.
	ListByParentsBatch(ctx context.Context, parentIDs []string) (map[string][]*Comment, error)

	// GetLikesBatch returns the liker ids of each comment, keyed by comment id
	GetLikesBatch(ctx context.Context, commentIDs []string) (map[string][]string, error)

	// ListByAuthor returns a user's comments newest first
	ListByAuthor(ctx context.Context, authorID string, limit, offset int) ([]*Comment, error)
}

// Service defines the business logic interface for comment trees
type Service interface {
	CreateRootComment(ctx context.Context, postID, authorID, content string) (*Comment, error)
	CreateReply(ctx context.Context, parentID, authorID, content string) (*Comment, error)

	// GetCommentTree returns a page of a post's root comments with every
	// descendant materialized.
	GetCommentTree(ctx context.Context, postID string, page, limit int) (*CommentTreeResponse, error)
	GetComment(ctx context.Context, commentID string) (*CommentDetail, error)
	GetPostByComment(ctx context.Context, commentID string) (*posts.Post, error)

	UpdateComment(ctx context.Context, commentID, callerID, content string) (*Comment, error)
	DeleteComment(ctx context.Context, commentID, callerID string) (*DeleteResult, error)
	ToggleLike(ctx context.Context, commentID, userID string) (*LikeResult, error)

	// GetReplies paginates the immediate children of a comment, each fully materialized.
	GetReplies(ctx context.Context, commentID string, page, limit int) (*RepliesResponse, error)
	GetActorComments(ctx context.Context, userID string, page, limit int) (*ActorCommentsResponse, error)
}
