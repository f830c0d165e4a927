package posts

import "context"

// Service defines the business logic interface for posts
type Service interface {
	CreatePost(ctx context.Context, authorID string, req CreatePostRequest) (*Post, error)
	ListPosts(ctx context.Context, req ListPostsRequest) (*ListPostsResponse, error)
	GetPost(ctx context.Context, postID, viewerID string) (*Post, error)
	UpdatePost(ctx context.Context, callerID, postID string, req UpdatePostRequest) (*Post, error)

	// DeletePost removes a post with its likes, saves and comments. Author only.
	DeletePost(ctx context.Context, callerID, postID string) error

	ToggleLike(ctx context.Context, callerID, postID string) (*LikeResult, error)

	// SavePost and UnsavePost are idempotent.
	SavePost(ctx context.Context, callerID, postID string) error
	UnsavePost(ctx context.Context, callerID, postID string) error

	ListSaved(ctx context.Context, userID string, page, limit int) (*PagedPostsResponse, error)
	ListLiked(ctx context.Context, userID string, page, limit int) (*PagedPostsResponse, error)
	ListByAuthor(ctx context.Context, userID string, page, limit int) (*PagedPostsResponse, error)
}

// Repository defines the data access interface for posts
type Repository interface {
	// Create inserts a new post and fills in its ID and timestamps
	Create(ctx context.Context, post *Post) error

	// GetByID retrieves a post. Returns ErrNotFound if absent.
	GetByID(ctx context.Context, id string) (*Post, error)

	// Update persists caption, location, image and tags
	Update(ctx context.Context, post *Post) error
	Delete(ctx context.Context, id string) error

	List(ctx context.Context, filter ListFilter) ([]*Post, error)

	// ToggleLike adds or removes userID's like and adjusts the counter in one transaction
	ToggleLike(ctx context.Context, postID, userID string) (*LikeResult, error)

	Save(ctx context.Context, userID, postID string) error
	Unsave(ctx context.Context, userID, postID string) error

	// GetViewerState reports whether viewerID liked or saved each post
	GetViewerState(ctx context.Context, viewerID string, postIDs []string) (map[string]*ViewerState, error)

	ListSavedBy(ctx context.Context, userID string, limit, offset int) ([]*Post, error)
	ListLikedBy(ctx context.Context, userID string, limit, offset int) ([]*Post, error)
	ListByAuthor(ctx context.Context, authorID string, limit, offset int) ([]*Post, error)
}
