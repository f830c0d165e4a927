package comments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"Socialite/internal/core/pagination"
	"Socialite/internal/core/posts"
	"Socialite/internal/core/users"
)

const (
	defaultStoreTimeout = 10 * time.Second
	defaultPageLimit    = 10
)

// commentService implements the Service interface
// Coordinates between repository layer and view model construction
type commentService struct {
	commentRepo Repository           // Comment data access
	postRepo    posts.Repository     // Post lookup and post author checks
	userRepo    users.UserRepository // User lookup for author hydration
	logger      *slog.Logger
	timeout     time.Duration // Bound on every store round trip
}

// NewCommentService creates a new comment service instance.
// A zero storeTimeout uses the 10s default; a nil logger uses slog.Default().
func NewCommentService(
	commentRepo Repository,
	postRepo posts.Repository,
	userRepo users.UserRepository,
	storeTimeout time.Duration,
	logger *slog.Logger,
) Service {
	if logger == nil {
		logger = slog.Default()
	}
	if storeTimeout <= 0 {
		storeTimeout = defaultStoreTimeout
	}
	return &commentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		userRepo:    userRepo,
		logger:      logger,
		timeout:     storeTimeout,
	}
}

// CreateRootComment adds a top-level comment to a post.
func (s *commentService) CreateRootComment(ctx context.Context, postID, authorID, content string) (_ *Comment, err error) {
	defer func() { observe("create_root", err) }()

	if authorID == "" {
		return nil, ErrUnauthenticated
	}
	if err := validateID(postID); err != nil {
		return nil, err
	}
	content, err = normalizeContent(content)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, s.postErr(err)
	}

	comment := &Comment{
		PostID:   postID,
		AuthorID: authorID,
		Content:  content,
		Replies:  []string{},
		Likes:    []string{},
	}
	if err := s.commentRepo.CreateRoot(ctx, comment); err != nil {
		return nil, s.storeErr(err)
	}

	s.logger.Info("comment created",
		"comment_id", comment.ID, "post_id", postID, "author_id", authorID)
	return comment, nil
}

// CreateReply adds a reply beneath parentID. The reply inherits the parent's
// post and sits one level deeper; replies to a comment at MaxDepth are refused.
func (s *commentService) CreateReply(ctx context.Context, parentID, authorID, content string) (_ *Comment, err error) {
	defer func() { observe("create_reply", err) }()

	if authorID == "" {
		return nil, ErrUnauthenticated
	}
	if err := validateID(parentID); err != nil {
		return nil, err
	}
	content, err = normalizeContent(content)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	parent, err := s.commentRepo.GetByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, ErrCommentNotFound) {
			return nil, ErrParentNotFound
		}
		return nil, s.storeErr(err)
	}
	// Checked again under the parent row lock inside CreateReply.
	if parent.Depth >= MaxDepth {
		return nil, ErrDepthExceeded
	}

	reply := &Comment{
		ParentID: &parent.ID,
		PostID:   parent.PostID,
		AuthorID: authorID,
		Content:  content,
		Replies:  []string{},
		Likes:    []string{},
	}
	if err := s.commentRepo.CreateReply(ctx, reply); err != nil {
		return nil, s.storeErr(err)
	}

	s.logger.Info("reply created",
		"comment_id", reply.ID, "parent_id", parentID, "post_id", reply.PostID,
		"depth", reply.Depth, "author_id", authorID)
	return reply, nil
}

// GetCommentTree returns a page of root comments, newest first, each with
// its full reply tree.
func (s *commentService) GetCommentTree(ctx context.Context, postID string, page, limit int) (_ *CommentTreeResponse, err error) {
	defer func() { observe("get_tree", err) }()

	if err := validateID(postID); err != nil {
		return nil, err
	}
	p := pagination.New(page, limit, defaultPageLimit)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, s.postErr(err)
	}

	total, err := s.commentRepo.CountRootsByPost(ctx, postID)
	if err != nil {
		return nil, s.storeErr(err)
	}
	roots, err := s.commentRepo.ListRootsByPost(ctx, postID, p.Limit, p.Offset())
	if err != nil {
		return nil, s.storeErr(err)
	}

	start := time.Now()
	threads, err := s.buildThreadViews(ctx, roots, make(map[string]struct{}))
	if err != nil {
		return nil, s.storeErr(err)
	}
	treeBuildSeconds.Observe(time.Since(start).Seconds())

	return &CommentTreeResponse{
		Comments:    threads,
		TotalRoots:  total,
		TotalPages:  p.TotalPages(total),
		CurrentPage: p.Number,
	}, nil
}

// GetComment returns one comment with its author and direct reply ids.
func (s *commentService) GetComment(ctx context.Context, commentID string) (_ *CommentDetail, err error) {
	defer func() { observe("get", err) }()

	if err := validateID(commentID); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, s.storeErr(err)
	}

	detail := &CommentDetail{Comment: comment, Author: &users.AuthorView{ID: comment.AuthorID}}
	authors, err := s.userRepo.GetByIDs(ctx, []string{comment.AuthorID})
	if err != nil {
		s.logger.Warn("failed to load comment author", "comment_id", commentID, "error", err)
	} else if u, ok := authors[comment.AuthorID]; ok {
		detail.Author = u.AuthorView()
	}
	return detail, nil
}

// GetPostByComment resolves the post a comment belongs to.
func (s *commentService) GetPostByComment(ctx context.Context, commentID string) (_ *posts.Post, err error) {
	defer func() { observe("get_post", err) }()

	if err := validateID(commentID); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, s.storeErr(err)
	}
	post, err := s.postRepo.GetByID(ctx, comment.PostID)
	if err != nil {
		return nil, s.postErr(err)
	}

	authors, err := s.userRepo.GetByIDs(ctx, []string{post.AuthorID})
	if err != nil {
		s.logger.Warn("failed to load post author", "post_id", post.ID, "error", err)
	} else if u, ok := authors[post.AuthorID]; ok {
		post.Author = u.AuthorView()
	}
	return post, nil
}

// UpdateComment replaces the content of the caller's own comment.
func (s *commentService) UpdateComment(ctx context.Context, commentID, callerID, content string) (_ *Comment, err error) {
	defer func() { observe("update", err) }()

	if callerID == "" {
		return nil, ErrUnauthenticated
	}
	if err := validateID(commentID); err != nil {
		return nil, err
	}
	content, err = normalizeContent(content)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	existing, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, s.storeErr(err)
	}
	if existing.AuthorID != callerID {
		return nil, ErrNotAuthorized
	}

	updated, err := s.commentRepo.UpdateContent(ctx, commentID, content)
	if err != nil {
		return nil, s.storeErr(err)
	}
	return updated, nil
}

// DeleteComment removes a comment and every reply beneath it. The comment's
// author and the post's author may delete.
func (s *commentService) DeleteComment(ctx context.Context, commentID, callerID string) (_ *DeleteResult, err error) {
	defer func() { observe("delete", err) }()

	if callerID == "" {
		return nil, ErrUnauthenticated
	}
	if err := validateID(commentID); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, s.storeErr(err)
	}
	if comment.AuthorID != callerID {
		post, err := s.postRepo.GetByID(ctx, comment.PostID)
		if err != nil {
			return nil, s.postErr(err)
		}
		if post.AuthorID != callerID {
			return nil, ErrNotAuthorized
		}
	}

	deleted, err := s.commentRepo.DeleteSubtree(ctx, commentID)
	if err != nil {
		return nil, s.storeErr(err)
	}

	s.logger.Info("comment deleted",
		"comment_id", commentID, "post_id", comment.PostID, "deleted", deleted, "caller_id", callerID)
	return &DeleteResult{Deleted: deleted}, nil
}

// ToggleLike adds the caller's like, or removes it if already present.
func (s *commentService) ToggleLike(ctx context.Context, commentID, userID string) (_ *LikeResult, err error) {
	defer func() { observe("toggle_like", err) }()

	if userID == "" {
		return nil, ErrUnauthenticated
	}
	if err := validateID(commentID); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := s.commentRepo.ToggleLike(ctx, commentID, userID)
	if err != nil {
		return nil, s.storeErr(err)
	}
	return result, nil
}

// GetReplies paginates a comment's direct replies in creation order. Each
// reply on the page carries its full subtree.
func (s *commentService) GetReplies(ctx context.Context, commentID string, page, limit int) (_ *RepliesResponse, err error) {
	defer func() { observe("get_replies", err) }()

	if err := validateID(commentID); err != nil {
		return nil, err
	}
	p := pagination.New(page, limit, defaultPageLimit)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	parent, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, s.storeErr(err)
	}

	total, err := s.commentRepo.CountByParent(ctx, commentID)
	if err != nil {
		return nil, s.storeErr(err)
	}
	children, err := s.commentRepo.ListByParent(ctx, commentID, p.Limit, p.Offset())
	if err != nil {
		return nil, s.storeErr(err)
	}

	seen := map[string]struct{}{parent.ID: {}}
	valid := make([]*Comment, 0, len(children))
	for _, child := range children {
		if reason := checkChild(parent, child, seen); reason != "" {
			s.reportCorruption(parent, child, reason)
			continue
		}
		valid = append(valid, child)
	}

	replies, err := s.buildThreadViews(ctx, valid, seen)
	if err != nil {
		return nil, s.storeErr(err)
	}

	return &RepliesResponse{
		Replies:      replies,
		TotalReplies: total,
		TotalPages:   p.TotalPages(total),
		CurrentPage:  p.Number,
	}, nil
}

// GetActorComments lists a user's comments newest first, without replies.
func (s *commentService) GetActorComments(ctx context.Context, userID string, page, limit int) (_ *ActorCommentsResponse, err error) {
	defer func() { observe("get_actor_comments", err) }()

	if err := validateID(userID); err != nil {
		return nil, err
	}
	p := pagination.New(page, limit, defaultPageLimit)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if users.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, s.storeErr(err)
	}

	found, err := s.commentRepo.ListByAuthor(ctx, userID, p.Limit+1, p.Offset())
	if err != nil {
		return nil, s.storeErr(err)
	}
	next := p.Next(len(found))
	if len(found) > p.Limit {
		found = found[:p.Limit]
	}

	level, err := s.loadLevel(ctx, found, false)
	if err != nil {
		return nil, s.storeErr(err)
	}
	views := make([]*CommentView, 0, len(found))
	for _, c := range found {
		views = append(views, buildCommentView(c, level))
	}
	return &ActorCommentsResponse{Comments: views, NextPage: next}, nil
}

// postErr maps a post lookup failure into this package's errors.
func (s *commentService) postErr(err error) error {
	if posts.IsNotFound(err) {
		return ErrPostNotFound
	}
	return s.storeErr(err)
}

func (s *commentService) storeErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return err
}

func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidID
	}
	return nil
}
