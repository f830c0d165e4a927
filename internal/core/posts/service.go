package posts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"Socialite/internal/core/pagination"
	"Socialite/internal/core/textutil"
	"Socialite/internal/core/users"
	"Socialite/internal/core/validation"
)

const (
	// MaxCaptionLength is the caption limit in grapheme clusters
	MaxCaptionLength = 2200
	maxTagLength     = 50

	defaultStoreTimeout = 10 * time.Second
	defaultListLimit    = 9
	defaultPageLimit    = 10
)

type postService struct {
	repo     Repository
	userRepo users.UserRepository
	logger   *slog.Logger
	timeout  time.Duration
}

// NewPostService creates a new post service.
// A zero storeTimeout uses the 10s default; a nil logger uses slog.Default().
func NewPostService(repo Repository, userRepo users.UserRepository, storeTimeout time.Duration, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	if storeTimeout <= 0 {
		storeTimeout = defaultStoreTimeout
	}
	return &postService{
		repo:     repo,
		userRepo: userRepo,
		logger:   logger,
		timeout:  storeTimeout,
	}
}

// CreatePost validates and stores a new post authored by authorID.
func (s *postService) CreatePost(ctx context.Context, authorID string, req CreatePostRequest) (*Post, error) {
	if authorID == "" {
		return nil, ErrNotAuthorized
	}

	caption, err := normalizeCaption(req.Caption)
	if err != nil {
		return nil, err
	}
	req.Location = textutil.Sanitize(req.Location)
	req.ImageURL = strings.TrimSpace(req.ImageURL)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	tags, err := normalizeTags(req.Tags)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	author, err := s.userRepo.GetByID(ctx, authorID)
	if err != nil {
		return nil, s.storeErr(s.mapUserErr(err, authorID))
	}

	post := &Post{
		AuthorID: authorID,
		Caption:  caption,
		Location: req.Location,
		ImageURL: req.ImageURL,
		Tags:     tags,
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, s.storeErr(err)
	}
	post.Author = author.AuthorView()

	s.logger.Info("post created", "post_id", post.ID, "author_id", authorID)
	return post, nil
}

// ListPosts returns a window of posts matching req, newest first unless
// Order is "asc". HasMore reports whether posts remain past the window.
func (s *postService) ListPosts(ctx context.Context, req ListPostsRequest) (*ListPostsResponse, error) {
	filter, err := buildListFilter(req)
	if err != nil {
		return nil, err
	}
	limit := filter.Limit
	filter.Limit = limit + 1

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	found, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, s.storeErr(err)
	}

	resp := &ListPostsResponse{HasMore: len(found) > limit}
	if resp.HasMore {
		found = found[:limit]
	}
	s.hydrateAuthors(ctx, found)
	resp.Posts = found
	return resp, nil
}

func buildListFilter(req ListPostsRequest) (ListFilter, error) {
	filter := ListFilter{
		SearchTerm: strings.TrimSpace(req.SearchTerm),
		Offset:     req.StartIndex,
		Limit:      req.Limit,
	}

	switch strings.ToLower(req.Order) {
	case "", OrderDesc:
	case OrderAsc:
		filter.Ascending = true
	default:
		return ListFilter{}, NewValidationError("order", "must be one of: asc, desc")
	}

	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > pagination.MaxLimit {
		filter.Limit = pagination.MaxLimit
	}

	if req.UserID != "" {
		if _, err := uuid.Parse(req.UserID); err != nil {
			return ListFilter{}, NewValidationError("userId", "must be a valid id")
		}
		filter.AuthorID = req.UserID
	}
	if req.PostID != "" {
		if _, err := uuid.Parse(req.PostID); err != nil {
			return ListFilter{}, NewValidationError("postId", "must be a valid id")
		}
		filter.PostID = req.PostID
	}
	return filter, nil
}

// GetPost retrieves a post with its author. viewerID may be empty.
func (s *postService) GetPost(ctx context.Context, postID, viewerID string) (*Post, error) {
	if err := validatePostID(postID); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	post, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return nil, s.storeErr(err)
	}
	s.hydrateAuthors(ctx, []*Post{post})

	if viewerID != "" {
		states, err := s.repo.GetViewerState(ctx, viewerID, []string{post.ID})
		if err != nil {
			s.logger.Warn("failed to load viewer state", "post_id", post.ID, "viewer_id", viewerID, "error", err)
		} else {
			post.Viewer = states[post.ID]
		}
	}
	return post, nil
}

// UpdatePost applies the non-nil fields of req. Author only.
func (s *postService) UpdatePost(ctx context.Context, callerID, postID string, req UpdatePostRequest) (*Post, error) {
	if err := validatePostID(postID); err != nil {
		return nil, err
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	post, err := s.authorize(ctx, callerID, postID)
	if err != nil {
		return nil, err
	}

	if req.Caption != nil {
		caption, err := normalizeCaption(*req.Caption)
		if err != nil {
			return nil, err
		}
		post.Caption = caption
	}
	if req.Location != nil {
		post.Location = textutil.Sanitize(*req.Location)
	}
	if req.ImageURL != nil {
		post.ImageURL = strings.TrimSpace(*req.ImageURL)
	}
	if req.Tags != nil {
		tags, err := normalizeTags(*req.Tags)
		if err != nil {
			return nil, err
		}
		post.Tags = tags
	}

	if err := s.repo.Update(ctx, post); err != nil {
		return nil, s.storeErr(err)
	}
	s.hydrateAuthors(ctx, []*Post{post})
	return post, nil
}

// DeletePost removes a post. Author only.
func (s *postService) DeletePost(ctx context.Context, callerID, postID string) error {
	if err := validatePostID(postID); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.authorize(ctx, callerID, postID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, postID); err != nil {
		return s.storeErr(err)
	}

	s.logger.Info("post deleted", "post_id", postID, "author_id", callerID)
	return nil
}

// ToggleLike flips the caller's like on a post.
func (s *postService) ToggleLike(ctx context.Context, callerID, postID string) (*LikeResult, error) {
	if callerID == "" {
		return nil, ErrNotAuthorized
	}
	if err := validatePostID(postID); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := s.repo.ToggleLike(ctx, postID, callerID)
	if err != nil {
		return nil, s.storeErr(err)
	}
	return result, nil
}

// SavePost bookmarks a post for the caller.
func (s *postService) SavePost(ctx context.Context, callerID, postID string) error {
	return s.setSaved(ctx, callerID, postID, s.repo.Save)
}

// UnsavePost removes the caller's bookmark.
func (s *postService) UnsavePost(ctx context.Context, callerID, postID string) error {
	return s.setSaved(ctx, callerID, postID, s.repo.Unsave)
}

func (s *postService) setSaved(ctx context.Context, callerID, postID string, apply func(ctx context.Context, userID, postID string) error) error {
	if callerID == "" {
		return ErrNotAuthorized
	}
	if err := validatePostID(postID); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.repo.GetByID(ctx, postID); err != nil {
		return s.storeErr(err)
	}
	if err := apply(ctx, callerID, postID); err != nil {
		return s.storeErr(err)
	}
	return nil
}

// ListSaved returns a page of the posts userID saved.
func (s *postService) ListSaved(ctx context.Context, userID string, page, limit int) (*PagedPostsResponse, error) {
	return s.listForUser(ctx, userID, page, limit, s.repo.ListSavedBy)
}

// ListLiked returns a page of the posts userID liked.
func (s *postService) ListLiked(ctx context.Context, userID string, page, limit int) (*PagedPostsResponse, error) {
	return s.listForUser(ctx, userID, page, limit, s.repo.ListLikedBy)
}

// ListByAuthor returns a page of the posts userID wrote.
func (s *postService) ListByAuthor(ctx context.Context, userID string, page, limit int) (*PagedPostsResponse, error) {
	return s.listForUser(ctx, userID, page, limit, s.repo.ListByAuthor)
}

func (s *postService) listForUser(
	ctx context.Context,
	userID string,
	page, limit int,
	list func(ctx context.Context, userID string, limit, offset int) ([]*Post, error),
) (*PagedPostsResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, NewValidationError("userId", "must be a valid id")
	}
	p := pagination.New(page, limit, defaultPageLimit)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, s.storeErr(s.mapUserErr(err, userID))
	}

	found, err := list(ctx, userID, p.Limit+1, p.Offset())
	if err != nil {
		return nil, s.storeErr(err)
	}

	next := p.Next(len(found))
	if len(found) > p.Limit {
		found = found[:p.Limit]
	}
	s.hydrateAuthors(ctx, found)
	return &PagedPostsResponse{Posts: found, NextPage: next}, nil
}

// authorize loads the post and checks that callerID wrote it.
func (s *postService) authorize(ctx context.Context, callerID, postID string) (*Post, error) {
	if callerID == "" {
		return nil, ErrNotAuthorized
	}
	post, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return nil, s.storeErr(err)
	}
	if post.AuthorID != callerID {
		return nil, ErrNotAuthorized
	}
	return post, nil
}

// hydrateAuthors resolves authors in one batch. Missing authors are logged
// and left nil rather than failing the listing.
func (s *postService) hydrateAuthors(ctx context.Context, list []*Post) {
	if len(list) == 0 {
		return
	}

	ids := make([]string, 0, len(list))
	seen := make(map[string]struct{}, len(list))
	for _, p := range list {
		if _, ok := seen[p.AuthorID]; ok {
			continue
		}
		seen[p.AuthorID] = struct{}{}
		ids = append(ids, p.AuthorID)
	}

	authors, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		s.logger.Warn("failed to load post authors", "count", len(ids), "error", err)
		return
	}
	for _, p := range list {
		if u, ok := authors[p.AuthorID]; ok {
			p.Author = u.AuthorView()
		}
	}
}

func (s *postService) mapUserErr(err error, userID string) error {
	if users.IsNotFound(err) {
		return NewNotFoundError("user", userID)
	}
	return err
}

func (s *postService) storeErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return err
}

func validatePostID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return NewValidationError("postId", "must be a valid id")
	}
	return nil
}

func normalizeCaption(raw string) (string, error) {
	caption := textutil.Sanitize(raw)
	if caption == "" {
		return "", NewValidationError("caption", "is required")
	}
	if textutil.Length(caption) > MaxCaptionLength {
		return "", NewValidationError("caption", fmt.Sprintf("must be at most %d characters", MaxCaptionLength))
	}
	return caption, nil
}

// normalizeTags trims, strips a leading '#', drops blanks and duplicates
// while keeping first-seen order.
func normalizeTags(raw []string) ([]string, error) {
	tags := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, t := range raw {
		t = strings.TrimPrefix(textutil.Sanitize(t), "#")
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if textutil.Length(t) > maxTagLength {
			return nil, NewValidationError("tags", fmt.Sprintf("each tag must be at most %d characters", maxTagLength))
		}
		key := strings.ToLower(t)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		tags = append(tags, t)
	}
	return tags, nil
}
