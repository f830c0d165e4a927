package comments

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"golang.org/x/sync/errgroup"

	"Socialite/internal/core/users"
)

// levelData is everything needed to render one level of a thread.
type levelData struct {
	children map[string][]*Comment
	authors  map[string]*users.User
	likes    map[string][]string
}

// buildThreadViews constructs threaded comment views with nested replies using batch loading.
// Each level costs one replies query, one author query and one likes query,
// issued concurrently. Recursion stops at MaxDepth: a node there that still
// has replies, or a reply whose depth is not its parent's plus one, is
// reported and marked Truncated instead of being followed.
func (s *commentService) buildThreadViews(
	ctx context.Context,
	comments []*Comment,
	seen map[string]struct{},
) ([]*CommentView, error) {
	// Always return an empty slice, never nil (important for JSON serialization)
	result := make([]*CommentView, 0, len(comments))
	if len(comments) == 0 {
		return result, nil
	}

	for _, c := range comments {
		seen[c.ID] = struct{}{}
	}

	level, err := s.loadLevel(ctx, comments, true)
	if err != nil {
		return nil, err
	}

	viewsByID := make(map[string]*CommentView, len(comments))
	next := make([]*Comment, 0)

	for _, c := range comments {
		view := buildCommentView(c, level)
		result = append(result, view)
		viewsByID[c.ID] = view

		children := level.children[c.ID]
		if len(children) == 0 {
			continue
		}
		if c.Depth >= MaxDepth {
			s.reportCorruption(c, children[0], corruptionTooDeep)
			view.Truncated = true
			continue
		}
		for _, child := range children {
			if reason := checkChild(c, child, seen); reason != "" {
				s.reportCorruption(c, child, reason)
				view.Truncated = true
				continue
			}
			next = append(next, child)
		}
	}

	childViews, err := s.buildThreadViews(ctx, next, seen)
	if err != nil {
		return nil, err
	}
	// childViews follow the order of next: parent by parent, each parent's
	// replies in creation order.
	for _, cv := range childViews {
		parent := viewsByID[*cv.ParentID]
		parent.Replies = append(parent.Replies, cv)
	}

	return result, nil
}

// loadLevel fetches replies, authors and likes for one level in parallel,
// splitting the level into MaxBatchSize chunks.
// Author and like failures degrade the view; a replies failure fails the call.
func (s *commentService) loadLevel(ctx context.Context, comments []*Comment, withChildren bool) (*levelData, error) {
	data := &levelData{
		children: map[string][]*Comment{},
		authors:  map[string]*users.User{},
		likes:    map[string][]string{},
	}
	if len(comments) == 0 {
		return data, nil
	}

	ids := make([]string, 0, len(comments))
	authorIDs := make([]string, 0, len(comments))
	seenAuthors := make(map[string]bool)
	for _, c := range comments {
		ids = append(ids, c.ID)
		if !seenAuthors[c.AuthorID] {
			seenAuthors[c.AuthorID] = true
			authorIDs = append(authorIDs, c.AuthorID)
		}
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)

	for _, chunk := range chunkIDs(ids, MaxBatchSize) {
		chunk := chunk
		if withChildren {
			g.Go(func() error {
				children, err := s.commentRepo.ListByParentsBatch(gctx, chunk)
				if err != nil {
					return fmt.Errorf("failed to load replies: %w", err)
				}
				mu.Lock()
				maps.Copy(data.children, children)
				mu.Unlock()
				return nil
			})
		}

		g.Go(func() error {
			likes, err := s.commentRepo.GetLikesBatch(gctx, chunk)
			if err != nil {
				s.logger.Warn("failed to batch fetch comment likes", "count", len(chunk), "error", err)
				return nil
			}
			mu.Lock()
			maps.Copy(data.likes, likes)
			mu.Unlock()
			return nil
		})
	}

	for _, chunk := range chunkIDs(authorIDs, MaxBatchSize) {
		chunk := chunk
		g.Go(func() error {
			authors, err := s.userRepo.GetByIDs(gctx, chunk)
			if err != nil {
				s.logger.Warn("failed to batch fetch comment authors", "count", len(chunk), "error", err)
				return nil
			}
			mu.Lock()
			maps.Copy(data.authors, authors)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return data, nil
}

// chunkIDs splits ids into consecutive slices of at most size elements.
func chunkIDs(ids []string, size int) [][]string {
	chunks := make([][]string, 0, (len(ids)+size-1)/size)
	for len(ids) > size {
		chunks = append(chunks, ids[:size:size])
		ids = ids[size:]
	}
	if len(ids) > 0 {
		chunks = append(chunks, ids)
	}
	return chunks
}

// buildCommentView converts a Comment to a CommentView using preloaded level data.
// Unknown authors fall back to an id-only view.
func buildCommentView(c *Comment, level *levelData) *CommentView {
	author := &users.AuthorView{ID: c.AuthorID}
	if u, ok := level.authors[c.AuthorID]; ok {
		author = u.AuthorView()
	}

	likes := level.likes[c.ID]
	if likes == nil {
		likes = []string{}
	}

	return &CommentView{
		ID:            c.ID,
		PostID:        c.PostID,
		ParentID:      c.ParentID,
		Author:        author,
		Content:       c.Content,
		Likes:         likes,
		Replies:       []*CommentView{},
		Depth:         c.Depth,
		NumberOfLikes: c.NumberOfLikes,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

// checkChild returns a corruption reason if child cannot be placed under parent.
func checkChild(parent, child *Comment, seen map[string]struct{}) string {
	if _, dup := seen[child.ID]; dup {
		return corruptionCycle
	}
	if child.IsRoot() || child.Depth != parent.Depth+1 || child.Depth > MaxDepth {
		return corruptionDepthMismatch
	}
	return ""
}

func (s *commentService) reportCorruption(parent, child *Comment, reason string) {
	treeCorruptionTotal.WithLabelValues(reason).Inc()
	s.logger.Error("comment tree corruption, subtree truncated",
		"reason", reason,
		"post_id", parent.PostID,
		"comment_id", parent.ID,
		"depth", parent.Depth,
		"child_id", child.ID,
		"child_depth", child.Depth,
	)
}
