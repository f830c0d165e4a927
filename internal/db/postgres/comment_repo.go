package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"Socialite/internal/core/comments"
)

type postgresCommentRepo struct {
	db *sql.DB
}

// NewCommentRepository creates a new PostgreSQL comment repository
func NewCommentRepository(db *sql.DB) comments.Repository {
	return &postgresCommentRepo{db: db}
}

const commentColumns = `id, post_id, author_id, parent_id, depth, content, number_of_likes, created_at, updated_at`

func scanComment(row rowScanner, extra ...any) (*comments.Comment, error) {
	c := &comments.Comment{}
	var parentID sql.NullString
	dest := append([]any{&c.ID, &c.PostID, &c.AuthorID, &parentID, &c.Depth,
		&c.Content, &c.NumberOfLikes, &c.CreatedAt, &c.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	c.ParentID = nullString(parentID)
	return c, nil
}

// CreateRoot inserts a depth-0 comment and bumps the post's comment count.
// The counter update doubles as the existence check and takes the post row lock.
func (r *postgresCommentRepo) CreateRoot(ctx context.Context, comment *comments.Comment) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE posts SET number_of_comments = number_of_comments + 1 WHERE id = $1`, comment.PostID)
		if err != nil {
			return fmt.Errorf("failed to update comment count: %w", err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check comment count update: %w", err)
		}
		if n == 0 {
			return comments.ErrPostNotFound
		}

		err = tx.QueryRowContext(ctx, `
			INSERT INTO comments (post_id, author_id, parent_id, depth, content)
			VALUES ($1, $2, NULL, 0, $3)
			RETURNING id, created_at, updated_at`,
			comment.PostID, comment.AuthorID, comment.Content,
		).Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)
		if err != nil {
			if foreignKeyViolation(err) {
				return comments.ErrUserNotFound
			}
			return fmt.Errorf("failed to insert comment: %w", err)
		}

		comment.ParentID = nil
		comment.Depth = 0
		comment.NumberOfLikes = 0
		comment.Replies = []string{}
		comment.Likes = []string{}
		return nil
	})
}

// CreateReply inserts a reply one level below its parent.
// Lock order is post row, then parent row, the same order DeleteSubtree uses.
func (r *postgresCommentRepo) CreateReply(ctx context.Context, comment *comments.Comment) error {
	if comment.ParentID == nil {
		return comments.ErrParentNotFound
	}
	parentID := *comment.ParentID

	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		var postID string
		err := tx.QueryRowContext(ctx, `SELECT post_id FROM comments WHERE id = $1`, parentID).Scan(&postID)
		if errors.Is(err, sql.ErrNoRows) {
			return comments.ErrParentNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get parent comment: %w", err)
		}

		result, err := tx.ExecContext(ctx,
			`UPDATE posts SET number_of_comments = number_of_comments + 1 WHERE id = $1`, postID)
		if err != nil {
			return fmt.Errorf("failed to update comment count: %w", err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check comment count update: %w", err)
		}
		if n == 0 {
			return comments.ErrPostNotFound
		}

		// The parent may have been deleted between the first read and the post lock.
		var parentDepth int
		err = tx.QueryRowContext(ctx,
			`SELECT depth FROM comments WHERE id = $1 FOR UPDATE`, parentID).Scan(&parentDepth)
		if errors.Is(err, sql.ErrNoRows) {
			return comments.ErrParentNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to lock parent comment: %w", err)
		}
		if parentDepth >= comments.MaxDepth {
			return comments.ErrDepthExceeded
		}

		depth := parentDepth + 1
		err = tx.QueryRowContext(ctx, `
			INSERT INTO comments (post_id, author_id, parent_id, depth, content)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at, updated_at`,
			postID, comment.AuthorID, parentID, depth, comment.Content,
		).Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)
		if err != nil {
			if foreignKeyViolation(err) {
				return comments.ErrUserNotFound
			}
			return fmt.Errorf("failed to insert reply: %w", err)
		}

		comment.PostID = postID
		comment.Depth = depth
		comment.NumberOfLikes = 0
		comment.Replies = []string{}
		comment.Likes = []string{}
		return nil
	})
}

// GetByID retrieves a comment with its reply ids and liker ids
func (r *postgresCommentRepo) GetByID(ctx context.Context, id string) (*comments.Comment, error) {
	query := `
		SELECT ` + prefixed("c", commentColumns) + `,
		       ARRAY(SELECT r.id::text FROM comments r WHERE r.parent_id = c.id ORDER BY r.created_at, r.id),
		       ARRAY(SELECT l.user_id::text FROM comment_likes l WHERE l.comment_id = c.id ORDER BY l.created_at)
		FROM comments c
		WHERE c.id = $1`

	var replies, likes []string
	c, err := scanComment(r.db.QueryRowContext(ctx, query, id), pq.Array(&replies), pq.Array(&likes))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, comments.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	c.Replies = nonNilStrings(replies)
	c.Likes = nonNilStrings(likes)
	return c, nil
}

// UpdateContent replaces the content and bumps updated_at
func (r *postgresCommentRepo) UpdateContent(ctx context.Context, id, content string) (*comments.Comment, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE comments SET content = $2, updated_at = NOW() WHERE id = $1`, id, content)
	if err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check update result: %w", err)
	}
	if n == 0 {
		return nil, comments.ErrCommentNotFound
	}
	return r.GetByID(ctx, id)
}

// DeleteSubtree removes a comment and every descendant, and subtracts the
// number removed from the post's comment count.
func (r *postgresCommentRepo) DeleteSubtree(ctx context.Context, id string) (int, error) {
	var deleted int
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var postID string
		err := tx.QueryRowContext(ctx, `SELECT post_id FROM comments WHERE id = $1`, id).Scan(&postID)
		if errors.Is(err, sql.ErrNoRows) {
			return comments.ErrCommentNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get comment: %w", err)
		}

		var locked string
		err = tx.QueryRowContext(ctx, `SELECT id FROM posts WHERE id = $1 FOR UPDATE`, postID).Scan(&locked)
		if errors.Is(err, sql.ErrNoRows) {
			return comments.ErrPostNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to lock post: %w", err)
		}

		err = tx.QueryRowContext(ctx, `SELECT id FROM comments WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
		if errors.Is(err, sql.ErrNoRows) {
			return comments.ErrCommentNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to lock comment: %w", err)
		}

		rows, err := tx.QueryContext(ctx, `
			WITH RECURSIVE subtree AS (
				SELECT id FROM comments WHERE id = $1
				UNION
				SELECT c.id FROM comments c JOIN subtree s ON c.parent_id = s.id
			)
			DELETE FROM comments WHERE id IN (SELECT id FROM subtree)
			RETURNING id`, id)
		if err != nil {
			return fmt.Errorf("failed to delete comment subtree: %w", err)
		}
		for rows.Next() {
			deleted++
		}
		if err := rows.Err(); err != nil {
			_ = rows.Close()
			return fmt.Errorf("error iterating deleted comments: %w", err)
		}
		_ = rows.Close()

		if _, err := tx.ExecContext(ctx, `
			UPDATE posts
			SET number_of_comments = GREATEST(0, number_of_comments - $2)
			WHERE id = $1`, postID, deleted); err != nil {
			return fmt.Errorf("failed to update comment count: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// ToggleLike adds userID to the comment's likes or removes it if present.
// The comment row lock serializes concurrent toggles.
func (r *postgresCommentRepo) ToggleLike(ctx context.Context, commentID, userID string) (*comments.LikeResult, error) {
	result := &comments.LikeResult{}
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var locked string
		err := tx.QueryRowContext(ctx,
			`SELECT id FROM comments WHERE id = $1 FOR UPDATE`, commentID).Scan(&locked)
		if errors.Is(err, sql.ErrNoRows) {
			return comments.ErrCommentNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to lock comment: %w", err)
		}

		inserted, err := tx.ExecContext(ctx, `
			INSERT INTO comment_likes (comment_id, user_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING`, commentID, userID)
		if err != nil {
			if foreignKeyViolation(err) {
				return comments.ErrUserNotFound
			}
			return fmt.Errorf("failed to insert like: %w", err)
		}
		n, err := inserted.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check like insert: %w", err)
		}

		delta := 1
		if n == 0 {
			if _, err := tx.ExecContext(ctx,
				`DELETE FROM comment_likes WHERE comment_id = $1 AND user_id = $2`, commentID, userID); err != nil {
				return fmt.Errorf("failed to remove like: %w", err)
			}
			delta = -1
		}

		err = tx.QueryRowContext(ctx, `
			UPDATE comments
			SET number_of_likes = GREATEST(0, number_of_likes + $2)
			WHERE id = $1
			RETURNING number_of_likes`, commentID, delta).Scan(&result.NumberOfLikes)
		if err != nil {
			return fmt.Errorf("failed to update like count: %w", err)
		}
		result.Liked = delta > 0
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListRootsByPost returns root comments newest first
func (r *postgresCommentRepo) ListRootsByPost(ctx context.Context, postID string, limit, offset int) ([]*comments.Comment, error) {
	query := `
		SELECT ` + commentColumns + `
		FROM comments
		WHERE post_id = $1 AND parent_id IS NULL
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`
	return r.queryComments(ctx, query, postID, limit, offset)
}

// CountRootsByPost counts a post's root comments
func (r *postgresCommentRepo) CountRootsByPost(ctx context.Context, postID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM comments WHERE post_id = $1 AND parent_id IS NULL`, postID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count root comments: %w", err)
	}
	return count, nil
}

// ListByParent returns direct replies in creation order
func (r *postgresCommentRepo) ListByParent(ctx context.Context, parentID string, limit, offset int) ([]*comments.Comment, error) {
	query := `
		SELECT ` + commentColumns + `
		FROM comments
		WHERE parent_id = $1
		ORDER BY created_at ASC, id ASC
		LIMIT $2 OFFSET $3`
	return r.queryComments(ctx, query, parentID, limit, offset)
}

// CountByParent counts direct replies
func (r *postgresCommentRepo) CountByParent(ctx context.Context, parentID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM comments WHERE parent_id = $1`, parentID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count replies: %w", err)
	}
	return count, nil
}

// ListByParentsBatch retrieves direct replies for multiple parents in one query
func (r *postgresCommentRepo) ListByParentsBatch(ctx context.Context, parentIDs []string) (map[string][]*comments.Comment, error) {
	result := make(map[string][]*comments.Comment)
	if len(parentIDs) == 0 {
		return result, nil
	}
	if len(parentIDs) > MaxBatchSize {
		return nil, fmt.Errorf("batch size %d exceeds maximum %d", len(parentIDs), MaxBatchSize)
	}

	query := `
		SELECT ` + commentColumns + `
		FROM comments
		WHERE parent_id = ANY($1::uuid[])
		ORDER BY parent_id, created_at ASC, id ASC`

	found, err := r.queryComments(ctx, query, pq.Array(parentIDs))
	if err != nil {
		return nil, err
	}
	for _, c := range found {
		result[*c.ParentID] = append(result[*c.ParentID], c)
	}
	return result, nil
}

// GetLikesBatch retrieves liker ids for multiple comments in one query
func (r *postgresCommentRepo) GetLikesBatch(ctx context.Context, commentIDs []string) (map[string][]string, error) {
	result := make(map[string][]string)
	if len(commentIDs) == 0 {
		return result, nil
	}
	if len(commentIDs) > MaxBatchSize {
		return nil, fmt.Errorf("batch size %d exceeds maximum %d", len(commentIDs), MaxBatchSize)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT comment_id, user_id
		FROM comment_likes
		WHERE comment_id = ANY($1::uuid[])
		ORDER BY comment_id, created_at`, pq.Array(commentIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to batch get likes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var commentID, userID string
		if err := rows.Scan(&commentID, &userID); err != nil {
			return nil, fmt.Errorf("failed to scan like: %w", err)
		}
		result[commentID] = append(result[commentID], userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating likes: %w", err)
	}
	return result, nil
}

// ListByAuthor returns a user's comments newest first
func (r *postgresCommentRepo) ListByAuthor(ctx context.Context, authorID string, limit, offset int) ([]*comments.Comment, error) {
	query := `
		SELECT ` + commentColumns + `
		FROM comments
		WHERE author_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`
	return r.queryComments(ctx, query, authorID, limit, offset)
}

func (r *postgresCommentRepo) queryComments(ctx context.Context, query string, args ...any) ([]*comments.Comment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := make([]*comments.Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comments: %w", err)
	}
	return result, nil
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
