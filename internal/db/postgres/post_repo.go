package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"Socialite/internal/core/posts"
)

type postgresPostRepo struct {
	db *sql.DB
}

// NewPostRepository creates a new PostgreSQL post repository
func NewPostRepository(db *sql.DB) posts.Repository {
	return &postgresPostRepo{db: db}
}

const postColumns = `id, author_id, caption, location, image_url, tags, number_of_likes, number_of_comments, created_at, updated_at`

func scanPost(row rowScanner) (*posts.Post, error) {
	post := &posts.Post{}
	err := row.Scan(&post.ID, &post.AuthorID, &post.Caption, &post.Location, &post.ImageURL,
		pq.Array(&post.Tags), &post.NumberOfLikes, &post.NumberOfComments, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}
	return post, nil
}

// Create inserts a new post into the posts table
func (r *postgresPostRepo) Create(ctx context.Context, post *posts.Post) error {
	tags := post.Tags
	if tags == nil {
		tags = []string{}
	}

	query := `
		INSERT INTO posts (author_id, caption, location, image_url, tags)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		post.AuthorID, post.Caption, post.Location, post.ImageURL, pq.Array(tags),
	).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		if foreignKeyViolation(err) {
			return posts.NewNotFoundError("user", post.AuthorID)
		}
		return fmt.Errorf("failed to create post: %w", err)
	}
	post.Tags = tags
	return nil
}

// GetByID retrieves a post by ID
func (r *postgresPostRepo) GetByID(ctx context.Context, id string) (*posts.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	post, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, posts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return post, nil
}

// Update persists caption, location, image and tags
func (r *postgresPostRepo) Update(ctx context.Context, post *posts.Post) error {
	query := `
		UPDATE posts
		SET caption = $2, location = $3, image_url = $4, tags = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query,
		post.ID, post.Caption, post.Location, post.ImageURL, pq.Array(post.Tags),
	).Scan(&post.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return posts.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	return nil
}

// Delete removes a post. Comments, likes and saves cascade.
func (r *postgresPostRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rowsAffected == 0 {
		return posts.ErrNotFound
	}
	return nil
}

// List returns posts matching filter ordered by creation time
func (r *postgresPostRepo) List(ctx context.Context, filter posts.ListFilter) ([]*posts.Post, error) {
	var (
		conditions []string
		args       []any
	)
	addArg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.AuthorID != "" {
		conditions = append(conditions, "author_id = "+addArg(filter.AuthorID))
	}
	if filter.PostID != "" {
		conditions = append(conditions, "id = "+addArg(filter.PostID))
	}
	if filter.SearchTerm != "" {
		p := addArg(likePattern(filter.SearchTerm))
		conditions = append(conditions, fmt.Sprintf(
			"(LOWER(caption) LIKE %[1]s ESCAPE '\\' OR LOWER(location) LIKE %[1]s ESCAPE '\\' OR EXISTS (SELECT 1 FROM unnest(tags) t WHERE LOWER(t) LIKE %[1]s ESCAPE '\\'))", p))
	}

	query := `SELECT ` + postColumns + ` FROM posts`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	if filter.Ascending {
		query += " ORDER BY created_at ASC, id ASC"
	} else {
		query += " ORDER BY created_at DESC, id DESC"
	}
	query += fmt.Sprintf(" LIMIT %s OFFSET %s", addArg(filter.Limit), addArg(filter.Offset))

	return r.queryPosts(ctx, query, args...)
}

// ToggleLike adds or removes userID's like and adjusts the counter in one transaction.
// The post row is locked first so concurrent toggles serialize.
func (r *postgresPostRepo) ToggleLike(ctx context.Context, postID, userID string) (*posts.LikeResult, error) {
	result := &posts.LikeResult{}
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var locked string
		err := tx.QueryRowContext(ctx, `SELECT id FROM posts WHERE id = $1 FOR UPDATE`, postID).Scan(&locked)
		if errors.Is(err, sql.ErrNoRows) {
			return posts.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to lock post: %w", err)
		}

		inserted, err := tx.ExecContext(ctx, `
			INSERT INTO post_likes (post_id, user_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING`, postID, userID)
		if err != nil {
			if foreignKeyViolation(err) {
				return posts.NewNotFoundError("user", userID)
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
				`DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, userID); err != nil {
				return fmt.Errorf("failed to remove like: %w", err)
			}
			delta = -1
		}

		err = tx.QueryRowContext(ctx, `
			UPDATE posts
			SET number_of_likes = GREATEST(0, number_of_likes + $2)
			WHERE id = $1
			RETURNING number_of_likes`, postID, delta).Scan(&result.NumberOfLikes)
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

// Save bookmarks a post for userID. Saving twice is a no-op.
func (r *postgresPostRepo) Save(ctx context.Context, userID, postID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO saved_posts (user_id, post_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`, userID, postID)
	if err != nil {
		if foreignKeyViolation(err) {
			return posts.ErrNotFound
		}
		return fmt.Errorf("failed to save post: %w", err)
	}
	return nil
}

// Unsave removes a bookmark. Removing a missing bookmark is a no-op.
func (r *postgresPostRepo) Unsave(ctx context.Context, userID, postID string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM saved_posts WHERE user_id = $1 AND post_id = $2`, userID, postID); err != nil {
		return fmt.Errorf("failed to unsave post: %w", err)
	}
	return nil
}

// GetViewerState reports whether viewerID liked or saved each post
func (r *postgresPostRepo) GetViewerState(ctx context.Context, viewerID string, postIDs []string) (map[string]*posts.ViewerState, error) {
	result := make(map[string]*posts.ViewerState, len(postIDs))
	if len(postIDs) == 0 {
		return result, nil
	}
	if len(postIDs) > MaxBatchSize {
		return nil, fmt.Errorf("batch size %d exceeds maximum %d", len(postIDs), MaxBatchSize)
	}

	query := `
		SELECT p.id,
		       EXISTS (SELECT 1 FROM post_likes l WHERE l.post_id = p.id AND l.user_id = $1),
		       EXISTS (SELECT 1 FROM saved_posts s WHERE s.post_id = p.id AND s.user_id = $1)
		FROM posts p
		WHERE p.id = ANY($2::uuid[])`

	rows, err := r.db.QueryContext(ctx, query, viewerID, pq.Array(postIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to get viewer state: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var id string
		state := &posts.ViewerState{}
		if err := rows.Scan(&id, &state.Liked, &state.Saved); err != nil {
			return nil, fmt.Errorf("failed to scan viewer state: %w", err)
		}
		result[id] = state
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating viewer state: %w", err)
	}
	return result, nil
}

// ListSavedBy returns posts userID bookmarked, most recently saved first
func (r *postgresPostRepo) ListSavedBy(ctx context.Context, userID string, limit, offset int) ([]*posts.Post, error) {
	query := `
		SELECT ` + prefixed("p", postColumns) + `
		FROM saved_posts s
		JOIN posts p ON p.id = s.post_id
		WHERE s.user_id = $1
		ORDER BY s.created_at DESC, p.id DESC
		LIMIT $2 OFFSET $3`
	return r.queryPosts(ctx, query, userID, limit, offset)
}

// ListLikedBy returns posts userID liked, most recently liked first
func (r *postgresPostRepo) ListLikedBy(ctx context.Context, userID string, limit, offset int) ([]*posts.Post, error) {
	query := `
		SELECT ` + prefixed("p", postColumns) + `
		FROM post_likes l
		JOIN posts p ON p.id = l.post_id
		WHERE l.user_id = $1
		ORDER BY l.created_at DESC, p.id DESC
		LIMIT $2 OFFSET $3`
	return r.queryPosts(ctx, query, userID, limit, offset)
}

// ListByAuthor returns an author's posts newest first
func (r *postgresPostRepo) ListByAuthor(ctx context.Context, authorID string, limit, offset int) ([]*posts.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts
		WHERE author_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`
	return r.queryPosts(ctx, query, authorID, limit, offset)
}

func (r *postgresPostRepo) queryPosts(ctx context.Context, query string, args ...any) ([]*posts.Post, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := make([]*posts.Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		result = append(result, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posts: %w", err)
	}
	return result, nil
}
