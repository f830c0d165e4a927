package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"Socialite/internal/core/users"
)

type postgresUserRepo struct {
	db *sql.DB
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(db *sql.DB) users.UserRepository {
	return &postgresUserRepo{db: db}
}

const userColumns = `id, username, email, password_hash, full_name, bio, avatar_url, social_links, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*users.User, error) {
	user := &users.User{}
	var links []byte
	if err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.FullName, &user.Bio, &user.AvatarURL, &links, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return nil, err
	}
	user.SocialLinks = map[string]string{}
	if len(links) > 0 {
		if err := json.Unmarshal(links, &user.SocialLinks); err != nil {
			return nil, fmt.Errorf("failed to decode social links: %w", err)
		}
	}
	return user, nil
}

func conflictErr(err error) error {
	switch uniqueViolation(err) {
	case "users_username_key":
		return users.ErrUsernameTaken
	case "users_email_key":
		return users.ErrEmailTaken
	}
	return nil
}

// Create inserts a new user into the users table
func (r *postgresUserRepo) Create(ctx context.Context, user *users.User) (*users.User, error) {
	links, err := json.Marshal(nonNilLinks(user.SocialLinks))
	if err != nil {
		return nil, fmt.Errorf("failed to encode social links: %w", err)
	}

	query := `
		INSERT INTO users (username, email, password_hash, full_name, bio, avatar_url, social_links)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + userColumns

	created, err := scanUser(r.db.QueryRowContext(ctx, query,
		user.Username, user.Email, user.PasswordHash, user.FullName, user.Bio, user.AvatarURL, links))
	if err != nil {
		if cErr := conflictErr(err); cErr != nil {
			return nil, cErr
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return created, nil
}

// GetByID retrieves a user by ID
func (r *postgresUserRepo) GetByID(ctx context.Context, id string) (*users.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, users.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

// GetByEmail retrieves a user by email
func (r *postgresUserRepo) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, strings.ToLower(email)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, users.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

// GetByIDs retrieves multiple users by ID in a single query
// Returns a map of ID -> User for efficient lookups
// Missing users are not included in the result map (no error for missing users)
func (r *postgresUserRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*users.User, error) {
	if len(ids) == 0 {
		return make(map[string]*users.User), nil
	}
	if len(ids) > MaxBatchSize {
		return nil, fmt.Errorf("batch size %d exceeds maximum %d", len(ids), MaxBatchSize)
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id = ANY($1::uuid[])`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to batch get users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string]*users.User, len(ids))
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		result[user.ID] = user
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return result, nil
}

// Update persists every mutable field of user
func (r *postgresUserRepo) Update(ctx context.Context, user *users.User) (*users.User, error) {
	links, err := json.Marshal(nonNilLinks(user.SocialLinks))
	if err != nil {
		return nil, fmt.Errorf("failed to encode social links: %w", err)
	}

	query := `
		UPDATE users
		SET username = $2, email = $3, password_hash = $4, full_name = $5,
		    bio = $6, avatar_url = $7, social_links = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	updated, err := scanUser(r.db.QueryRowContext(ctx, query, user.ID,
		user.Username, user.Email, user.PasswordHash, user.FullName, user.Bio, user.AvatarURL, links))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, users.ErrUserNotFound
	}
	if err != nil {
		if cErr := conflictErr(err); cErr != nil {
			return nil, cErr
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return updated, nil
}

// Delete removes a user. Posts, comments, likes and follows cascade.
// Comment counters on other users' posts are fixed up in the same transaction.
func (r *postgresUserRepo) Delete(ctx context.Context, id string) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		// Lock the posts the user commented on, in the same post-first order
		// comment writes use, so no reply can land under a doomed comment
		// between counting and the cascade.
		_, err := tx.ExecContext(ctx, `
			SELECT p.id FROM posts p
			WHERE p.id IN (SELECT DISTINCT post_id FROM comments WHERE author_id = $1)
			  AND p.author_id <> $1
			ORDER BY p.id
			FOR UPDATE OF p`, id)
		if err != nil {
			return fmt.Errorf("failed to lock commented posts: %w", err)
		}

		// The user's comments on other people's posts, and the replies under
		// them, leave with the account; subtract them from those posts first.
		_, err = tx.ExecContext(ctx, `
			WITH RECURSIVE doomed AS (
				SELECT id, post_id FROM comments WHERE author_id = $1
				UNION
				SELECT c.id, c.post_id FROM comments c JOIN doomed d ON c.parent_id = d.id
			), per_post AS (
				SELECT post_id, COUNT(*) AS n FROM doomed GROUP BY post_id
			)
			UPDATE posts p
			SET number_of_comments = GREATEST(0, p.number_of_comments - per_post.n)
			FROM per_post
			WHERE p.id = per_post.post_id AND p.author_id <> $1`, id)
		if err != nil {
			return fmt.Errorf("failed to adjust comment counts: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE comments c
			SET number_of_likes = GREATEST(0, c.number_of_likes - 1)
			FROM comment_likes l
			WHERE l.comment_id = c.id AND l.user_id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to adjust comment likes: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE posts p
			SET number_of_likes = GREATEST(0, p.number_of_likes - 1)
			FROM post_likes l
			WHERE l.post_id = p.id AND l.user_id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to adjust post likes: %w", err)
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check delete result: %w", err)
		}
		if rowsAffected == 0 {
			return users.ErrUserNotFound
		}
		return nil
	})
}

// GetProfileStats retrieves aggregated statistics for a user profile
func (r *postgresUserRepo) GetProfileStats(ctx context.Context, id string) (*users.ProfileStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM posts WHERE author_id = $1),
			(SELECT COUNT(*) FROM comments WHERE author_id = $1),
			(SELECT COUNT(*) FROM follows WHERE followee_id = $1),
			(SELECT COUNT(*) FROM follows WHERE follower_id = $1)`

	stats := &users.ProfileStats{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&stats.PostCount, &stats.CommentCount, &stats.FollowerCount, &stats.FollowingCount)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile stats: %w", err)
	}
	return stats, nil
}

// Follow records a follow edge
func (r *postgresUserRepo) Follow(ctx context.Context, followerID, followeeID string) error {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO follows (follower_id, followee_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`, followerID, followeeID)
	if err != nil {
		if foreignKeyViolation(err) {
			return users.ErrUserNotFound
		}
		return fmt.Errorf("failed to follow user: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check follow result: %w", err)
	}
	if rowsAffected == 0 {
		return users.ErrAlreadyFollowing
	}
	return nil
}

// Unfollow removes a follow edge
func (r *postgresUserRepo) Unfollow(ctx context.Context, followerID, followeeID string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM follows WHERE follower_id = $1 AND followee_id = $2`, followerID, followeeID)
	if err != nil {
		return fmt.Errorf("failed to unfollow user: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check unfollow result: %w", err)
	}
	if rowsAffected == 0 {
		return users.ErrNotFollowing
	}
	return nil
}

// IsFollowing reports whether followerID follows followeeID
func (r *postgresUserRepo) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM follows WHERE follower_id = $1 AND followee_id = $2)`,
		followerID, followeeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check follow: %w", err)
	}
	return exists, nil
}

// ListFollowers returns users following id, most recent first
func (r *postgresUserRepo) ListFollowers(ctx context.Context, id string, limit, offset int) ([]*users.User, error) {
	query := `
		SELECT ` + prefixed("u", userColumns) + `
		FROM follows f
		JOIN users u ON u.id = f.follower_id
		WHERE f.followee_id = $1
		ORDER BY f.created_at DESC, u.id
		LIMIT $2 OFFSET $3`
	return r.queryUsers(ctx, query, id, limit, offset)
}

// ListFollowing returns users id follows, most recent first
func (r *postgresUserRepo) ListFollowing(ctx context.Context, id string, limit, offset int) ([]*users.User, error) {
	query := `
		SELECT ` + prefixed("u", userColumns) + `
		FROM follows f
		JOIN users u ON u.id = f.followee_id
		WHERE f.follower_id = $1
		ORDER BY f.created_at DESC, u.id
		LIMIT $2 OFFSET $3`
	return r.queryUsers(ctx, query, id, limit, offset)
}

// Search matches usernames and full names case-insensitively
func (r *postgresUserRepo) Search(ctx context.Context, term string, limit, offset int) ([]*users.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE LOWER(username) LIKE $1 ESCAPE '\' OR LOWER(full_name) LIKE $1 ESCAPE '\'
		ORDER BY username
		LIMIT $2 OFFSET $3`
	return r.queryUsers(ctx, query, likePattern(term), limit, offset)
}

func (r *postgresUserRepo) queryUsers(ctx context.Context, query string, args ...any) ([]*users.User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []*users.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		result = append(result, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return result, nil
}

func nonNilLinks(links map[string]string) map[string]string {
	if links == nil {
		return map[string]string{}
	}
	return links
}

// prefixed qualifies a comma-separated column list with a table alias.
func prefixed(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}

// likePattern builds a case-insensitive substring pattern with LIKE
// metacharacters escaped.
func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(term)) + "%"
}
