package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// CountDrift is the number of rows whose stored counter disagreed with the
// underlying relation and was rewritten.
type CountDrift struct {
	PostComments int64
	PostLikes    int64
	CommentLikes int64
}

// Total sums every corrected row.
func (d CountDrift) Total() int64 {
	return d.PostComments + d.PostLikes + d.CommentLikes
}

// ReconcileCounts recomputes denormalized counters from the comments and
// like tables. With dryRun the corrections are computed and rolled back.
func ReconcileCounts(ctx context.Context, db *sql.DB, dryRun bool) (*CountDrift, error) {
	drift := &CountDrift{}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	steps := []struct {
		target *int64
		query  string
	}{
		{&drift.PostComments, `
			UPDATE posts p
			SET number_of_comments = actual.n
			FROM (
				SELECT p2.id, COUNT(c.id) AS n
				FROM posts p2 LEFT JOIN comments c ON c.post_id = p2.id
				GROUP BY p2.id
			) actual
			WHERE p.id = actual.id AND p.number_of_comments <> actual.n`},
		{&drift.PostLikes, `
			UPDATE posts p
			SET number_of_likes = actual.n
			FROM (
				SELECT p2.id, COUNT(l.user_id) AS n
				FROM posts p2 LEFT JOIN post_likes l ON l.post_id = p2.id
				GROUP BY p2.id
			) actual
			WHERE p.id = actual.id AND p.number_of_likes <> actual.n`},
		{&drift.CommentLikes, `
			UPDATE comments c
			SET number_of_likes = actual.n
			FROM (
				SELECT c2.id, COUNT(l.user_id) AS n
				FROM comments c2 LEFT JOIN comment_likes l ON l.comment_id = c2.id
				GROUP BY c2.id
			) actual
			WHERE c.id = actual.id AND c.number_of_likes <> actual.n`},
	}

	for _, step := range steps {
		result, err := tx.ExecContext(ctx, step.query)
		if err != nil {
			return nil, fmt.Errorf("failed to reconcile counts: %w", err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("failed to read reconcile result: %w", err)
		}
		*step.target = n
	}

	if dryRun {
		return drift, nil
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return drift, nil
}
