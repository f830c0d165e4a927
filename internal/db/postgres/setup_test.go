package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"Socialite/internal/core/posts"
	"Socialite/internal/core/users"
)

// setupTestDB connects to TEST_DATABASE_URL and runs migrations.
// The test is skipped when no database is configured.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping PostgreSQL integration test")
	}

	db, err := Open(context.Background(), dsn)
	require.NoError(t, err, "Failed to connect to test database")
	require.NoError(t, Migrate(db), "Failed to run migrations")

	t.Cleanup(func() { _ = db.Close() })
	return db
}

// createTestUser inserts a user with a unique username and removes it when the test ends.
func createTestUser(t *testing.T, db *sql.DB) *users.User {
	t.Helper()

	suffix := uuid.NewString()[:8]
	user, err := NewUserRepository(db).Create(context.Background(), &users.User{
		Username:     "tester" + suffix,
		Email:        fmt.Sprintf("tester%s@example.com", suffix),
		PasswordHash: "hash",
		FullName:     "Test User " + suffix,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		_, _ = db.Exec("DELETE FROM users WHERE id = $1", user.ID)
	})
	return user
}

func createTestPost(t *testing.T, db *sql.DB, authorID string) *posts.Post {
	t.Helper()

	post := &posts.Post{AuthorID: authorID, Caption: "caption " + time.Now().Format(time.RFC3339Nano), Tags: []string{"go"}}
	require.NoError(t, NewPostRepository(db).Create(context.Background(), post))
	return post
}

func postCommentCount(t *testing.T, db *sql.DB, postID string) int {
	t.Helper()

	var n int
	require.NoError(t, db.QueryRow("SELECT number_of_comments FROM posts WHERE id = $1", postID).Scan(&n))
	return n
}
