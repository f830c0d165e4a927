package postgres

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Socialite/internal/core/comments"
)

func TestCommentRepo_CreateRoot_IncrementsCount(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewCommentRepository(db)

	user := createTestUser(t, db)
	post := createTestPost(t, db, user.ID)

	root := &comments.Comment{PostID: post.ID, AuthorID: user.ID, Content: "first"}
	require.NoError(t, repo.CreateRoot(ctx, root))

	assert.NotEmpty(t, root.ID)
	assert.Equal(t, 0, root.Depth)
	assert.Nil(t, root.ParentID)
	assert.Equal(t, 1, postCommentCount(t, db, post.ID))
}

func TestCommentRepo_CreateRoot_PostMissing(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)

	err := NewCommentRepository(db).CreateRoot(context.Background(),
		&comments.Comment{PostID: uuid.NewString(), AuthorID: user.ID, Content: "orphan"})
	assert.ErrorIs(t, err, comments.ErrPostNotFound)
}

func TestCommentRepo_CreateReply_DepthChain(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewCommentRepository(db)

	user := createTestUser(t, db)
	post := createTestPost(t, db, user.ID)

	parent := &comments.Comment{PostID: post.ID, AuthorID: user.ID, Content: "depth 0"}
	require.NoError(t, repo.CreateRoot(ctx, parent))

	for depth := 1; depth <= comments.MaxDepth; depth++ {
		reply := &comments.Comment{ParentID: &parent.ID, AuthorID: user.ID, Content: "reply"}
		require.NoError(t, repo.CreateReply(ctx, reply))
		assert.Equal(t, depth, reply.Depth)
		assert.Equal(t, post.ID, reply.PostID)
		parent = reply
	}

	tooDeep := &comments.Comment{ParentID: &parent.ID, AuthorID: user.ID, Content: "too deep"}
	assert.ErrorIs(t, repo.CreateReply(ctx, tooDeep), comments.ErrDepthExceeded)

	// The rejected reply must not have touched the counter.
	assert.Equal(t, comments.MaxDepth+1, postCommentCount(t, db, post.ID))
}

func TestCommentRepo_CreateReply_ParentMissing(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db)

	missing := uuid.NewString()
	err := NewCommentRepository(db).CreateReply(context.Background(),
		&comments.Comment{ParentID: &missing, AuthorID: user.ID, Content: "hello"})
	assert.ErrorIs(t, err, comments.ErrParentNotFound)
}

func TestCommentRepo_GetByID_RepliesAndLikes(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewCommentRepository(db)

	author := createTestUser(t, db)
	liker := createTestUser(t, db)
	post := createTestPost(t, db, author.ID)

	root := &comments.Comment{PostID: post.ID, AuthorID: author.ID, Content: "root"}
	require.NoError(t, repo.CreateRoot(ctx, root))

	first := &comments.Comment{ParentID: &root.ID, AuthorID: liker.ID, Content: "one"}
	require.NoError(t, repo.CreateReply(ctx, first))
	second := &comments.Comment{ParentID: &root.ID, AuthorID: liker.ID, Content: "two"}
	require.NoError(t, repo.CreateReply(ctx, second))

	_, err := repo.ToggleLike(ctx, root.ID, liker.ID)
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, root.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{first.ID, second.ID}, got.Replies)
	assert.Equal(t, []string{liker.ID}, got.Likes)
	assert.Equal(t, 1, got.NumberOfLikes)

	_, err = repo.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, comments.ErrCommentNotFound)
}

func TestCommentRepo_ToggleLike_Concurrent(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewCommentRepository(db)

	author := createTestUser(t, db)
	post := createTestPost(t, db, author.ID)
	root := &comments.Comment{PostID: post.ID, AuthorID: author.ID, Content: "like me"}
	require.NoError(t, repo.CreateRoot(ctx, root))

	const likers = 10
	ids := make([]string, likers)
	for i := range ids {
		ids[i] = createTestUser(t, db).ID
	}

	var wg sync.WaitGroup
	errs := make(chan error, likers)
	for _, id := range ids {
		wg.Add(1)
		go func(userID string) {
			defer wg.Done()
			_, err := repo.ToggleLike(ctx, root.ID, userID)
			errs <- err
		}(id)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := repo.GetByID(ctx, root.ID)
	require.NoError(t, err)
	assert.Equal(t, likers, got.NumberOfLikes)
	assert.Len(t, got.Likes, likers)

	result, err := repo.ToggleLike(ctx, root.ID, ids[0])
	require.NoError(t, err)
	assert.False(t, result.Liked)
	assert.Equal(t, likers-1, result.NumberOfLikes)
}

func TestCommentRepo_DeleteSubtree(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewCommentRepository(db)

	user := createTestUser(t, db)
	post := createTestPost(t, db, user.ID)

	root := &comments.Comment{PostID: post.ID, AuthorID: user.ID, Content: "root"}
	require.NoError(t, repo.CreateRoot(ctx, root))
	other := &comments.Comment{PostID: post.ID, AuthorID: user.ID, Content: "other"}
	require.NoError(t, repo.CreateRoot(ctx, other))

	child := &comments.Comment{ParentID: &root.ID, AuthorID: user.ID, Content: "child"}
	require.NoError(t, repo.CreateReply(ctx, child))
	grandchild := &comments.Comment{ParentID: &child.ID, AuthorID: user.ID, Content: "grandchild"}
	require.NoError(t, repo.CreateReply(ctx, grandchild))
	sibling := &comments.Comment{ParentID: &root.ID, AuthorID: user.ID, Content: "sibling"}
	require.NoError(t, repo.CreateReply(ctx, sibling))

	require.Equal(t, 5, postCommentCount(t, db, post.ID))

	deleted, err := repo.DeleteSubtree(ctx, root.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, deleted)
	assert.Equal(t, 1, postCommentCount(t, db, post.ID))

	_, err = repo.GetByID(ctx, grandchild.ID)
	assert.ErrorIs(t, err, comments.ErrCommentNotFound)

	_, err = repo.DeleteSubtree(ctx, root.ID)
	assert.ErrorIs(t, err, comments.ErrCommentNotFound)
}

func TestCommentRepo_ListByParentsBatch_Order(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewCommentRepository(db)

	user := createTestUser(t, db)
	post := createTestPost(t, db, user.ID)

	a := &comments.Comment{PostID: post.ID, AuthorID: user.ID, Content: "a"}
	require.NoError(t, repo.CreateRoot(ctx, a))
	b := &comments.Comment{PostID: post.ID, AuthorID: user.ID, Content: "b"}
	require.NoError(t, repo.CreateRoot(ctx, b))

	var aReplies []string
	for i := 0; i < 3; i++ {
		r := &comments.Comment{ParentID: &a.ID, AuthorID: user.ID, Content: "reply"}
		require.NoError(t, repo.CreateReply(ctx, r))
		aReplies = append(aReplies, r.ID)
	}

	batch, err := repo.ListByParentsBatch(ctx, []string{a.ID, b.ID})
	require.NoError(t, err)
	require.Len(t, batch[a.ID], 3)
	assert.Empty(t, batch[b.ID])
	for i, c := range batch[a.ID] {
		assert.Equal(t, aReplies[i], c.ID)
	}

	roots, err := repo.ListRootsByPost(ctx, post.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, roots, 2)
	assert.Equal(t, b.ID, roots[0].ID, "roots are newest first")

	count, err := repo.CountRootsByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestReconcileCounts_FixesDrift(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db)
	post := createTestPost(t, db, user.ID)
	root := &comments.Comment{PostID: post.ID, AuthorID: user.ID, Content: "root"}
	require.NoError(t, NewCommentRepository(db).CreateRoot(ctx, root))

	_, err := db.Exec("UPDATE posts SET number_of_comments = 42 WHERE id = $1", post.ID)
	require.NoError(t, err)

	drift, err := ReconcileCounts(ctx, db, true)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, drift.PostComments, int64(1))
	assert.Equal(t, 42, postCommentCount(t, db, post.ID), "dry run must not write")

	_, err = ReconcileCounts(ctx, db, false)
	require.NoError(t, err)
	assert.Equal(t, 1, postCommentCount(t, db, post.ID))
}
