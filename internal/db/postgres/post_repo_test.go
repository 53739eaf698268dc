package postgres

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Posterr/internal/core/posts"
	"Posterr/internal/core/users"
)

func TestBuildPostFilter(t *testing.T) {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 2, 23, 59, 59, 0, time.UTC)

	tests := []struct {
		name      string
		filter    posts.PostFilter
		wantWhere string
		wantArgs  []interface{}
	}{
		{
			name:      "empty",
			filter:    posts.PostFilter{},
			wantWhere: "",
			wantArgs:  []interface{}{},
		},
		{
			name:      "author only",
			filter:    posts.PostFilter{AuthorID: "a1"},
			wantWhere: "WHERE p.author_id = $1",
			wantArgs:  []interface{}{"a1"},
		},
		{
			name:      "dates only",
			filter:    posts.PostFilter{CreatedFrom: &from, CreatedTo: &to},
			wantWhere: "WHERE p.created_at >= $1 AND p.created_at <= $2",
			wantArgs:  []interface{}{from, to},
		},
		{
			name:      "all",
			filter:    posts.PostFilter{AuthorID: "a1", CreatedFrom: &from, CreatedTo: &to},
			wantWhere: "WHERE p.author_id = $1 AND p.created_at >= $2 AND p.created_at <= $3",
			wantArgs:  []interface{}{"a1", from, to},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := buildPostFilter(tt.filter)
			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func createTestUser(t *testing.T, db *sql.DB, prefix string) *users.User {
	t.Helper()
	username := uniqueUsername(prefix)
	u, err := NewUserRepository(db).Create(context.Background(), &users.User{Username: username})
	require.NoError(t, err)
	t.Cleanup(func() { cleanupUser(t, db, username) })
	return u
}

func strPtr(s string) *string { return &s }

func TestPostRepo_CreateGetAndList(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "pa")
	reposter := createTestUser(t, db, "pr")

	original := &posts.Post{
		AuthorID:  author.ID,
		Type:      posts.PostTypeOriginal,
		Content:   strPtr("This is the very first post on Posterr!"),
		CreatedAt: time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Create(ctx, original))
	assert.NotEmpty(t, original.ID)

	repost := &posts.Post{
		AuthorID:       reposter.ID,
		Type:           posts.PostTypeRepost,
		OriginalPostID: &original.ID,
		CreatedAt:      time.Date(2025, 1, 2, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Create(ctx, repost))

	got, err := repo.GetByID(ctx, repost.ID)
	require.NoError(t, err)
	assert.Equal(t, posts.PostTypeRepost, got.Type)
	assert.Nil(t, got.Content)
	require.NotNil(t, got.OriginalPostID)
	assert.Equal(t, original.ID, *got.OriginalPostID)

	views, err := repo.List(ctx, posts.PostFilter{AuthorID: reposter.ID}, 0, 10)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, reposter.Username, views[0].Author.Username)
	require.NotNil(t, views[0].OriginalPost)
	assert.Equal(t, original.ID, views[0].OriginalPost.ID)
	assert.Equal(t, author.Username, views[0].OriginalPost.Author.Username)

	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 1, 23, 59, 59, 0, time.UTC)
	count, err := repo.Count(ctx, posts.PostFilter{CreatedFrom: &from, CreatedTo: &to, AuthorID: author.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestPostRepo_StoresMaxLengthCombiningContent(t *testing.T) {
	db := setupTestDB(t)
	author := createTestUser(t, db, "cc")

	service := posts.NewPostService(NewPostRepository(db), NewUserRepository(db))

	// 777 user-perceived characters, 1554 code points
	content := strings.Repeat("e\u0301", posts.MaxContentLength)
	created, err := service.CreatePost(context.Background(), posts.CreatePostRequest{
		Username: author.Username,
		Type:     posts.PostTypeOriginal,
		Content:  &content,
	})
	require.NoError(t, err)

	got, err := NewPostRepository(db).GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Content)
	assert.Equal(t, content, *got.Content)
}

func TestPostRepo_GetByIDNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)

	_, err := repo.GetByID(context.Background(), "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, posts.ErrPostNotFound)

	_, err = repo.GetByID(context.Background(), "garbage")
	assert.ErrorIs(t, err, posts.ErrPostNotFound)
}

func TestPostRepo_WithAuthorLockSerializesDailyLimit(t *testing.T) {
	db := setupTestDB(t)
	author := createTestUser(t, db, "lk")

	repo := NewPostRepository(db)
	service := posts.NewPostService(repo, NewUserRepository(db))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = service.CreatePost(context.Background(), posts.CreatePostRequest{
				Username: author.Username,
				Type:     posts.PostTypeOriginal,
				Content:  strPtr("race"),
			})
		}()
	}
	wg.Wait()

	count, err := NewUserRepository(db).CountPosts(context.Background(), author.ID)
	require.NoError(t, err)
	assert.Equal(t, posts.DailyPostLimit, count)
}

func TestPostRepo_WithAuthorLockRollsBackOnError(t *testing.T) {
	db := setupTestDB(t)
	author := createTestUser(t, db, "rb")
	repo := NewPostRepository(db)

	err := repo.WithAuthorLock(context.Background(), author.ID, func(txRepo posts.Repository) error {
		if err := txRepo.Create(context.Background(), &posts.Post{
			AuthorID: author.ID,
			Type:     posts.PostTypeOriginal,
			Content:  strPtr("discarded"),
		}); err != nil {
			return err
		}
		return &posts.LimitExceededError{Limit: posts.DailyPostLimit}
	})
	assert.True(t, posts.IsLimitExceeded(err))

	count, err := repo.Count(context.Background(), posts.PostFilter{AuthorID: author.ID})
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
