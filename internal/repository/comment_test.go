package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"quill/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author@example.com")
	article := createTestArticle(t, db, author.ID, "Discussed")

	comment := &models.Comment{
		Content:   "Nice write-up",
		ArticleID: article.ID,
		AuthorID:  author.ID,
	}
	require.NoError(t, repo.Create(ctx, comment))

	got, err := repo.GetByID(ctx, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, "Nice write-up", got.Content)
	assert.Equal(t, author.ID, got.Author.ID)
}

func TestCommentRepository_GetByID_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepository(db)

	_, err := repo.GetByID(context.Background(), 123)
	require.Error(t, err)
	assert.True(t, models.IsNotFound(err))
}

func TestCommentRepository_ListByArticle(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author@example.com")
	article := createTestArticle(t, db, author.ID, "Popular")
	other := createTestArticle(t, db, author.ID, "Quiet")

	base := time.Now().Add(-time.Hour)
	for i := 1; i <= 4; i++ {
		c := createTestComment(t, db, article.ID, author.ID, fmt.Sprintf("comment %d", i))
		require.NoError(t, db.Model(c).Update("created_at", base.Add(time.Duration(i)*time.Minute)).Error)
	}
	createTestComment(t, db, other.ID, author.ID, "elsewhere")

	comments, err := repo.ListByArticle(ctx, article.ID, 3, 0)
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, "comment 4", comments[0].Content)

	count, err := repo.CountByArticle(ctx, article.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
}

func TestCommentRepository_RecentByAuthor(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "busy@example.com")
	article := createTestArticle(t, db, author.ID, "Thread")

	base := time.Now().Add(-time.Hour)
	for i := 1; i <= 6; i++ {
		c := createTestComment(t, db, article.ID, author.ID, fmt.Sprintf("comment %d", i))
		require.NoError(t, db.Model(c).Update("created_at", base.Add(time.Duration(i)*time.Minute)).Error)
	}

	recent, err := repo.RecentByAuthor(ctx, author.ID, 5)
	require.NoError(t, err)
	require.Len(t, recent, 5)
	assert.Equal(t, "comment 6", recent[0].Content)
}

func TestCommentRepository_Update(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "editor@example.com")
	article := createTestArticle(t, db, author.ID, "Edited")
	comment := createTestComment(t, db, article.ID, author.ID, "tpyo")

	comment.Content = "typo fixed"
	require.NoError(t, repo.Update(ctx, comment))

	got, err := repo.GetByID(ctx, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, "typo fixed", got.Content)
}
