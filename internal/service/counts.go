// Package service contains the application's business logic layer.
package service

import (
	"context"
	"log/slog"
	"time"

	"quill/internal/middleware"
	"quill/internal/models"
	"quill/internal/observability"

	"gorm.io/gorm"
)

// Counts maintains the denormalized article_count and comment_count columns
// on users. Every mutation must run inside the same transaction as the row
// change it mirrors; callers pass the transaction handle in.
//
// Stored counters exist only on users. Article comment counts are computed
// live at query time and never pass through here.
type Counts struct{}

// NewCounts returns a counter maintainer.
func NewCounts() *Counts {
	return &Counts{}
}

// ArticleCreated increments the author's article count.
func (c *Counts) ArticleCreated(ctx context.Context, tx *gorm.DB, authorID uint) error {
	if err := tx.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", authorID).
		UpdateColumn("article_count", gorm.Expr("article_count + 1")).Error; err != nil {
		return models.NewInternalError(err)
	}
	observability.CounterMutations.WithLabelValues("article_count", "increment").Inc()
	middleware.Logger.DebugContext(ctx, "counter adjusted",
		middleware.CounterAttrs("article_count", "increment", authorID, 1)...)
	return nil
}

// ArticleDeleted settles all counters affected by removing an article.
// It must run before the article's comments are deleted: the comment rows
// are what tells us which authors need their comment counts decremented.
// The returned IDs are the commenters whose counts came down; callers drop
// their cached profiles after the transaction commits.
func (c *Counts) ArticleDeleted(ctx context.Context, tx *gorm.DB, articleID, authorID uint) ([]uint, error) {
	type authorCount struct {
		AuthorID uint
		N        int64
	}
	var perAuthor []authorCount
	if err := tx.WithContext(ctx).Model(&models.Comment{}).
		Select("author_id, COUNT(*) as n").
		Where("article_id = ?", articleID).
		Group("author_id").
		Scan(&perAuthor).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	settled := make([]uint, 0, len(perAuthor))
	for _, ac := range perAuthor {
		if err := c.decrement(ctx, tx, "comment_count", ac.AuthorID, ac.N); err != nil {
			return nil, err
		}
		settled = append(settled, ac.AuthorID)
	}

	if err := c.decrement(ctx, tx, "article_count", authorID, 1); err != nil {
		return nil, err
	}
	return settled, nil
}

// CommentCreated increments the comment author's comment count.
func (c *Counts) CommentCreated(ctx context.Context, tx *gorm.DB, authorID uint) error {
	if err := tx.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", authorID).
		UpdateColumn("comment_count", gorm.Expr("comment_count + 1")).Error; err != nil {
		return models.NewInternalError(err)
	}
	observability.CounterMutations.WithLabelValues("comment_count", "increment").Inc()
	middleware.Logger.DebugContext(ctx, "counter adjusted",
		middleware.CounterAttrs("comment_count", "increment", authorID, 1)...)
	return nil
}

// CommentDeleted decrements the comment author's comment count.
func (c *Counts) CommentDeleted(ctx context.Context, tx *gorm.DB, authorID uint) error {
	return c.decrement(ctx, tx, "comment_count", authorID, 1)
}

// UserDeleted settles third-party counters before a user's rows cascade away.
// Other users who commented on the departing user's articles lose those
// comments, so their comment counts come down. The departing user's own
// counters vanish with the row and need no adjustment. The returned IDs are
// the settled third parties; callers drop their cached profiles after commit.
func (c *Counts) UserDeleted(ctx context.Context, tx *gorm.DB, userID uint) ([]uint, error) {
	type authorCount struct {
		AuthorID uint
		N        int64
	}
	var perAuthor []authorCount
	if err := tx.WithContext(ctx).Model(&models.Comment{}).
		Select("comments.author_id, COUNT(*) as n").
		Joins("JOIN articles ON articles.id = comments.article_id").
		Where("articles.author_id = ? AND articles.deleted_at IS NULL AND comments.author_id <> ?", userID, userID).
		Group("comments.author_id").
		Scan(&perAuthor).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	settled := make([]uint, 0, len(perAuthor))
	for _, ac := range perAuthor {
		if err := c.decrement(ctx, tx, "comment_count", ac.AuthorID, ac.N); err != nil {
			return nil, err
		}
		settled = append(settled, ac.AuthorID)
	}
	return settled, nil
}

// decrement lowers a counter by n, clamping at zero. A counter that would
// go negative is already corrupted; clamping keeps the invariant while
// RepairAll restores the true value.
func (c *Counts) decrement(ctx context.Context, tx *gorm.DB, column string, userID uint, n int64) error {
	if n <= 0 {
		return nil
	}
	expr := gorm.Expr("CASE WHEN "+column+" >= ? THEN "+column+" - ? ELSE 0 END", n, n)
	if err := tx.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn(column, expr).Error; err != nil {
		return models.NewInternalError(err)
	}
	observability.CounterMutations.WithLabelValues(column, "decrement").Inc()
	middleware.Logger.DebugContext(ctx, "counter adjusted",
		middleware.CounterAttrs(column, "decrement", userID, n)...)
	return nil
}

// RepairAll recomputes every user's stored counters from live rows in a
// single pass. Safe to run at any time; a run against consistent data is a
// no-op.
func (c *Counts) RepairAll(ctx context.Context, db *gorm.DB) error {
	start := time.Now()

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`
UPDATE users
SET article_count = (
	SELECT COUNT(*) FROM articles
	WHERE articles.author_id = users.id AND articles.deleted_at IS NULL
),
comment_count = (
	SELECT COUNT(*) FROM comments
	WHERE comments.author_id = users.id AND comments.deleted_at IS NULL
)
WHERE users.deleted_at IS NULL`).Error; err != nil {
			return err
		}
		return nil
	})

	elapsed := time.Since(start)
	observability.CounterRepairDuration.Observe(elapsed.Seconds())
	if err != nil {
		observability.CounterRepairRuns.WithLabelValues("error").Inc()
		middleware.Logger.Error("Counter repair failed",
			slog.String("error", err.Error()),
			slog.Duration("elapsed", elapsed),
		)
		return models.NewInternalError(err)
	}

	observability.CounterRepairRuns.WithLabelValues("success").Inc()
	middleware.Logger.Info("Counter repair completed", slog.Duration("elapsed", elapsed))
	return nil
}
