// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"quill/internal/cache"
	"quill/internal/models"

	"gorm.io/gorm"
)

// ArticleRepository defines the interface for article data operations
type ArticleRepository interface {
	Create(ctx context.Context, article *models.Article) error
	GetByID(ctx context.Context, id uint) (*models.Article, error)
	List(ctx context.Context, limit, offset int) ([]*models.Article, error)
	Count(ctx context.Context) (int64, error)
	ListByAuthor(ctx context.Context, authorID uint, limit, offset int) ([]*models.Article, error)
	CountByAuthor(ctx context.Context, authorID uint) (int64, error)
	RecentByAuthor(ctx context.Context, authorID uint, limit int) ([]*models.Article, error)
	Update(ctx context.Context, article *models.Article) error
}

// articleRepository implements ArticleRepository
type articleRepository struct {
	db *gorm.DB
}

// NewArticleRepository creates a new article repository
func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

func (r *articleRepository) Create(ctx context.Context, article *models.Article) error {
	if err := r.db.WithContext(ctx).Create(article).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *articleRepository) GetByID(ctx context.Context, id uint) (*models.Article, error) {
	var article models.Article
	key := cache.ArticleKey(id)

	err := cache.Aside(ctx, key, &article, cache.ArticleTTL, func() error {
		if err := r.applyArticleDetails(r.db.WithContext(ctx)).
			Preload("Author").
			First(&article, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Article", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *articleRepository) List(ctx context.Context, limit, offset int) ([]*models.Article, error) {
	var articles []*models.Article
	err := r.applyArticleDetails(r.db.WithContext(ctx)).
		Preload("Author").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&articles).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return articles, nil
}

func (r *articleRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Article{}).Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *articleRepository) ListByAuthor(ctx context.Context, authorID uint, limit, offset int) ([]*models.Article, error) {
	var articles []*models.Article
	err := r.applyArticleDetails(r.db.WithContext(ctx)).
		Preload("Author").
		Where("author_id = ?", authorID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&articles).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return articles, nil
}

func (r *articleRepository) CountByAuthor(ctx context.Context, authorID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Article{}).
		Where("author_id = ?", authorID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

// RecentByAuthor returns the author's newest articles for profile aggregation.
func (r *articleRepository) RecentByAuthor(ctx context.Context, authorID uint, limit int) ([]*models.Article, error) {
	var articles []*models.Article
	err := r.applyArticleDetails(r.db.WithContext(ctx)).
		Where("author_id = ?", authorID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&articles).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return articles, nil
}

func (r *articleRepository) Update(ctx context.Context, article *models.Article) error {
	if err := r.db.WithContext(ctx).Save(article).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateArticle(ctx, article.ID)
	return nil
}

// applyArticleDetails adds a subquery to fetch the live comment count in a single query.
// The count reflects live comment rows, not a stored counter, so it cannot drift.
func (r *articleRepository) applyArticleDetails(db *gorm.DB) *gorm.DB {
	return db.Select("articles.*, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.article_id = articles.id AND comments.deleted_at IS NULL) as comment_count")
}
