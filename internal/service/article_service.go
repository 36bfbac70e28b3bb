package service

import (
	"context"

	"quill/internal/cache"
	"quill/internal/models"
	"quill/internal/pagination"
	"quill/internal/repository"

	"gorm.io/gorm"
)

const (
	maxTitleLen   = 255
	maxSummaryLen = 500
)

// ArticleService owns article lifecycle and keeps author counters in step
// with every mutation.
type ArticleService struct {
	db          *gorm.DB
	articleRepo repository.ArticleRepository
	counts      *Counts
}

type CreateArticleInput struct {
	AuthorID uint
	Title    string
	Content  string
	Summary  string
	Tags     []string
	Status   string
}

type UpdateArticleInput struct {
	UserID    uint
	ArticleID uint
	Title     *string
	Content   *string
	Summary   *string
	Tags      []string
	Status    *string
}

type DeleteArticleInput struct {
	UserID    uint
	ArticleID uint
}

func NewArticleService(db *gorm.DB, articleRepo repository.ArticleRepository, counts *Counts) *ArticleService {
	return &ArticleService{
		db:          db,
		articleRepo: articleRepo,
		counts:      counts,
	}
}

func validateArticleStatus(status string) error {
	switch status {
	case models.ArticleStatusDraft, models.ArticleStatusPublished:
		return nil
	default:
		return models.NewValidationError("Status must be 'draft' or 'published'")
	}
}

func (s *ArticleService) CreateArticle(ctx context.Context, in CreateArticleInput) (*models.Article, error) {
	if in.Title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(in.Title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 255 characters)")
	}
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Summary) > maxSummaryLen {
		return nil, models.NewValidationError("Summary too long (max 500 characters)")
	}
	status := in.Status
	if status == "" {
		status = models.ArticleStatusDraft
	}
	if err := validateArticleStatus(status); err != nil {
		return nil, err
	}

	article := &models.Article{
		Title:    in.Title,
		Content:  in.Content,
		Summary:  in.Summary,
		Tags:     in.Tags,
		Status:   status,
		AuthorID: in.AuthorID,
	}

	// The row insert and the counter increment commit or roll back together.
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := repository.NewArticleRepository(tx).Create(ctx, article); err != nil {
			return err
		}
		return s.counts.ArticleCreated(ctx, tx, in.AuthorID)
	})
	if err != nil {
		return nil, err
	}

	cache.InvalidateUser(ctx, in.AuthorID)
	return s.articleRepo.GetByID(ctx, article.ID)
}

// GetArticle returns an article by ID. Drafts are visible only to their
// author; to everyone else a draft reads as not found, never as forbidden,
// so its existence is not leaked.
func (s *ArticleService) GetArticle(ctx context.Context, id, viewerID uint) (*models.Article, error) {
	article, err := s.articleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if article.Status == models.ArticleStatusDraft && article.AuthorID != viewerID {
		return nil, models.NewNotFoundError("Article", id)
	}
	return article, nil
}

func (s *ArticleService) ListArticles(ctx context.Context, params pagination.Params) (*pagination.Page[*models.Article], error) {
	articles, err := s.articleRepo.List(ctx, params.Limit(), params.Offset())
	if err != nil {
		return nil, err
	}
	total, err := s.articleRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	page := pagination.NewPage(articles, total, params)
	return &page, nil
}

func (s *ArticleService) ListArticlesByAuthor(ctx context.Context, authorID uint, params pagination.Params) (*pagination.Page[*models.Article], error) {
	articles, err := s.articleRepo.ListByAuthor(ctx, authorID, params.Limit(), params.Offset())
	if err != nil {
		return nil, err
	}
	total, err := s.articleRepo.CountByAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}
	page := pagination.NewPage(articles, total, params)
	return &page, nil
}

func (s *ArticleService) UpdateArticle(ctx context.Context, in UpdateArticleInput) (*models.Article, error) {
	article, err := s.articleRepo.GetByID(ctx, in.ArticleID)
	if err != nil {
		return nil, err
	}
	if article.AuthorID != in.UserID {
		return nil, models.NewForbiddenError("You can only update your own articles")
	}

	if in.Title != nil {
		if *in.Title == "" {
			return nil, models.NewValidationError("Title is required")
		}
		if len(*in.Title) > maxTitleLen {
			return nil, models.NewValidationError("Title too long (max 255 characters)")
		}
		article.Title = *in.Title
	}
	if in.Content != nil {
		if *in.Content == "" {
			return nil, models.NewValidationError("Content is required")
		}
		article.Content = *in.Content
	}
	if in.Summary != nil {
		if len(*in.Summary) > maxSummaryLen {
			return nil, models.NewValidationError("Summary too long (max 500 characters)")
		}
		article.Summary = *in.Summary
	}
	if in.Tags != nil {
		article.Tags = in.Tags
	}
	if in.Status != nil {
		if err := validateArticleStatus(*in.Status); err != nil {
			return nil, err
		}
		article.Status = *in.Status
	}

	if err := s.articleRepo.Update(ctx, article); err != nil {
		return nil, err
	}
	return s.articleRepo.GetByID(ctx, article.ID)
}

// DeleteArticle removes an article, its comments, and settles every
// affected counter in one transaction.
func (s *ArticleService) DeleteArticle(ctx context.Context, in DeleteArticleInput) error {
	article, err := s.articleRepo.GetByID(ctx, in.ArticleID)
	if err != nil {
		return err
	}
	if article.AuthorID != in.UserID {
		return models.NewForbiddenError("You can only delete your own articles")
	}

	var settled []uint
	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Counters first: the settlement query needs the comment rows
		var cerr error
		settled, cerr = s.counts.ArticleDeleted(ctx, tx, article.ID, article.AuthorID)
		if cerr != nil {
			return cerr
		}
		if err := tx.WithContext(ctx).Where("article_id = ?", article.ID).Delete(&models.Comment{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.WithContext(ctx).Delete(&models.Article{}, article.ID).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	cache.InvalidateArticle(ctx, article.ID)
	cache.InvalidateUser(ctx, article.AuthorID)
	// Settled commenters have stale cached profiles too
	for _, id := range settled {
		cache.InvalidateUser(ctx, id)
	}
	return nil
}
