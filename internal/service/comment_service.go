package service

import (
	"context"

	"quill/internal/cache"
	"quill/internal/models"
	"quill/internal/pagination"
	"quill/internal/repository"

	"gorm.io/gorm"
)

const maxCommentLen = 10000

type CommentService struct {
	db          *gorm.DB
	commentRepo repository.CommentRepository
	articleRepo repository.ArticleRepository
	counts      *Counts
}

type CreateCommentInput struct {
	UserID    uint
	ArticleID uint
	Content   string
}

type UpdateCommentInput struct {
	UserID    uint
	CommentID uint
	Content   string
}

type DeleteCommentInput struct {
	UserID    uint
	CommentID uint
}

func NewCommentService(
	db *gorm.DB,
	commentRepo repository.CommentRepository,
	articleRepo repository.ArticleRepository,
	counts *Counts,
) *CommentService {
	return &CommentService{
		db:          db,
		commentRepo: commentRepo,
		articleRepo: articleRepo,
		counts:      counts,
	}
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if _, err := s.articleRepo.GetByID(ctx, in.ArticleID); err != nil {
		return nil, err
	}
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}

	comment := &models.Comment{
		Content:   in.Content,
		ArticleID: in.ArticleID,
		AuthorID:  in.UserID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := repository.NewCommentRepository(tx).Create(ctx, comment); err != nil {
			return err
		}
		return s.counts.CommentCreated(ctx, tx, in.UserID)
	})
	if err != nil {
		return nil, err
	}

	cache.InvalidateArticle(ctx, in.ArticleID)
	cache.InvalidateUser(ctx, in.UserID)
	return s.commentRepo.GetByID(ctx, comment.ID)
}

func (s *CommentService) ListComments(ctx context.Context, articleID uint, params pagination.Params) (*pagination.Page[*models.Comment], error) {
	if _, err := s.articleRepo.GetByID(ctx, articleID); err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.ListByArticle(ctx, articleID, params.Limit(), params.Offset())
	if err != nil {
		return nil, err
	}
	total, err := s.commentRepo.CountByArticle(ctx, articleID)
	if err != nil {
		return nil, err
	}
	page := pagination.NewPage(comments, total, params)
	return &page, nil
}

func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}
	if comment.AuthorID != in.UserID {
		return nil, models.NewForbiddenError("You can only update your own comments")
	}
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}

	comment.Content = in.Content
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, comment.ID)
}

// DeleteComment removes a comment and decrements its author's counter in one
// transaction. Existence is checked before ownership so a missing comment
// reports not-found rather than forbidden.
func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) error {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return err
	}
	if comment.AuthorID != in.UserID {
		return models.NewForbiddenError("You can only delete your own comments")
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).Delete(&models.Comment{}, comment.ID).Error; err != nil {
			return models.NewInternalError(err)
		}
		return s.counts.CommentDeleted(ctx, tx, comment.AuthorID)
	})
	if err != nil {
		return err
	}

	cache.InvalidateArticle(ctx, comment.ArticleID)
	cache.InvalidateUser(ctx, comment.AuthorID)
	return nil
}
