package service

import (
	"context"
	"strings"

	"quill/internal/cache"
	"quill/internal/models"
	"quill/internal/pagination"
	"quill/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// profileRecentLimit caps the recent-activity lists on a profile.
const profileRecentLimit = 5

type UserService struct {
	db          *gorm.DB
	userRepo    repository.UserRepository
	articleRepo repository.ArticleRepository
	commentRepo repository.CommentRepository
	counts      *Counts
}

type RegisterInput struct {
	Email    string
	Password string
	FullName string
}

type UpdateProfileInput struct {
	UserID    uint
	FullName  string
	AvatarURL string
	Password  string
}

func NewUserService(
	db *gorm.DB,
	userRepo repository.UserRepository,
	articleRepo repository.ArticleRepository,
	commentRepo repository.CommentRepository,
	counts *Counts,
) *UserService {
	return &UserService{
		db:          db,
		userRepo:    userRepo,
		articleRepo: articleRepo,
		commentRepo: commentRepo,
		counts:      counts,
	}
}

// Register creates a new user with a bcrypt-hashed password. A duplicate
// email reports a conflict.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, models.NewValidationError("A valid email is required")
	}
	if len(in.Password) < 8 {
		return nil, models.NewValidationError("Password must be at least 8 characters")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hashed),
		FullName: strings.TrimSpace(in.FullName),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate verifies credentials and returns the matching user. Wrong
// email and wrong password produce the same error.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("Invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewUnauthorizedError("Invalid email or password")
	}
	return user, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) ListUsers(ctx context.Context, params pagination.Params) (*pagination.Page[models.User], error) {
	users, err := s.userRepo.List(ctx, params.Limit(), params.Offset())
	if err != nil {
		return nil, err
	}
	total, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	page := pagination.NewPage(users, total, params)
	return &page, nil
}

// GetProfile assembles the aggregated profile view: the user, both stored
// counters, and the five most recent articles and comments. A user with no
// activity gets empty lists, never null.
func (s *UserService) GetProfile(ctx context.Context, userID uint) (*models.UserProfile, error) {
	var profile models.UserProfile

	err := cache.Aside(ctx, cache.ProfileKey(userID), &profile, cache.ProfileTTL, func() error {
		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			return err
		}

		articles, err := s.articleRepo.RecentByAuthor(ctx, userID, profileRecentLimit)
		if err != nil {
			return err
		}
		comments, err := s.commentRepo.RecentByAuthor(ctx, userID, profileRecentLimit)
		if err != nil {
			return err
		}
		if articles == nil {
			articles = []*models.Article{}
		}
		if comments == nil {
			comments = []*models.Comment{}
		}

		profile = models.UserProfile{
			ID:             user.ID,
			Email:          user.Email,
			FullName:       user.FullName,
			AvatarURL:      user.AvatarURL,
			ArticleCount:   user.ArticleCount,
			CommentCount:   user.CommentCount,
			CreatedAt:      user.CreatedAt,
			RecentArticles: articles,
			RecentComments: comments,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	const maxNameLen = 255

	if in.FullName != "" {
		if len(in.FullName) > maxNameLen {
			return nil, models.NewValidationError("Full name too long (max 255 characters)")
		}
		user.FullName = in.FullName
	}
	if in.AvatarURL != "" {
		user.AvatarURL = in.AvatarURL
	}
	if in.Password != "" {
		if len(in.Password) < 8 {
			return nil, models.NewValidationError("Password must be at least 8 characters")
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		user.Password = string(hashed)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes a user and everything they own: their comments, their
// articles, and the comments other users left on those articles. Third-party
// counters are settled in the same transaction.
func (s *UserService) DeleteUser(ctx context.Context, userID uint) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	var (
		articleIDs []uint
		settled    []uint
	)
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var cerr error
		settled, cerr = s.counts.UserDeleted(ctx, tx, userID)
		if cerr != nil {
			return cerr
		}

		if err := tx.WithContext(ctx).Model(&models.Article{}).
			Where("author_id = ?", userID).
			Pluck("id", &articleIDs).Error; err != nil {
			return models.NewInternalError(err)
		}

		// Cascade order: comments on the user's articles, the user's own
		// comments elsewhere, the user's articles, then the user row.
		if len(articleIDs) > 0 {
			if err := tx.WithContext(ctx).Where("article_id IN ?", articleIDs).Delete(&models.Comment{}).Error; err != nil {
				return models.NewInternalError(err)
			}
		}
		if err := tx.WithContext(ctx).Where("author_id = ?", userID).Delete(&models.Comment{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.WithContext(ctx).Where("author_id = ?", userID).Delete(&models.Article{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.WithContext(ctx).Delete(&models.User{}, userID).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	cache.InvalidateUser(ctx, user.ID)
	// Settled third parties have stale cached profiles too
	for _, id := range settled {
		cache.InvalidateUser(ctx, id)
	}
	for _, id := range articleIDs {
		cache.InvalidateArticle(ctx, id)
	}
	return nil
}
