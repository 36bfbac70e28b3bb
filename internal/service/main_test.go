package service

import (
	"testing"

	"quill/internal/models"
	"quill/internal/repository"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Article{}, &models.Comment{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// newServices wires the full service layer over a fresh in-memory database.
func newServices(t *testing.T) (*gorm.DB, *UserService, *ArticleService, *CommentService) {
	t.Helper()
	db := newTestDB(t)
	counts := NewCounts()
	userRepo := repository.NewUserRepository(db)
	articleRepo := repository.NewArticleRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	users := NewUserService(db, userRepo, articleRepo, commentRepo, counts)
	articles := NewArticleService(db, articleRepo, counts)
	comments := NewCommentService(db, commentRepo, articleRepo, counts)
	return db, users, articles, comments
}

func seedUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{
		Email:    email,
		Password: "hashed-password",
		FullName: "Test User",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func seedArticle(t *testing.T, db *gorm.DB, authorID uint, title string) *models.Article {
	t.Helper()
	article := &models.Article{
		Title:    title,
		Content:  "Content of " + title,
		Status:   models.ArticleStatusPublished,
		AuthorID: authorID,
	}
	if err := db.Create(article).Error; err != nil {
		t.Fatalf("failed to seed article: %v", err)
	}
	return article
}

func seedComment(t *testing.T, db *gorm.DB, articleID, authorID uint, content string) *models.Comment {
	t.Helper()
	comment := &models.Comment{
		Content:   content,
		ArticleID: articleID,
		AuthorID:  authorID,
	}
	if err := db.Create(comment).Error; err != nil {
		t.Fatalf("failed to seed comment: %v", err)
	}
	return comment
}

func userCounters(t *testing.T, db *gorm.DB, userID uint) (articleCount, commentCount int) {
	t.Helper()
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		t.Fatalf("failed to reload user %d: %v", userID, err)
	}
	return user.ArticleCount, user.CommentCount
}
