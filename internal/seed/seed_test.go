package seed

import (
	"testing"

	"quill/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSeedTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Article{}, &models.Comment{}); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}

func TestFactory_CreateUser(t *testing.T) {
	db := newSeedTestDB(t)
	factory := NewFactory(db, SeedOptions{SkipBcrypt: true})

	user, err := factory.CreateUser()
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if user.ID == 0 {
		t.Fatal("expected persisted user to have an ID")
	}
	if user.Email == "" || user.FullName == "" {
		t.Fatalf("expected generated identity, got %+v", user)
	}

	var count int64
	db.Model(&models.User{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected 1 user row, got %d", count)
	}
}

func TestFactory_CreateUser_Override(t *testing.T) {
	db := newSeedTestDB(t)
	factory := NewFactory(db, SeedOptions{SkipBcrypt: true})

	user, err := factory.CreateUser(func(u *models.User) {
		u.Email = "fixed@example.com"
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if user.Email != "fixed@example.com" {
		t.Fatalf("override not applied: %s", user.Email)
	}
}

func TestFactory_CreateArticleAndComment(t *testing.T) {
	db := newSeedTestDB(t)
	factory := NewFactory(db, SeedOptions{SkipBcrypt: true})

	author, err := factory.CreateUser()
	if err != nil {
		t.Fatalf("create author: %v", err)
	}
	article, err := factory.CreateArticle(author)
	if err != nil {
		t.Fatalf("create article: %v", err)
	}
	if article.AuthorID != author.ID {
		t.Fatalf("expected author %d, got %d", author.ID, article.AuthorID)
	}
	if article.Status != "published" && article.Status != "draft" {
		t.Fatalf("unexpected status %q", article.Status)
	}
	if len(article.Tags) == 0 {
		t.Fatal("expected generated tags")
	}

	comment, err := factory.CreateComment(author, article)
	if err != nil {
		t.Fatalf("create comment: %v", err)
	}
	if comment.ArticleID != article.ID || comment.AuthorID != author.ID {
		t.Fatalf("comment not linked: %+v", comment)
	}
}

func TestFactory_DryRun(t *testing.T) {
	db := newSeedTestDB(t)
	factory := NewFactory(db, SeedOptions{DryRun: true, SkipBcrypt: true})

	user, err := factory.CreateUser()
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if user.ID == 0 {
		t.Fatal("dry-run should assign a synthetic ID")
	}

	var count int64
	db.Model(&models.User{}).Count(&count)
	if count != 0 {
		t.Fatalf("dry-run wrote %d rows", count)
	}
}

func TestSeed_EndToEnd(t *testing.T) {
	db := newSeedTestDB(t)

	err := Seed(db, Options{NumUsers: 5, NumArticles: 8, NumComments: 12})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	var userCount, articleCount, commentCount int64
	db.Model(&models.User{}).Count(&userCount)
	db.Model(&models.Article{}).Count(&articleCount)
	db.Model(&models.Comment{}).Count(&commentCount)
	if userCount != 5 || articleCount != 8 || commentCount != 12 {
		t.Fatalf("unexpected row counts: users=%d articles=%d comments=%d", userCount, articleCount, commentCount)
	}

	// Counters must match the rows that actually landed.
	var users []models.User
	if err := db.Find(&users).Error; err != nil {
		t.Fatalf("load users: %v", err)
	}
	for _, u := range users {
		var haveArticles, haveComments int64
		db.Model(&models.Article{}).Where("author_id = ?", u.ID).Count(&haveArticles)
		db.Model(&models.Comment{}).Where("author_id = ?", u.ID).Count(&haveComments)
		if int64(u.ArticleCount) != haveArticles {
			t.Fatalf("user %d article_count=%d, rows=%d", u.ID, u.ArticleCount, haveArticles)
		}
		if int64(u.CommentCount) != haveComments {
			t.Fatalf("user %d comment_count=%d, rows=%d", u.ID, u.CommentCount, haveComments)
		}
	}
}
