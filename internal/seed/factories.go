// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"quill/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db   *gorm.DB
	opts SeedOptions
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// SeedOptions tunes factory behaviour.
type SeedOptions struct {
	// DryRun logs what would be created without touching the database.
	DryRun bool
	// SkipBcrypt stores a plaintext password, useful when seeding thousands
	// of users in development.
	SkipBcrypt bool
	// MaxDays spreads created_at timestamps over this many days back.
	MaxDays int
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts SeedOptions) *Factory {
	// seed gofakeit for richer content
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{db: db, opts: opts, nextID: 1000}
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	name := gofakeit.Name()
	email := strings.ToLower(fmt.Sprintf("%s%d@example.com", gofakeit.Username(), gofakeit.Number(100, 999)))
	user := &models.User{
		Email:     email,
		FullName:  name,
		AvatarURL: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}

	// Password handling: allow skipping bcrypt in dev fast mode
	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if f.opts.DryRun {
		f.nextID++
		user.ID = f.nextID
		log.Printf("[dry-run] CreateUser: %s <%s>", user.FullName, user.Email)
		return user, nil
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildArticle constructs an article struct without persisting it.
// Useful for batching.
func (f *Factory) BuildArticle(author *models.User, overrides ...func(*models.Article)) *models.Article {
	article := &models.Article{
		Title:    strings.TrimSuffix(gofakeit.Sentence(5), "."),
		Content:  gofakeit.Paragraph(2, 4, 8, "\n\n"),
		Summary:  gofakeit.Sentence(12),
		AuthorID: author.ID,
		Status:   "published",
	}

	tagCount := gofakeit.Number(1, 4)
	tags := make([]string, 0, tagCount)
	for i := 0; i < tagCount; i++ {
		tags = append(tags, strings.ToLower(gofakeit.BuzzWord()))
	}
	article.Tags = tags

	// realistic created_at spread
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	// #nosec G404: acceptable for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	daysBack := r.Intn(maxDays)
	hoursBack := r.Intn(24)
	minsBack := r.Intn(60)
	article.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour - time.Duration(minsBack)*time.Minute)

	// roughly one in six stays a draft
	if r.Intn(6) == 0 {
		article.Status = "draft"
	}

	for _, override := range overrides {
		override(article)
	}
	return article
}

// CreateArticle constructs and persists a sample `models.Article` for the
// given author.
func (f *Factory) CreateArticle(author *models.User, overrides ...func(*models.Article)) (*models.Article, error) {
	article := f.BuildArticle(author, overrides...)

	if f.opts.DryRun {
		f.nextID++
		article.ID = f.nextID
		log.Printf("[dry-run] CreateArticle: author=%d title=%q", article.AuthorID, article.Title)
		return article, nil
	}

	if err := f.db.Create(article).Error; err != nil {
		return nil, err
	}
	return article, nil
}

// CreateArticlesBatch persists multiple articles in a single DB call when possible.
func (f *Factory) CreateArticlesBatch(articles []*models.Article) error {
	if f.opts.DryRun {
		for _, a := range articles {
			f.nextID++
			a.ID = f.nextID
		}
		log.Printf("[dry-run] CreateArticlesBatch: %d articles (no DB write)", len(articles))
		return nil
	}
	return f.db.Create(&articles).Error
}

// CreateComment constructs and persists a sample `models.Comment` on the
// provided article authored by the provided user.
func (f *Factory) CreateComment(author *models.User, article *models.Article, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		Content:   gofakeit.Sentence(8),
		AuthorID:  author.ID,
		ArticleID: article.ID,
	}

	for _, override := range overrides {
		override(comment)
	}

	if f.opts.DryRun {
		f.nextID++
		comment.ID = f.nextID
		log.Printf("[dry-run] CreateComment: author=%d article=%d", comment.AuthorID, comment.ArticleID)
		return comment, nil
	}

	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}
