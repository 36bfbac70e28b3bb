// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"quill/internal/models"
	"quill/internal/service"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumArticles int
	NumComments int
	ShouldClean bool
}

// Seed populates the database with test data
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("🌱 Starting database seeding with %d users, %d articles and %d comments...",
		opts.NumUsers, opts.NumArticles, opts.NumComments)

	// Clear existing data to avoid conflicts if requested
	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	factory := NewFactory(db, SeedOptions{})

	users, err := createUsers(factory, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("✓ %d test users created", len(users))

	articles, err := createArticles(factory, users, opts.NumArticles)
	if err != nil {
		return fmt.Errorf("failed to create articles: %w", err)
	}
	log.Printf("✓ %d articles created", len(articles))

	comments, err := createComments(factory, users, articles, opts.NumComments)
	if err != nil {
		return fmt.Errorf("failed to create comments: %w", err)
	}
	log.Printf("✓ %d comments created", comments)

	// Rows were inserted directly, bypassing the counting services, so
	// derive the per-user counters from what actually landed.
	if err := service.NewCounts().RepairAll(context.Background(), db); err != nil {
		return fmt.Errorf("failed to settle counters: %w", err)
	}
	log.Println("✓ user counters settled")

	log.Println("🎉 Database seeding completed successfully!")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("🗑️  Clearing existing data...")
	sql := `TRUNCATE TABLE comments, articles, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

func createUsers(factory *Factory, count int) ([]*models.User, error) {
	users := make([]*models.User, 0, count)

	// Always include some specific users for consistency if cleaning
	if count >= 3 {
		baseEmails := []string{"quill@example.com", "editor@example.com", "test@example.com"}
		for _, email := range baseEmails {
			e := email
			user, err := factory.CreateUser(func(u *models.User) {
				u.Email = e
			})
			if err == nil {
				users = append(users, user)
			}
		}
	}

	for i := len(users); i < count; i++ {
		user, err := factory.CreateUser()
		if err != nil {
			log.Printf("Failed to create user %d: %v", i, err)
			continue
		}
		users = append(users, user)

		if i > 0 && i%100 == 0 {
			log.Printf("Created %d users...", i)
		}
	}

	return users, nil
}

func createArticles(factory *Factory, users []*models.User, count int) ([]*models.Article, error) {
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	articles := make([]*models.Article, 0, count)

	for i := 0; i < count; i++ {
		author := users[r.Intn(len(users))]
		article, err := factory.CreateArticle(author)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)

		if i > 0 && i%100 == 0 {
			log.Printf("Created %d articles...", i)
		}
	}

	return articles, nil
}

func createComments(factory *Factory, users []*models.User, articles []*models.Article, count int) (int, error) {
	if len(articles) == 0 {
		return 0, nil
	}

	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	created := 0

	for i := 0; i < count; i++ {
		author := users[r.Intn(len(users))]
		article := articles[r.Intn(len(articles))]
		if _, err := factory.CreateComment(author, article); err != nil {
			return created, err
		}
		created++

		if i > 0 && i%200 == 0 {
			log.Printf("Created %d comments...", i)
		}
	}

	return created, nil
}
