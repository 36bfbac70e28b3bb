// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered author in the Quill application.
type User struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Email     string `gorm:"unique;not null" json:"email"`
	Password  string `gorm:"not null" json:"-"`
	FullName  string `gorm:"not null" json:"full_name"`
	AvatarURL string `json:"avatar_url,omitempty"`
	// ArticleCount and CommentCount are denormalized counters, updated in
	// the same transaction as every article/comment mutation.
	ArticleCount int            `gorm:"not null;default:0" json:"article_count"`
	CommentCount int            `gorm:"not null;default:0" json:"comment_count"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Articles     []Article      `gorm:"foreignKey:AuthorID" json:"articles,omitempty"`
	Comments     []Comment      `gorm:"foreignKey:AuthorID" json:"comments,omitempty"`
}

// UserProfile is the detailed profile view assembled for profile endpoints:
// core user fields, both counters, and the user's most recent activity.
type UserProfile struct {
	ID             uint       `json:"id"`
	Email          string     `json:"email"`
	FullName       string     `json:"full_name"`
	AvatarURL      string     `json:"avatar_url,omitempty"`
	ArticleCount   int        `json:"article_count"`
	CommentCount   int        `json:"comment_count"`
	CreatedAt      time.Time  `json:"created_at"`
	RecentArticles []*Article `json:"recent_articles"`
	RecentComments []*Comment `json:"recent_comments"`
}
