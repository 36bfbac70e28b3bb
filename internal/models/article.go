package models

import (
	"time"

	"gorm.io/gorm"
)

// Article status values.
const (
	ArticleStatusDraft     = "draft"
	ArticleStatusPublished = "published"
)

// Article represents an article in the Quill application.
type Article struct {
	ID       uint     `gorm:"primaryKey" json:"id"`
	Title    string   `gorm:"size:255;not null" json:"title"`
	Content  string   `gorm:"type:text;not null" json:"content"`
	Summary  string   `gorm:"size:500" json:"summary,omitempty"`
	Tags     []string `gorm:"serializer:json" json:"tags"`
	Status   string   `gorm:"size:20;not null;default:draft" json:"status"`
	AuthorID uint     `gorm:"not null;index" json:"author_id"`
	Author   User     `gorm:"foreignKey:AuthorID" json:"author"`
	// CommentCount is not persisted; computed at query time from live rows
	CommentCount int            `gorm:"->" json:"comment_count"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Comments     []Comment      `gorm:"foreignKey:ArticleID" json:"comments,omitempty"`
}
