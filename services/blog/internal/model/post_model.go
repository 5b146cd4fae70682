package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// PostModel is the postgres row for a post.
type PostModel struct {
	ID          string         `gorm:"type:uuid;primary_key"`
	Title       string         `gorm:"type:varchar(255);not null"`
	ContentKind string         `gorm:"type:varchar(20);not null;default:'text'"`
	Content     string         `gorm:"type:text"`
	Paragraphs  pq.StringArray `gorm:"type:text[]"`
	Image       string         `gorm:"type:varchar(500)"`
	CreatedAt   time.Time      `gorm:"not null;index"`
}

func (PostModel) TableName() string {
	return "posts"
}

func (p *PostModel) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}
