package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Summary is a downloadable study summary (PDF) with a cover image.
type Summary struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	Title      string    `gorm:"size:100;not null" json:"title"`
	Category   string    `gorm:"size:50;not null;default:'';index" json:"category"`
	CoverImage string    `gorm:"size:255;not null;default:''" json:"cover_image"`
	FileURL    string    `gorm:"size:255;not null" json:"file_url"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName sets the GORM table name.
func (Summary) TableName() string {
	return "summaries"
}

// BeforeCreate assigns a UUID primary key when one is not set.
func (s *Summary) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// Mindmap is a browsable mind map image grouped by category.
type Mindmap struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	Title      string    `gorm:"size:100;not null" json:"title"`
	Category   string    `gorm:"size:50;not null;default:'';index" json:"category"`
	CoverImage string    `gorm:"size:255;not null;default:''" json:"cover_image"`
	FileURL    string    `gorm:"size:255;not null" json:"file_url"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName sets the GORM table name.
func (Mindmap) TableName() string {
	return "mindmaps"
}

// BeforeCreate assigns a UUID primary key when one is not set.
func (m *Mindmap) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
