package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Quiz groups an ordered set of questions under a title and category.
type Quiz struct {
	ID         string     `gorm:"type:uuid;primaryKey" json:"id"`
	Title      string     `gorm:"size:100;not null" json:"title"`
	Category   string     `gorm:"size:50;not null;default:'';index" json:"category"`
	CoverImage string     `gorm:"size:255;not null;default:''" json:"cover_image"`
	Questions  []Question `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// TableName sets the GORM table name.
func (Quiz) TableName() string {
	return "quizzes"
}

// BeforeCreate assigns a UUID primary key when one is not set.
func (q *Quiz) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	return nil
}

// QuestionCount returns the number of loaded questions.
func (q *Quiz) QuestionCount() int {
	return len(q.Questions)
}
