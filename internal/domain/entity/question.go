package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultQuestionTimeSec is the per-question time budget in seconds.
const DefaultQuestionTimeSec = 60

// MaxTimeBonus is the bonus awarded for an instant correct answer.
const MaxTimeBonus = 10

// Option is a single answer choice. Exactly one option per question is
// expected to carry Correct=true; this is not validated here.
type Option struct {
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// OptionList is a custom type mapped to a JSONB column.
type OptionList []Option

// Scan implements sql.Scanner for OptionList.
// GORM uses it to read JSONB data from the database.
func (o *OptionList) Scan(value interface{}) error {
	if value == nil {
		*o = OptionList{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	if len(bytes) == 0 {
		*o = OptionList{}
		return nil
	}

	return json.Unmarshal(bytes, o)
}

// Value implements driver.Valuer for OptionList.
func (o OptionList) Value() (driver.Value, error) {
	if len(o) == 0 {
		return []byte("[]"), nil // empty JSON array instead of null
	}
	return json.Marshal(o)
}

// Question is a single quiz question with its answer options.
type Question struct {
	ID          string     `gorm:"type:uuid;primaryKey" json:"id"`
	QuizID      string     `gorm:"type:uuid;not null;index" json:"quiz_id"`
	Description string     `gorm:"size:500;not null" json:"description"`
	Media       string     `gorm:"size:255;not null;default:''" json:"media"`
	Options     OptionList `gorm:"type:jsonb;not null" json:"options"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName sets the GORM table name.
func (Question) TableName() string {
	return "questions"
}

// BeforeCreate assigns a UUID primary key when one is not set.
func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	return nil
}

// OptionsCount returns the number of answer options.
func (q *Question) OptionsCount() int {
	return len(q.Options)
}

// IsValidOption reports whether the option index is within range.
func (q *Question) IsValidOption(idx int) bool {
	return idx >= 0 && idx < len(q.Options)
}

// IsCorrect reports whether the option at idx is the correct one.
// Out-of-range indices count as incorrect.
func (q *Question) IsCorrect(idx int) bool {
	if !q.IsValidOption(idx) {
		return false
	}
	return q.Options[idx].Correct
}

// CorrectOption returns the index of the first correct option, or -1.
func (q *Question) CorrectOption() int {
	for i, opt := range q.Options {
		if opt.Correct {
			return i
		}
	}
	return -1
}

// TimeBonus computes the speed bonus for a correct answer: up to MaxTimeBonus
// points at a full timer, linearly decaying to 0 at time-out.
func TimeBonus(timeRemainingSec, timeBudgetSec int) int {
	if timeBudgetSec <= 0 {
		return 0
	}
	if timeRemainingSec <= 0 {
		return 0
	}
	if timeRemainingSec > timeBudgetSec {
		timeRemainingSec = timeBudgetSec
	}
	return int(math.Round(float64(timeRemainingSec) / float64(timeBudgetSec) * MaxTimeBonus))
}
