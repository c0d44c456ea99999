package entity

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CompetitionPlayer is one participant's mutable record within a competition.
// The (competition_id, user_id) pair is unique at the storage layer, so a
// duplicate join surfaces as a key violation rather than a second row.
type CompetitionPlayer struct {
	ID            string     `gorm:"type:uuid;primaryKey" json:"id"`
	CompetitionID string     `gorm:"type:uuid;not null;uniqueIndex:idx_competition_user" json:"competition_id"`
	UserID        string     `gorm:"type:uuid;not null;uniqueIndex:idx_competition_user" json:"user_id"`
	Score         int        `gorm:"not null;default:0" json:"score"`
	Finished      bool       `gorm:"not null;default:false" json:"finished"`
	FinalScore    *int       `json:"final_score"`
	FinishedAt    *time.Time `json:"finished_at,omitempty"`
	User          *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TableName sets the GORM table name.
func (CompetitionPlayer) TableName() string {
	return "competition_players"
}

// BeforeCreate assigns a UUID primary key when one is not set.
func (p *CompetitionPlayer) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// ComputeFinalScore derives the final score from a finished run:
// percentage of correct answers plus the accumulated time bonus.
// A zero question count is rejected rather than producing NaN.
func ComputeFinalScore(correct, total, bonus int) (int, error) {
	if total <= 0 {
		return 0, fmt.Errorf("total questions must be positive, got %d", total)
	}
	if correct < 0 || correct > total {
		return 0, fmt.Errorf("correct answers %d out of range [0, %d]", correct, total)
	}
	if bonus < 0 {
		return 0, fmt.Errorf("bonus must not be negative, got %d", bonus)
	}
	percentage := int(math.Round(float64(correct) / float64(total) * 100))
	return percentage + bonus, nil
}

// CompletionStatus is the tri-state result of an opponent-finished check.
// The zero value is CompletionUnknown: a check that has not run yet is
// meaningfully different from a confirmed "still playing".
type CompletionStatus int

const (
	// CompletionUnknown means no check has run yet.
	CompletionUnknown CompletionStatus = iota
	// CompletionWaiting means at least one player has not finished.
	CompletionWaiting
	// CompletionDone means exactly two players exist and both finished.
	CompletionDone
)

// String returns the wire representation of the status.
func (s CompletionStatus) String() string {
	switch s {
	case CompletionWaiting:
		return "waiting"
	case CompletionDone:
		return "done"
	default:
		return "unknown"
	}
}

// ResolveCompletion derives the completion state from the current player rows.
// A lone finisher never yields done: the match needs exactly two players and
// both of them finished.
func ResolveCompletion(players []CompetitionPlayer) CompletionStatus {
	if len(players) != PlayerCountForMatch {
		return CompletionWaiting
	}
	for _, p := range players {
		if !p.Finished {
			return CompletionWaiting
		}
	}
	return CompletionDone
}
