package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Competition status values. Transitions only go
// pending -> accepted -> completed or pending -> rejected.
const (
	CompetitionStatusPending   = "pending"
	CompetitionStatusAccepted  = "accepted"
	CompetitionStatusRejected  = "rejected"
	CompetitionStatusCompleted = "completed"
)

// PlayerCountForMatch is the number of participants in a head-to-head match.
const PlayerCountForMatch = 2

// Competition is a single two-player quiz match instance.
// OpponentID is nil for an open challenge that any friend may pick up.
// QuizID is nil until a quiz has been chosen for the match.
type Competition struct {
	ID           string              `gorm:"type:uuid;primaryKey" json:"id"`
	QuizID       *string             `gorm:"type:uuid;index" json:"quiz_id"`
	ChallengerID string              `gorm:"type:uuid;not null;index" json:"challenger_id"`
	OpponentID   *string             `gorm:"type:uuid;index" json:"opponent_id"`
	Status       string              `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Quiz         *Quiz               `gorm:"foreignKey:QuizID" json:"quiz,omitempty"`
	Players      []CompetitionPlayer `gorm:"foreignKey:CompetitionID" json:"players,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// TableName sets the GORM table name.
func (Competition) TableName() string {
	return "competitions"
}

// BeforeCreate assigns a UUID primary key when one is not set.
func (c *Competition) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// IsPending reports whether the competition still awaits a response.
func (c *Competition) IsPending() bool {
	return c.Status == CompetitionStatusPending
}

// IsCompleted reports whether both players have finished and the match was finalized.
func (c *Competition) IsCompleted() bool {
	return c.Status == CompetitionStatusCompleted
}

// IsTerminal reports whether no further status transitions are allowed.
func (c *Competition) IsTerminal() bool {
	return c.Status == CompetitionStatusRejected || c.Status == CompetitionStatusCompleted
}

// IsOpen reports whether the challenge is addressed to nobody in particular.
func (c *Competition) IsOpen() bool {
	return c.OpponentID == nil
}

// IsAddressedTo reports whether the challenge targets the given user.
func (c *Competition) IsAddressedTo(userID string) bool {
	return c.OpponentID != nil && *c.OpponentID == userID
}

// HasPlayer reports whether the user already joined the competition.
func (c *Competition) HasPlayer(userID string) bool {
	for _, p := range c.Players {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

// CanTransitionTo validates a status transition against the allowed lifecycle.
func (c *Competition) CanTransitionTo(status string) bool {
	switch c.Status {
	case CompetitionStatusPending:
		return status == CompetitionStatusAccepted || status == CompetitionStatusRejected
	case CompetitionStatusAccepted:
		return status == CompetitionStatusCompleted
	default:
		return false
	}
}
