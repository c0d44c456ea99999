package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FriendRequest status values.
const (
	FriendRequestStatusPending  = "pending"
	FriendRequestStatusAccepted = "accepted"
	FriendRequestStatusRejected = "rejected"
)

// Friend links two users. Friendships are stored as two directed rows,
// one per direction, so listing a user's friends is a single indexed scan.
type Friend struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_user_friend" json:"user_id"`
	FriendID  string    `gorm:"type:uuid;not null;uniqueIndex:idx_user_friend" json:"friend_id"`
	FriendRef *User     `gorm:"foreignKey:FriendID" json:"friend,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName sets the GORM table name.
func (Friend) TableName() string {
	return "friends"
}

// BeforeCreate assigns a UUID primary key when one is not set.
func (f *Friend) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

// FriendRequest is a pending invitation from one user to another.
// UserID is the recipient, FromUser the sender.
type FriendRequest struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;index" json:"user_id"`
	FromUser  string    `gorm:"type:uuid;not null;index" json:"from_user"`
	Status    string    `gorm:"size:20;not null;default:'pending'" json:"status"`
	Sender    *User     `gorm:"foreignKey:FromUser" json:"sender,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName sets the GORM table name.
func (FriendRequest) TableName() string {
	return "friend_requests"
}

// BeforeCreate assigns a UUID primary key when one is not set.
func (r *FriendRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// IsPending reports whether the request still awaits a response.
func (r *FriendRequest) IsPending() bool {
	return r.Status == FriendRequestStatusPending
}
