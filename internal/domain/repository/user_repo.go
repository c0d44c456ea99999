package repository

import (
	"github.com/semiologia/semiologia-api/internal/domain/entity"
	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	GetByUsername(username string) (*entity.User, error)
	Update(user *entity.User) error
	UpdateProfile(id string, username, profilePicture string) error
	SearchByUsername(query string, limit int) ([]entity.User, error)
	ListLeaderboard(limit, offset int) ([]entity.User, int64, error)
	// CreditMatchResult adds match points to a player and, for the winner,
	// increments the win counter. Runs inside the caller's transaction.
	CreditMatchResult(tx *gorm.DB, userID string, points int64, won bool) error
}
