package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/semiologia/semiologia-api/internal/domain/entity"
	apperrors "github.com/semiologia/semiologia-api/internal/pkg/errors"
)

// UserRepo implements repository.UserRepository.
type UserRepo struct {
	db *gorm.DB
}

// NewUserRepo creates a new user repository.
func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create inserts a new user. Duplicate email or username maps to ErrConflict.
func (r *UserRepo) Create(user *entity.User) error {
	err := r.db.Create(user).Error
	if err != nil && isUniqueViolation(err) {
		return apperrors.ErrConflict
	}
	return err
}

// GetByID returns a user by ID.
func (r *UserRepo) GetByID(id string) (*entity.User, error) {
	var user entity.User
	err := r.db.First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByEmail returns a user by email.
func (r *UserRepo) GetByEmail(email string) (*entity.User, error) {
	var user entity.User
	err := r.db.First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByUsername returns a user by username.
func (r *UserRepo) GetByUsername(username string) (*entity.User, error) {
	var user entity.User
	err := r.db.First(&user, "username = ?", username).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Update saves all user fields.
func (r *UserRepo) Update(user *entity.User) error {
	return r.db.Save(user).Error
}

// UpdateProfile updates the user's mutable profile fields.
func (r *UserRepo) UpdateProfile(id string, username, profilePicture string) error {
	updates := map[string]interface{}{}
	if username != "" {
		updates["username"] = username
	}
	if profilePicture != "" {
		updates["profile_picture"] = profilePicture
	}
	if len(updates) == 0 {
		return nil
	}
	res := r.db.Model(&entity.User{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return apperrors.ErrConflict
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SearchByUsername finds users whose username starts with the query.
// Used by the add-friend screen.
func (r *UserRepo) SearchByUsername(query string, limit int) ([]entity.User, error) {
	var users []entity.User
	err := r.db.
		Where("username ILIKE ?", query+"%").
		Order("username ASC").
		Limit(limit).
		Find(&users).Error
	return users, err
}

// ListLeaderboard returns users ranked by total points, then wins.
func (r *UserRepo) ListLeaderboard(limit, offset int) ([]entity.User, int64, error) {
	var users []entity.User
	var total int64

	if err := r.db.Model(&entity.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.
		Order("total_points DESC, total_wins DESC, username ASC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// CreditMatchResult adds the match points and, for winners, a win.
func (r *UserRepo) CreditMatchResult(tx *gorm.DB, userID string, points int64, won bool) error {
	updates := map[string]interface{}{
		"total_points": gorm.Expr("total_points + ?", points),
	}
	if won {
		updates["total_wins"] = gorm.Expr("total_wins + 1")
	}
	res := tx.Model(&entity.User{}).Where("id = ?", userID).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
