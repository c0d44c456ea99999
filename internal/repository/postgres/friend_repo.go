package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/semiologia/semiologia-api/internal/domain/entity"
	apperrors "github.com/semiologia/semiologia-api/internal/pkg/errors"
)

// FriendRepo implements repository.FriendRepository.
type FriendRepo struct {
	db *gorm.DB
}

// NewFriendRepo creates a new friend repository.
func NewFriendRepo(db *gorm.DB) *FriendRepo {
	return &FriendRepo{db: db}
}

// ListFriends returns the user's friends with identity preloaded.
func (r *FriendRepo) ListFriends(userID string) ([]entity.Friend, error) {
	var friends []entity.Friend
	err := r.db.
		Preload("FriendRef").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&friends).Error
	return friends, err
}

// AreFriends reports whether a friendship row exists in either direction.
func (r *FriendRepo) AreFriends(userID, friendID string) (bool, error) {
	var count int64
	err := r.db.Model(&entity.Friend{}).
		Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)",
			userID, friendID, friendID, userID).
		Count(&count).Error
	return count > 0, err
}

// CreateFriendship inserts both directed rows atomically. An existing pair is
// left as is, so accepting the same request twice stays idempotent.
func (r *FriendRepo) CreateFriendship(userID, friendID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&entity.Friend{}).
			Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)",
				userID, friendID, friendID, userID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		rows := []entity.Friend{
			{UserID: userID, FriendID: friendID},
			{UserID: friendID, FriendID: userID},
		}
		err = tx.Create(&rows).Error
		if err != nil && isUniqueViolation(err) {
			return nil // lost the race to a concurrent accept
		}
		return err
	})
}

// DeleteFriendship removes both directed rows.
func (r *FriendRepo) DeleteFriendship(userID, friendID string) error {
	return r.db.
		Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)",
			userID, friendID, friendID, userID).
		Delete(&entity.Friend{}).Error
}

// CreateRequest inserts a friend request.
func (r *FriendRepo) CreateRequest(request *entity.FriendRequest) error {
	return r.db.Create(request).Error
}

// GetRequestByID returns a friend request by ID.
func (r *FriendRepo) GetRequestByID(id string) (*entity.FriendRequest, error) {
	var request entity.FriendRequest
	err := r.db.First(&request, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}

// ListPendingRequests returns the user's pending incoming requests with
// sender identity preloaded.
func (r *FriendRepo) ListPendingRequests(userID string) ([]entity.FriendRequest, error) {
	var requests []entity.FriendRequest
	err := r.db.
		Preload("Sender").
		Where("user_id = ? AND status = ?", userID, entity.FriendRequestStatusPending).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

// HasPendingRequest reports whether a pending request already exists from
// fromUserID to toUserID.
func (r *FriendRepo) HasPendingRequest(toUserID, fromUserID string) (bool, error) {
	var count int64
	err := r.db.Model(&entity.FriendRequest{}).
		Where("user_id = ? AND from_user = ? AND status = ?",
			toUserID, fromUserID, entity.FriendRequestStatusPending).
		Count(&count).Error
	return count > 0, err
}

// UpdateRequestStatus sets the request status.
func (r *FriendRepo) UpdateRequestStatus(id string, status string) error {
	res := r.db.Model(&entity.FriendRequest{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
