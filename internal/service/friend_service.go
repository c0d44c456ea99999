package service

import (
	"fmt"

	"github.com/semiologia/semiologia-api/internal/domain/entity"
	"github.com/semiologia/semiologia-api/internal/domain/repository"
	apperrors "github.com/semiologia/semiologia-api/internal/pkg/errors"
	"github.com/semiologia/semiologia-api/internal/websocket"
)

// FriendService manages friendships and friend requests. To the match
// coordinator it is the identity source for who may be challenged.
type FriendService struct {
	friendRepo repository.FriendRepository
	userRepo   repository.UserRepository
	notifier   websocket.Notifier
}

// NewFriendService creates a new friend service.
func NewFriendService(friendRepo repository.FriendRepository, userRepo repository.UserRepository, notifier websocket.Notifier) *FriendService {
	return &FriendService{
		friendRepo: friendRepo,
		userRepo:   userRepo,
		notifier:   notifier,
	}
}

// ListFriends returns the user's friends with identity.
func (s *FriendService) ListFriends(userID string) ([]entity.Friend, error) {
	return s.friendRepo.ListFriends(userID)
}

// SearchUsers finds candidate friends by username prefix.
func (s *FriendService) SearchUsers(query string, limit int) ([]entity.User, error) {
	if len(query) < 2 {
		return nil, fmt.Errorf("%w: search query must be at least 2 characters", apperrors.ErrValidation)
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	return s.userRepo.SearchByUsername(query, limit)
}

// SendRequest creates a pending friend request from fromUserID to toUserID.
// Duplicate pending requests and requests to existing friends are rejected.
func (s *FriendService) SendRequest(toUserID, fromUserID string) (*entity.FriendRequest, error) {
	if toUserID == fromUserID {
		return nil, fmt.Errorf("%w: cannot befriend yourself", apperrors.ErrValidation)
	}
	if _, err := s.userRepo.GetByID(toUserID); err != nil {
		return nil, err
	}

	already, err := s.friendRepo.AreFriends(toUserID, fromUserID)
	if err != nil {
		return nil, err
	}
	if already {
		return nil, fmt.Errorf("%w: already friends", apperrors.ErrConflict)
	}

	pending, err := s.friendRepo.HasPendingRequest(toUserID, fromUserID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, fmt.Errorf("%w: request already pending", apperrors.ErrConflict)
	}

	request := &entity.FriendRequest{
		UserID:   toUserID,
		FromUser: fromUserID,
		Status:   entity.FriendRequestStatusPending,
	}
	if err := s.friendRepo.CreateRequest(request); err != nil {
		return nil, err
	}

	s.notifier.NotifyUser(toUserID, websocket.EventFriendRequestReceived, map[string]interface{}{
		"request_id": request.ID,
		"from_user":  fromUserID,
	})
	return request, nil
}

// AcceptRequest marks the request accepted and creates the friendship rows
// in both directions. Accepting twice stays idempotent: the friendship pair
// is only inserted when absent.
func (s *FriendService) AcceptRequest(requestID, userID string) error {
	request, err := s.friendRepo.GetRequestByID(requestID)
	if err != nil {
		return err
	}
	if request.UserID != userID {
		return apperrors.ErrForbidden
	}
	if request.Status == entity.FriendRequestStatusRejected {
		return apperrors.ErrConflict
	}

	if request.IsPending() {
		if err := s.friendRepo.UpdateRequestStatus(requestID, entity.FriendRequestStatusAccepted); err != nil {
			return err
		}
	}
	return s.friendRepo.CreateFriendship(request.UserID, request.FromUser)
}

// RejectRequest marks the request rejected. No friendship rows are touched.
func (s *FriendService) RejectRequest(requestID, userID string) error {
	request, err := s.friendRepo.GetRequestByID(requestID)
	if err != nil {
		return err
	}
	if request.UserID != userID {
		return apperrors.ErrForbidden
	}
	if !request.IsPending() {
		return apperrors.ErrConflict
	}
	return s.friendRepo.UpdateRequestStatus(requestID, entity.FriendRequestStatusRejected)
}

// ListPendingRequests returns the user's incoming pending requests.
func (s *FriendService) ListPendingRequests(userID string) ([]entity.FriendRequest, error) {
	return s.friendRepo.ListPendingRequests(userID)
}

// DeleteFriend removes the friendship in both directions.
func (s *FriendService) DeleteFriend(userID, friendID string) error {
	return s.friendRepo.DeleteFriendship(userID, friendID)
}
