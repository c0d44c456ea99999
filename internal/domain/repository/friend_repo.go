package repository

import (
	"github.com/semiologia/semiologia-api/internal/domain/entity"
)

// FriendRepository defines persistence operations for friendships and
// friend requests.
type FriendRepository interface {
	ListFriends(userID string) ([]entity.Friend, error)
	AreFriends(userID, friendID string) (bool, error)
	// CreateFriendship inserts both directed rows in one transaction,
	// skipping insertion when the pair already exists.
	CreateFriendship(userID, friendID string) error
	DeleteFriendship(userID, friendID string) error

	CreateRequest(request *entity.FriendRequest) error
	GetRequestByID(id string) (*entity.FriendRequest, error)
	ListPendingRequests(userID string) ([]entity.FriendRequest, error)
	HasPendingRequest(toUserID, fromUserID string) (bool, error)
	UpdateRequestStatus(id string, status string) error
}
