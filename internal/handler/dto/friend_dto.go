package dto

import (
	"time"

	"github.com/semiologia/semiologia-api/internal/domain/entity"
)

// SendFriendRequestRequest targets a user by ID.
type SendFriendRequestRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
}

// FriendResponse is one entry of a user's friend list.
type FriendResponse struct {
	ID       string       `json:"id"`
	FriendID string       `json:"friend_id"`
	Friend   UserResponse `json:"friend"`
	Since    time.Time    `json:"since"`
}

func NewFriendListResponse(friends []entity.Friend) []FriendResponse {
	out := make([]FriendResponse, 0, len(friends))
	for i := range friends {
		f := &friends[i]
		resp := FriendResponse{
			ID:       f.ID,
			FriendID: f.FriendID,
			Since:    f.CreatedAt,
		}
		if f.FriendRef != nil {
			resp.Friend = NewUserResponse(f.FriendRef, false)
		}
		out = append(out, resp)
	}
	return out
}

// FriendRequestResponse is one incoming friend request.
type FriendRequestResponse struct {
	ID        string        `json:"id"`
	FromUser  string        `json:"from_user"`
	Sender    *UserResponse `json:"sender,omitempty"`
	Status    string        `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}

func NewFriendRequestResponse(r *entity.FriendRequest) FriendRequestResponse {
	resp := FriendRequestResponse{
		ID:        r.ID,
		FromUser:  r.FromUser,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
	}
	if r.Sender != nil {
		sender := NewUserResponse(r.Sender, false)
		resp.Sender = &sender
	}
	return resp
}

func NewFriendRequestListResponse(requests []entity.FriendRequest) []FriendRequestResponse {
	out := make([]FriendRequestResponse, 0, len(requests))
	for i := range requests {
		out = append(out, NewFriendRequestResponse(&requests[i]))
	}
	return out
}
