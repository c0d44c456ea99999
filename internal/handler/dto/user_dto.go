package dto

import (
	"github.com/semiologia/semiologia-api/internal/domain/entity"
)

// UserResponse is the public view of an account.
type UserResponse struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email,omitempty"`
	ProfilePicture string `json:"profile_picture"`
	TotalPoints    int64  `json:"total_points"`
	TotalWins      int64  `json:"total_wins"`
}

// NewUserResponse maps a user entity. includeEmail is true only for the
// account owner's own views.
func NewUserResponse(user *entity.User, includeEmail bool) UserResponse {
	resp := UserResponse{
		ID:             user.ID,
		Username:       user.Username,
		ProfilePicture: user.ProfilePicture,
		TotalPoints:    user.TotalPoints,
		TotalWins:      user.TotalWins,
	}
	if includeEmail {
		resp.Email = user.Email
	}
	return resp
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

// LeaderboardEntry is one row of the global ranking.
type LeaderboardEntry struct {
	Rank int `json:"rank"`
	UserResponse
}

// LeaderboardResponse is a page of the global ranking.
type LeaderboardResponse struct {
	Entries []LeaderboardEntry `json:"entries"`
	Total   int64              `json:"total"`
	Page    int                `json:"page"`
}

// NewLeaderboardResponse numbers the page's users by their global position.
func NewLeaderboardResponse(users []entity.User, total int64, page, pageSize int) LeaderboardResponse {
	if page < 1 {
		page = 1
	}
	base := (page - 1) * pageSize
	entries := make([]LeaderboardEntry, 0, len(users))
	for i := range users {
		entries = append(entries, LeaderboardEntry{
			Rank:         base + i + 1,
			UserResponse: NewUserResponse(&users[i], false),
		})
	}
	return LeaderboardResponse{Entries: entries, Total: total, Page: page}
}
