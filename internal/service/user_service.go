package service

import (
	"fmt"
	"log"
	"time"

	"github.com/semiologia/semiologia-api/internal/domain/entity"
	"github.com/semiologia/semiologia-api/internal/domain/repository"
)

const leaderboardCacheTTL = 30 * time.Second

// UserService serves user-facing aggregates, currently the global ranking.
type UserService struct {
	userRepo  repository.UserRepository
	cacheRepo repository.CacheRepository
}

// NewUserService creates a new user service.
func NewUserService(userRepo repository.UserRepository, cacheRepo repository.CacheRepository) *UserService {
	return &UserService{
		userRepo:  userRepo,
		cacheRepo: cacheRepo,
	}
}

// GetProfile returns another user's public profile.
func (s *UserService) GetProfile(userID string) (*entity.User, error) {
	return s.userRepo.GetByID(userID)
}

// LeaderboardPage is one page of the global ranking.
type LeaderboardPage struct {
	Users []entity.User `json:"users"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
}

// GetLeaderboard returns the global ranking by lifetime points, then wins.
// Pages are cached for a short interval: the rank tab is read far more often
// than scores change.
func (s *UserService) GetLeaderboard(page, pageSize int) (*LeaderboardPage, error) {
	limit, offset := pageToLimitOffset(page, pageSize)
	cacheKey := fmt.Sprintf("leaderboard:%d:%d", limit, offset)

	var cached LeaderboardPage
	if err := s.cacheRepo.GetJSON(cacheKey, &cached); err == nil {
		return &cached, nil
	}

	users, total, err := s.userRepo.ListLeaderboard(limit, offset)
	if err != nil {
		return nil, err
	}

	result := &LeaderboardPage{
		Users: users,
		Total: total,
		Page:  page,
	}
	if err := s.cacheRepo.SetJSON(cacheKey, result, leaderboardCacheTTL); err != nil {
		log.Printf("[UserService] leaderboard cache write failed: %v", err)
	}
	return result, nil
}
