package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/semiologia/semiologia-api/internal/handler/dto"
	"github.com/semiologia/semiologia-api/internal/service"
)

// ContextProfileID is filled by the UUID param middleware.
const ContextProfileID = "profileID"

// leaderboardPageSize is the fixed page length of the rank tab.
const leaderboardPageSize = 20

// UserHandler serves public profiles and the global leaderboard.
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetProfile handles GET /api/users/:user_id.
func (h *UserHandler) GetProfile(c *gin.Context) {
	user, err := h.userService.GetProfile(c.GetString(ContextProfileID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(user, false))
}

// Leaderboard handles GET /api/leaderboard?page=.
func (h *UserHandler) Leaderboard(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	result, err := h.userService.GetLeaderboard(page, leaderboardPageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewLeaderboardResponse(result.Users, result.Total, page, leaderboardPageSize))
}
