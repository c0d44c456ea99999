package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/semiologia/semiologia-api/internal/handler/dto"
	"github.com/semiologia/semiologia-api/internal/middleware"
	"github.com/semiologia/semiologia-api/internal/service"
)

// AuthHandler serves registration, login and profile management.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := h.authService.RegisterUser(service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	log.Printf("[AuthHandler] registered user id=%s (%s)", user.ID, user.Email)
	c.JSON(http.StatusCreated, dto.AuthResponse{
		User:  dto.NewUserResponse(user, true),
		Token: token,
	})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := h.authService.LoginUser(req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{
		User:  dto.NewUserResponse(user, true),
		Token: token,
	})
}

// Me handles GET /api/users/me.
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authService.GetUserByID(c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(user, true))
}

// UpdateProfile handles PUT /api/users/me.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetString(middleware.ContextUserID)
	if err := h.authService.UpdateProfile(userID, req.Username, req.ProfilePicture); err != nil {
		respondError(c, err)
		return
	}

	user, err := h.authService.GetUserByID(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(user, true))
}

// ChangePassword handles PUT /api/users/me/password.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetString(middleware.ContextUserID)
	if err := h.authService.ChangePassword(userID, req.OldPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password changed"})
}

// WSTicket handles POST /api/auth/ws-ticket. The ticket lets the browser
// open the notification socket without putting the access token in a URL.
func (h *AuthHandler) WSTicket(c *gin.Context) {
	ticket, err := h.authService.GenerateWSTicket(
		c.GetString(middleware.ContextUserID),
		c.GetString(middleware.ContextEmail),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.WSTicketResponse{Ticket: ticket})
}
