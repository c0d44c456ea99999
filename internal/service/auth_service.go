package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/semiologia/semiologia-api/internal/domain/entity"
	"github.com/semiologia/semiologia-api/internal/domain/repository"
	apperrors "github.com/semiologia/semiologia-api/internal/pkg/errors"
	"github.com/semiologia/semiologia-api/pkg/auth"
)

// AuthService handles registration, login and profile management.
type AuthService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
}

// NewAuthService creates a new auth service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
	}
}

// RegisterInput carries the registration form fields.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// RegisterUser creates an account and returns the user with a fresh token.
func (s *AuthService) RegisterUser(input RegisterInput) (*entity.User, string, error) {
	username := strings.TrimSpace(input.Username)
	email := normalizeEmail(input.Email)

	if username == "" || email == "" || len(input.Password) < 6 {
		return nil, "", fmt.Errorf("%w: username, email and a password of at least 6 characters are required", apperrors.ErrValidation)
	}

	user := &entity.User{
		Username: username,
		Email:    email,
		Password: input.Password, // hashed by the BeforeSave hook
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, "", fmt.Errorf("%w: email or username already taken", apperrors.ErrConflict)
		}
		return nil, "", err
	}

	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// LoginUser verifies the credentials and returns the user with a token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *AuthService) LoginUser(email, password string) (*entity.User, string, error) {
	user, err := s.userRepo.GetByEmail(normalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, "", apperrors.ErrUnauthorized
		}
		return nil, "", err
	}

	if !user.CheckPassword(password) {
		return nil, "", apperrors.ErrUnauthorized
	}

	token, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// GetUserByID returns the user's account data.
func (s *AuthService) GetUserByID(userID string) (*entity.User, error) {
	return s.userRepo.GetByID(userID)
}

// UpdateProfile changes the user's username and/or profile picture.
func (s *AuthService) UpdateProfile(userID string, username, profilePicture string) error {
	username = strings.TrimSpace(username)
	if username != "" && len(username) < 3 {
		return fmt.Errorf("%w: username must be at least 3 characters", apperrors.ErrValidation)
	}
	return s.userRepo.UpdateProfile(userID, username, profilePicture)
}

// ChangePassword verifies the old password before setting the new one.
func (s *AuthService) ChangePassword(userID string, oldPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if !user.CheckPassword(oldPassword) {
		return apperrors.ErrUnauthorized
	}
	if len(newPassword) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", apperrors.ErrValidation)
	}
	user.Password = newPassword
	return s.userRepo.Update(user)
}

// GenerateWSTicket issues a short-lived ticket for the WebSocket handshake.
func (s *AuthService) GenerateWSTicket(userID, email string) (string, error) {
	return s.jwtService.GenerateWSTicket(userID, email)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
