package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/semiologia/semiologia-api/internal/pkg/errors"
	"github.com/semiologia/semiologia-api/internal/service/session"
)

// respondError maps domain error classes to HTTP statuses. Internal errors
// are logged with their cause but leave the response body generic.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, session.ErrInvalidOption),
		errors.Is(err, session.ErrNoQuestions):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "validation_error"})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication failed", "error_type": "unauthorized"})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied", "error_type": "forbidden"})
	case errors.Is(err, apperrors.ErrNotFound),
		errors.Is(err, session.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found", "error_type": "not_found"})
	case errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, session.ErrSessionFinished),
		errors.Is(err, session.ErrSessionNotFinished):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "error_type": "conflict"})
	default:
		log.Printf("[Handler] internal error on %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error", "error_type": "internal_server_error"})
	}
}
