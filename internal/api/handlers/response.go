package handlers

import (
	"errors"

	"insightboard/internal/services"

	"github.com/gin-gonic/gin"
)

// respondError writes the shared error envelope: a machine-readable code and
// a human message.
func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{"error": code, "message": message})
}

// respondValidation is the 400 shape; details carries field-level errors.
func respondValidation(c *gin.Context, details string) {
	c.JSON(400, gin.H{"error": "VALIDATION_ERROR", "message": "Invalid request", "details": details})
}

// respondServiceError maps service sentinel errors onto the envelope.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrRoleNotFound),
		errors.Is(err, services.ErrContentNotFound),
		errors.Is(err, services.ErrCategoryNotFound),
		errors.Is(err, services.ErrNotificationNotFound),
		errors.Is(err, services.ErrSessionNotFound),
		errors.Is(err, services.ErrNotBlacklisted):
		respondError(c, 404, "NOT_FOUND", err.Error())
	case errors.Is(err, services.ErrUserExists),
		errors.Is(err, services.ErrRoleExists),
		errors.Is(err, services.ErrCategoryExists),
		errors.Is(err, services.ErrRoleInUse),
		errors.Is(err, services.ErrSystemRole):
		respondError(c, 409, "CONFLICT", err.Error())
	case errors.Is(err, services.ErrAlreadyBlacklisted):
		respondError(c, 409, "ALREADY_BLACKLISTED", err.Error())
	case errors.Is(err, services.ErrUnknownPermission):
		respondValidation(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		respondError(c, 401, "UNAUTHENTICATED", "Invalid credentials")
	case errors.Is(err, services.ErrUserInactive):
		respondError(c, 401, "USER_INACTIVE", "User account is deactivated")
	case errors.Is(err, services.ErrInvalidResetToken):
		respondError(c, 400, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, services.ErrTransient):
		respondError(c, 503, "TRANSIENT_ERROR", "Service temporarily unavailable")
	default:
		respondError(c, 500, "INTERNAL", err.Error())
	}
}

// actorID returns the authenticated user id as an audit-friendly pointer.
func actorID(c *gin.Context) *uint {
	v, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	id := v.(uint)
	return &id
}
