package handlers

import (
	"strconv"

	"insightboard/internal/services"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notifications *services.NotificationService
}

func NewNotificationHandler(notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// GetNotifications lists the caller's notifications
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		respondError(c, 401, "UNAUTHENTICATED", "Not authenticated")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	notifications, err := h.notifications.ListForUser(userID.(uint), limit)
	if err != nil {
		respondError(c, 500, "INTERNAL", "Failed to get notifications")
		return
	}

	c.JSON(200, gin.H{"notifications": notifications})
}

// MarkRead marks one of the caller's notifications as read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		respondError(c, 401, "UNAUTHENTICATED", "Not authenticated")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondValidation(c, "invalid notification id")
		return
	}

	if err := h.notifications.MarkRead(userID.(uint), uint(id)); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(200, gin.H{"message": "Notification marked as read"})
}
