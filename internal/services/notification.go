package services

import (
	"errors"

	"insightboard/internal/authz"
	"insightboard/internal/models"
)

var ErrNotificationNotFound = errors.New("notification not found")

// Pusher delivers a payload to a connected user, if any. Satisfied by the
// realtime hub; nil means store-only delivery.
type Pusher interface {
	Push(userID uint, payload interface{})
}

type NotificationService struct {
	pusher Pusher
}

func NewNotificationService(pusher Pusher) *NotificationService {
	return &NotificationService{pusher: pusher}
}

// Notify stores a notification and pushes it to the user's live connection
// when one exists.
func (s *NotificationService) Notify(userID uint, title, body string) error {
	n := &models.Notification{
		UserID: userID,
		Title:  title,
		Body:   body,
	}
	if err := models.DB.Create(n).Error; err != nil {
		return err
	}
	if s.pusher != nil {
		s.pusher.Push(userID, n)
	}
	return nil
}

// NotifyAdmins fans a notification out to every user holding the admin or
// super_admin role.
func (s *NotificationService) NotifyAdmins(title, body string) {
	var users []models.User
	err := models.DB.
		Joins("JOIN roles ON roles.id = users.role_id").
		Where("roles.name IN ?", []string{authz.RoleAdmin, authz.RoleSuperAdmin}).
		Find(&users).Error
	if err != nil {
		return
	}
	for _, u := range users {
		_ = s.Notify(u.ID, title, body)
	}
}

// ListForUser returns the user's notifications, newest first.
func (s *NotificationService) ListForUser(userID uint, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var notifications []models.Notification
	err := models.DB.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkRead marks one of the user's notifications as read.
func (s *NotificationService) MarkRead(userID, notificationID uint) error {
	result := models.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}
