package services

import (
	"log"

	"insightboard/internal/models"
)

// AdminNotifier pushes a notification to admin users. Satisfied by the
// realtime hub; nil disables fan-out.
type AdminNotifier interface {
	NotifyAdmins(title, body string)
}

// SecurityService appends security events. RecordEvent is synchronous and
// surfaces failure; it backs the admin endpoint where the event itself is the
// deliverable. Emit is the best-effort path used by the pipeline.
type SecurityService struct {
	notifier AdminNotifier
}

func NewSecurityService(notifier AdminNotifier) *SecurityService {
	return &SecurityService{notifier: notifier}
}

// RecordEvent writes the event and returns any store error. HIGH and
// CRITICAL events additionally notify admins over the realtime hub.
func (s *SecurityService) RecordEvent(event *models.SecurityEvent) error {
	if err := models.DB.Create(event).Error; err != nil {
		return err
	}
	if s.notifier != nil && (event.Severity == models.SeverityHigh || event.Severity == models.SeverityCritical) {
		s.notifier.NotifyAdmins(event.EventType, event.Details)
	}
	return nil
}

// Emit records the event in the background, swallowing failures.
func (s *SecurityService) Emit(eventType, ip string, userID *uint, severity, details string) {
	event := models.SecurityEvent{
		EventType: eventType,
		IP:        ip,
		UserID:    userID,
		Severity:  severity,
		Details:   details,
	}
	background.Add(1)
	go func() {
		defer background.Done()
		if err := s.RecordEvent(&event); err != nil {
			log.Printf("security event write failed (type=%s): %v", eventType, err)
		}
	}()
}

// ListEvents returns recent security events, newest first.
func (s *SecurityService) ListEvents(limit int) ([]models.SecurityEvent, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var events []models.SecurityEvent
	if err := models.DB.Order("created_at DESC").Limit(limit).Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
