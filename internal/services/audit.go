package services

import (
	"log"
	"sync"

	"insightboard/internal/models"
)

// background tracks in-flight fire-and-forget writes so shutdown and test
// teardown can drain them before the database goes away.
var background sync.WaitGroup

// Flush blocks until all pending background writes have completed.
func Flush() {
	background.Wait()
}

// AuditService appends audit log rows. Log is fire-and-forget: a failed write
// never fails the operation it documents. Write is the synchronous path for
// callers that need the outcome.
type AuditService struct{}

func NewAuditService() *AuditService {
	return &AuditService{}
}

// Log records the entry in the background. Failures are logged locally and
// swallowed.
func (s *AuditService) Log(entry models.AuditLog) {
	background.Add(1)
	go func() {
		defer background.Done()
		if err := s.Write(&entry); err != nil {
			log.Printf("audit write failed (action=%s): %v", entry.Action, err)
		}
	}()
}

// Write records the entry synchronously.
func (s *AuditService) Write(entry *models.AuditLog) error {
	return models.DB.Create(entry).Error
}

// List returns recent audit entries, newest first.
func (s *AuditService) List(limit int) ([]models.AuditLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var entries []models.AuditLog
	if err := models.DB.Order("created_at DESC").Limit(limit).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// LoginCount is one row of the login ranking consumed by the security
// dashboard.
type LoginCount struct {
	UserID uint  `json:"user_id"`
	Count  int64 `json:"count"`
}

// TopLogins ranks users by recorded login actions.
func (s *AuditService) TopLogins(limit int) ([]LoginCount, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	var rows []LoginCount
	err := models.DB.Model(&models.AuditLog{}).
		Select("user_id, COUNT(*) as count").
		Where("action = ? AND user_id IS NOT NULL", "login").
		Group("user_id").
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
