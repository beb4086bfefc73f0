package services

import (
	"errors"
	"fmt"
	"time"

	"insightboard/internal/models"

	"gorm.io/gorm"
)

var (
	ErrAlreadyBlacklisted = errors.New("ip is already blacklisted")
	ErrNotBlacklisted     = errors.New("ip is not blacklisted")
)

// BlacklistService is the IP reputation gate. It runs before authentication
// on every protected path and never consults the session resolver.
type BlacklistService struct {
	audit    *AuditService
	security *SecurityService
}

func NewBlacklistService(audit *AuditService, security *SecurityService) *BlacklistService {
	return &BlacklistService{audit: audit, security: security}
}

// activeEntry finds the active blacklist row for ip, if any. Expired rows are
// never deleted; they simply stop matching.
func (s *BlacklistService) activeEntry(ip string) (*models.IPBlacklistEntry, error) {
	var entry models.IPBlacklistEntry
	err := models.DB.
		Where("ip = ? AND (permanent = ? OR blocked_until > ?)", ip, true, time.Now()).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrTransient, err)
	}
	return &entry, nil
}

// IsBlocked reports whether ip has an active blacklist entry.
func (s *BlacklistService) IsBlocked(ip string) (bool, error) {
	entry, err := s.activeEntry(ip)
	if err != nil {
		return false, err
	}
	return entry != nil, nil
}

// RegisterAttempt bumps the attempt counter on the active entry for ip.
// Called when a blocked client keeps hitting the gate; best effort.
func (s *BlacklistService) RegisterAttempt(ip string) {
	models.DB.Model(&models.IPBlacklistEntry{}).
		Where("ip = ? AND (permanent = ? OR blocked_until > ?)", ip, true, time.Now()).
		UpdateColumn("attempts", gorm.Expr("attempts + 1"))
}

// Block creates a blacklist entry for ip. At most one active entry may exist
// per IP; a duplicate is rejected with ErrAlreadyBlacklisted and no row is
// written. Every successful block is paired with a security event and an
// audit entry.
func (s *BlacklistService) Block(ip, reason string, permanent bool, until *time.Time, createdBy *uint) (*models.IPBlacklistEntry, error) {
	existing, err := s.activeEntry(ip)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyBlacklisted
	}

	if !permanent && until == nil {
		t := time.Now().Add(24 * time.Hour)
		until = &t
	}

	entry := &models.IPBlacklistEntry{
		IP:           ip,
		Reason:       reason,
		Permanent:    permanent,
		BlockedUntil: until,
		CreatedByID:  createdBy,
	}
	if err := models.DB.Create(entry).Error; err != nil {
		return nil, err
	}

	s.security.Emit(models.EventIPBlocked, ip, createdBy, models.SeverityHigh, reason)
	s.audit.Log(models.AuditLog{
		UserID:     createdBy,
		Action:     "ip_block",
		Resource:   "ip_blacklist",
		ResourceID: ip,
		Details:    reason,
	})

	return entry, nil
}

// Unblock deactivates the active entry for ip by closing its window. The row
// is kept for the audit trail.
func (s *BlacklistService) Unblock(ip string, actor *uint) error {
	entry, err := s.activeEntry(ip)
	if err != nil {
		return err
	}
	if entry == nil {
		return ErrNotBlacklisted
	}

	now := time.Now()
	if err := models.DB.Model(entry).Updates(map[string]interface{}{
		"permanent":     false,
		"blocked_until": now,
	}).Error; err != nil {
		return err
	}

	s.security.Emit(models.EventIPUnblocked, ip, actor, models.SeverityMedium, "blacklist entry removed")
	s.audit.Log(models.AuditLog{
		UserID:     actor,
		Action:     "ip_unblock",
		Resource:   "ip_blacklist",
		ResourceID: ip,
	})

	return nil
}

// List returns blacklist entries, newest first, including expired rows.
func (s *BlacklistService) List(limit int) ([]models.IPBlacklistEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var entries []models.IPBlacklistEntry
	if err := models.DB.Order("created_at DESC").Limit(limit).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
