package services

import (
	"time"

	"insightboard/internal/models"
)

// DashboardSummary carries the headline counts shown on the dashboard.
// Aggregation internals beyond counts live in the reporting collaborators.
type DashboardSummary struct {
	Users          int64 `json:"users"`
	Contents       int64 `json:"contents"`
	PublishedItems int64 `json:"published_items"`
	SecurityEvents int64 `json:"security_events"`
	ActiveSessions int64 `json:"active_sessions"`
}

type AnalyticsService struct{}

func NewAnalyticsService() *AnalyticsService {
	return &AnalyticsService{}
}

func (s *AnalyticsService) Summary() (*DashboardSummary, error) {
	var summary DashboardSummary

	if err := models.DB.Model(&models.User{}).Count(&summary.Users).Error; err != nil {
		return nil, err
	}
	if err := models.DB.Model(&models.Content{}).Count(&summary.Contents).Error; err != nil {
		return nil, err
	}
	if err := models.DB.Model(&models.Content{}).Where("published = ?", true).Count(&summary.PublishedItems).Error; err != nil {
		return nil, err
	}
	if err := models.DB.Model(&models.SecurityEvent{}).Count(&summary.SecurityEvents).Error; err != nil {
		return nil, err
	}
	if err := models.DB.Model(&models.Session{}).Where("expires_at > ?", time.Now()).Count(&summary.ActiveSessions).Error; err != nil {
		return nil, err
	}

	return &summary, nil
}
