package handlers

import (
	"insightboard/internal/services"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	analytics *services.AnalyticsService
}

func NewAnalyticsHandler() *AnalyticsHandler {
	return &AnalyticsHandler{
		analytics: services.NewAnalyticsService(),
	}
}

// GetSummary returns the dashboard headline counts
func (h *AnalyticsHandler) GetSummary(c *gin.Context) {
	summary, err := h.analytics.Summary()
	if err != nil {
		respondError(c, 500, "INTERNAL", "Failed to build summary")
		return
	}

	c.JSON(200, summary)
}
