package handlers

import (
	"strconv"
	"time"

	"insightboard/internal/models"
	"insightboard/internal/services"

	"github.com/gin-gonic/gin"
)

type SecurityHandler struct {
	blacklist *services.BlacklistService
	security  *services.SecurityService
	audit     *services.AuditService
}

func NewSecurityHandler(blacklist *services.BlacklistService, security *services.SecurityService, audit *services.AuditService) *SecurityHandler {
	return &SecurityHandler{
		blacklist: blacklist,
		security:  security,
		audit:     audit,
	}
}

// GetBlacklist lists blacklist entries including expired ones
func (h *SecurityHandler) GetBlacklist(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	entries, err := h.blacklist.List(limit)
	if err != nil {
		respondError(c, 500, "INTERNAL", "Failed to get blacklist")
		return
	}

	now := time.Now()
	type entryView struct {
		models.IPBlacklistEntry
		Active bool `json:"active"`
	}
	views := make([]entryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, entryView{IPBlacklistEntry: e, Active: e.IsActive(now)})
	}

	c.JSON(200, gin.H{"blacklist": views})
}

type BlockIPRequest struct {
	IP           string     `json:"ip" binding:"required,ip"`
	Reason       string     `json:"reason" binding:"required"`
	Permanent    bool       `json:"permanent"`
	BlockedUntil *time.Time `json:"blocked_until"`
}

// BlockIP adds an IP to the blacklist
func (h *SecurityHandler) BlockIP(c *gin.Context) {
	var req BlockIPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error())
		return
	}

	entry, err := h.blacklist.Block(req.IP, req.Reason, req.Permanent, req.BlockedUntil, actorID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(201, entry)
}

// UnblockIP deactivates the active blacklist entry for an IP
func (h *SecurityHandler) UnblockIP(c *gin.Context) {
	ip := c.Param("ip")
	if ip == "" {
		respondValidation(c, "ip is required")
		return
	}

	if err := h.blacklist.Unblock(ip, actorID(c)); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(200, gin.H{"message": "IP unblocked successfully"})
}

// GetEvents lists recent security events
func (h *SecurityHandler) GetEvents(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	events, err := h.security.ListEvents(limit)
	if err != nil {
		respondError(c, 500, "INTERNAL", "Failed to get security events")
		return
	}

	c.JSON(200, gin.H{"events": events})
}

type CreateEventRequest struct {
	EventType string `json:"event_type" binding:"required"`
	IP        string `json:"ip"`
	UserID    *uint  `json:"user_id"`
	Severity  string `json:"severity" binding:"required,oneof=LOW MEDIUM HIGH CRITICAL"`
	Details   string `json:"details"`
}

// CreateEvent records a security event. This is the one recorder path where
// the write is the deliverable, so failure surfaces to the caller.
func (h *SecurityHandler) CreateEvent(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error())
		return
	}

	event := &models.SecurityEvent{
		EventType: req.EventType,
		IP:        req.IP,
		UserID:    req.UserID,
		Severity:  req.Severity,
		Details:   req.Details,
	}
	if err := h.security.RecordEvent(event); err != nil {
		respondError(c, 500, "INTERNAL", "Failed to record security event")
		return
	}

	c.JSON(201, event)
}

// GetTopLogins ranks users by login count for the security dashboard
func (h *SecurityHandler) GetTopLogins(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	rows, err := h.audit.TopLogins(limit)
	if err != nil {
		respondError(c, 500, "INTERNAL", "Failed to rank logins")
		return
	}

	c.JSON(200, gin.H{"logins": rows})
}

// GetAuditLog lists recent audit entries
func (h *SecurityHandler) GetAuditLog(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	entries, err := h.audit.List(limit)
	if err != nil {
		respondError(c, 500, "INTERNAL", "Failed to get audit log")
		return
	}

	c.JSON(200, gin.H{"entries": entries})
}
