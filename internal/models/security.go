package models

import "time"

// Security event severities. Descriptive metadata only; no escalation logic
// hangs off these values.
const (
	SeverityLow      = "LOW"
	SeverityMedium   = "MEDIUM"
	SeverityHigh     = "HIGH"
	SeverityCritical = "CRITICAL"
)

// Security event types recorded by the authorization pipeline.
const (
	EventLoginSuccess  = "LOGIN_SUCCESS"
	EventLoginFailed   = "LOGIN_FAILED"
	EventIPBlocked     = "IP_BLOCKED"
	EventIPUnblocked   = "IP_UNBLOCKED"
	EventPasswordReset = "PASSWORD_RESET"
	EventRoleChanged   = "ROLE_CHANGED"
)

// IPBlacklistEntry denies an IP permanently or until BlockedUntil. Rows are
// never deleted on expiry; IsActive derives the current status.
type IPBlacklistEntry struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	IP           string     `json:"ip" gorm:"type:varchar(45);not null;index"`
	Reason       string     `json:"reason" gorm:"type:varchar(255)"`
	Permanent    bool       `json:"permanent" gorm:"default:false"`
	BlockedUntil *time.Time `json:"blocked_until"`
	CreatedByID  *uint      `json:"created_by_id"`
	Attempts     int        `json:"attempts" gorm:"default:0"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (IPBlacklistEntry) TableName() string {
	return "ip_blacklist"
}

// IsActive reports whether the entry still blocks its IP.
func (e *IPBlacklistEntry) IsActive(now time.Time) bool {
	if e.Permanent {
		return true
	}
	return e.BlockedUntil != nil && e.BlockedUntil.After(now)
}

// SecurityEvent is append-only; rows are never updated after creation.
type SecurityEvent struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	EventType string    `json:"event_type" gorm:"type:varchar(50);not null;index"`
	IP        string    `json:"ip" gorm:"type:varchar(45)"`
	UserID    *uint     `json:"user_id" gorm:"index"`
	Severity  string    `json:"severity" gorm:"type:varchar(10);not null"`
	Details   string    `json:"details" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

func (SecurityEvent) TableName() string {
	return "security_events"
}

// AuditLog is append-only. UserID is nil for anonymous or system actions.
type AuditLog struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     *uint     `json:"user_id" gorm:"index"`
	Action     string    `json:"action" gorm:"type:varchar(50);not null"`
	Resource   string    `json:"resource" gorm:"type:varchar(100)"`
	ResourceID string    `json:"resource_id" gorm:"type:varchar(255)"`
	Details    string    `json:"details" gorm:"type:text"`
	IPAddress  string    `json:"ip_address" gorm:"type:varchar(45)"`
	UserAgent  string    `json:"user_agent" gorm:"type:varchar(500)"`
	RequestID  string    `json:"request_id" gorm:"type:varchar(64)"`
	CreatedAt  time.Time `json:"created_at" gorm:"index"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
