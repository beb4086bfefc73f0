package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID                 uint           `json:"id" gorm:"primaryKey"`
	Email              string         `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Name               string         `json:"name" gorm:"type:varchar(255)"`
	PasswordHash       string         `json:"-" gorm:"type:varchar(255);not null"`
	Active             bool           `json:"active" gorm:"default:true"`
	MustChangePassword bool           `json:"must_change_password" gorm:"default:false"`
	TermsAcceptedAt    *time.Time     `json:"terms_accepted_at"`
	RoleID             uint           `json:"role_id" gorm:"not null;index"`
	Role               Role           `json:"role,omitempty" gorm:"foreignKey:RoleID"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

// Role is a named bundle of permissions. The super_admin role implicitly
// holds every permission; admin is distinguished from non-admin by name only
// and still needs explicit permission rows where a route demands them.
type Role struct {
	ID          uint         `json:"id" gorm:"primaryKey"`
	Name        string       `json:"name" gorm:"type:varchar(100);uniqueIndex;not null"`
	Description string       `json:"description" gorm:"type:varchar(255)"`
	Active      bool         `json:"active" gorm:"default:true"`
	IsSystem    bool         `json:"is_system" gorm:"default:false"`
	Permissions []Permission `json:"permissions,omitempty" gorm:"many2many:role_permissions"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (Role) TableName() string {
	return "roles"
}

// Permission is an atomic capability named in resource.action form
// (e.g. "content.update"). Permissions are seeded data, not user-created.
type Permission struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"type:varchar(100);uniqueIndex;not null"`
	Resource    string    `json:"resource" gorm:"type:varchar(100);not null"`
	Action      string    `json:"action" gorm:"type:varchar(50);not null"`
	Description string    `json:"description" gorm:"type:varchar(255)"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Permission) TableName() string {
	return "permissions"
}

// RolePermission is the role<->permission join row. Deleting a role cascades
// to its rows here; permissions themselves are never cascaded away.
type RolePermission struct {
	RoleID       uint       `gorm:"primaryKey;column:role_id"`
	PermissionID uint       `gorm:"primaryKey;column:permission_id"`
	Role         Role       `gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE"`
	Permission   Permission `gorm:"foreignKey:PermissionID;constraint:OnDelete:CASCADE"`
}

func (RolePermission) TableName() string {
	return "role_permissions"
}

type Session struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"user_id" gorm:"not null;index"`
	Token      string    `json:"-" gorm:"type:varchar(500);uniqueIndex;not null"`
	IP         string    `json:"ip" gorm:"type:varchar(45)"`
	UserAgent  string    `json:"user_agent" gorm:"type:varchar(500)"`
	ExpiresAt  time.Time `json:"expires_at" gorm:"not null;index"`
	LastSeenAt time.Time `json:"last_seen_at"`
	CreatedAt  time.Time `json:"created_at"`
	User       User      `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (Session) TableName() string {
	return "sessions"
}

// PasswordResetToken is single-use; Used is set the moment it is consumed.
type PasswordResetToken struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	Token     string    `json:"-" gorm:"type:varchar(255);uniqueIndex;not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
	Used      bool      `json:"used" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
}

func (PasswordResetToken) TableName() string {
	return "password_reset_tokens"
}
