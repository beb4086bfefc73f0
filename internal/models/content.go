package models

import (
	"time"

	"gorm.io/gorm"
)

type Category struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(100);uniqueIndex;not null"`
	Slug      string    `json:"slug" gorm:"type:varchar(100);uniqueIndex"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Category) TableName() string {
	return "categories"
}

// Content is the owned resource the ownership override applies to: the owner
// may update or delete their own rows without holding the content permission.
type Content struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	Title      string         `json:"title" gorm:"type:varchar(255);not null"`
	Body       string         `json:"body" gorm:"type:text"`
	Published  bool           `json:"published" gorm:"default:false"`
	OwnerID    uint           `json:"owner_id" gorm:"not null;index"`
	Owner      User           `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	CategoryID *uint          `json:"category_id" gorm:"index"`
	Category   *Category      `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Content) TableName() string {
	return "contents"
}

type Notification struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	Title     string    `json:"title" gorm:"type:varchar(255);not null"`
	Body      string    `json:"body" gorm:"type:text"`
	Read      bool      `json:"read" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

func (Notification) TableName() string {
	return "notifications"
}
