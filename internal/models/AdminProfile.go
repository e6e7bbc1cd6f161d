package models

import (
	"time"

	"gorm.io/gorm"
)

type AdminProfile struct {
	gorm.Model
	UserID              uint       `json:"user_id" gorm:"uniqueIndex"`
	User                User       `gorm:"foreignKey:UserID" json:"-"`
	IsActive            bool       `json:"is_active" gorm:"default:true"`
	ScheduledDeletionAt *time.Time `json:"scheduled_deletion_at"`

	Department  string `json:"department"`
	AccessLevel int    `json:"access_level"`
}

// TableName keeps the singular table name the production schema uses.
func (AdminProfile) TableName() string {
	return "admin_profile"
}
