package models

import (
	"time"

	"gorm.io/gorm"
)

type ParentProfile struct {
	gorm.Model
	UserID              uint       `json:"user_id" gorm:"uniqueIndex"`
	User                User       `gorm:"foreignKey:UserID" json:"-"`
	IsActive            bool       `json:"is_active" gorm:"default:true"`
	ScheduledDeletionAt *time.Time `json:"scheduled_deletion_at"`

	Occupation string `json:"occupation"`
	Address    string `json:"address"`
}
