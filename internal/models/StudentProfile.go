package models

import (
	"time"

	"gorm.io/gorm"
)

type StudentProfile struct {
	gorm.Model
	UserID              uint       `json:"user_id" gorm:"uniqueIndex"`
	User                User       `gorm:"foreignKey:UserID" json:"-"`
	IsActive            bool       `json:"is_active" gorm:"default:true"`
	ScheduledDeletionAt *time.Time `json:"scheduled_deletion_at"`

	GradeLevel    string `json:"grade_level"`
	SchoolName    string `json:"school_name"`
	GuardianPhone string `json:"guardian_phone"`
}
