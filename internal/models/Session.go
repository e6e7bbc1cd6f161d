package models

import (
	"time"

	"gorm.io/gorm"
)

// Session is a scheduled tutoring appointment between a tutor profile
// and a student profile.
type Session struct {
	gorm.Model
	TutorProfileID   uint      `json:"tutor_profile_id" gorm:"index"`
	StudentProfileID uint      `json:"student_profile_id" gorm:"index"`
	Subject          string    `json:"subject"`
	ScheduledAt      time.Time `json:"scheduled_at"`
	DurationMinutes  int       `json:"duration_minutes"`
	Status           string    `json:"status" gorm:"default:scheduled"` // "scheduled", "completed", "cancelled"
}
