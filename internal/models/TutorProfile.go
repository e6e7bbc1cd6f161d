// internal/models/tutor_profile.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// TutorProfile holds the tutor-specific data for an account.
// One row per account ever: deactivation flips IsActive and stamps
// ScheduledDeletionAt instead of deleting, so the row can be revived
// within the grace period.
type TutorProfile struct {
	gorm.Model
	UserID              uint       `json:"user_id" gorm:"uniqueIndex"` // Foreign key to User
	User                User       `gorm:"foreignKey:UserID" json:"-"`
	IsActive            bool       `json:"is_active" gorm:"default:true"`
	ScheduledDeletionAt *time.Time `json:"scheduled_deletion_at"`

	Bio             string  `json:"bio"`
	Subjects        string  `json:"subjects"` // comma-separated, e.g. "maths,physics"
	HourlyRate      float64 `json:"hourly_rate"`
	YearsExperience int     `json:"years_experience"`

	// Teaching location stored as a WKB-encoded point (SRID 4326).
	// API accepts and serves GeoJSON; conversion lives in the controller.
	TeachingLocation []byte `gorm:"type:bytea" json:"-"`
}
