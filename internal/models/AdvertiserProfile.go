// internal/models/advertiser_profile.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// AdvertiserProfile represents a company or individual running ad
// campaigns on the platform.
type AdvertiserProfile struct {
	gorm.Model
	UserID              uint       `json:"user_id" gorm:"uniqueIndex"`
	User                User       `gorm:"foreignKey:UserID" json:"-"`
	IsActive            bool       `json:"is_active" gorm:"default:true"`
	ScheduledDeletionAt *time.Time `json:"scheduled_deletion_at"`

	CompanyName string `json:"company_name"`
	Website     string `json:"website"`

	Campaigns []Campaign `gorm:"foreignKey:AdvertiserProfileID" json:"campaigns,omitempty"`
}
