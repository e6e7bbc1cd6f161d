package models

import (
	"gorm.io/gorm"
)

// Campaign is an advertising run funded by a deposit and billed per
// impression. Amounts are in cents to avoid float drift in billing.
type Campaign struct {
	gorm.Model
	AdvertiserProfileID uint   `json:"advertiser_profile_id" gorm:"index"`
	Name                string `json:"name" binding:"required"`
	DepositCents        int64  `json:"deposit_cents"`
	CostPerImpression   int64  `json:"cost_per_impression"` // cents
	Impressions         int64  `json:"impressions"`
	IsActive            bool   `json:"is_active" gorm:"default:true"`
}
