package models

import (
	"gorm.io/gorm"
)

// Connection links two role profiles (e.g. a student following a tutor).
// Endpoints are (role, profile id) pairs because profile ids are only
// unique within their own role table. The composite unique index is what
// prevents the duplicate-connection rows that used to accumulate.
type Connection struct {
	gorm.Model
	RequesterRole string `json:"requester_role" gorm:"uniqueIndex:idx_connection_pair"`
	RequesterID   uint   `json:"requester_id" gorm:"uniqueIndex:idx_connection_pair"`
	TargetRole    string `json:"target_role" gorm:"uniqueIndex:idx_connection_pair"`
	TargetID      uint   `json:"target_id" gorm:"uniqueIndex:idx_connection_pair"`
	Status        string `json:"status" gorm:"default:pending"` // "pending", "accepted", "rejected"
}
