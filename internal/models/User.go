package models

import "gorm.io/gorm"

// User is the root login identity. Role membership is NOT stored here:
// an account holds a role iff the matching profile table has an active
// row for its id. Only the currently selected role is persisted.
type User struct {
	gorm.Model
	FirstName       string  `json:"first_name"`
	FatherName      string  `json:"father_name"`
	GrandfatherName string  `json:"grandfather_name"`
	Email           *string `json:"email" gorm:"uniqueIndex"`
	Phone           *string `json:"phone" gorm:"uniqueIndex"`
	Password        string  `json:"-"`
	ActiveRole      string  `json:"active_role"` // "" when no role is selected
}
