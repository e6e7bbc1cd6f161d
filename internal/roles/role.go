// Package roles owns the account/role/profile model: which roles an
// account holds, which profile row backs each role, and the add /
// switch / deactivate / reactivate lifecycle with its grace period.
//
// Role membership is derived, never stored: an account holds a role
// iff that role's profile table has a row with is_active = true for
// the account. The users table only stores active_role, which is a
// user choice and cannot be derived.
package roles

import (
	"strings"

	"astegni_backend/internal/models"
)

// Kind identifies one of the fixed role variants an account can hold.
type Kind string

const (
	Tutor      Kind = "tutor"
	Student    Kind = "student"
	Parent     Kind = "parent"
	Advertiser Kind = "advertiser"
	Admin      Kind = "admin"
)

// ResolutionOrder is tried when a caller asks for "the" profile of an
// account without naming a role. Admin is deliberately absent: admin
// profiles are never auto-resolved.
var ResolutionOrder = []Kind{Tutor, Student, Parent, Advertiser}

// entry maps a Kind onto its storage: the profile table and a
// constructor for a fresh active row. Keeping this in one map is what
// lets the resolver and lifecycle be single generic functions instead
// of per-role branches.
type entry struct {
	table      string
	newProfile func(accountID uint) any
}

var registry = map[Kind]entry{
	Tutor: {
		table: "tutor_profiles",
		newProfile: func(accountID uint) any {
			return &models.TutorProfile{UserID: accountID, IsActive: true}
		},
	},
	Student: {
		table: "student_profiles",
		newProfile: func(accountID uint) any {
			return &models.StudentProfile{UserID: accountID, IsActive: true}
		},
	},
	Parent: {
		table: "parent_profiles",
		newProfile: func(accountID uint) any {
			return &models.ParentProfile{UserID: accountID, IsActive: true}
		},
	},
	Advertiser: {
		table: "advertiser_profiles",
		newProfile: func(accountID uint) any {
			return &models.AdvertiserProfile{UserID: accountID, IsActive: true}
		},
	},
	Admin: {
		table: "admin_profile",
		newProfile: func(accountID uint) any {
			return &models.AdminProfile{UserID: accountID, IsActive: true}
		},
	},
}

// ParseKind validates a role name from client input. Matching is
// case-sensitive; anything not in the registry is ErrUnknownRole so
// typos surface as validation failures instead of silent not-found
// misses.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.TrimSpace(s))
	if _, ok := registry[k]; !ok {
		return "", ErrUnknownRole
	}
	return k, nil
}

// Kinds returns every registered role name.
func Kinds() []Kind {
	return []Kind{Tutor, Student, Parent, Advertiser, Admin}
}
