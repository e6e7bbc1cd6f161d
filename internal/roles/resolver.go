package roles

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// ProfileRef names one role profile: the role and its id within that
// role's table. Profile ids are only unique per table, so the pair is
// the smallest unambiguous reference.
type ProfileRef struct {
	Kind Kind `json:"role"`
	ID   uint `json:"profile_id"`
}

// profileRow is the lifecycle slice of a profile table row. Every
// profile table carries these columns, which is what allows the
// resolver to query by table name instead of per-role model types.
type profileRow struct {
	ID                  uint
	UserID              uint
	IsActive            bool
	ScheduledDeletionAt *time.Time
}

// Resolver translates between account identity and role-profile
// identity. It is read-only.
type Resolver struct {
	db *gorm.DB
}

func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{db: db}
}

// ResolveProfile returns the active profile of the account for the
// given role. An unregistered kind reads as NotFound, same as a held
// role with no active row; callers that want to distinguish validate
// input with ParseKind first.
func (r *Resolver) ResolveProfile(accountID uint, kind Kind) (ProfileRef, error) {
	e, ok := registry[kind]
	if !ok {
		return ProfileRef{}, &NotFoundError{Kind: kind, AccountID: accountID}
	}
	var row profileRow
	err := r.db.Table(e.table).
		Where("user_id = ? AND is_active = ?", accountID, true).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProfileRef{}, &NotFoundError{Kind: kind, AccountID: accountID}
		}
		return ProfileRef{}, err
	}
	return ProfileRef{Kind: kind, ID: row.ID}, nil
}

// ResolveAny tries ResolutionOrder and returns the first active
// profile the account holds.
func (r *Resolver) ResolveAny(accountID uint) (ProfileRef, error) {
	for _, kind := range ResolutionOrder {
		ref, err := r.ResolveProfile(accountID, kind)
		if err == nil {
			return ref, nil
		}
		var nf *NotFoundError
		if !errors.As(err, &nf) {
			return ProfileRef{}, err
		}
	}
	return ProfileRef{}, &NotFoundError{AccountID: accountID}
}

// ResolveAccount returns the owning account id for a profile id in the
// given role's table. This is a direct primary-key lookup and matches
// deactivated rows too, so owners of profiles pending deletion still
// resolve.
func (r *Resolver) ResolveAccount(profileID uint, kind Kind) (uint, error) {
	e, ok := registry[kind]
	if !ok {
		return 0, &NotFoundError{Kind: kind, ProfileID: profileID}
	}
	var row profileRow
	err := r.db.Table(e.table).Where("id = ?", profileID).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, &NotFoundError{Kind: kind, ProfileID: profileID}
		}
		return 0, err
	}
	return row.UserID, nil
}

// ValidateProfileExists checks that an active profile row backs the
// given reference. Subsystems accepting profile references (messaging,
// connections, sessions) call this before persisting anything that
// points at the profile; deactivated profiles do not pass.
func (r *Resolver) ValidateProfileExists(profileID uint, kind Kind) error {
	e, ok := registry[kind]
	if !ok {
		return &NotFoundError{Kind: kind, ProfileID: profileID}
	}
	var row profileRow
	err := r.db.Table(e.table).
		Where("id = ? AND is_active = ?", profileID, true).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Kind: kind, ProfileID: profileID}
		}
		return err
	}
	return nil
}

// Roles returns the derived role set of the account: every role whose
// profile table holds an active row for it.
func (r *Resolver) Roles(accountID uint) ([]Kind, error) {
	var held []Kind
	for _, kind := range Kinds() {
		e := registry[kind]
		var n int64
		err := r.db.Table(e.table).
			Where("user_id = ? AND is_active = ?", accountID, true).
			Count(&n).Error
		if err != nil {
			return nil, err
		}
		if n > 0 {
			held = append(held, kind)
		}
	}
	return held, nil
}
