package roles

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"astegni_backend/internal/models"
)

// DefaultGraceDays is how long a deactivated profile survives before
// the reaper may remove it.
const DefaultGraceDays = 90

// Lifecycle mutates role membership. Every operation runs in a single
// transaction with the profile row locked, so the users row and the
// profile row can never diverge and concurrent transitions on the same
// (account, role) pair serialize.
type Lifecycle struct {
	db  *gorm.DB
	now func() time.Time
}

func NewLifecycle(db *gorm.DB) *Lifecycle {
	return &Lifecycle{db: db, now: time.Now}
}

// lockRow opens a query on the profile table holding a row lock for
// the rest of the transaction. sqlite has no FOR UPDATE; it serializes
// writers on its own, so the clause is postgres-only.
func lockRow(tx *gorm.DB, table string) *gorm.DB {
	q := tx.Table(table)
	if tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return q
}

func fetchUser(tx *gorm.DB, accountID uint) (*models.User, error) {
	var user models.User
	if err := tx.First(&user, accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{AccountID: accountID}
		}
		return nil, err
	}
	return &user, nil
}

// AddRole grants the role to the account. A fresh profile row is
// created unless a deactivated one still sits inside its grace period,
// in which case that row is revived so no duplicate appears. A row
// whose deadline already passed counts as gone: it is dropped and the
// role starts from scratch. If the account has no active role yet, the
// new role becomes it.
func (l *Lifecycle) AddRole(accountID uint, kind Kind) (ProfileRef, error) {
	e, ok := registry[kind]
	if !ok {
		return ProfileRef{}, ErrUnknownRole
	}

	var ref ProfileRef
	err := l.db.Transaction(func(tx *gorm.DB) error {
		if _, err := fetchUser(tx, accountID); err != nil {
			return err
		}

		var row profileRow
		err := lockRow(tx, e.table).Where("user_id = ?", accountID).Take(&row).Error
		switch {
		case err == nil:
			if row.IsActive {
				return ErrRoleAlreadyActive
			}
			if row.ScheduledDeletionAt == nil || row.ScheduledDeletionAt.After(l.now()) {
				// Deactivated but still in grace: revive instead of duplicating.
				if err := tx.Table(e.table).Where("id = ?", row.ID).Updates(map[string]any{
					"is_active":             true,
					"scheduled_deletion_at": nil,
					"updated_at":            l.now(),
				}).Error; err != nil {
					return err
				}
				ref = ProfileRef{Kind: kind, ID: row.ID}
				return l.promoteActiveRole(tx, accountID, kind)
			}
			// Deadline passed, reaper just hasn't swept yet. The data is
			// forfeit either way.
			if err := tx.Exec("DELETE FROM "+e.table+" WHERE id = ?", row.ID).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			// no row yet
		default:
			return err
		}

		profile := e.newProfile(accountID)
		if err := tx.Create(profile).Error; err != nil {
			if isUniqueViolation(err) {
				return &ConstraintViolationError{Kind: kind, AccountID: accountID}
			}
			return err
		}
		created, err := l.lookupActive(tx, e.table, accountID)
		if err != nil {
			return err
		}
		ref = ProfileRef{Kind: kind, ID: created.ID}
		return l.promoteActiveRole(tx, accountID, kind)
	})
	if err != nil {
		return ProfileRef{}, err
	}
	return ref, nil
}

// SwitchActiveRole makes the role the account's active one. The role
// must be held, meaning its profile row is active right now.
func (l *Lifecycle) SwitchActiveRole(accountID uint, kind Kind) error {
	e, ok := registry[kind]
	if !ok {
		return ErrUnknownRole
	}
	return l.db.Transaction(func(tx *gorm.DB) error {
		if _, err := fetchUser(tx, accountID); err != nil {
			return err
		}
		var row profileRow
		err := lockRow(tx, e.table).
			Where("user_id = ? AND is_active = ?", accountID, true).
			Take(&row).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoleNotHeld
			}
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", accountID).
			Update("active_role", string(kind)).Error
	})
}

// DeactivateRole soft-removes the role: the profile row flips inactive
// and gets a deletion deadline graceDays out. If the role was the
// account's active one, the account is left with none selected.
func (l *Lifecycle) DeactivateRole(accountID uint, kind Kind, graceDays int) error {
	e, ok := registry[kind]
	if !ok {
		return ErrUnknownRole
	}
	if graceDays <= 0 {
		graceDays = DefaultGraceDays
	}
	return l.db.Transaction(func(tx *gorm.DB) error {
		if _, err := fetchUser(tx, accountID); err != nil {
			return err
		}
		var row profileRow
		err := lockRow(tx, e.table).
			Where("user_id = ? AND is_active = ?", accountID, true).
			Take(&row).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoleNotHeld
			}
			return err
		}
		deadline := l.now().Add(time.Duration(graceDays) * 24 * time.Hour)
		if err := tx.Table(e.table).Where("id = ?", row.ID).Updates(map[string]any{
			"is_active":             false,
			"scheduled_deletion_at": deadline,
			"updated_at":            l.now(),
		}).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).
			Where("id = ? AND active_role = ?", accountID, string(kind)).
			Update("active_role", "").Error
	})
}

// ReactivateRole revives a deactivated role before its deadline. Once
// the deadline passes, or the reaper already removed the row, the role
// is unrecoverable and must be re-added from scratch.
func (l *Lifecycle) ReactivateRole(accountID uint, kind Kind) (ProfileRef, error) {
	e, ok := registry[kind]
	if !ok {
		return ProfileRef{}, ErrUnknownRole
	}
	var ref ProfileRef
	err := l.db.Transaction(func(tx *gorm.DB) error {
		if _, err := fetchUser(tx, accountID); err != nil {
			return err
		}
		var row profileRow
		err := lockRow(tx, e.table).Where("user_id = ?", accountID).Take(&row).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrGracePeriodExpired
			}
			return err
		}
		if row.IsActive {
			return ErrRoleAlreadyActive
		}
		if row.ScheduledDeletionAt == nil || !row.ScheduledDeletionAt.After(l.now()) {
			return ErrGracePeriodExpired
		}
		if err := tx.Table(e.table).Where("id = ?", row.ID).Updates(map[string]any{
			"is_active":             true,
			"scheduled_deletion_at": nil,
			"updated_at":            l.now(),
		}).Error; err != nil {
			return err
		}
		ref = ProfileRef{Kind: kind, ID: row.ID}
		return l.promoteActiveRole(tx, accountID, kind)
	})
	if err != nil {
		return ProfileRef{}, err
	}
	return ref, nil
}

// promoteActiveRole selects the role for the account only if none is
// selected, so granting a second role never clobbers a user's choice.
func (l *Lifecycle) promoteActiveRole(tx *gorm.DB, accountID uint, kind Kind) error {
	return tx.Model(&models.User{}).
		Where("id = ? AND active_role = ''", accountID).
		Update("active_role", string(kind)).Error
}

func (l *Lifecycle) lookupActive(tx *gorm.DB, table string, accountID uint) (*profileRow, error) {
	var row profileRow
	err := tx.Table(table).
		Where("user_id = ? AND is_active = ?", accountID, true).
		Take(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}
