package roles

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

var (
	// ErrUnknownRole rejects role names outside the registry. This is a
	// validation failure, not a not-found miss.
	ErrUnknownRole = errors.New("unknown role")

	// ErrRoleNotHeld means the operation needs an active role the
	// account does not currently hold.
	ErrRoleNotHeld = errors.New("role not held by account")

	// ErrRoleAlreadyActive means AddRole was called for a role that is
	// already active on the account.
	ErrRoleAlreadyActive = errors.New("role already active for account")

	// ErrGracePeriodExpired means the deactivated profile's deletion
	// deadline has passed, or the row was already reaped.
	ErrGracePeriodExpired = errors.New("grace period expired")
)

// NotFoundError reports a missing account or profile. It carries the
// role and id so callers can build a precise client-facing message.
type NotFoundError struct {
	Kind      Kind
	ProfileID uint
	AccountID uint
}

func (e *NotFoundError) Error() string {
	if e.ProfileID != 0 {
		return fmt.Sprintf("no %s profile with id %d", e.Kind, e.ProfileID)
	}
	if e.Kind != "" {
		return fmt.Sprintf("account %d holds no active %s profile", e.AccountID, e.Kind)
	}
	return fmt.Sprintf("account %d not found", e.AccountID)
}

// ConstraintViolationError reports an attempted duplicate profile row
// for an (account, role) pair, surfaced by the unique index on user_id.
type ConstraintViolationError struct {
	Kind      Kind
	AccountID uint
}

func (e *ConstraintViolationError) Error() string {
	return fmt.Sprintf("duplicate %s profile for account %d", e.Kind, e.AccountID)
}

// isUniqueViolation recognizes unique-index failures from postgres
// (SQLSTATE 23505) and from sqlite, which the tests run against.
func isUniqueViolation(err error) bool {
	var pgErr *pq.Error
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLSTATE 23505") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
