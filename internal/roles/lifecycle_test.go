package roles

import (
	"errors"
	"testing"
	"time"
)

func TestAddRoleCreatesActiveProfile(t *testing.T) {
	db := newTestDB(t)
	accountID := createAccount(t, db)

	ref, err := NewLifecycle(db).AddRole(accountID, Tutor)
	if err != nil {
		t.Fatalf("add role: %v", err)
	}
	if ref.Kind != Tutor || ref.ID == 0 {
		t.Fatalf("bad ref %+v", ref)
	}

	// lookup after creation finds the same profile
	got, err := NewResolver(db).ResolveProfile(accountID, Tutor)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.ID != ref.ID {
		t.Fatalf("resolved id %d, want %d", got.ID, ref.ID)
	}

	// first role becomes the active one
	if role := activeRoleOf(t, db, accountID); role != "tutor" {
		t.Fatalf("active_role = %q, want tutor", role)
	}
	checkMembershipInvariant(t, db, accountID)
}

func TestAddRoleAlreadyActive(t *testing.T) {
	db := newTestDB(t)
	accountID := createAccount(t, db)
	lc := NewLifecycle(db)

	if _, err := lc.AddRole(accountID, Student); err != nil {
		t.Fatalf("add role: %v", err)
	}
	if _, err := lc.AddRole(accountID, Student); !errors.Is(err, ErrRoleAlreadyActive) {
		t.Fatalf("want ErrRoleAlreadyActive, got %v", err)
	}
	checkMembershipInvariant(t, db, accountID)
}

func TestAddRoleUnknownAccount(t *testing.T) {
	db := newTestDB(t)
	_, err := NewLifecycle(db).AddRole(9999, Tutor)
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("want NotFoundError, got %v", err)
	}
}

func TestSecondRoleKeepsActiveChoice(t *testing.T) {
	db := newTestDB(t)
	accountID := createAccount(t, db)
	lc := NewLifecycle(db)

	if _, err := lc.AddRole(accountID, Tutor); err != nil {
		t.Fatalf("add tutor: %v", err)
	}
	if _, err := lc.AddRole(accountID, Advertiser); err != nil {
		t.Fatalf("add advertiser: %v", err)
	}
	if role := activeRoleOf(t, db, accountID); role != "tutor" {
		t.Fatalf("active_role = %q, granting a second role must not clobber it", role)
	}
}

func TestSwitchActiveRole(t *testing.T) {
	db := newTestDB(t)
	accountID := createAccount(t, db)
	lc := NewLifecycle(db)

	if _, err := lc.AddRole(accountID, Tutor); err != nil {
		t.Fatalf("add tutor: %v", err)
	}
	if _, err := lc.AddRole(accountID, Student); err != nil {
		t.Fatalf("add student: %v", err)
	}

	if err := lc.SwitchActiveRole(accountID, Student); err != nil {
		t.Fatalf("switch: %v", err)
	}
	if role := activeRoleOf(t, db, accountID); role != "student" {
		t.Fatalf("active_role = %q, want student", role)
	}

	if err := lc.SwitchActiveRole(accountID, Parent); !errors.Is(err, ErrRoleNotHeld) {
		t.Fatalf("want ErrRoleNotHeld for unheld role, got %v", err)
	}
}

func TestSwitchToDeactivatedRoleFails(t *testing.T) {
	db := newTestDB(t)
	accountID := createAccount(t, db)
	lc := NewLifecycle(db)

	if _, err := lc.AddRole(accountID, Tutor); err != nil {
		t.Fatalf("add tutor: %v", err)
	}
	if err := lc.DeactivateRole(accountID, Tutor, 90); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if err := lc.SwitchActiveRole(accountID, Tutor); !errors.Is(err, ErrRoleNotHeld) {
		t.Fatalf("want ErrRoleNotHeld after deactivation, got %v", err)
	}

	// reactivation makes the switch possible again
	if _, err := lc.ReactivateRole(accountID, Tutor); err != nil {
		t.Fatalf("reactivate: %v", err)
	}
	if err := lc.SwitchActiveRole(accountID, Tutor); err != nil {
		t.Fatalf("switch after reactivation: %v", err)
	}
}

func TestDeactivateRole(t *testing.T) {
	db := newTestDB(t)
	accountID := createAccount(t, db)
	lc := NewLifecycle(db)
	start := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	lc.now = fixedClock(start)

	ref, err := lc.AddRole(accountID, Tutor)
	if err != nil {
		t.Fatalf("add tutor: %v", err)
	}

	if err := lc.DeactivateRole(accountID, Tutor, 90); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	held, err := NewResolver(db).Roles(accountID)
	if err != nil {
		t.Fatalf("roles: %v", err)
	}
	if len(held) != 0 {
		t.Fatalf("derived roles = %v, want none", held)
	}
	if role := activeRoleOf(t, db, accountID); role != "" {
		t.Fatalf("active_role = %q, want cleared", role)
	}

	var row profileRow
	if err := db.Table("tutor_profiles").Where("id = ?", ref.ID).Take(&row).Error; err != nil {
		t.Fatalf("load row: %v", err)
	}
	if row.IsActive {
		t.Fatal("profile still active")
	}
	want := start.Add(90 * 24 * time.Hour)
	if row.ScheduledDeletionAt == nil || !row.ScheduledDeletionAt.Equal(want) {
		t.Fatalf("scheduled_deletion_at = %v, want %v", row.ScheduledDeletionAt, want)
	}
	checkMembershipInvariant(t, db, accountID)
}

func TestDeactivateRoleNotHeld(t *testing.T) {
	db := newTestDB(t)
	accountID := createAccount(t, db)

	err := NewLifecycle(db).DeactivateRole(accountID, Tutor, 90)
	if !errors.Is(err, ErrRoleNotHeld) {
		t.Fatalf("want ErrRoleNotHeld, got %v", err)
	}
}

func TestDeactivateKeepsOtherActiveRole(t *testing.T) {
	db := newTestDB(t)
	accountID := createAccount(t, db)
	lc := NewLifecycle(db)

	if _, err := lc.AddRole(accountID, Tutor); err != nil {
		t.Fatalf("add tutor: %v", err)
	}
	if _, err := lc.AddRole(accountID, Student); err != nil {
		t.Fatalf("add student: %v", err)
	}

	// active_role is tutor; dropping student must not touch it
	if err := lc.DeactivateRole(accountID, Student, 90); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if role := activeRoleOf(t, db, accountID); role != "tutor" {
		t.Fatalf("active_role = %q, want tutor", role)
	}
}

func TestReactivateWithinGraceRestoresSameRow(t *testing.T) {
	db := newTestDB(t)
	accountID := createAccount(t, db)
	lc := NewLifecycle(db)
	start := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	lc.now = fixedClock(start)

	ref, err := lc.AddRole(accountID, Tutor)
	if err != nil {
		t.Fatalf("add tutor: %v", err)
	}
	if err := lc.DeactivateRole(accountID, Tutor, 90); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	lc.now = fixedClock(start.Add(24 * time.Hour)) // next day
	revived, err := lc.ReactivateRole(accountID, Tutor)
	if err != nil {
		t.Fatalf("reactivate: %v", err)
	}
	if revived.ID != ref.ID {
		t.Fatalf("reactivated id %d, want original %d", revived.ID, ref.ID)
	}

	var row profileRow
	if err := db.Table("tutor_profiles").Where("id = ?", ref.ID).Take(&row).Error; err != nil {
		t.Fatalf("load row: %v", err)
	}
	if !row.IsActive || row.ScheduledDeletionAt != nil {
		t.Fatalf("row not fully revived: %+v", row)
	}
	if role := activeRoleOf(t, db, accountID); role != "tutor" {
		t.Fatalf("active_role = %q, want tutor restored", role)
	}
	checkMembershipInvariant(t, db, accountID)
}

func TestReactivateAfterGraceFails(t *testing.T) {
	db := newTestDB(t)
	accountID := createAccount(t, db)
	lc := NewLifecycle(db)
	start := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	lc.now = fixedClock(start)

	if _, err := lc.AddRole(accountID, Tutor); err != nil {
		t.Fatalf("add tutor: %v", err)
	}
	if err := lc.DeactivateRole(accountID, Tutor, 90); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	lc.now = fixedClock(start.Add(91 * 24 * time.Hour))
	if _, err := lc.ReactivateRole(accountID, Tutor); !errors.Is(err, ErrGracePeriodExpired) {
		t.Fatalf("want ErrGracePeriodExpired, got %v", err)
	}
}

func TestReactivateReapedRowFails(t *testing.T) {
	db := newTestDB(t)
	accountID := createAccount(t, db)
	lc := NewLifecycle(db)
	start := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	lc.now = fixedClock(start)

	if _, err := lc.AddRole(accountID, Tutor); err != nil {
		t.Fatalf("add tutor: %v", err)
	}
	if err := lc.DeactivateRole(accountID, Tutor, 90); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	reaper := NewReaper(db, time.Hour)
	reaper.now = fixedClock(start.Add(91 * 24 * time.Hour))
	if _, err := reaper.Sweep(); err != nil {
		t.Fatalf("sweep: %v", err)
	}

	lc.now = fixedClock(start.Add(92 * 24 * time.Hour))
	if _, err := lc.ReactivateRole(accountID, Tutor); !errors.Is(err, ErrGracePeriodExpired) {
		t.Fatalf("want ErrGracePeriodExpired for reaped row, got %v", err)
	}
}

func TestAddRoleRevivesRowInsideGrace(t *testing.T) {
	db := newTestDB(t)
	accountID := createAccount(t, db)
	lc := NewLifecycle(db)
	start := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	lc.now = fixedClock(start)

	ref, err := lc.AddRole(accountID, Tutor)
	if err != nil {
		t.Fatalf("add tutor: %v", err)
	}
	if err := lc.DeactivateRole(accountID, Tutor, 90); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	// adding the role back inside the window revives the same row
	// instead of inserting a duplicate
	lc.now = fixedClock(start.Add(10 * 24 * time.Hour))
	revived, err := lc.AddRole(accountID, Tutor)
	if err != nil {
		t.Fatalf("re-add: %v", err)
	}
	if revived.ID != ref.ID {
		t.Fatalf("re-add created id %d, want revived %d", revived.ID, ref.ID)
	}

	var n int64
	if err := db.Table("tutor_profiles").Where("user_id = ?", accountID).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("%d tutor rows for account, want 1", n)
	}
	checkMembershipInvariant(t, db, accountID)
}

func TestAddRoleAfterDeadlineStartsFresh(t *testing.T) {
	db := newTestDB(t)
	accountID := createAccount(t, db)
	lc := NewLifecycle(db)
	start := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	lc.now = fixedClock(start)

	ref, err := lc.AddRole(accountID, Tutor)
	if err != nil {
		t.Fatalf("add tutor: %v", err)
	}
	if err := lc.DeactivateRole(accountID, Tutor, 90); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	// deadline passed but the reaper has not swept yet; the stale row
	// is forfeit and a fresh profile starts from scratch
	lc.now = fixedClock(start.Add(91 * 24 * time.Hour))
	fresh, err := lc.AddRole(accountID, Tutor)
	if err != nil {
		t.Fatalf("re-add: %v", err)
	}
	if fresh.ID == ref.ID {
		t.Fatal("expired row was revived, want a fresh profile")
	}

	var n int64
	if err := db.Table("tutor_profiles").Where("user_id = ?", accountID).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("%d tutor rows for account, want 1", n)
	}
}

func TestLifecycleRejectsUnknownKind(t *testing.T) {
	db := newTestDB(t)
	accountID := createAccount(t, db)
	lc := NewLifecycle(db)

	if _, err := lc.AddRole(accountID, Kind("ghost")); !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("AddRole: want ErrUnknownRole, got %v", err)
	}
	if err := lc.SwitchActiveRole(accountID, Kind("ghost")); !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("SwitchActiveRole: want ErrUnknownRole, got %v", err)
	}
	if err := lc.DeactivateRole(accountID, Kind("ghost"), 90); !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("DeactivateRole: want ErrUnknownRole, got %v", err)
	}
	if _, err := lc.ReactivateRole(accountID, Kind("ghost")); !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("ReactivateRole: want ErrUnknownRole, got %v", err)
	}
}
