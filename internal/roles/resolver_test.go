package roles

import (
	"errors"
	"strings"
	"testing"
)

func TestResolveProfileByRole(t *testing.T) {
	db := newTestDB(t)
	accountID := createAccount(t, db)
	lc := NewLifecycle(db)

	ref, err := lc.AddRole(accountID, Tutor)
	if err != nil {
		t.Fatalf("add role: %v", err)
	}

	got, err := NewResolver(db).ResolveProfile(accountID, Tutor)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != ref {
		t.Fatalf("resolved %+v, want %+v", got, ref)
	}
}

func TestResolveProfileNotHeld(t *testing.T) {
	db := newTestDB(t)
	accountID := createAccount(t, db)

	_, err := NewResolver(db).ResolveProfile(accountID, Tutor)
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("want NotFoundError, got %v", err)
	}
	if nf.Kind != Tutor || nf.AccountID != accountID {
		t.Fatalf("error carries %q/%d, want tutor/%d", nf.Kind, nf.AccountID, accountID)
	}
}

func TestResolveAnyPriorityOrder(t *testing.T) {
	db := newTestDB(t)
	accountID := createAccount(t, db)
	lc := NewLifecycle(db)
	resolver := NewResolver(db)

	if _, err := resolver.ResolveAny(accountID); err == nil {
		t.Fatal("want NotFound for account with no roles")
	}

	if _, err := lc.AddRole(accountID, Parent); err != nil {
		t.Fatalf("add parent: %v", err)
	}
	if _, err := lc.AddRole(accountID, Student); err != nil {
		t.Fatalf("add student: %v", err)
	}

	// student outranks parent; tutor would outrank both
	ref, err := resolver.ResolveAny(accountID)
	if err != nil {
		t.Fatalf("resolve any: %v", err)
	}
	if ref.Kind != Student {
		t.Fatalf("resolved %s, want student", ref.Kind)
	}

	if _, err := lc.AddRole(accountID, Tutor); err != nil {
		t.Fatalf("add tutor: %v", err)
	}
	ref, err = resolver.ResolveAny(accountID)
	if err != nil {
		t.Fatalf("resolve any: %v", err)
	}
	if ref.Kind != Tutor {
		t.Fatalf("resolved %s, want tutor", ref.Kind)
	}
}

func TestResolveAnyNeverPicksAdmin(t *testing.T) {
	db := newTestDB(t)
	accountID := createAccount(t, db)

	if _, err := NewLifecycle(db).AddRole(accountID, Admin); err != nil {
		t.Fatalf("add admin: %v", err)
	}
	if _, err := NewResolver(db).ResolveAny(accountID); err == nil {
		t.Fatal("admin-only account must not auto-resolve")
	}
}

func TestResolveAccount(t *testing.T) {
	db := newTestDB(t)
	accountID := createAccount(t, db)
	ref, err := NewLifecycle(db).AddRole(accountID, Advertiser)
	if err != nil {
		t.Fatalf("add role: %v", err)
	}

	resolver := NewResolver(db)
	got, err := resolver.ResolveAccount(ref.ID, Advertiser)
	if err != nil {
		t.Fatalf("resolve account: %v", err)
	}
	if got != accountID {
		t.Fatalf("got account %d, want %d", got, accountID)
	}

	// same id in a different role table is a miss
	if _, err := resolver.ResolveAccount(ref.ID, Parent); err == nil {
		t.Fatal("want NotFound for wrong role table")
	}
}

func TestResolveAccountMatchesDeactivatedRow(t *testing.T) {
	db := newTestDB(t)
	accountID := createAccount(t, db)
	lc := NewLifecycle(db)

	ref, err := lc.AddRole(accountID, Tutor)
	if err != nil {
		t.Fatalf("add role: %v", err)
	}
	if err := lc.DeactivateRole(accountID, Tutor, 90); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	got, err := NewResolver(db).ResolveAccount(ref.ID, Tutor)
	if err != nil {
		t.Fatalf("resolve account after deactivation: %v", err)
	}
	if got != accountID {
		t.Fatalf("got account %d, want %d", got, accountID)
	}
}

func TestValidateProfileExists(t *testing.T) {
	db := newTestDB(t)
	accountID := createAccount(t, db)
	lc := NewLifecycle(db)
	resolver := NewResolver(db)

	ref, err := lc.AddRole(accountID, Student)
	if err != nil {
		t.Fatalf("add role: %v", err)
	}
	if err := resolver.ValidateProfileExists(ref.ID, Student); err != nil {
		t.Fatalf("validate active profile: %v", err)
	}

	// deactivated profiles must not validate
	if err := lc.DeactivateRole(accountID, Student, 90); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	err = resolver.ValidateProfileExists(ref.ID, Student)
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("want NotFoundError for deactivated profile, got %v", err)
	}
	if nf.ProfileID != ref.ID || nf.Kind != Student {
		t.Fatalf("error carries %q/%d, want student/%d", nf.Kind, nf.ProfileID, ref.ID)
	}
	if !strings.Contains(nf.Error(), "student") {
		t.Fatalf("message %q does not name the role", nf.Error())
	}
}

func TestUnregisteredKindReadsAsNotFound(t *testing.T) {
	db := newTestDB(t)
	accountID := createAccount(t, db)
	resolver := NewResolver(db)

	var nf *NotFoundError
	_, err := resolver.ResolveProfile(accountID, Kind("Tutor")) // case-sensitive
	if !errors.As(err, &nf) {
		t.Fatalf("want NotFoundError, got %v", err)
	}
	if err := resolver.ValidateProfileExists(1, Kind("ghost")); !errors.As(err, &nf) {
		t.Fatalf("want NotFoundError, got %v", err)
	}
}

func TestParseKindRejectsUnknownNames(t *testing.T) {
	for _, bad := range []string{"", "ghost", "Tutor", "TUTOR"} {
		if _, err := ParseKind(bad); !errors.Is(err, ErrUnknownRole) {
			t.Fatalf("ParseKind(%q) = %v, want ErrUnknownRole", bad, err)
		}
	}
	for _, good := range []string{"tutor", "student", "parent", "advertiser", "admin", " tutor "} {
		if _, err := ParseKind(good); err != nil {
			t.Fatalf("ParseKind(%q) = %v, want nil", good, err)
		}
	}
}

func TestDerivedRoles(t *testing.T) {
	db := newTestDB(t)
	accountID := createAccount(t, db)
	lc := NewLifecycle(db)

	for _, kind := range []Kind{Tutor, Parent} {
		if _, err := lc.AddRole(accountID, kind); err != nil {
			t.Fatalf("add %s: %v", kind, err)
		}
	}

	held, err := NewResolver(db).Roles(accountID)
	if err != nil {
		t.Fatalf("roles: %v", err)
	}
	if len(held) != 2 || held[0] != Tutor || held[1] != Parent {
		t.Fatalf("derived roles = %v, want [tutor parent]", held)
	}
	checkMembershipInvariant(t, db, accountID)
}
