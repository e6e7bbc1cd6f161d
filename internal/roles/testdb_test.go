package roles

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"astegni_backend/internal/models"
)

// newTestDB opens a fresh in-memory sqlite database with the full
// schema. Max one connection, otherwise every pooled connection gets
// its own empty :memory: database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.TutorProfile{},
		&models.StudentProfile{},
		&models.ParentProfile{},
		&models.AdvertiserProfile{},
		&models.AdminProfile{},
		&models.Campaign{},
		&models.Connection{},
		&models.Session{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

var accountSeq int

func createAccount(t *testing.T, db *gorm.DB) uint {
	t.Helper()
	accountSeq++
	email := fmt.Sprintf("user%d@example.com", accountSeq)
	user := models.User{FirstName: "Abel", Email: &email, Password: "hash"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create account: %v", err)
	}
	return user.ID
}

func activeRoleOf(t *testing.T, db *gorm.DB, accountID uint) string {
	t.Helper()
	var user models.User
	if err := db.First(&user, accountID).Error; err != nil {
		t.Fatalf("load account: %v", err)
	}
	return user.ActiveRole
}

// checkMembershipInvariant asserts both directions of the core
// invariant: a role is in the derived set iff exactly one active
// profile row backs it.
func checkMembershipInvariant(t *testing.T, db *gorm.DB, accountID uint) {
	t.Helper()
	resolver := NewResolver(db)
	held, err := resolver.Roles(accountID)
	if err != nil {
		t.Fatalf("derive roles: %v", err)
	}
	heldSet := map[Kind]bool{}
	for _, k := range held {
		heldSet[k] = true
	}
	for _, kind := range Kinds() {
		var n int64
		err := db.Table(registry[kind].table).
			Where("user_id = ? AND is_active = ?", accountID, true).
			Count(&n).Error
		if err != nil {
			t.Fatalf("count %s rows: %v", kind, err)
		}
		if heldSet[kind] && n != 1 {
			t.Fatalf("role %s held but %d active rows", kind, n)
		}
		if !heldSet[kind] && n != 0 {
			t.Fatalf("role %s not held but %d active rows", kind, n)
		}
	}
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}
