// Package dbtest opens isolated, migrated in-memory databases for tests.
package dbtest

import (
	"context"
	"strings"
	"testing"

	"furniture-admin/internal/config"
	"furniture-admin/internal/database"

	"gorm.io/gorm"
)

// New returns a migrated in-memory SQLite database private to the test.
func New(t testing.TB) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Open(&config.Config{
		DatabaseDriver: config.DriverSQLite,
		DatabaseDSN:    "file:" + name + "?mode=memory&cache=shared",
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// Seeded returns New with the furniture catalog inserted.
func Seeded(t testing.TB) *gorm.DB {
	t.Helper()
	db := New(t)
	if _, err := database.Seed(context.Background(), db); err != nil {
		t.Fatalf("seed test database: %v", err)
	}
	return db
}
