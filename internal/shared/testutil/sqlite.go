package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"go-leavemgmt/internal/shared/connection"
	"go-leavemgmt/internal/shared/database"

	"gorm.io/gorm"
)

// NewSQLiteDB opens a migrated sqlite database that lives for the duration of t.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := connection.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.RunMigrations(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
