// Package dbtest opens throwaway SQLite databases for package tests.
package dbtest

import (
	"context"
	"strings"
	"testing"

	"backoffice/internal/db"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// AdminPassword is the password of the user seeded by New
const AdminPassword = "password123"

// New returns an initialized in-memory database unique to the test, seeded
// with the admin user. It is closed when the test ends.
func New(t testing.TB) *gorm.DB {
	t.Helper()
	gdb := Open(t)
	if err := db.Init(context.Background(), gdb, db.Seed{Username: "admin", Password: AdminPassword}); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	return gdb
}

// Open returns an empty in-memory database unique to the test
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dialector, err := db.Dialector("sqlite", db.MemoryDSN(name))
	if err != nil {
		t.Fatalf("dialector: %v", err)
	}
	gdb, err := db.Connect(dialector, gormlogger.Silent)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}
