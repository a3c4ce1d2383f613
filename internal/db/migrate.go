package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"backoffice/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt" // Password hashing for the seeded user
	"gorm.io/gorm"               // GORM ORM library
)

// Seed describes the user created when the users table is empty
type Seed struct {
	Username string
	Password string
}

// additiveColumn is a column added to an existing table by a later release
type additiveColumn struct {
	model any    // Model owning the column
	field string // Struct field name, resolved to the column by GORM
}

// Models lists every table in foreign key dependency order
func Models() []any {
	return []any{
		&domain.User{},
		&domain.UserSettings{},
		&domain.Client{},
		&domain.Service{},
		&domain.Quote{},
		&domain.Project{},
		&domain.Invoice{},
		&domain.Task{},
		&domain.Bug{},
		&domain.Session{},
	}
}

// additiveColumns are applied with ALTER TABLE on databases created before they existed
var additiveColumns = []additiveColumn{
	{model: &domain.UserSettings{}, field: "PhoneNumberForNotifications"},
	{model: &domain.UserSettings{}, field: "DarkModeEnabled"},
}

// Init creates missing tables, adds late columns and seeds the first user.
// It is safe to run any number of times against the same database.
func Init(ctx context.Context, gdb *gorm.DB, seed Seed) error {
	tx := gdb.WithContext(ctx)
	migrator := tx.Migrator()

	// Create each table only when it is absent
	for _, model := range Models() {
		if migrator.HasTable(model) {
			continue
		}
		if err := migrator.CreateTable(model); err != nil {
			return fmt.Errorf("create table for %T: %w", model, err)
		}
	}

	// Additive columns; "already exists" is the only tolerated failure
	for _, col := range additiveColumns {
		if migrator.HasColumn(col.model, col.field) {
			continue
		}
		if err := migrator.AddColumn(col.model, col.field); err != nil && !IsDuplicateColumn(err) {
			return fmt.Errorf("add column %s to %T: %w", col.field, col.model, err)
		}
		logrus.WithField("column", col.field).Info("Added column to existing table")
	}

	if err := seedUser(tx, seed); err != nil {
		return err
	}
	logrus.Info("Schema initialization completed.") // Log successful migration
	return nil
}

// IsDuplicateColumn reports whether err is a driver's "column already exists" failure
func IsDuplicateColumn(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate column") || // sqlite, mysql
		(strings.Contains(msg, "column") && strings.Contains(msg, "already exists")) // postgres
}

// seedUser inserts one admin user plus settings when there are no users
func seedUser(tx *gorm.DB, seed Seed) error {
	if seed.Username == "" || seed.Password == "" {
		return nil
	}
	var count int64
	if err := tx.Model(&domain.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}
	err = tx.Transaction(func(tx *gorm.DB) error {
		user := domain.User{Username: seed.Username, PasswordHash: string(hash), Role: domain.RoleAdmin}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		settings := domain.DefaultSettings(user.ID, user.Username)
		return tx.Create(&settings).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		logrus.WithField("username", seed.Username).Debug("Default user already seeded by another process")
		return nil
	}
	if err != nil {
		return fmt.Errorf("seed user: %w", err)
	}
	logrus.WithField("username", seed.Username).Info("Seeded default user")
	return nil
}
