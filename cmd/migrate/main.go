package main

import (
	"context" // Startup deadline

	"backoffice/internal/config" // Custom import path (Config)
	"backoffice/internal/db"     // Custom import path (Database)

	"github.com/sirupsen/logrus"
)

// Main entry point for migration
func main() {
	cfg, err := config.LoadConfig() // Load configuration
	if err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	ctx := context.Background()
	gdb, err := db.Open(ctx, cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err)
	}
	if err := db.Init(ctx, gdb, db.Seed{Username: cfg.SeedAdminUsername, Password: cfg.SeedAdminPassword}); err != nil {
		logrus.Fatalf("migration failed: %v", err)
	}
	logrus.Info("Migration completed")
}
