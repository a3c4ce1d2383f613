package main

import (
	"context"   // Startup and shutdown deadlines
	"errors"    // Distinguish a clean server close
	"net/http"  // HTTP server
	"os"        // Process signals
	"os/signal" // Graceful shutdown
	"syscall"   // SIGTERM
	"time"      // Timeouts

	"backoffice/internal/api"        // Custom package for API handlers
	"backoffice/internal/config"     // Custom package for configuration
	"backoffice/internal/db"         // Custom package for the database
	"backoffice/internal/mailer"     // Reminder email delivery
	"backoffice/internal/metrics"    // Prometheus collectors
	"backoffice/internal/middleware" // Custom package for middleware
	"backoffice/internal/reminder"   // Daily reminder job
	"backoffice/internal/session"    // Server-side sessions
	"backoffice/internal/store"      // Repositories

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg, err := config.LoadConfig() // Load configuration
	if err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}

	// Setup logger
	if cfg.IsProd {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to the database and bring the schema up to date
	gdb, err := db.Open(ctx, cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}
	if err := db.Init(ctx, gdb, db.Seed{Username: cfg.SeedAdminUsername, Password: cfg.SeedAdminPassword}); err != nil {
		logrus.Fatalf("failed to initialize schema: %v", err)
	}

	// Setup Redis client when configured
	var rdb redis.Cmdable
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		// Test Redis connection
		if err := client.Ping(ctx).Err(); err != nil {
			logrus.Fatalf("failed to connect to Redis: %v", err)
		}
		defer client.Close()
		rdb = client
	}

	repos := store.New(gdb)
	dbSessions := session.NewDBStore(gdb)
	var sessions session.Store = dbSessions
	if cfg.SessionStore == "redis" {
		sessions = session.NewRedisStore(rdb)
	}
	manager := session.NewManager(sessions, repos.Users, cfg.SessionSecret, cfg.SessionTTL)
	m := metrics.New()

	sender := mailer.New(mailer.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.EmailUser,
		Password: cfg.EmailPass,
	}) // Warns once when SMTP is not configured
	reminders := reminder.NewService(repos.Projects, repos.Settings, sender, m, reminder.Config{
		From:     cfg.EmailFrom,
		LeadDays: cfg.ReminderLeadDays,
		OwnerID:  cfg.ReminderOwnerID,
		Location: cfg.Location(),
	})
	limiter := middleware.NewRateLimiter(cfg.LoginRatePerMin)

	// Schedule the reminder plus housekeeping
	scheduler := reminder.NewScheduler(cfg.Location())
	if err := scheduler.AddReminder(cfg.ReminderCron, reminders); err != nil {
		logrus.Fatalf("failed to schedule reminders: %v", err)
	}
	if err := scheduler.AddJob("purge_sessions", "@hourly", func(ctx context.Context) error {
		n, err := dbSessions.PurgeExpired(ctx, time.Now())
		if n > 0 {
			logrus.WithField("sessions", n).Info("Expired sessions purged")
		}
		return err
	}); err != nil {
		logrus.Fatalf("failed to schedule session purge: %v", err)
	}
	if err := scheduler.AddJob("limiter_cleanup", "@every 10m", func(context.Context) error {
		limiter.Cleanup(10 * time.Minute)
		return nil
	}); err != nil {
		logrus.Fatalf("failed to schedule limiter cleanup: %v", err)
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}
	router, err := api.NewRouter(api.Deps{
		DB:             gdb,
		Store:          repos,
		Sessions:       manager,
		Reminders:      reminders,
		Metrics:        m,
		Limiter:        limiter,
		Redis:          rdb,
		CORSOrigins:    cfg.CORSOrigins,
		TrustedProxies: cfg.TrustedProxies,
		StaticDir:      cfg.StaticDir,
		DemoMode:       cfg.DemoMode,
		SecureCookies:  cfg.IsProd,
	})
	if err != nil {
		logrus.Fatalf("failed to build router: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	scheduler.Start()
	go func() {
		logrus.WithFields(logrus.Fields{"port": cfg.AppPort, "demo_mode": cfg.DemoMode}).Info("Server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logrus.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("HTTP server shutdown failed")
	}
	if err := scheduler.Stop(shutdownCtx); err != nil {
		logrus.WithError(err).Warn("Scheduler did not stop cleanly")
	}
	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
