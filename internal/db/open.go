package db

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"backoffice/internal/config" // Connection settings

	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"    // MySQL driver for GORM
	"gorm.io/driver/postgres" // PostgreSQL driver for GORM
	"gorm.io/driver/sqlite"   // SQLite driver for GORM
	"gorm.io/gorm"            // GORM ORM library
	gormlogger "gorm.io/gorm/logger"
)

const (
	connectAttempts = 5               // Server databases may still be starting
	connectBackoff  = 2 * time.Second // Pause between attempts
)

var (
	kvPassword  = regexp.MustCompile(`(password=)(\S+)`)
	urlPassword = regexp.MustCompile(`(^[^:/@\s]+:|://[^:/@\s]+:)([^@\s/]+)(@)`)
)

// DSN builds the data source name for the configured driver
func DSN(cfg *config.Config) string {
	if cfg.DBDSN != "" {
		if cfg.DBDriver == "mysql" {
			return withClientFoundRows(cfg.DBDSN)
		}
		return cfg.DBDSN // Explicit DSN wins
	}
	switch cfg.DBDriver {
	case "mysql":
		port := cfg.DBPort
		if port == "" {
			port = "3306"
		}
		// clientFoundRows makes an unchanged UPDATE still report its matched row
		return cfg.DBUser + ":" + cfg.DBPassword + "@tcp(" + cfg.DBHost + ":" + port + ")/" + cfg.DBName + "?parseTime=true&clientFoundRows=true"
	case "postgres":
		port := cfg.DBPort
		if port == "" {
			port = "5432"
		}
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable", cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, port)
	default:
		return SQLiteDSN(cfg.DBPath)
	}
}

// withClientFoundRows adds clientFoundRows=true to a MySQL DSN that does not set it
func withClientFoundRows(dsn string) string {
	if strings.Contains(dsn, "clientFoundRows=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&clientFoundRows=true"
	}
	return dsn + "?clientFoundRows=true"
}

// SQLiteDSN returns a file DSN with foreign key enforcement switched on
func SQLiteDSN(path string) string {
	return "file:" + url.PathEscape(path) + "?_foreign_keys=1"
}

// MemoryDSN returns a named shared in-memory SQLite DSN, one database per name
func MemoryDSN(name string) string {
	return "file:" + url.PathEscape(name) + "?mode=memory&cache=shared&_foreign_keys=1"
}

// Dialector selects the GORM dialector for a driver name
func Dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "sqlite":
		return sqlite.Open(dsn), nil
	case "mysql":
		return mysql.Open(dsn), nil
	case "postgres":
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// NewGormConfig returns the shared GORM configuration: translated driver
// errors and logging through logrus
func NewGormConfig(level gormlogger.LogLevel) *gorm.Config {
	return &gorm.Config{
		TranslateError: true,                 // Surface ErrDuplicatedKey / ErrForeignKeyViolated
		Logger:         NewGormLogger(level), // Route SQL logs through logrus
	}
}

// Connect opens a dialector with the shared configuration
func Connect(dialector gorm.Dialector, level gormlogger.LogLevel) (*gorm.DB, error) {
	gdb, err := gorm.Open(dialector, NewGormConfig(level))
	if err != nil {
		return nil, err
	}
	if dialector.Name() == "sqlite" {
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1) // SQLite allows a single writer
	}
	return gdb, nil
}

// Open connects to the configured database, retrying server databases for a short while
func Open(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	dsn := DSN(cfg)
	dialector, err := Dialector(cfg.DBDriver, dsn)
	if err != nil {
		return nil, err
	}
	level := MapGormLogLevel(cfg.LogLevel)

	attempts := connectAttempts
	if cfg.DBDriver == "sqlite" {
		attempts = 1 // A local file either opens or it doesn't
	}
	var gdb *gorm.DB
	for i := 1; i <= attempts; i++ {
		gdb, err = Connect(dialector, level)
		if err == nil {
			break
		}
		logrus.WithFields(logrus.Fields{"driver": cfg.DBDriver, "attempt": i}).Warnf("database connection failed: %v", err)
		if i == attempts {
			return nil, fmt.Errorf("failed to connect database after %d attempts: %w", attempts, err)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(connectBackoff):
		}
	}

	// Basic connectivity test
	if err := gdb.WithContext(ctx).Exec("SELECT 1").Error; err != nil {
		return nil, fmt.Errorf("db ping failed: %w", err)
	}
	logrus.WithFields(logrus.Fields{"driver": cfg.DBDriver, "dsn": MaskDSN(dsn)}).Info("Database connected")
	return gdb, nil
}

// MaskDSN hides the password in a DSN for logging
func MaskDSN(dsn string) string {
	masked := kvPassword.ReplaceAllString(dsn, "${1}***")
	return urlPassword.ReplaceAllString(masked, "${1}***${3}")
}
