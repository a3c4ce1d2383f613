package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv" // For loading .env files
	"github.com/spf13/viper"   // Typed env access with defaults
)

// defaultSessionSecret is only acceptable outside production
const defaultSessionSecret = "change-me-session-secret"

// Config holds the application configuration
type Config struct {
	AppPort  string // Application port
	IsProd   bool   // Is production environment
	LogLevel string // logrus level name

	DBDriver   string // sqlite, mysql or postgres
	DBDSN      string // Full DSN, overrides the parts below when set
	DBPath     string // SQLite file path
	DBUser     string // Database user
	DBPassword string // Database password
	DBHost     string // Database host
	DBPort     string // Database port
	DBName     string // Database name

	SessionSecret string        // HMAC key for session cookies
	SessionStore  string        // db or redis
	SessionTTL    time.Duration // Fixed at 24h
	RedisAddr     string        // Redis server address
	RedisPass     string        // Redis password
	RedisDB       int           // Redis database number

	DemoMode       bool     // Registers the passwordless demo login
	CORSOrigins    []string // Origins allowed to send credentials
	TrustedProxies []string // Proxies whose forwarded client IP is believed
	StaticDir      string   // Built SPA directory

	SMTPHost  string // SMTP relay host
	SMTPPort  int    // SMTP relay port
	EmailUser string // SMTP username
	EmailPass string // SMTP password
	EmailFrom string // From header, defaults to EmailUser

	ReminderCron     string // Cron expression for the daily reminder
	ReminderTimezone string // IANA zone the cron expression runs in
	ReminderLeadDays int    // Days ahead of end_date to remind
	ReminderOwnerID  uint   // User whose settings receive reminders

	SeedAdminUsername string // Username seeded into an empty users table
	SeedAdminPassword string // Its initial password, stored hashed

	LoginRatePerMin int // Auth attempts per client IP per minute
}

// LoadConfig loads configuration from the environment and an optional .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // Load .env file if present

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		AppPort:  v.GetString("APP_PORT"),
		IsProd:   v.GetBool("IS_PROD"),
		LogLevel: v.GetString("LOG_LEVEL"),

		DBDriver:   strings.ToLower(v.GetString("DB_DRIVER")),
		DBDSN:      v.GetString("DB_DSN"),
		DBPath:     v.GetString("DB_PATH"),
		DBUser:     v.GetString("DB_USER"),
		DBPassword: v.GetString("DB_PASSWORD"),
		DBHost:     v.GetString("DB_HOST"),
		DBPort:     v.GetString("DB_PORT"),
		DBName:     v.GetString("DB_NAME"),

		SessionSecret: v.GetString("SESSION_SECRET"),
		SessionStore:  strings.ToLower(v.GetString("SESSION_STORE")),
		SessionTTL:    24 * time.Hour,
		RedisAddr:     v.GetString("REDIS_ADDR"),
		RedisPass:     v.GetString("REDIS_PASS"),
		RedisDB:       v.GetInt("REDIS_DB"),

		DemoMode:       v.GetBool("DEMO_MODE"),
		CORSOrigins:    splitList(v.GetString("CORS_ORIGINS")),
		TrustedProxies: splitList(v.GetString("TRUSTED_PROXIES")),
		StaticDir:      v.GetString("STATIC_DIR"),

		SMTPHost:  v.GetString("SMTP_HOST"),
		SMTPPort:  v.GetInt("SMTP_PORT"),
		EmailUser: v.GetString("EMAIL_USER"),
		EmailPass: v.GetString("EMAIL_PASS"),
		EmailFrom: v.GetString("EMAIL_FROM"),

		ReminderCron:     v.GetString("REMINDER_CRON"),
		ReminderTimezone: v.GetString("REMINDER_TIMEZONE"),
		ReminderLeadDays: v.GetInt("REMINDER_LEAD_DAYS"),
		ReminderOwnerID:  v.GetUint("REMINDER_OWNER_ID"),

		SeedAdminUsername: v.GetString("SEED_ADMIN_USERNAME"),
		SeedAdminPassword: v.GetString("SEED_ADMIN_PASSWORD"),

		LoginRatePerMin: v.GetInt("LOGIN_RATE_PER_MIN"),
	}
	if cfg.EmailFrom == "" {
		cfg.EmailFrom = cfg.EmailUser
	}
	if cfg.SessionStore == "" {
		cfg.SessionStore = "db"
		if cfg.RedisAddr != "" {
			cfg.SessionStore = "redis"
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers the value used for each key left unset
func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "5000")
	v.SetDefault("IS_PROD", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_PATH", "data.db")
	v.SetDefault("DB_HOST", "127.0.0.1")
	v.SetDefault("SESSION_SECRET", defaultSessionSecret)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("DEMO_MODE", false)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("TRUSTED_PROXIES", "127.0.0.1")
	v.SetDefault("STATIC_DIR", "frontend/build")
	v.SetDefault("SMTP_HOST", "smtp.gmail.com")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("EMAIL_USER", "your_email@gmail.com")
	v.SetDefault("EMAIL_PASS", "your_app_password")
	v.SetDefault("REMINDER_CRON", "0 9 * * *")
	v.SetDefault("REMINDER_TIMEZONE", "Africa/Johannesburg")
	v.SetDefault("REMINDER_LEAD_DAYS", 5)
	v.SetDefault("REMINDER_OWNER_ID", 1)
	v.SetDefault("SEED_ADMIN_USERNAME", "admin")
	v.SetDefault("SEED_ADMIN_PASSWORD", "password123")
	v.SetDefault("LOGIN_RATE_PER_MIN", 20)
}

// validate rejects configurations the server cannot start with
func (c *Config) validate() error {
	switch c.DBDriver {
	case "sqlite", "mysql", "postgres":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch c.SessionStore {
	case "db":
	case "redis":
		if c.RedisAddr == "" {
			return errors.New("SESSION_STORE=redis requires REDIS_ADDR")
		}
	default:
		return fmt.Errorf("unsupported SESSION_STORE %q", c.SessionStore)
	}
	if c.SessionSecret == "" {
		return errors.New("SESSION_SECRET must not be empty")
	}
	if c.IsProd && c.SessionSecret == defaultSessionSecret {
		return errors.New("SESSION_SECRET must be changed in production")
	}
	if _, err := time.LoadLocation(c.ReminderTimezone); err != nil {
		return fmt.Errorf("invalid REMINDER_TIMEZONE: %w", err)
	}
	if c.ReminderLeadDays < 0 {
		return errors.New("REMINDER_LEAD_DAYS must not be negative")
	}
	return nil
}

// Location returns the reminder time zone; validate guarantees it loads
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.ReminderTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
