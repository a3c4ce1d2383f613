package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	gormlogger "gorm.io/gorm/logger"
)

// requestIDKey is the context key the request logger stores its id under
type requestIDKey struct{}

// WithRequestID tags a context so SQL logs can be correlated with their request
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// GormLogger implements GORM's logger interface using logrus
type GormLogger struct {
	logLevel      gormlogger.LogLevel
	slowThreshold time.Duration
}

// NewGormLogger creates a GORM logger writing to the standard logrus logger
func NewGormLogger(level gormlogger.LogLevel) *GormLogger {
	return &GormLogger{logLevel: level, slowThreshold: 200 * time.Millisecond}
}

// LogMode implements gormlogger.Interface
func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	newLogger := *l
	newLogger.logLevel = level
	return &newLogger
}

// Info implements gormlogger.Interface
func (l *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.logLevel >= gormlogger.Info {
		logrus.WithField("component", "gorm").Infof(msg, data...)
	}
}

// Warn implements gormlogger.Interface
func (l *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.logLevel >= gormlogger.Warn {
		logrus.WithField("component", "gorm").Warnf(msg, data...)
	}
}

// Error implements gormlogger.Interface
func (l *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.logLevel >= gormlogger.Error {
		logrus.WithField("component", "gorm").Errorf(msg, data...)
	}
}

// Trace implements gormlogger.Interface, logging each statement
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.logLevel <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()

	entry := logrus.WithFields(logrus.Fields{
		"component": "gorm",
		"elapsed":   elapsed,
		"rows":      rows,
		"sql":       sql,
	})
	if id := requestID(ctx); id != "" {
		entry = entry.WithField("request_id", id)
	}

	switch {
	case err != nil && l.logLevel >= gormlogger.Error:
		if errors.Is(err, gormlogger.ErrRecordNotFound) {
			return // Expected on lookups, reported as 404 upstream
		}
		entry.WithError(err).Error("SQL Error")
	case elapsed > l.slowThreshold && l.logLevel >= gormlogger.Warn:
		entry.Warn(fmt.Sprintf("SLOW SQL >= %v", l.slowThreshold))
	case l.logLevel >= gormlogger.Info:
		entry.Debug("SQL Query")
	}
}

// MapGormLogLevel maps the application log level to a GORM log level
func MapGormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error", "fatal", "panic":
		return gormlogger.Error
	case "debug", "trace":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
