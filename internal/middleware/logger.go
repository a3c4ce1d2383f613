package middleware

import (
	"time"

	"backoffice/internal/db"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	ctxLogger       = "logger"
	requestIDHeader = "X-Request-ID"
)

// RequestLogger logs every request and stores a request-scoped entry in the context
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(requestIDHeader, requestID)
		c.Request = c.Request.WithContext(db.WithRequestID(c.Request.Context(), requestID))

		// Create request-scoped logger
		entry := logrus.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       path,
		})
		c.Set(ctxLogger, entry)

		c.Next()

		status := c.Writer.Status()
		fields := logrus.Fields{
			"status":    status,
			"latency":   time.Since(start),
			"client_ip": c.ClientIP(),
		}
		if userID, ok := c.Get(ctxUserID); ok {
			fields["user_id"] = userID
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.Errors()
		}

		// Choose log level based on status code
		msg := "HTTP Request"
		switch {
		case status >= 500:
			entry.WithFields(fields).Error(msg)
		case status >= 400:
			entry.WithFields(fields).Warn(msg)
		default:
			entry.WithFields(fields).Info(msg)
		}
	}
}

// Recovery turns a panic into a logged 500
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		Logger(c).WithField("panic", recovered).Error("Panic recovered")
		c.AbortWithStatusJSON(500, gin.H{"error": "Internal server error"})
	})
}

// Logger retrieves the request-scoped logger, falling back to the standard one
func Logger(c *gin.Context) *logrus.Entry {
	if v, ok := c.Get(ctxLogger); ok {
		if entry, ok := v.(*logrus.Entry); ok {
			return entry
		}
	}
	return logrus.NewEntry(logrus.StandardLogger())
}
