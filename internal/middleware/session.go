package middleware

import (
	"net/http" // HTTP status codes

	"backoffice/internal/domain"
	"backoffice/internal/session"

	"github.com/gin-gonic/gin" // Gin web framework
)

// SessionCookie names the cookie carrying the signed session token
const SessionCookie = "sid"

// Context keys set by SessionAuth
const (
	ctxSession = "session"
	ctxUserID  = "userID"
)

// SessionAuth resolves the session cookie and rejects the request with 401 otherwise
func SessionAuth(m *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(SessionCookie) // Missing cookie yields ""
		sess, err := m.Resolve(c.Request.Context(), token)
		if err != nil {
			status := http.StatusUnauthorized
			msg := "Unauthorized"
			if domain.CodeOf(err) == domain.CodeStore {
				status, msg = http.StatusInternalServerError, "Internal server error"
				Logger(c).WithError(err).Error("Session lookup failed")
			}
			c.AbortWithStatusJSON(status, gin.H{"error": msg})
			return
		}
		c.Set(ctxSession, sess)       // Store the session in context
		c.Set(ctxUserID, sess.UserID) // Store userID in context
		c.Next()                      // Proceed to the next handler
	}
}

// CurrentSession returns the session stored by SessionAuth, or nil
func CurrentSession(c *gin.Context) *domain.Session {
	if v, ok := c.Get(ctxSession); ok {
		if sess, ok := v.(*domain.Session); ok {
			return sess
		}
	}
	return nil
}

// DemoReadOnly answers 403 to any write made with a demo session
func DemoReadOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}
		if sess := CurrentSession(c); sess != nil && sess.Demo {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Demo accounts are read-only"})
			return
		}
		c.Next()
	}
}
