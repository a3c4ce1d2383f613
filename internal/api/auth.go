package api

import (
	"context"
	"net/http" // HTTP status codes
	"regexp"   // Regular expressions
	"strings"  // String manipulation

	"backoffice/internal/domain"     // Importing domain models
	"backoffice/internal/middleware" // Session cookie name and request logger
	"backoffice/internal/session"
	"backoffice/internal/store" // Reserved demo username
	"backoffice/internal/utils" // Cache helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"
)

// Request and Response structs
type CreateUserRequest struct {
	Username string `json:"username" binding:"required"` // Username must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// Request struct for login
type LoginRequest struct {
	Username string `json:"username" binding:"required"` // Username must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// UserResponse is the public view of a user
type UserResponse struct {
	ID       uint   `json:"id"`       // User ID
	Username string `json:"username"` // Username
	Role     string `json:"role"`     // User role
}

func userResponse(u *domain.User) UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username, Role: u.Role}
}

// AuthUsers is the user repository surface used by the auth routes
type AuthUsers interface {
	Create(ctx context.Context, username, password, role string) (*domain.User, error)
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
	FindOrCreateDemo(ctx context.Context) (*domain.User, error)
}

// LoginRecorder counts authentication attempts
type LoginRecorder interface {
	LoginAttempt(kind string, ok bool)
}

// CookieConfig controls the session cookie attributes
type CookieConfig struct {
	Secure bool // Set in production so the cookie only travels over HTTPS
}

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9._@-]{3,50}$`)

// isValidUsername checks the username uses a safe character set
func isValidUsername(username string) bool {
	return usernamePattern.MatchString(username) // Letters, digits and . _ @ -
}

// isValidPassword checks the password length; bcrypt ignores input past 72 bytes
func isValidPassword(password string) bool {
	return len(password) >= 8 && len(password) <= 72 // Return true if length is valid
}

// setSessionCookie stores the signed session token in an HttpOnly cookie
func setSessionCookie(c *gin.Context, token string, m *session.Manager, cfg CookieConfig) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, int(m.TTL().Seconds()), "/", "", cfg.Secure, true)
}

func clearSessionCookie(c *gin.Context, cfg CookieConfig) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", cfg.Secure, true)
}

// startSession opens a session for user, sets the cookie and answers with the user.
// A demo session is read-only regardless of the account's role.
func startSession(c *gin.Context, m *session.Manager, cfg CookieConfig, user *domain.User, demo bool, status int, body gin.H) {
	start := m.Start
	if demo {
		start = m.StartDemo
	}
	token, _, err := start(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}
	setSessionCookie(c, token, m, cfg)
	body["user"] = userResponse(user)
	c.JSON(status, body)
}

// CreateUserHandler registers a user with default settings and logs them in
func CreateUserHandler(users AuthUsers, m *session.Manager, cfg CookieConfig, rec LoginRecorder, rdb redis.Cmdable) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateUserRequest // Bind JSON request to struct
		if err := bindJSON(c, &req); err != nil {
			respondError(c, err)
			return
		}
		username := strings.TrimSpace(req.Username)
		// Validate username and password
		if !isValidUsername(username) {
			respondError(c, domain.Validation("Username must be 3-50 letters, digits or . _ @ -"))
			return
		}
		if !isValidPassword(req.Password) {
			respondError(c, domain.Validation("Password must be 8-72 characters"))
			return
		}
		if strings.EqualFold(username, store.DemoUsername) {
			rec.LoginAttempt("signup", false)
			respondError(c, domain.Conflict("Username is reserved"))
			return
		}
		user, err := users.Create(c.Request.Context(), username, req.Password, domain.RoleUser)
		if err != nil {
			rec.LoginAttempt("signup", false)
			respondError(c, err)
			return
		}
		rec.LoginAttempt("signup", true)
		middleware.Logger(c).WithField("user_id", user.ID).Info("User created")

		// Cached admin user pages are stale now
		if rdb != nil {
			if err := utils.DeletePattern(c.Request.Context(), rdb, usersCachePrefix+"*"); err != nil {
				middleware.Logger(c).WithError(err).Warn("Failed to invalidate user cache")
			}
		}
		startSession(c, m, cfg, user, false, http.StatusCreated, gin.H{"id": user.ID, "message": "User created successfully"})
	}
}

// LoginHandler checks credentials and starts a session
func LoginHandler(users AuthUsers, m *session.Manager, cfg CookieConfig, rec LoginRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := bindJSON(c, &req); err != nil {
			respondError(c, err)
			return
		}
		user, err := users.Authenticate(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			rec.LoginAttempt("password", false)
			if domain.IsCode(err, domain.CodeUnauthorized) {
				middleware.Logger(c).WithField("username", req.Username).Warn("Failed login")
			}
			respondError(c, err)
			return
		}
		rec.LoginAttempt("password", true)
		startSession(c, m, cfg, user, false, http.StatusOK, gin.H{"message": "Login successful"})
	}
}

// DemoLoginHandler starts a read-only session for the shared demo account
func DemoLoginHandler(users AuthUsers, m *session.Manager, cfg CookieConfig, rec LoginRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := users.FindOrCreateDemo(c.Request.Context())
		if err != nil {
			rec.LoginAttempt("demo", false)
			respondError(c, err)
			return
		}
		rec.LoginAttempt("demo", true)
		startSession(c, m, cfg, user, true, http.StatusOK, gin.H{"message": "Demo login successful"})
	}
}

// LogoutHandler ends the session named by the cookie, if any
func LogoutHandler(m *session.Manager, cfg CookieConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := c.Cookie(middleware.SessionCookie); err == nil {
			if err := m.End(c.Request.Context(), token); err != nil {
				respondError(c, err)
				return
			}
		}
		clearSessionCookie(c, cfg)
		c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
	}
}

// CheckAuthHandler reports whether the cookie names a live session
func CheckAuthHandler(m *session.Manager, cfg CookieConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(middleware.SessionCookie)
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"isLoggedIn": false})
			return
		}
		sess, err := m.Resolve(c.Request.Context(), token)
		if err != nil {
			if domain.CodeOf(err) == domain.CodeStore {
				respondError(c, err)
				return
			}
			clearSessionCookie(c, cfg) // Drop a dead cookie
			c.JSON(http.StatusOK, gin.H{"isLoggedIn": false})
			return
		}
		middleware.Logger(c).WithFields(logrus.Fields{"user_id": sess.UserID, "demo": sess.Demo}).Debug("Session checked")
		c.JSON(http.StatusOK, gin.H{
			"isLoggedIn": true,
			"user":       UserResponse{ID: sess.UserID, Username: sess.Username, Role: sess.Role},
			"demo":       sess.Demo,
		})
	}
}
