package api

import (
	"context"
	"net/http"
	"strings"

	"backoffice/internal/domain"
	"backoffice/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// SettingsStore reads and replaces per-user settings
type SettingsStore interface {
	Get(ctx context.Context, userID uint) (*domain.UserSettings, error)
	Update(ctx context.Context, userID uint, s *domain.UserSettings) error
}

// settingsRequest needs every field, so each one is a pointer checked for presence
type settingsRequest struct {
	PhoneticName                *string `json:"phonetic_name" binding:"required"`
	EmailForNotifications       *string `json:"email_for_notifications" binding:"required"`
	CurrencySymbol              *string `json:"currency_symbol" binding:"required"`
	DateFormat                  *string `json:"date_format" binding:"required"`
	DarkModeEnabled             *bool   `json:"dark_mode_enabled" binding:"required"`
	DesktopNotificationsEnabled *bool   `json:"desktop_notifications_enabled" binding:"required"`
	SoundEffectsEnabled         *bool   `json:"sound_effects_enabled" binding:"required"`
	PhoneNumberForNotifications *string `json:"phone_number_for_notifications" binding:"required"`
}

func (r settingsRequest) toModel() (*domain.UserSettings, error) {
	email := strings.TrimSpace(*r.EmailForNotifications)
	if email != "" && !isEmail(email) {
		return nil, domain.Validation("email_for_notifications must be a valid email address")
	}
	return &domain.UserSettings{
		PhoneticName:                *r.PhoneticName,
		EmailForNotifications:       email,
		CurrencySymbol:              *r.CurrencySymbol,
		DateFormat:                  *r.DateFormat,
		DarkModeEnabled:             *r.DarkModeEnabled,
		DesktopNotificationsEnabled: *r.DesktopNotificationsEnabled,
		SoundEffectsEnabled:         *r.SoundEffectsEnabled,
		PhoneNumberForNotifications: *r.PhoneNumberForNotifications,
	}, nil
}

// isEmail validates an optional address with the same rule as the email binding tag
func isEmail(s string) bool {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return strings.Contains(s, "@")
	}
	return v.Var(s, "email") == nil
}

// targetUser reads :userId and allows it only for that user or an admin
func targetUser(c *gin.Context) (uint, error) {
	id, err := parseID(c, "userId")
	if err != nil {
		return 0, err
	}
	sess := middleware.CurrentSession(c)
	if sess == nil {
		return 0, domain.Unauthorized("Unauthorized")
	}
	if sess.UserID != id && sess.Role != domain.RoleAdmin {
		return 0, domain.Forbidden("You can only manage your own settings")
	}
	return id, nil
}

// GetSettingsHandler returns the settings of :userId
func GetSettingsHandler(settings SettingsStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := targetUser(c)
		if err != nil {
			respondError(c, err)
			return
		}
		s, err := settings.Get(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, s)
	}
}

// UpdateSettingsHandler replaces every setting of :userId
func UpdateSettingsHandler(settings SettingsStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := targetUser(c)
		if err != nil {
			respondError(c, err)
			return
		}
		var req settingsRequest
		if err := bindJSON(c, &req); err != nil {
			respondError(c, err)
			return
		}
		s, err := req.toModel()
		if err != nil {
			respondError(c, err)
			return
		}
		if err := settings.Update(c.Request.Context(), userID, s); err != nil {
			respondError(c, err)
			return
		}
		middleware.Logger(c).WithField("user_id", userID).Info("Settings updated")
		c.JSON(http.StatusOK, gin.H{"message": "Settings updated successfully"})
	}
}
