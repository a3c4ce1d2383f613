package domain

// Roles known to the auth gate
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
	RoleDemo  = "demo"
)

// User Model
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`                   // Primary key
	Username     string `gorm:"unique;not null" json:"username"`        // Unique username
	PasswordHash string `gorm:"column:password_hash;not null" json:"-"` // bcrypt hash, never serialized
	Role         string `gorm:"not null;default:user" json:"role"`      // Role: user, admin or demo
}

// UserSettings Model, one row per user
type UserSettings struct {
	UserID                      uint   `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	User                        *User  `gorm:"constraint:OnDelete:CASCADE;" json:"-"` // Removed together with its user
	PhoneticName                string `json:"phonetic_name"`
	EmailForNotifications       string `json:"email_for_notifications"`
	CurrencySymbol              string `json:"currency_symbol"`
	DateFormat                  string `json:"date_format"`
	DarkModeEnabled             bool   `json:"dark_mode_enabled"`
	DesktopNotificationsEnabled bool   `json:"desktop_notifications_enabled"`
	SoundEffectsEnabled         bool   `json:"sound_effects_enabled"`
	PhoneNumberForNotifications string `json:"phone_number_for_notifications"`
}

// TableName pins the settings table name
func (UserSettings) TableName() string { return "user_settings" }

// DefaultSettings returns the settings row created alongside a new user
func DefaultSettings(userID uint, displayName string) UserSettings {
	return UserSettings{
		UserID:              userID,
		PhoneticName:        displayName,
		CurrencySymbol:      "R",
		DateFormat:          "YYYY-MM-DD",
		SoundEffectsEnabled: true,
	}
}
