package store

import (
	"context"

	"backoffice/internal/domain"

	"gorm.io/gorm"
)

var settingsEntity = entity{name: "Settings", conflict: "Settings already exist for this user"}

var settingsColumns = []string{
	"phonetic_name", "email_for_notifications", "currency_symbol", "date_format",
	"dark_mode_enabled", "desktop_notifications_enabled", "sound_effects_enabled",
	"phone_number_for_notifications",
}

// SettingsRepository persists per-user settings
type SettingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a SettingsRepository
func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the settings row of a user
func (r *SettingsRepository) Get(ctx context.Context, userID uint) (*domain.UserSettings, error) {
	var s domain.UserSettings
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&s).Error; err != nil {
		return nil, translate(err, settingsEntity)
	}
	return &s, nil
}

// Update replaces every setting of a user
func (r *SettingsRepository) Update(ctx context.Context, userID uint, s *domain.UserSettings) error {
	res := r.db.WithContext(ctx).Model(&domain.UserSettings{}).Where("user_id = ?", userID).Select(settingsColumns).Updates(s)
	if res.Error != nil {
		return translate(res.Error, settingsEntity)
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("Settings not found for this user")
	}
	return nil
}
