package domain

import "time"

// Session is the server-side record behind a session cookie
type Session struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"` // uuid, also the token's jti
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Username  string    `gorm:"not null" json:"username"`
	Role      string    `gorm:"not null" json:"role"`
	Demo      bool      `gorm:"not null" json:"demo"` // Demo sessions are read-only
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
}

// Expired reports whether the session is past its expiry at t
func (s Session) Expired(t time.Time) bool {
	return !t.Before(s.ExpiresAt)
}
