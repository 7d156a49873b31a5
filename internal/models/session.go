package models

import "time"

// Session is a server-side sign-in session. The token handed to clients only
// references it, so deleting the row revokes the token.
type Session struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID      uint      `json:"user_id" gorm:"index;not null"`
	ExpiresAt   time.Time `json:"expires_at" gorm:"index;not null"`
	RefreshedAt time.Time `json:"refreshed_at" gorm:"not null"`
	IPAddress   string    `json:"ip_address" gorm:"type:varchar(64)"`
	UserAgent   string    `json:"user_agent" gorm:"type:varchar(512)"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Expired reports whether the session is no longer valid at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
