package models

import "time"

// Session stores issued login tokens (for logout, refresh, invalidation).
// A session is valid only while the row exists and ExpiresAt is in the future;
// expired rows are removed lazily when a validation reads them.
type Session struct {
	ID        string    `gorm:"primaryKey;size:64"` // UUID
	UserID    uint      `gorm:"index;not null"`
	Token     string    `gorm:"uniqueIndex;size:512;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	CreatedAt time.Time

	User User `gorm:"constraint:OnDelete:CASCADE"`
}
