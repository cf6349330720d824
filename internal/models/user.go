package models

import "time"

// User represents a registered user of the tool sharing platform.
// Email is stored lowercased so the unique index is case-insensitive.
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"size:64;not null"`
	Email        string `gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:255;not null" json:"-"` // 密码哈希，永远不对外返回
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
