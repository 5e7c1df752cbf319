// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// User represents a registered account.
type User struct {
	// ID is the unique identifier for the user.
	ID uint `gorm:"primaryKey"`

	// Username is the public display name. It must be unique across all users.
	Username string `gorm:"uniqueIndex;size:50;not null"`

	// Email is used for login. It must be unique across all users and is stored lowercased.
	Email string `gorm:"uniqueIndex;size:100;not null"`

	// PasswordHash is the bcrypt hash of the password. The plaintext is never stored.
	PasswordHash string `gorm:"size:255;not null"`

	// CreatedAt is the timestamp when the user registered.
	CreatedAt time.Time
}

// TableName returns the table name for GORM.
func (User) TableName() string {
	return "users"
}
