package domain

import "gorm.io/gorm"

// User is an account record. PasswordHash is a bcrypt hash; the plaintext
// password is never stored.
type User struct {
	gorm.Model
	Username     string `gorm:"size:50;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:100;not null"`
}
