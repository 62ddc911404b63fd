package models

import (
	"gorm.io/gorm"
)

// User represents a registered account. Ladder standing lives on
// PlayerProfile, one per sport the user has joined.
type User struct {
	gorm.Model
	Username     string `gorm:"unique;not null" json:"username"`
	Email        string `gorm:"unique;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
}
