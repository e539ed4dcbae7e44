package domain

import (
	"time"

	"gorm.io/gorm"
)

// Task belongs to exactly one user. UserID is set at creation and never
// reassigned.
type Task struct {
	gorm.Model
	Title       string `gorm:"size:100;not null"`
	Description string `gorm:"type:text"`
	DueDate     *time.Time
	Completed   bool `gorm:"not null;default:false"`
	UserID      uint `gorm:"not null;index"`
}
