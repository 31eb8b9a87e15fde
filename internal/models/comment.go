// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Comment represents a comment on an adventure.
type Comment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Content     string    `gorm:"not null" json:"content"`
	OwnerID     uint      `gorm:"not null" json:"owner_id"`
	AdventureID uint      `gorm:"not null" json:"adventure_id"`
	Owner       User      `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
