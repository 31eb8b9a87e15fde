// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User represents a registered Roamly account. The password column holds a
// bcrypt hash and is never serialized.
type User struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	Username   string      `gorm:"uniqueIndex;not null" json:"username"`
	Email      string      `gorm:"uniqueIndex;not null" json:"email"`
	Password   string      `gorm:"not null" json:"-"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
	Adventures []Adventure `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"adventures,omitempty"`
	Comments   []Comment   `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
	Likes      []Like      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
