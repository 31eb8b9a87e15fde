package models

import (
	"time"
)

// Like represents a user's like on an adventure.
// The combination of UserID and AdventureID must be unique.
type Like struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_likes_user_adventure" json:"user_id"`
	AdventureID uint      `gorm:"not null;uniqueIndex:idx_likes_user_adventure" json:"adventure_id"`
	CreatedAt   time.Time `json:"created_at"`
}
