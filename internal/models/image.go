package models

import (
	"time"
)

// Image is a stored photo belonging to an adventure. URL points into object
// storage and is unique across the table. OwnerID is a denormalized copy of
// the adventure's owner at creation time, so image-level permission checks
// do not need a join.
type Image struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	URL         string    `gorm:"uniqueIndex;not null" json:"url"`
	Caption     string    `gorm:"not null" json:"caption"`
	AdventureID uint      `gorm:"not null" json:"adventure_id"`
	OwnerID     uint      `gorm:"not null" json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
}
