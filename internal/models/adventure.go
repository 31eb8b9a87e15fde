package models

import (
	"time"
)

// Adventure is a user-authored trip post. A given user cannot post two
// adventures with the same title, enforced by the composite unique index.
type Adventure struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null;uniqueIndex:idx_adventures_owner_title" json:"title"`
	Description string    `gorm:"not null" json:"description"`
	OwnerID     uint      `gorm:"not null;uniqueIndex:idx_adventures_owner_title" json:"owner_id"`
	Owner       User      `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Images      []Image   `gorm:"foreignKey:AdventureID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
	Comments    []Comment `gorm:"foreignKey:AdventureID;constraint:OnDelete:CASCADE" json:"-"`
	Likes       []Like    `gorm:"foreignKey:AdventureID;constraint:OnDelete:CASCADE" json:"-"`
	// LikesCount is not persisted; computed at query time
	LikesCount int       `gorm:"-" json:"likes_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
