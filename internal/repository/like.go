package repository

import (
	"context"

	"roamly/internal/models"

	"gorm.io/gorm"
)

// LikeRepository defines persistence operations for adventure likes.
type LikeRepository interface {
	// Like records a like; liking twice is a conflict.
	Like(ctx context.Context, userID, adventureID uint) error
	// Unlike removes a like; removing an absent like is a no-op.
	Unlike(ctx context.Context, userID, adventureID uint) error
}

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository returns a new LikeRepository implementation.
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) Like(ctx context.Context, userID, adventureID uint) error {
	like := models.Like{UserID: userID, AdventureID: adventureID}
	if err := r.db.WithContext(ctx).Create(&like).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("You already liked this adventure")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *likeRepository) Unlike(ctx context.Context, userID, adventureID uint) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND adventure_id = ?", userID, adventureID).
		Delete(&models.Like{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

