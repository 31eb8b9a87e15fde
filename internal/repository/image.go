package repository

import (
	"context"
	"errors"

	"roamly/internal/models"

	"gorm.io/gorm"
)

// ImageRepository defines persistence operations for adventure images.
type ImageRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Image, error)
	ListByAdventure(ctx context.Context, adventureID uint) ([]models.Image, error)
	Delete(ctx context.Context, id uint) error
}

type imageRepository struct {
	db *gorm.DB
}

// NewImageRepository returns a new ImageRepository implementation.
func NewImageRepository(db *gorm.DB) ImageRepository {
	return &imageRepository{db: db}
}

func (r *imageRepository) GetByID(ctx context.Context, id uint) (*models.Image, error) {
	var image models.Image
	if err := r.db.WithContext(ctx).First(&image, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Image", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &image, nil
}

func (r *imageRepository) ListByAdventure(ctx context.Context, adventureID uint) ([]models.Image, error) {
	var images []models.Image
	if err := r.db.WithContext(ctx).
		Where("adventure_id = ?", adventureID).
		Order("id ASC").
		Find(&images).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return images, nil
}

func (r *imageRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Image{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
