// Package service provides application business logic (adventures, chat, users).
package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"roamly/internal/middleware"
	"roamly/internal/models"
	"roamly/internal/repository"
	"roamly/internal/storage"
	"roamly/internal/validation"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxImagesPerAdventure = validation.MaxImagesPerPost

// ImageUpload is one image file plus its caption, streamed from a multipart
// request.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
	Caption     string
}

// CreateAdventureInput is the input for creating an adventure.
type CreateAdventureInput struct {
	OwnerID     uint
	Title       string
	Description string
	Images      []ImageUpload
}

// UpdateAdventureInput is the input for updating an adventure. Nil fields are
// left unchanged.
type UpdateAdventureInput struct {
	UserID      uint
	AdventureID uint
	Title       *string
	Description *string
}

// AdventureService provides adventure business logic, coordinating the
// database and object storage.
type AdventureService struct {
	adventureRepo repository.AdventureRepository
	imageRepo     repository.ImageRepository
	store         storage.ObjectStore
	db            *gorm.DB
}

// NewAdventureService returns a new AdventureService.
func NewAdventureService(
	adventureRepo repository.AdventureRepository,
	imageRepo repository.ImageRepository,
	store storage.ObjectStore,
	db *gorm.DB,
) *AdventureService {
	return &AdventureService{
		adventureRepo: adventureRepo,
		imageRepo:     imageRepo,
		store:         store,
		db:            db,
	}
}

// Create validates input, then creates the adventure row, uploads images and
// inserts image rows inside one transaction. If any upload fails the
// transaction rolls back and already-uploaded objects are deleted best-effort.
func (s *AdventureService) Create(ctx context.Context, in CreateAdventureInput) (*models.Adventure, error) {
	if err := validation.ValidateAdventureTitle(in.Title); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Description) == "" {
		return nil, models.NewValidationError("description must not be empty")
	}
	if len(in.Images) > maxImagesPerAdventure {
		return nil, models.NewValidationError(
			fmt.Sprintf("an adventure can have at most %d images", maxImagesPerAdventure))
	}
	for _, img := range in.Images {
		if strings.TrimSpace(img.Caption) == "" {
			return nil, models.NewValidationError("every image needs a caption")
		}
	}

	exists, err := s.adventureRepo.ExistsByTitleOwner(ctx, in.Title, in.OwnerID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, models.NewConflictError("You already have an adventure with that title")
	}

	adventure := &models.Adventure{
		Title:       in.Title,
		Description: in.Description,
		OwnerID:     in.OwnerID,
	}

	var uploadedKeys []string
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(adventure).Error; err != nil {
			if isUniqueViolation(err) {
				return models.NewConflictError("You already have an adventure with that title")
			}
			return models.NewInternalError(err)
		}

		for _, img := range in.Images {
			key := objectKey(adventure.ID, img.Filename)
			url, err := s.store.Put(ctx, key, img.Reader, img.Size, img.ContentType)
			if err != nil {
				return models.NewUpstreamError("object storage", err)
			}
			uploadedKeys = append(uploadedKeys, key)

			image := models.Image{
				URL:         url,
				Caption:     img.Caption,
				AdventureID: adventure.ID,
				OwnerID:     in.OwnerID,
			}
			if err := tx.Create(&image).Error; err != nil {
				return models.NewInternalError(err)
			}
			adventure.Images = append(adventure.Images, image)
		}
		return nil
	})

	if txErr != nil {
		// Staged objects are orphans once the transaction rolls back.
		for _, key := range uploadedKeys {
			if err := s.store.Delete(ctx, key); err != nil {
				middleware.Logger.WarnContext(ctx, "failed to clean up staged object after rollback",
					slog.String("key", key),
					slog.String("error", err.Error()),
				)
			}
		}
		return nil, txErr
	}

	return adventure, nil
}

func objectKey(adventureID uint, filename string) string {
	// Flatten path separators so client filenames cannot nest keys.
	safe := strings.ReplaceAll(filename, "/", "_")
	safe = strings.ReplaceAll(safe, "\\", "_")
	return fmt.Sprintf("adventures/%d/%s_%s", adventureID, uuid.NewString(), safe)
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}

// AddImages appends images to an existing adventure after an ownership check,
// enforcing the per-adventure image limit. Returns the full image list.
func (s *AdventureService) AddImages(ctx context.Context, userID, adventureID uint, images []ImageUpload) ([]models.Image, error) {
	adventure, err := s.adventureRepo.GetByID(ctx, adventureID)
	if err != nil {
		return nil, err
	}
	if adventure.OwnerID != userID {
		return nil, models.NewForbiddenError("You can only add images to your own adventures")
	}
	if len(images) == 0 {
		return nil, models.NewValidationError("at least one image is required")
	}

	existing, err := s.imageRepo.ListByAdventure(ctx, adventureID)
	if err != nil {
		return nil, err
	}
	if len(existing)+len(images) > maxImagesPerAdventure {
		return nil, models.NewValidationError(
			fmt.Sprintf("an adventure can have at most %d images", maxImagesPerAdventure))
	}
	for _, img := range images {
		if strings.TrimSpace(img.Caption) == "" {
			return nil, models.NewValidationError("every image needs a caption")
		}
	}

	var uploadedKeys []string
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, img := range images {
			key := objectKey(adventureID, img.Filename)
			url, err := s.store.Put(ctx, key, img.Reader, img.Size, img.ContentType)
			if err != nil {
				return models.NewUpstreamError("object storage", err)
			}
			uploadedKeys = append(uploadedKeys, key)

			image := models.Image{
				URL:         url,
				Caption:     img.Caption,
				AdventureID: adventureID,
				OwnerID:     userID,
			}
			if err := tx.Create(&image).Error; err != nil {
				return models.NewInternalError(err)
			}
		}
		return nil
	})
	if txErr != nil {
		for _, key := range uploadedKeys {
			if err := s.store.Delete(ctx, key); err != nil {
				middleware.Logger.WarnContext(ctx, "failed to clean up staged object after rollback",
					slog.String("key", key),
					slog.String("error", err.Error()),
				)
			}
		}
		return nil, txErr
	}

	return s.imageRepo.ListByAdventure(ctx, adventureID)
}

// UpdateImageCaption changes an image caption after an ownership check.
func (s *AdventureService) UpdateImageCaption(ctx context.Context, userID, imageID uint, caption string) (*models.Image, error) {
	if strings.TrimSpace(caption) == "" {
		return nil, models.NewValidationError("caption must not be empty")
	}

	image, err := s.imageRepo.GetByID(ctx, imageID)
	if err != nil {
		return nil, err
	}
	if image.OwnerID != userID {
		return nil, models.NewForbiddenError("You can only edit your own images")
	}

	image.Caption = caption
	if err := s.db.WithContext(ctx).Save(image).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return image, nil
}

// Update applies partial changes after an ownership check. Changing the title
// to one the owner already uses is a conflict.
func (s *AdventureService) Update(ctx context.Context, in UpdateAdventureInput) (*models.Adventure, error) {
	adventure, err := s.adventureRepo.GetByID(ctx, in.AdventureID)
	if err != nil {
		return nil, err
	}
	if adventure.OwnerID != in.UserID {
		return nil, models.NewForbiddenError("You can only edit your own adventures")
	}

	if in.Title != nil && *in.Title != adventure.Title {
		if err := validation.ValidateAdventureTitle(*in.Title); err != nil {
			return nil, err
		}
		exists, err := s.adventureRepo.ExistsByTitleOwner(ctx, *in.Title, in.UserID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, models.NewConflictError("You already have an adventure with that title")
		}
		adventure.Title = *in.Title
	}
	if in.Description != nil {
		if strings.TrimSpace(*in.Description) == "" {
			return nil, models.NewValidationError("description must not be empty")
		}
		adventure.Description = *in.Description
	}

	if err := s.adventureRepo.Update(ctx, adventure); err != nil {
		return nil, err
	}
	return adventure, nil
}

// Delete removes an adventure, its dependent rows and its stored objects.
// Object deletions are best-effort: a storage failure does not resurrect the
// database rows.
func (s *AdventureService) Delete(ctx context.Context, userID, adventureID uint) error {
	adventure, err := s.adventureRepo.GetByID(ctx, adventureID)
	if err != nil {
		return err
	}
	if adventure.OwnerID != userID {
		return models.NewForbiddenError("You can only delete your own adventures")
	}

	images, err := s.imageRepo.ListByAdventure(ctx, adventureID)
	if err != nil {
		return err
	}

	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Explicit dependent-row deletes; FK ON DELETE CASCADE is the backstop.
		if err := tx.Where("adventure_id = ?", adventureID).Delete(&models.Image{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.Where("adventure_id = ?", adventureID).Delete(&models.Comment{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.Where("adventure_id = ?", adventureID).Delete(&models.Like{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.Delete(&models.Adventure{}, adventureID).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if txErr != nil {
		return txErr
	}

	for _, img := range images {
		key := s.store.KeyFromURL(img.URL)
		if key == "" {
			continue
		}
		if err := s.store.Delete(ctx, key); err != nil {
			middleware.Logger.WarnContext(ctx, "failed to delete adventure object",
				slog.Uint64("adventure_id", uint64(adventureID)),
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
	}
	return nil
}

// DeleteImage removes a single image row and its stored object.
func (s *AdventureService) DeleteImage(ctx context.Context, userID, imageID uint) error {
	image, err := s.imageRepo.GetByID(ctx, imageID)
	if err != nil {
		return err
	}
	if image.OwnerID != userID {
		return models.NewForbiddenError("You can only delete your own images")
	}

	if err := s.imageRepo.Delete(ctx, imageID); err != nil {
		return err
	}

	if key := s.store.KeyFromURL(image.URL); key != "" {
		if err := s.store.Delete(ctx, key); err != nil {
			middleware.Logger.WarnContext(ctx, "failed to delete image object",
				slog.Uint64("image_id", uint64(imageID)),
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
	}
	return nil
}
