package repository

import (
	"context"
	"errors"

	"roamly/internal/cache"
	"roamly/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AdventureRepository defines persistence operations for adventures.
type AdventureRepository interface {
	Create(ctx context.Context, adventure *models.Adventure) error
	GetByID(ctx context.Context, id uint) (*models.Adventure, error)
	List(ctx context.Context, limit, offset int) ([]models.Adventure, error)
	ListByOwner(ctx context.Context, ownerID uint, limit, offset int) ([]models.Adventure, error)
	Search(ctx context.Context, query string, limit int) ([]models.Adventure, error)
	Update(ctx context.Context, adventure *models.Adventure) error
	Delete(ctx context.Context, id uint) error
	ExistsByTitleOwner(ctx context.Context, title string, ownerID uint) (bool, error)
	CountLikes(ctx context.Context, adventureID uint) (int64, error)
}

type adventureRepository struct {
	db *gorm.DB
}

// NewAdventureRepository returns a new AdventureRepository implementation.
func NewAdventureRepository(db *gorm.DB) AdventureRepository {
	return &adventureRepository{db: db}
}

func (r *adventureRepository) Create(ctx context.Context, adventure *models.Adventure) error {
	if err := r.db.WithContext(ctx).Create(adventure).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("You already have an adventure with that title")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *adventureRepository) GetByID(ctx context.Context, id uint) (*models.Adventure, error) {
	var adventure models.Adventure
	if err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Images").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Comments.Owner").
		First(&adventure, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Adventure", id)
		}
		return nil, models.NewInternalError(err)
	}

	likes, err := r.CountLikes(ctx, id)
	if err != nil {
		return nil, err
	}
	adventure.LikesCount = int(likes)
	return &adventure, nil
}

func (r *adventureRepository) List(ctx context.Context, limit, offset int) ([]models.Adventure, error) {
	var adventures []models.Adventure
	if err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Images").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&adventures).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return adventures, nil
}

func (r *adventureRepository) ListByOwner(ctx context.Context, ownerID uint, limit, offset int) ([]models.Adventure, error) {
	var adventures []models.Adventure
	if err := r.db.WithContext(ctx).
		Preload("Images").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&adventures).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return adventures, nil
}

// Search performs trigram fuzzy matching against titles and descriptions.
// Requires the pg_trgm extension; best matches first.
func (r *adventureRepository) Search(ctx context.Context, query string, limit int) ([]models.Adventure, error) {
	var adventures []models.Adventure
	if err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Images").
		Where("similarity(title, ?) > 0.2 OR similarity(description, ?) > 0.2", query, query).
		Clauses(clause.OrderBy{
			Expression: clause.Expr{
				SQL:  "GREATEST(similarity(title, ?), similarity(description, ?)) DESC",
				Vars: []interface{}{query, query},
			},
		}).
		Limit(limit).
		Find(&adventures).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return adventures, nil
}

func (r *adventureRepository) Update(ctx context.Context, adventure *models.Adventure) error {
	if err := r.db.WithContext(ctx).Save(adventure).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("You already have an adventure with that title")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateAdventure(ctx, adventure.ID)
	return nil
}

func (r *adventureRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Adventure{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateAdventure(ctx, id)
	return nil
}

func (r *adventureRepository) ExistsByTitleOwner(ctx context.Context, title string, ownerID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Adventure{}).
		Where("title = ? AND owner_id = ?", title, ownerID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *adventureRepository) CountLikes(ctx context.Context, adventureID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("adventure_id = ?", adventureID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
