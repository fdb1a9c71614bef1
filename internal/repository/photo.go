// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"

	"github.com/titouancv/mapinned/internal/models"

	"gorm.io/gorm"
)

// PhotoRepository defines the interface for photo data operations
type PhotoRepository interface {
	Create(ctx context.Context, photo *models.Photo) error
	GetByID(ctx context.Context, id uint) (*models.Photo, error)
	GetByIDWithComments(ctx context.Context, id uint) (*models.Photo, error)
	List(ctx context.Context) ([]*models.Photo, error)
	UpdateDescription(ctx context.Context, id uint, description string) error
}

// photoRepository implements PhotoRepository
type photoRepository struct {
	db *gorm.DB
}

// NewPhotoRepository creates a new photo repository
func NewPhotoRepository(db *gorm.DB) PhotoRepository {
	return &photoRepository{db: db}
}

func (r *photoRepository) Create(ctx context.Context, photo *models.Photo) error {
	return r.db.WithContext(ctx).Create(photo).Error
}

func (r *photoRepository) GetByID(ctx context.Context, id uint) (*models.Photo, error) {
	var photo models.Photo
	if err := r.db.WithContext(ctx).Preload("User").First(&photo, id).Error; err != nil {
		return nil, err
	}
	return &photo, nil
}

func (r *photoRepository) GetByIDWithComments(ctx context.Context, id uint) (*models.Photo, error) {
	var photo models.Photo
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at DESC")
		}).
		Preload("Comments.User").
		First(&photo, id).Error
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

func (r *photoRepository) List(ctx context.Context) ([]*models.Photo, error) {
	var photos []*models.Photo
	err := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Find(&photos).Error
	return photos, err
}

// UpdateDescription replaces the description column only; every other field
// is immutable through this path.
func (r *photoRepository) UpdateDescription(ctx context.Context, id uint, description string) error {
	return r.db.WithContext(ctx).
		Model(&models.Photo{}).
		Where("id = ?", id).
		Update("description", description).Error
}
