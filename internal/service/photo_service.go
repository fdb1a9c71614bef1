// Package service contains the application's business logic.
package service

import (
	"context"
	"errors"
	"math"
	"net/url"

	"github.com/titouancv/mapinned/internal/models"
	"github.com/titouancv/mapinned/internal/repository"

	"gorm.io/gorm"
)

const maxDescriptionLen = 10000

type PhotoService struct {
	photoRepo repository.PhotoRepository
}

type CreatePhotoInput struct {
	UserID      string
	URL         string
	Description string
	Latitude    float64
	Longitude   float64
}

type UpdateDescriptionInput struct {
	UserID      string
	PhotoID     uint
	Description string
}

func NewPhotoService(photoRepo repository.PhotoRepository) *PhotoService {
	return &PhotoService{photoRepo: photoRepo}
}

// ListPhotos returns every photo with its owner, newest first. The map view
// renders all markers at once, so there is no pagination.
func (s *PhotoService) ListPhotos(ctx context.Context) ([]*models.Photo, error) {
	return s.photoRepo.List(ctx)
}

// GetPhoto returns one photo with its owner and comments (with authors),
// comments newest first.
func (s *PhotoService) GetPhoto(ctx context.Context, id uint) (*models.Photo, error) {
	photo, err := s.photoRepo.GetByIDWithComments(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Photo", id)
		}
		return nil, err
	}
	return photo, nil
}

// CreatePhoto inserts a new photo owned by the calling user. The URL is
// trusted as an opaque pointer to the external image host; only its shape is
// validated.
func (s *PhotoService) CreatePhoto(ctx context.Context, in CreatePhotoInput) (*models.Photo, error) {
	if err := validatePhotoURL(in.URL); err != nil {
		return nil, err
	}
	if err := validateCoordinates(in.Latitude, in.Longitude); err != nil {
		return nil, err
	}
	if len(in.Description) > maxDescriptionLen {
		return nil, models.NewValidationError("Description too long (max 10000 characters)")
	}

	photo := &models.Photo{
		URL:         in.URL,
		Description: in.Description,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		UserID:      in.UserID,
	}
	if err := s.photoRepo.Create(ctx, photo); err != nil {
		return nil, err
	}

	// Re-fetch so the response embeds the owner.
	return s.photoRepo.GetByID(ctx, photo.ID)
}

// UpdateDescription replaces the description of a photo. Only the owner may
// do so, and no other field is touched.
func (s *PhotoService) UpdateDescription(ctx context.Context, in UpdateDescriptionInput) (*models.Photo, error) {
	photo, err := s.photoRepo.GetByID(ctx, in.PhotoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Photo", in.PhotoID)
		}
		return nil, err
	}

	if photo.UserID != in.UserID {
		return nil, models.NewForbiddenError("You can only update your own photos")
	}
	if len(in.Description) > maxDescriptionLen {
		return nil, models.NewValidationError("Description too long (max 10000 characters)")
	}

	if err := s.photoRepo.UpdateDescription(ctx, in.PhotoID, in.Description); err != nil {
		return nil, err
	}

	return s.photoRepo.GetByID(ctx, in.PhotoID)
}

func validatePhotoURL(raw string) error {
	if raw == "" {
		return models.NewValidationError("url is required")
	}
	parsed, err := url.ParseRequestURI(raw)
	if err != nil {
		return models.NewValidationError("url must be a valid URL")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return models.NewValidationError("url must use http or https")
	}
	if parsed.Host == "" {
		return models.NewValidationError("url must be absolute")
	}
	return nil
}

func validateCoordinates(lat, lon float64) error {
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return models.NewValidationError("latitude and longitude must be numeric")
	}
	if lat < -90 || lat > 90 {
		return models.NewValidationError("latitude must be between -90 and 90")
	}
	if lon < -180 || lon > 180 {
		return models.NewValidationError("longitude must be between -180 and 180")
	}
	return nil
}
