package server

import (
	"github.com/titouancv/mapinned/internal/models"
	"github.com/titouancv/mapinned/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPhotos returns every photo, newest first, with the owner embedded.
func (s *Server) GetPhotos(c *fiber.Ctx) error {
	photos, err := s.photoService.ListPhotos(c.UserContext())
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(photos)
}

// GetPhoto returns a single photo with its owner and comments.
func (s *Server) GetPhoto(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return nil
	}

	photo, err := s.photoService.GetPhoto(c.UserContext(), id)
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(photo)
}

// CreatePhoto registers an already-hosted image as a photo pin.
func (s *Server) CreatePhoto(c *fiber.Ctx) error {
	var req struct {
		URL         string   `json:"url"`
		Description string   `json:"description"`
		Latitude    *float64 `json:"latitude"`
		Longitude   *float64 `json:"longitude"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Latitude == nil || req.Longitude == nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("latitude and longitude are required"))
	}

	identity := s.identity(c)
	photo, err := s.photoService.CreatePhoto(c.UserContext(), service.CreatePhotoInput{
		UserID:      identity.UserID,
		URL:         req.URL,
		Description: req.Description,
		Latitude:    *req.Latitude,
		Longitude:   *req.Longitude,
	})
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(photo)
}

// UpdatePhotoDescription replaces the description of a photo the caller owns.
func (s *Server) UpdatePhotoDescription(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return nil
	}

	var req struct {
		Description *string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Description == nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("description is required"))
	}

	identity := s.identity(c)
	photo, err := s.photoService.UpdateDescription(c.UserContext(), service.UpdateDescriptionInput{
		UserID:      identity.UserID,
		PhotoID:     id,
		Description: *req.Description,
	})
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(photo)
}
