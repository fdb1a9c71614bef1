package server

import (
	"github.com/titouancv/mapinned/internal/models"
	"github.com/titouancv/mapinned/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateComment posts a comment on a photo.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	var req struct {
		PhotoID uint   `json:"photoId"`
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.PhotoID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("photoId is required"))
	}

	identity := s.identity(c)
	comment, err := s.commentService.CreateComment(c.UserContext(), service.CreateCommentInput{
		UserID:  identity.UserID,
		PhotoID: req.PhotoID,
		Content: req.Content,
	})
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetComments returns the comments of a photo, newest first.
func (s *Server) GetComments(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return nil
	}

	comments, err := s.commentService.ListComments(c.UserContext(), id)
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(comments)
}
