package server

import (
	"errors"
	"strings"

	"github.com/titouancv/mapinned/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/proxy"
	"gorm.io/gorm"
)

// GetMe returns the authenticated user. The local row is preferred because it
// carries relations; when the auth provider has not mirrored the user into
// our database yet, the session identity itself is good enough.
func (s *Server) GetMe(c *fiber.Ctx) error {
	identity := s.identity(c)

	user, err := s.userRepo.GetByID(c.UserContext(), identity.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusOK).JSON(models.User{
				ID:    identity.UserID,
				Name:  identity.Name,
				Email: identity.Email,
				Image: identity.Image,
			})
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	return c.Status(fiber.StatusOK).JSON(user)
}

// ProxyAuth forwards /api/auth/* verbatim to the external auth provider,
// which owns signup, login, logout and session issuance. Cookies pass
// through in both directions.
func (s *Server) ProxyAuth(c *fiber.Ctx) error {
	target := strings.TrimSuffix(s.config.AuthBaseURL, "/") + c.OriginalURL()
	if err := proxy.Do(c, target); err != nil {
		return models.RespondWithError(c, fiber.StatusBadGateway,
			models.NewInternalError(err))
	}
	// The provider response becomes ours as-is.
	c.Response().Header.Del(fiber.HeaderServer)
	return nil
}
