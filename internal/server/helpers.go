package server

import (
	"strconv"

	"github.com/titouancv/mapinned/internal/models"

	"github.com/gofiber/fiber/v2"
)

// parseID parses the ":id" route parameter as an unsigned integer. On failure
// it writes the 400 response itself and returns ok=false.
func parseID(c *fiber.Ctx) (uint, bool) {
	raw := c.Params("id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid ID"))
		return 0, false
	}
	return uint(id), true
}

// respond maps a service error onto its HTTP status and writes it.
func respond(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, models.StatusFor(err), err)
}
