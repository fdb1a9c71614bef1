package server

import (
	"io"
	"mime/multipart"

	"github.com/titouancv/mapinned/internal/models"
	"github.com/titouancv/mapinned/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Importing reads every file into memory before the batch runs, so the batch
// size stays bounded well below the Fiber body limit.
const maxImportFiles = 20

// ImportPhotos accepts a multipart batch of image files, extracts GPS
// coordinates from each, uploads those with coordinates to the image host and
// creates a photo pin per upload. The response always carries the per-file
// breakdown; a batch where every file failed is still a 200.
func (s *Server) ImportPhotos(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Expected a multipart form with image files"))
	}

	headers := form.File["images"]
	if len(headers) == 0 {
		headers = form.File["image"]
	}
	if len(headers) == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("No files provided under 'images'"))
	}
	if len(headers) > maxImportFiles {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Too many files (max 20 per batch)"))
	}

	files := make([]service.ImportFile, 0, len(headers))
	for _, header := range headers {
		content, err := readUpload(header)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Could not read uploaded file "+header.Filename))
		}
		files = append(files, service.ImportFile{Name: header.Filename, Content: content})
	}

	identity := s.identity(c)
	result := s.importService.ImportBatch(c.UserContext(), identity.UserID, files)
	return c.Status(fiber.StatusOK).JSON(result)
}

func readUpload(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
