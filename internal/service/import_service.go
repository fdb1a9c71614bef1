package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/titouancv/mapinned/internal/exifgps"
	"github.com/titouancv/mapinned/internal/imagehost"
	"github.com/titouancv/mapinned/internal/middleware"
	"github.com/titouancv/mapinned/internal/observability"

	"github.com/google/uuid"
)

// Import pipeline outcomes per file.
const (
	ImportOutcomeCreated      = "created"
	ImportOutcomeSkippedNoGPS = "skipped_no_gps"
	ImportOutcomeFailed       = "failed"
)

// ImportFile is one user-selected file entering the batch pipeline.
type ImportFile struct {
	Name    string
	Content []byte
}

// ImportItem is the recorded outcome for one file.
type ImportItem struct {
	Name    string `json:"name"`
	Outcome string `json:"outcome"`
	PhotoID uint   `json:"photo_id,omitempty"`
	URL     string `json:"url,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ImportResult aggregates the outcomes of one batch.
type ImportResult struct {
	Succeeded int          `json:"succeeded"`
	Skipped   int          `json:"skipped"`
	Failed    int          `json:"failed"`
	Items     []ImportItem `json:"items"`
}

// ImportService runs the batch upload pipeline: for each file, extract GPS
// metadata, upload the bytes to the external image host, then create the
// photo record. Files are processed strictly sequentially to bound memory,
// keep per-item progress deterministic and avoid hammering the host.
type ImportService struct {
	photos    *PhotoService
	extractor exifgps.Extractor
	host      imagehost.Uploader
}

func NewImportService(photos *PhotoService, extractor exifgps.Extractor, host imagehost.Uploader) *ImportService {
	return &ImportService{
		photos:    photos,
		extractor: extractor,
		host:      host,
	}
}

// ImportBatch processes the files one by one. Failures are independent: a
// failed or skipped file never aborts the batch, and photo records created
// for earlier files are never rolled back. Nothing is retried.
func (s *ImportService) ImportBatch(ctx context.Context, ownerID string, files []ImportFile) *ImportResult {
	result := &ImportResult{Items: make([]ImportItem, 0, len(files))}

	for i, file := range files {
		item := s.importOne(ctx, ownerID, i, file)

		switch item.Outcome {
		case ImportOutcomeCreated:
			result.Succeeded++
		case ImportOutcomeSkippedNoGPS:
			result.Skipped++
		default:
			result.Failed++
		}
		observability.ImportFilesTotal.WithLabelValues(item.Outcome).Inc()
		result.Items = append(result.Items, item)
	}

	middleware.Logger.InfoContext(ctx, "import batch finished",
		slog.Int("files", len(files)),
		slog.Int("succeeded", result.Succeeded),
		slog.Int("skipped", result.Skipped),
		slog.Int("failed", result.Failed),
	)

	return result
}

func (s *ImportService) importOne(ctx context.Context, ownerID string, index int, file ImportFile) ImportItem {
	name := file.Name
	if name == "" {
		name = fmt.Sprintf("import-%s.jpg", uuid.NewString())
	}
	item := ImportItem{Name: name}

	if len(file.Content) == 0 {
		item.Outcome = ImportOutcomeFailed
		item.Error = "empty file"
		return item
	}

	coords, ok := s.extractor.Extract(file.Content)
	if !ok {
		item.Outcome = ImportOutcomeSkippedNoGPS
		return item
	}

	hostedURL, err := s.host.Upload(ctx, name, file.Content)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "import upload failed",
			slog.Int("index", index),
			slog.String("file", name),
			slog.String("error", err.Error()),
		)
		item.Outcome = ImportOutcomeFailed
		item.Error = err.Error()
		return item
	}

	photo, err := s.photos.CreatePhoto(ctx, CreatePhotoInput{
		UserID:      ownerID,
		URL:         hostedURL,
		Description: "Imported photo",
		Latitude:    coords.Latitude,
		Longitude:   coords.Longitude,
	})
	if err != nil {
		// The hosted image stays up; there is no rollback of step (c).
		middleware.Logger.WarnContext(ctx, "import record creation failed",
			slog.Int("index", index),
			slog.String("file", name),
			slog.String("error", err.Error()),
		)
		item.Outcome = ImportOutcomeFailed
		item.Error = err.Error()
		return item
	}

	item.Outcome = ImportOutcomeCreated
	item.PhotoID = photo.ID
	item.URL = hostedURL
	return item
}
