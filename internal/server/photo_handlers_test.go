package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/titouancv/mapinned/internal/models"
	"github.com/titouancv/mapinned/internal/repository"
	"github.com/titouancv/mapinned/internal/service"
	"github.com/titouancv/mapinned/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// photoRepoStub is a fn-field stub for repository.PhotoRepository.
type photoRepoStub struct {
	createFn              func(context.Context, *models.Photo) error
	getByIDFn             func(context.Context, uint) (*models.Photo, error)
	getByIDWithCommentsFn func(context.Context, uint) (*models.Photo, error)
	listFn                func(context.Context) ([]*models.Photo, error)
	updateDescriptionFn   func(context.Context, uint, string) error
}

var _ repository.PhotoRepository = (*photoRepoStub)(nil)

func (s *photoRepoStub) Create(ctx context.Context, photo *models.Photo) error {
	return s.createFn(ctx, photo)
}
func (s *photoRepoStub) GetByID(ctx context.Context, id uint) (*models.Photo, error) {
	return s.getByIDFn(ctx, id)
}
func (s *photoRepoStub) GetByIDWithComments(ctx context.Context, id uint) (*models.Photo, error) {
	return s.getByIDWithCommentsFn(ctx, id)
}
func (s *photoRepoStub) List(ctx context.Context) ([]*models.Photo, error) {
	return s.listFn(ctx)
}
func (s *photoRepoStub) UpdateDescription(ctx context.Context, id uint, description string) error {
	return s.updateDescriptionFn(ctx, id, description)
}

func defaultPhotoRepo() *photoRepoStub {
	return &photoRepoStub{
		createFn: func(_ context.Context, photo *models.Photo) error {
			photo.ID = 1
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Photo, error) {
			return &models.Photo{ID: id, UserID: "user-1", URL: "https://img.example/p.jpg"}, nil
		},
		getByIDWithCommentsFn: func(_ context.Context, id uint) (*models.Photo, error) {
			return &models.Photo{ID: id, UserID: "user-1", URL: "https://img.example/p.jpg"}, nil
		},
		listFn:              func(_ context.Context) ([]*models.Photo, error) { return nil, nil },
		updateDescriptionFn: func(_ context.Context, _ uint, _ string) error { return nil },
	}
}

// withIdentity attaches an authenticated identity the way AuthRequired does.
func withIdentity(userID string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("identity", &session.Identity{UserID: userID})
		c.Locals("userID", userID)
		return c.Next()
	}
}

func newPhotoTestApp(repo *photoRepoStub, userID string) *fiber.App {
	s := &Server{photoService: service.NewPhotoService(repo)}
	app := fiber.New()
	app.Get("/photos", s.GetPhotos)
	app.Get("/photos/:id", s.GetPhoto)
	app.Use(withIdentity(userID))
	app.Post("/photos", s.CreatePhoto)
	app.Patch("/photos/:id", s.UpdatePhotoDescription)
	return app
}

func TestGetPhotos(t *testing.T) {
	repo := defaultPhotoRepo()
	repo.listFn = func(_ context.Context) ([]*models.Photo, error) {
		return []*models.Photo{
			{ID: 2, URL: "https://img.example/b.jpg", UserID: "u2"},
			{ID: 1, URL: "https://img.example/a.jpg", UserID: "u1"},
		}, nil
	}
	app := newPhotoTestApp(repo, "user-1")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/photos", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var photos []models.Photo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&photos))
	require.Len(t, photos, 2)
	assert.Equal(t, uint(2), photos[0].ID)
}

func TestGetPhoto(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		app := newPhotoTestApp(defaultPhotoRepo(), "user-1")

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/photos/5", nil))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("not found", func(t *testing.T) {
		repo := defaultPhotoRepo()
		repo.getByIDWithCommentsFn = func(_ context.Context, _ uint) (*models.Photo, error) {
			return nil, gorm.ErrRecordNotFound
		}
		app := newPhotoTestApp(repo, "user-1")

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/photos/999", nil))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		var body models.ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, models.CodeNotFound, body.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		app := newPhotoTestApp(defaultPhotoRepo(), "user-1")

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/photos/abc", nil))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestCreatePhoto(t *testing.T) {
	tests := []struct {
		name           string
		body           map[string]any
		expectedStatus int
	}{
		{
			name: "success",
			body: map[string]any{
				"url":         "https://img.example/p.jpg",
				"description": "sunset",
				"latitude":    48.85,
				"longitude":   2.29,
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "missing latitude",
			body: map[string]any{
				"url":       "https://img.example/p.jpg",
				"longitude": 2.29,
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "missing url",
			body: map[string]any{
				"latitude":  48.85,
				"longitude": 2.29,
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "coordinates out of range",
			body: map[string]any{
				"url":       "https://img.example/p.jpg",
				"latitude":  123.0,
				"longitude": 2.29,
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "zero coordinates are valid",
			body: map[string]any{
				"url":       "https://img.example/p.jpg",
				"latitude":  0.0,
				"longitude": 0.0,
			},
			expectedStatus: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var created *models.Photo
			repo := defaultPhotoRepo()
			repo.createFn = func(_ context.Context, photo *models.Photo) error {
				photo.ID = 1
				created = photo
				return nil
			}
			app := newPhotoTestApp(repo, "user-1")

			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/photos", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedStatus == http.StatusCreated {
				require.NotNil(t, created)
				assert.Equal(t, "user-1", created.UserID, "owner comes from the session, not the body")
			} else {
				assert.Nil(t, created, "invalid input must not create a record")
			}
		})
	}
}

func TestCreatePhoto_OwnerCannotBeSpoofed(t *testing.T) {
	var created *models.Photo
	repo := defaultPhotoRepo()
	repo.createFn = func(_ context.Context, photo *models.Photo) error {
		photo.ID = 1
		created = photo
		return nil
	}
	app := newPhotoTestApp(repo, "real-user")

	body, _ := json.Marshal(map[string]any{
		"url":       "https://img.example/p.jpg",
		"latitude":  1.0,
		"longitude": 2.0,
		"user_id":   "someone-else",
	})
	req := httptest.NewRequest(http.MethodPost, "/photos", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "real-user", created.UserID)
}

func TestUpdatePhotoDescription(t *testing.T) {
	t.Run("owner updates", func(t *testing.T) {
		repo := defaultPhotoRepo()
		app := newPhotoTestApp(repo, "user-1")

		body, _ := json.Marshal(map[string]string{"description": "new"})
		req := httptest.NewRequest(http.MethodPatch, "/photos/1", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("non-owner forbidden", func(t *testing.T) {
		repo := defaultPhotoRepo()
		updated := false
		repo.updateDescriptionFn = func(_ context.Context, _ uint, _ string) error {
			updated = true
			return nil
		}
		app := newPhotoTestApp(repo, "intruder")

		body, _ := json.Marshal(map[string]string{"description": "hijack"})
		req := httptest.NewRequest(http.MethodPatch, "/photos/1", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.False(t, updated)
	})

	t.Run("missing description field", func(t *testing.T) {
		app := newPhotoTestApp(defaultPhotoRepo(), "user-1")

		req := httptest.NewRequest(http.MethodPatch, "/photos/1", bytes.NewReader([]byte(`{}`)))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
