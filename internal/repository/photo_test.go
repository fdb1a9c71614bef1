package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/titouancv/mapinned/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestPhotoRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPhotoRepository(db)
	ctx := context.Background()

	photo := &models.Photo{
		URL:       "https://img.example/p.jpg",
		Latitude:  48.8584,
		Longitude: 2.2945,
		UserID:    "user-1",
	}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "photos"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := repo.Create(ctx, photo)
	assert.NoError(t, err)
	assert.Equal(t, uint(1), photo.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPhotoRepository_List_NewestFirst(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPhotoRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "photos" ORDER BY created_at DESC`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "url", "user_id"}).
			AddRow(2, "https://img.example/b.jpg", "u1").
			AddRow(1, "https://img.example/a.jpg", "u2"))

	// Preload User for each photo
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" IN ($1,$2)`)).
		WithArgs("u1", "u2").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow("u1", "Alice").
			AddRow("u2", "Bob"))

	photos, err := repo.List(ctx)
	assert.NoError(t, err)
	require.Len(t, photos, 2)
	assert.Equal(t, uint(2), photos[0].ID)
	assert.Equal(t, "Alice", photos[0].User.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPhotoRepository_GetByID_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPhotoRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "photos" WHERE "photos"."id" = $1 ORDER BY "photos"."id" LIMIT $2`)).
		WithArgs(999, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPhotoRepository_GetByIDWithComments(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPhotoRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "photos" WHERE "photos"."id" = $1 ORDER BY "photos"."id" LIMIT $2`)).
		WithArgs(1, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "url", "user_id"}).
			AddRow(1, "https://img.example/a.jpg", "u1"))

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "comments" WHERE "comments"."photo_id" = $1 ORDER BY comments.created_at DESC`)).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "content", "photo_id", "user_id"}).
			AddRow(5, "newest", 1, "u2").
			AddRow(3, "older", 1, "u1"))

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" IN ($1,$2)`)).
		WithArgs("u2", "u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow("u1", "Alice").
			AddRow("u2", "Bob"))

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1`)).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow("u1", "Alice"))

	photo, err := repo.GetByIDWithComments(ctx, 1)
	assert.NoError(t, err)
	require.Len(t, photo.Comments, 2)
	assert.Equal(t, uint(5), photo.Comments[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPhotoRepository_UpdateDescription(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPhotoRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "photos" SET "description"=$1,"updated_at"=$2 WHERE id = $3`)).
		WithArgs("new text", sqlmock.AnyArg(), 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.UpdateDescription(ctx, 7, "new text")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
