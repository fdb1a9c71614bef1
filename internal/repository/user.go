// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"

	"github.com/titouancv/mapinned/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations. Users are
// written by the external auth provider; this repository only reads them.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
