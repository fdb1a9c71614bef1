// Package models contains data structures for the application's domain models.
package models

import "time"

// User represents an identity created and maintained by the external auth
// provider. Rows in the users table are written by the provider; this
// application only reads them.
type User struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"unique;not null" json:"email"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Photos    []Photo   `gorm:"foreignKey:UserID" json:"photos,omitempty"`
}
