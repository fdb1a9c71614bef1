// Package models contains data structures for the application's domain models.
package models

import "time"

// Photo represents a geotagged photo pinned on the map. The URL points at an
// externally hosted image and is treated as an opaque locator. Latitude and
// longitude are required at creation; the owner never changes and only the
// description is mutable afterwards.
type Photo struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	URL         string    `gorm:"not null" json:"url"`
	Description string    `gorm:"type:text" json:"description"`
	Latitude    float64   `gorm:"not null" json:"latitude"`
	Longitude   float64   `gorm:"not null" json:"longitude"`
	UserID      string    `gorm:"not null;index" json:"user_id"`
	User        User      `gorm:"foreignKey:UserID" json:"user"`
	Comments    []Comment `gorm:"foreignKey:PhotoID" json:"comments,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
