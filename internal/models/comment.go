// Package models contains data structures for the application's domain models.
package models

import "time"

// Comment represents a comment left on a photo. Comments are immutable after
// creation and are listed newest first.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	PhotoID   uint      `gorm:"not null;index" json:"photo_id"`
	UserID    string    `gorm:"not null" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
