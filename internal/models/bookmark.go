package models

import "time"

// Bookmark represents a user's saved reference to a hobby catalog entry.
// At most one row exists per (user, hobby) pair.
type Bookmark struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_user_hobby_bookmark"`
	HobbyID   string    `json:"hobby_id" gorm:"index;uniqueIndex:idx_user_hobby_bookmark"`
	CreatedAt time.Time `json:"created_at"`
}

// BookmarkRequest defines the request body for adding or removing a bookmark
type BookmarkRequest struct {
	HobbyID string `json:"hobbyId" validate:"required"`
}
