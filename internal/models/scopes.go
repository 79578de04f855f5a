package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ForUser returns a GORM scope that filters rows to one user's records.
func ForUser(userID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
}

// ForMediaType filters by media kind; an empty kind leaves the query
// untouched so callers can pass optional filters straight through.
func ForMediaType(mediaType MediaType) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if mediaType == "" {
			return db
		}
		return db.Where("media_type = ?", mediaType)
	}
}
