package models

import (
	"time"

	"github.com/google/uuid"
)

// Tag is a normalized free-text label shared across the whole catalog.
// Names are deduplicated case-insensitively at creation time.
type Tag struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Slug      string    `gorm:"size:100;not null;uniqueIndex" json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}
