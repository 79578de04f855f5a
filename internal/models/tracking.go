package models

import (
	"time"

	"github.com/google/uuid"
)

type TrackingStatus string

const (
	TrackingStatusPlanned    TrackingStatus = "planned"
	TrackingStatusInProgress TrackingStatus = "in_progress"
	TrackingStatusCompleted  TrackingStatus = "completed"
	TrackingStatusDropped    TrackingStatus = "dropped"
	TrackingStatusOnHold     TrackingStatus = "on_hold"
)

func (s TrackingStatus) Valid() bool {
	switch s {
	case TrackingStatusPlanned, TrackingStatusInProgress, TrackingStatusCompleted,
		TrackingStatusDropped, TrackingStatusOnHold:
		return true
	}
	return false
}

// TrackingPriority orders planned entries; it has no meaning for any other
// status.
type TrackingPriority string

const (
	PriorityHigh TrackingPriority = "high"
	PriorityMid  TrackingPriority = "mid"
	PriorityLow  TrackingPriority = "low"
)

func (p TrackingPriority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMid, PriorityLow:
		return true
	}
	return false
}

// Tracking is one user's relationship to one catalog row. At most one row
// exists per (user, media) pair; MediaType mirrors the referenced media.
type Tracking struct {
	ID        uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID         `gorm:"type:uuid;not null;index;uniqueIndex:idx_tracking_user_media" json:"user_id"`
	MediaID   uuid.UUID         `gorm:"type:uuid;not null;index;uniqueIndex:idx_tracking_user_media" json:"media_id"`
	MediaType MediaType         `gorm:"size:20;not null;index" json:"media_type"`
	Status    TrackingStatus    `gorm:"size:20;not null" json:"status"`
	Priority  *TrackingPriority `gorm:"size:10" json:"priority,omitempty"`
	Rating    *float64          `json:"rating,omitempty"`
	Progress  int               `gorm:"default:0" json:"progress"`
	StartDate *Date             `json:"start_date,omitempty"`
	EndDate   *Date             `json:"end_date,omitempty"`
	Favorite  bool              `gorm:"default:false" json:"favorite"`
	Notes     string            `gorm:"type:text" json:"notes,omitempty"`

	Media *Media `gorm:"foreignKey:MediaID;constraint:OnDelete:CASCADE" json:"media,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
