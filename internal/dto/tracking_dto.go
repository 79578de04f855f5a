package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/ahmetcoskunkizilkaya/mediatrack/internal/models"
)

type TrackingCreateRequest struct {
	MediaID   uuid.UUID                `json:"media_id" validate:"required"`
	Status    models.TrackingStatus    `json:"status" validate:"omitempty,oneof=planned in_progress completed dropped on_hold"`
	Priority  *models.TrackingPriority `json:"priority" validate:"omitempty,oneof=high mid low"`
	Rating    *float64                 `json:"rating" validate:"omitempty,gte=0,lte=10"`
	Progress  *int                     `json:"progress" validate:"omitempty,gte=0"`
	StartDate *models.Date             `json:"start_date"`
	EndDate   *models.Date             `json:"end_date"`
	Favorite  bool                     `json:"favorite"`
	Notes     string                   `json:"notes" validate:"omitempty,max=1000"`
}

// TrackingUpdateRequest is a partial update; nil fields stay unchanged.
type TrackingUpdateRequest struct {
	Status    *models.TrackingStatus   `json:"status" validate:"omitempty,oneof=planned in_progress completed dropped on_hold"`
	Priority  *models.TrackingPriority `json:"priority" validate:"omitempty,oneof=high mid low"`
	Rating    *float64                 `json:"rating" validate:"omitempty,gte=0,lte=10"`
	Progress  *int                     `json:"progress" validate:"omitempty,gte=0"`
	StartDate *models.Date             `json:"start_date"`
	EndDate   *models.Date             `json:"end_date"`
	Favorite  *bool                    `json:"favorite"`
	Notes     *string                  `json:"notes" validate:"omitempty,max=1000"`
}

type TrackingResponse struct {
	ID        uuid.UUID                `json:"id"`
	UserID    uuid.UUID                `json:"user_id"`
	MediaID   uuid.UUID                `json:"media_id"`
	MediaType models.MediaType         `json:"media_type"`
	Status    models.TrackingStatus    `json:"status"`
	Priority  *models.TrackingPriority `json:"priority,omitempty"`
	Rating    *float64                 `json:"rating,omitempty"`
	Progress  int                      `json:"progress"`
	StartDate *models.Date             `json:"start_date,omitempty"`
	EndDate   *models.Date             `json:"end_date,omitempty"`
	Favorite  bool                     `json:"favorite"`
	Notes     string                   `json:"notes,omitempty"`
	Media     *MediaResponse           `json:"media,omitempty"`
	CreatedAt time.Time                `json:"created_at"`
	UpdatedAt time.Time                `json:"updated_at"`
}

func NewTrackingResponse(t *models.Tracking, userID uuid.UUID) TrackingResponse {
	resp := TrackingResponse{
		ID:        t.ID,
		UserID:    t.UserID,
		MediaID:   t.MediaID,
		MediaType: t.MediaType,
		Status:    t.Status,
		Priority:  t.Priority,
		Rating:    t.Rating,
		Progress:  t.Progress,
		StartDate: t.StartDate,
		EndDate:   t.EndDate,
		Favorite:  t.Favorite,
		Notes:     t.Notes,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
	if t.Media != nil {
		media := NewMediaResponse(t.Media, userID)
		resp.Media = &media
	}
	return resp
}

type TrackingListResponse struct {
	Items []TrackingResponse `json:"items"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

func NewTrackingListResponse(items []models.Tracking, total int64, page, limit int, userID uuid.UUID) TrackingListResponse {
	out := make([]TrackingResponse, len(items))
	for i := range items {
		out[i] = NewTrackingResponse(&items[i], userID)
	}
	return TrackingListResponse{Items: out, Total: total, Page: page, Limit: limit}
}

// StatisticsResponse summarises one user's tracked media. ByType is only
// present when the statistics are not already filtered to a single kind.
type StatisticsResponse struct {
	Total         int64            `json:"total"`
	Completed     int64            `json:"completed"`
	InProgress    int64            `json:"in_progress"`
	PlanToWatch   int64            `json:"plan_to_watch"`
	Dropped       int64            `json:"dropped"`
	OnHold        int64            `json:"on_hold"`
	Favorites     int64            `json:"favorites"`
	AverageRating float64          `json:"average_rating"`
	ByType        map[string]int64 `json:"by_type,omitempty"`
}
