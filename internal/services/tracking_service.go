package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/mediatrack/internal/dto"
	"github.com/ahmetcoskunkizilkaya/mediatrack/internal/models"
)

var (
	ErrTrackingNotFound = errors.New("tracking entry not found")
	ErrTrackingExists   = errors.New("tracking entry already exists")
)

// priorityRank orders planned entries high before mid before low, rows
// without a priority last.
const priorityRank = "CASE priority WHEN 'high' THEN 3 WHEN 'mid' THEN 2 WHEN 'low' THEN 1 ELSE 0 END"

type TrackingService struct {
	db    *gorm.DB
	media *MediaService
}

func NewTrackingService(db *gorm.DB, media *MediaService) *TrackingService {
	return &TrackingService{db: db, media: media}
}

// TrackingQuery narrows and orders a tracking list.
type TrackingQuery struct {
	Status    models.TrackingStatus
	MediaType models.MediaType
	SortBy    string
	Page      int
	Limit     int
}

func (s *TrackingService) Create(userID uuid.UUID, req *dto.TrackingCreateRequest) (*models.Tracking, error) {
	var media models.Media
	if err := s.db.First(&media, "id = ?", req.MediaID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMediaNotFound
		}
		return nil, err
	}

	var count int64
	err := s.db.Model(&models.Tracking{}).
		Where("user_id = ? AND media_id = ?", userID, req.MediaID).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrTrackingExists
	}

	status := req.Status
	if status == "" {
		status = models.TrackingStatusPlanned
	}

	tracking := models.Tracking{
		ID:        uuid.New(),
		UserID:    userID,
		MediaID:   req.MediaID,
		MediaType: media.MediaType,
		Status:    status,
		Priority:  req.Priority,
		Rating:    req.Rating,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Favorite:  req.Favorite,
		Notes:     req.Notes,
	}
	if req.Progress != nil {
		tracking.Progress = *req.Progress
	}
	applyIntegrityRules(&tracking)

	if err := s.db.Create(&tracking).Error; err != nil {
		return nil, fmt.Errorf("failed to create tracking: %w", err)
	}
	return s.reloadTracking(tracking.ID)
}

func (s *TrackingService) Get(userID, mediaID uuid.UUID) (*models.Tracking, error) {
	var tracking models.Tracking
	err := s.db.Preload("Media.Tags").
		Where("user_id = ? AND media_id = ?", userID, mediaID).
		First(&tracking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTrackingNotFound
		}
		return nil, err
	}
	return &tracking, nil
}

func (s *TrackingService) Update(userID, mediaID uuid.UUID, req *dto.TrackingUpdateRequest) (*models.Tracking, error) {
	var tracking models.Tracking
	err := s.db.Where("user_id = ? AND media_id = ?", userID, mediaID).
		First(&tracking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTrackingNotFound
		}
		return nil, err
	}

	if req.Status != nil {
		tracking.Status = *req.Status
	}
	if req.Priority != nil {
		tracking.Priority = req.Priority
	}
	if req.Rating != nil {
		tracking.Rating = req.Rating
	}
	if req.Progress != nil {
		tracking.Progress = *req.Progress
	}
	if req.StartDate != nil {
		tracking.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		tracking.EndDate = req.EndDate
	}
	if req.Favorite != nil {
		tracking.Favorite = *req.Favorite
	}
	if req.Notes != nil {
		tracking.Notes = *req.Notes
	}
	applyIntegrityRules(&tracking)

	if err := s.db.Save(&tracking).Error; err != nil {
		return nil, fmt.Errorf("failed to update tracking: %w", err)
	}
	return s.reloadTracking(tracking.ID)
}

// Delete removes the entry. When the entry points at a custom catalog row
// that row is deleted with it, so abandoned custom media never lingers.
func (s *TrackingService) Delete(ctx context.Context, userID, mediaID uuid.UUID) error {
	var tracking models.Tracking
	err := s.db.Preload("Media").
		Where("user_id = ? AND media_id = ?", userID, mediaID).
		First(&tracking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTrackingNotFound
		}
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Tracking{}, "id = ?", tracking.ID).Error; err != nil {
			return err
		}
		if tracking.Media != nil && tracking.Media.IsCustom {
			return deleteMediaRow(tx, tracking.Media)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete tracking: %w", err)
	}

	if tracking.Media != nil && tracking.Media.IsCustom {
		s.media.finishDelete(ctx, tracking.Media)
	}
	return nil
}

func (s *TrackingService) List(userID uuid.UUID, q TrackingQuery) ([]models.Tracking, int64, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 100
	}
	if q.Limit > 1000 {
		q.Limit = 1000
	}

	// The title sort joins media, which shares several column names, so the
	// tracking columns stay qualified.
	base := s.db.Model(&models.Tracking{}).Where("trackings.user_id = ?", userID)
	if q.Status != "" {
		base = base.Where("trackings.status = ?", q.Status)
	}
	if q.MediaType != "" {
		base = base.Where("trackings.media_type = ?", q.MediaType)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := base.Preload("Media.Tags")
	switch q.SortBy {
	case "priority":
		query = query.Order(priorityRank + " DESC").Order("created_at DESC")
	case "rating":
		query = query.Order("COALESCE(rating, -1) DESC").Order("created_at DESC")
	case "title":
		query = query.Joins("JOIN media ON media.id = trackings.media_id").
			Order("media.title ASC").Order("trackings.created_at DESC")
	case "created_at":
		query = query.Order("created_at DESC")
	default:
		// A plain planned list is a watchlist, so it orders by priority.
		if q.Status == models.TrackingStatusPlanned {
			query = query.Order(priorityRank + " DESC").Order("created_at DESC")
		} else {
			query = query.Order("created_at DESC")
		}
	}

	var items []models.Tracking
	err := query.Offset((q.Page - 1) * q.Limit).Limit(q.Limit).Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *TrackingService) Favorites(userID uuid.UUID, mediaType models.MediaType, page, limit int) ([]models.Tracking, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 100
	}
	if limit > 1000 {
		limit = 1000
	}

	base := s.db.Model(&models.Tracking{}).
		Scopes(models.ForUser(userID), models.ForMediaType(mediaType)).
		Where("favorite = ?", true)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.Tracking
	err := base.Preload("Media.Tags").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Statistics tallies the user's library, optionally narrowed to one kind.
// The per-kind breakdown is only present for the unfiltered view and always
// carries all six kinds.
func (s *TrackingService) Statistics(userID uuid.UUID, mediaType models.MediaType) (*dto.StatisticsResponse, error) {
	type row struct {
		Status    models.TrackingStatus
		MediaType models.MediaType
		Favorite  bool
		Rating    *float64
	}

	q := s.db.Model(&models.Tracking{}).
		Select("status, media_type, favorite, rating").
		Scopes(models.ForUser(userID), models.ForMediaType(mediaType))

	var rows []row
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}

	stats := &dto.StatisticsResponse{}
	var ratingSum float64
	var rated int64
	for _, r := range rows {
		stats.Total++
		switch r.Status {
		case models.TrackingStatusPlanned:
			stats.PlanToWatch++
		case models.TrackingStatusInProgress:
			stats.InProgress++
		case models.TrackingStatusCompleted:
			stats.Completed++
		case models.TrackingStatusDropped:
			stats.Dropped++
		case models.TrackingStatusOnHold:
			stats.OnHold++
		}
		if r.Favorite {
			stats.Favorites++
		}
		if r.Rating != nil {
			ratingSum += *r.Rating
			rated++
		}
	}
	if rated > 0 {
		stats.AverageRating = math.Round(ratingSum/float64(rated)*100) / 100
	}

	if mediaType == "" {
		byType := make(map[string]int64, len(models.MediaTypes()))
		for _, t := range models.MediaTypes() {
			byType[string(t)] = 0
		}
		for _, r := range rows {
			byType[string(r.MediaType)]++
		}
		stats.ByType = byType
	}
	return stats, nil
}

func (s *TrackingService) reloadTracking(id uuid.UUID) (*models.Tracking, error) {
	var tracking models.Tracking
	if err := s.db.Preload("Media.Tags").First(&tracking, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &tracking, nil
}

// applyIntegrityRules keeps the status-dependent fields consistent. Planned
// entries carry no progress data, only planned entries carry a priority,
// start dates appear when work starts and end dates only exist for finished
// or abandoned entries.
func applyIntegrityRules(t *models.Tracking) {
	if t.Status != models.TrackingStatusPlanned {
		t.Priority = nil
	}
	if t.Status == models.TrackingStatusPlanned {
		t.Rating = nil
		t.Progress = 0
		t.StartDate = nil
		t.EndDate = nil
	}
	if t.Status == models.TrackingStatusInProgress && t.StartDate == nil {
		today := models.Today()
		t.StartDate = &today
	}
	if t.Status == models.TrackingStatusCompleted || t.Status == models.TrackingStatusDropped {
		if t.EndDate == nil {
			today := models.Today()
			t.EndDate = &today
		}
	} else {
		t.EndDate = nil
	}
}
