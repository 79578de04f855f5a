package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ahmetcoskunkizilkaya/mediatrack/internal/cache"
	"github.com/ahmetcoskunkizilkaya/mediatrack/internal/dto"
	"github.com/ahmetcoskunkizilkaya/mediatrack/internal/models"
)

var (
	ErrMediaNotFound   = errors.New("media not found")
	ErrMediaExists     = errors.New("media already exists")
	ErrNotPermitted    = errors.New("not permitted")
	ErrInvalidCoverURL = errors.New("cover image url must start with /static/ or http(s)://")
)

const orphanCleanupDelay = time.Minute

type MediaService struct {
	db        *gorm.DB
	cache     cache.Cache
	uploadDir string
}

func NewMediaService(db *gorm.DB, c cache.Cache, uploadDir string) *MediaService {
	return &MediaService{db: db, cache: c, uploadDir: uploadDir}
}

// Create adds a row to the catalog. Importing the same external entry twice
// returns the already stored row instead of duplicating it. Custom entries
// are scoped to their creator and rejected when the same user already has one
// with the same title and release date.
func (s *MediaService) Create(ctx context.Context, media *models.Media, tags []string, userID uuid.UUID) (*models.Media, error) {
	if err := validateCoverURL(media.CoverImageURL); err != nil {
		return nil, err
	}

	if media.ExternalID != "" && media.ExternalSource != "" {
		var existing models.Media
		err := s.db.Preload("Tags").
			Where("media_type = ? AND external_id = ? AND external_source = ?",
				media.MediaType, media.ExternalID, media.ExternalSource).
			First(&existing).Error
		if err == nil {
			return &existing, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	if media.IsCustom {
		dup := s.db.Model(&models.Media{}).
			Where("is_custom = ? AND media_type = ? AND created_by_id = ? AND LOWER(title) = LOWER(?)",
				true, media.MediaType, userID, media.Title)
		if media.ReleaseDate != nil {
			dup = dup.Where("release_date = ?", *media.ReleaseDate)
		} else {
			dup = dup.Where("release_date IS NULL")
		}
		var count int64
		if err := dup.Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrMediaExists
		}
		media.CreatedByID = &userID
	}

	media.ID = uuid.New()
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(media).Error; err != nil {
			return err
		}
		if len(tags) > 0 {
			resolved, err := resolveTags(tx, tags)
			if err != nil {
				return err
			}
			return tx.Model(media).Association("Tags").Append(&resolved)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create media: %w", err)
	}

	if media.ExternalSource != "" {
		s.invalidateSearches(ctx, media.ExternalSource)
	}
	return s.reload(media.ID)
}

func (s *MediaService) Get(mediaType models.MediaType, id uuid.UUID) (*models.Media, error) {
	var media models.Media
	err := s.db.Preload("Tags").
		Where("media_type = ?", mediaType).
		First(&media, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMediaNotFound
		}
		return nil, err
	}
	return &media, nil
}

func (s *MediaService) List(mediaType models.MediaType, page, limit int) ([]models.Media, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 100
	}
	if limit > 1000 {
		limit = 1000
	}

	base := s.db.Model(&models.Media{}).Scopes(models.ForMediaType(mediaType))

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.Media
	err := base.Preload("Tags").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// SearchLocal matches the stored catalog by title or description substring,
// case-insensitively. mediaType narrows the search when set.
func (s *MediaService) SearchLocal(query string, mediaType models.MediaType, limit int) ([]models.Media, error) {
	if limit < 1 {
		limit = 100
	}
	if limit > 1000 {
		limit = 1000
	}

	pattern := "%" + strings.ToLower(query) + "%"
	q := s.db.Preload("Tags").
		Scopes(models.ForMediaType(mediaType)).
		Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)

	var items []models.Media
	if err := q.Order("created_at DESC").Limit(limit).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Update applies a partial edit. Imported catalog rows accept tag-only edits
// from anyone; everything else requires ownership of a custom row.
func (s *MediaService) Update(ctx context.Context, mediaType models.MediaType, id uuid.UUID, userID uuid.UUID, upd dto.MediaUpdate) (*models.Media, error) {
	media, err := s.Get(mediaType, id)
	if err != nil {
		return nil, err
	}
	if !media.CanModify(userID) && !upd.TagsOnly() {
		return nil, ErrNotPermitted
	}

	upd.Apply(media)
	if err := validateCoverURL(media.CoverImageURL); err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(media).Error; err != nil {
			return err
		}
		if names := upd.TagList(); names != nil {
			resolved, err := resolveTags(tx, *names)
			if err != nil {
				return err
			}
			return tx.Model(media).Association("Tags").Replace(&resolved)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update media: %w", err)
	}

	if media.ExternalSource != "" && media.ExternalID != "" {
		s.invalidateDetails(ctx, media.ExternalSource, media.ExternalID)
	}
	return s.reload(media.ID)
}

// Delete removes a custom catalog row owned by the caller, together with its
// tracking rows, tag links, uploaded cover file and cached provider lookups.
func (s *MediaService) Delete(ctx context.Context, mediaType models.MediaType, id uuid.UUID, userID uuid.UUID) error {
	media, err := s.Get(mediaType, id)
	if err != nil {
		return err
	}
	if !media.CanModify(userID) {
		return ErrNotPermitted
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		return deleteMediaRow(tx, media)
	})
	if err != nil {
		return fmt.Errorf("failed to delete media: %w", err)
	}

	s.finishDelete(ctx, media)
	return nil
}

// CleanupOrphaned removes catalog rows no tracking entry references anymore.
// Returns how many rows were removed.
func (s *MediaService) CleanupOrphaned(ctx context.Context) (int, error) {
	tracked := s.db.Model(&models.Tracking{}).Select("media_id")

	var orphans []models.Media
	if err := s.db.Where("id NOT IN (?)", tracked).Find(&orphans).Error; err != nil {
		return 0, err
	}

	removed := 0
	for i := range orphans {
		media := &orphans[i]
		err := s.db.Transaction(func(tx *gorm.DB) error {
			return deleteMediaRow(tx, media)
		})
		if err != nil {
			slog.Error("orphan cleanup failed", "media_id", media.ID, "error", err)
			continue
		}
		s.finishDelete(ctx, media)
		removed++
	}
	return removed, nil
}

// StartCleanup sweeps orphaned catalog rows shortly after boot and then once
// a day until done is closed.
func (s *MediaService) StartCleanup(done chan struct{}) {
	go func() {
		select {
		case <-time.After(orphanCleanupDelay):
		case <-done:
			return
		}

		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			if n, err := s.CleanupOrphaned(context.Background()); err != nil {
				slog.Error("orphan cleanup failed", "error", err)
			} else if n > 0 {
				slog.Info("orphan cleanup completed", "deleted", n)
			}

			select {
			case <-ticker.C:
			case <-done:
				return
			}
		}
	}()
}

func (s *MediaService) reload(id uuid.UUID) (*models.Media, error) {
	var media models.Media
	if err := s.db.Preload("Tags").First(&media, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &media, nil
}

// deleteMediaRow removes the row with its tag links and tracking entries
// inside the caller's transaction.
func deleteMediaRow(tx *gorm.DB, media *models.Media) error {
	if err := tx.Where("media_id = ?", media.ID).Delete(&models.Tracking{}).Error; err != nil {
		return err
	}
	if err := tx.Model(media).Association("Tags").Clear(); err != nil {
		return err
	}
	return tx.Delete(media).Error
}

// finishDelete handles the work that must not roll back with the
// transaction: removing the uploaded cover and clearing cached lookups.
func (s *MediaService) finishDelete(ctx context.Context, media *models.Media) {
	s.removeCoverFile(media)
	if media.ExternalSource != "" {
		s.invalidateSearches(ctx, media.ExternalSource)
		if media.ExternalID != "" {
			s.invalidateDetails(ctx, media.ExternalSource, media.ExternalID)
		}
	}
}

func (s *MediaService) removeCoverFile(media *models.Media) {
	const prefix = "/static/"
	if !strings.HasPrefix(media.CoverImageURL, prefix) {
		return
	}
	rel := strings.TrimPrefix(media.CoverImageURL, prefix)
	path := filepath.Join(s.uploadDir, filepath.FromSlash(rel))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to remove cover image", "path", path, "error", err)
	}
}

func (s *MediaService) invalidateSearches(ctx context.Context, source string) {
	pattern := fmt.Sprintf("api:%s:search:*", source)
	if err := s.cache.DeletePattern(ctx, pattern); err != nil {
		slog.Warn("cache invalidation failed", "pattern", pattern, "error", err)
	}
}

func (s *MediaService) invalidateDetails(ctx context.Context, source, externalID string) {
	pattern := fmt.Sprintf("api:%s:*%s*", source, externalID)
	if err := s.cache.DeletePattern(ctx, pattern); err != nil {
		slog.Warn("cache invalidation failed", "pattern", pattern, "error", err)
	}
}

func validateCoverURL(url string) error {
	if url == "" {
		return nil
	}
	if strings.HasPrefix(url, "/static/") ||
		strings.HasPrefix(url, "http://") ||
		strings.HasPrefix(url, "https://") {
		return nil
	}
	return ErrInvalidCoverURL
}
