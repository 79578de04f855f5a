package services

import (
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/mediatrack/internal/models"
)

var (
	slugStrip  = regexp.MustCompile(`[^\w\s-]`)
	slugDashes = regexp.MustCompile(`[-\s]+`)
)

// slugify lowercases the name, strips anything that is not a word character,
// space or dash, and collapses runs of spaces and dashes into single dashes.
func slugify(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = slugStrip.ReplaceAllString(name, "")
	return slugDashes.ReplaceAllString(name, "-")
}

// normalizeTagNames trims, drops empties and deduplicates case-insensitively
// while keeping the first spelling and the original order.
func normalizeTagNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, name)
	}
	return out
}

// getOrCreateTag finds a tag by name ignoring case, creating it on first use.
func getOrCreateTag(tx *gorm.DB, name string) (*models.Tag, error) {
	var tag models.Tag
	err := tx.Where("LOWER(name) = LOWER(?)", name).First(&tag).Error
	if err == nil {
		return &tag, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	tag = models.Tag{ID: uuid.New(), Name: name, Slug: slugify(name)}
	if err := tx.Create(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// resolveTags maps a list of raw tag names to tag rows, creating missing ones.
func resolveTags(tx *gorm.DB, names []string) ([]models.Tag, error) {
	names = normalizeTagNames(names)
	tags := make([]models.Tag, 0, len(names))
	for _, name := range names {
		tag, err := getOrCreateTag(tx, name)
		if err != nil {
			return nil, err
		}
		tags = append(tags, *tag)
	}
	return tags, nil
}
