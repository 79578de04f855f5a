package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type MediaType string

const (
	MediaTypeMovie  MediaType = "movie"
	MediaTypeSeries MediaType = "series"
	MediaTypeAnime  MediaType = "anime"
	MediaTypeManga  MediaType = "manga"
	MediaTypeBook   MediaType = "book"
	MediaTypeGame   MediaType = "game"
)

// MediaTypes lists all kinds in a stable order (statistics rely on it).
func MediaTypes() []MediaType {
	return []MediaType{
		MediaTypeMovie, MediaTypeSeries, MediaTypeAnime,
		MediaTypeManga, MediaTypeBook, MediaTypeGame,
	}
}

func (t MediaType) Valid() bool {
	switch t {
	case MediaTypeMovie, MediaTypeSeries, MediaTypeAnime,
		MediaTypeManga, MediaTypeBook, MediaTypeGame:
		return true
	}
	return false
}

// MediaStatus is the lifecycle state of a series, anime or manga.
type MediaStatus string

const (
	MediaStatusAiring    MediaStatus = "airing"
	MediaStatusFinished  MediaStatus = "finished"
	MediaStatusUpcoming  MediaStatus = "upcoming"
	MediaStatusCancelled MediaStatus = "cancelled"
)

func (s MediaStatus) Valid() bool {
	switch s {
	case MediaStatusAiring, MediaStatusFinished, MediaStatusUpcoming, MediaStatusCancelled:
		return true
	}
	return false
}

type AgeRating string

const (
	AgeRatingG       AgeRating = "G"
	AgeRatingPG      AgeRating = "PG"
	AgeRatingPG13    AgeRating = "PG-13"
	AgeRatingR       AgeRating = "R"
	AgeRatingRPlus   AgeRating = "R+"
	AgeRatingRx      AgeRating = "Rx"
	AgeRatingNC17    AgeRating = "NC-17"
	AgeRatingUnknown AgeRating = "Unknown"
)

func (r AgeRating) Valid() bool {
	switch r {
	case AgeRatingG, AgeRatingPG, AgeRatingPG13, AgeRatingR,
		AgeRatingRPlus, AgeRatingRx, AgeRatingNC17, AgeRatingUnknown:
		return true
	}
	return false
}

// GamePlatforms are the accepted values for the game platforms list.
var GamePlatforms = []string{"pc", "ps5", "ps4", "ps3", "xbox_series", "xbox_one", "switch", "mobile", "vr"}

func ValidGamePlatform(p string) bool {
	for _, v := range GamePlatforms {
		if v == p {
			return true
		}
	}
	return false
}

// Media is the catalog row shared by all six kinds. One table holds the
// union: base columns are always set, variant columns only for the matching
// MediaType, everything else stays NULL.
type Media struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	MediaType      MediaType  `gorm:"size:20;not null;index" json:"media_type"`
	Title          string     `gorm:"size:255;not null;index" json:"title"`
	Description    string     `gorm:"type:text" json:"description,omitempty"`
	ReleaseDate    *Date      `json:"release_date,omitempty"`
	CoverImageURL  string     `gorm:"size:512" json:"cover_image_url,omitempty"`
	ExternalID     string     `gorm:"size:100;index" json:"external_id,omitempty"`
	ExternalSource string     `gorm:"size:50" json:"external_source,omitempty"`
	IsCustom       bool       `gorm:"default:false" json:"is_custom"`
	CreatedByID    *uuid.UUID `gorm:"type:uuid;index" json:"created_by_id,omitempty"`

	// Movie
	Runtime   *int                        `json:"runtime,omitempty"`
	Directors datatypes.JSONSlice[string] `json:"directors,omitempty"`

	// Series / anime
	TotalEpisodes *int         `json:"total_episodes,omitempty"`
	Seasons       *int         `json:"seasons,omitempty"`
	Status        *MediaStatus `gorm:"size:20" json:"status,omitempty"`

	// Anime / manga
	OriginalTitle string                      `gorm:"size:255" json:"original_title,omitempty"`
	AgeRating     *AgeRating                  `gorm:"size:10" json:"age_rating,omitempty"`
	Studios       datatypes.JSONSlice[string] `json:"studios,omitempty"`

	// Manga
	TotalChapters *int                        `json:"total_chapters,omitempty"`
	TotalVolumes  *int                        `json:"total_volumes,omitempty"`
	Authors       datatypes.JSONSlice[string] `json:"authors,omitempty"`

	// Book
	ISBN      string `gorm:"size:20" json:"isbn,omitempty"`
	Pages     *int   `json:"pages,omitempty"`
	Publisher string `gorm:"size:255" json:"publisher,omitempty"`

	// Game
	Platforms  datatypes.JSONSlice[string] `json:"platforms,omitempty"`
	Developers datatypes.JSONSlice[string] `json:"developers,omitempty"`
	Publishers datatypes.JSONSlice[string] `json:"publishers,omitempty"`

	Tags []Tag `gorm:"many2many:media_tags;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Media) TableName() string {
	return "media"
}

func (m *Media) TagNames() []string {
	names := make([]string, len(m.Tags))
	for i, t := range m.Tags {
		names[i] = t.Name
	}
	return names
}

// CanModify reports whether a user may edit or delete this catalog row.
// Imported rows belong to the shared catalog and are owned by nobody.
func (m *Media) CanModify(userID uuid.UUID) bool {
	if !m.IsCustom {
		return false
	}
	return m.CreatedByID != nil && *m.CreatedByID == userID
}
