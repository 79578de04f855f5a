package dto

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/ahmetcoskunkizilkaya/mediatrack/internal/models"
)

// MediaCreateRequest carries the columns shared by every catalog kind. The
// per-kind requests embed it, so the JSON payload stays flat.
type MediaCreateRequest struct {
	Title          string       `json:"title" validate:"required,min=1,max=255"`
	Description    string       `json:"description"`
	ReleaseDate    *models.Date `json:"release_date"`
	CoverImageURL  string       `json:"cover_image_url" validate:"omitempty,max=512"`
	ExternalID     string       `json:"external_id" validate:"omitempty,max=100"`
	ExternalSource string       `json:"external_source" validate:"omitempty,max=50"`
	IsCustom       bool         `json:"is_custom"`
	Tags           []string     `json:"tags" validate:"omitempty,dive,min=1,max=100"`
}

func (r *MediaCreateRequest) TagNames() []string { return r.Tags }

func (r *MediaCreateRequest) base(mediaType models.MediaType) *models.Media {
	return &models.Media{
		MediaType:      mediaType,
		Title:          r.Title,
		Description:    r.Description,
		ReleaseDate:    r.ReleaseDate,
		CoverImageURL:  r.CoverImageURL,
		ExternalID:     r.ExternalID,
		ExternalSource: r.ExternalSource,
		IsCustom:       r.IsCustom,
	}
}

type MovieCreateRequest struct {
	MediaCreateRequest
	Runtime   *int     `json:"runtime" validate:"omitempty,gte=0"`
	Directors []string `json:"directors"`
}

func (r *MovieCreateRequest) ToModel() *models.Media {
	m := r.base(models.MediaTypeMovie)
	m.Runtime = r.Runtime
	m.Directors = datatypes.JSONSlice[string](r.Directors)
	return m
}

type SeriesCreateRequest struct {
	MediaCreateRequest
	TotalEpisodes *int                `json:"total_episodes" validate:"omitempty,gte=0"`
	Seasons       *int                `json:"seasons" validate:"omitempty,gte=0"`
	Status        *models.MediaStatus `json:"status" validate:"omitempty,oneof=airing finished upcoming cancelled"`
}

func (r *SeriesCreateRequest) ToModel() *models.Media {
	m := r.base(models.MediaTypeSeries)
	m.TotalEpisodes = r.TotalEpisodes
	m.Seasons = r.Seasons
	m.Status = r.Status
	return m
}

type AnimeCreateRequest struct {
	MediaCreateRequest
	OriginalTitle string              `json:"original_title" validate:"omitempty,max=255"`
	TotalEpisodes *int                `json:"total_episodes" validate:"omitempty,gte=0"`
	Status        *models.MediaStatus `json:"status" validate:"omitempty,oneof=airing finished upcoming cancelled"`
	AgeRating     *models.AgeRating   `json:"age_rating" validate:"omitempty,oneof=G PG PG-13 R R+ Rx NC-17 Unknown"`
	Studios       []string            `json:"studios"`
}

func (r *AnimeCreateRequest) ToModel() *models.Media {
	m := r.base(models.MediaTypeAnime)
	m.OriginalTitle = r.OriginalTitle
	m.TotalEpisodes = r.TotalEpisodes
	m.Status = r.Status
	m.AgeRating = r.AgeRating
	m.Studios = datatypes.JSONSlice[string](r.Studios)
	return m
}

type MangaCreateRequest struct {
	MediaCreateRequest
	OriginalTitle string              `json:"original_title" validate:"omitempty,max=255"`
	TotalChapters *int                `json:"total_chapters" validate:"omitempty,gte=0"`
	TotalVolumes  *int                `json:"total_volumes" validate:"omitempty,gte=0"`
	Status        *models.MediaStatus `json:"status" validate:"omitempty,oneof=airing finished upcoming cancelled"`
	AgeRating     *models.AgeRating   `json:"age_rating" validate:"omitempty,oneof=G PG PG-13 R R+ Rx NC-17 Unknown"`
	Authors       []string            `json:"authors"`
}

func (r *MangaCreateRequest) ToModel() *models.Media {
	m := r.base(models.MediaTypeManga)
	m.OriginalTitle = r.OriginalTitle
	m.TotalChapters = r.TotalChapters
	m.TotalVolumes = r.TotalVolumes
	m.Status = r.Status
	m.AgeRating = r.AgeRating
	m.Authors = datatypes.JSONSlice[string](r.Authors)
	return m
}

type BookCreateRequest struct {
	MediaCreateRequest
	Authors   []string `json:"authors"`
	ISBN      string   `json:"isbn" validate:"omitempty,max=20"`
	Pages     *int     `json:"pages" validate:"omitempty,gte=0"`
	Publisher string   `json:"publisher" validate:"omitempty,max=255"`
}

func (r *BookCreateRequest) ToModel() *models.Media {
	m := r.base(models.MediaTypeBook)
	m.Authors = datatypes.JSONSlice[string](r.Authors)
	m.ISBN = r.ISBN
	m.Pages = r.Pages
	m.Publisher = r.Publisher
	return m
}

type GameCreateRequest struct {
	MediaCreateRequest
	Platforms  []string `json:"platforms" validate:"omitempty,dive,oneof=pc ps5 ps4 ps3 xbox_series xbox_one switch mobile vr"`
	Developers []string `json:"developers"`
	Publishers []string `json:"publishers"`
}

func (r *GameCreateRequest) ToModel() *models.Media {
	m := r.base(models.MediaTypeGame)
	m.Platforms = datatypes.JSONSlice[string](r.Platforms)
	m.Developers = datatypes.JSONSlice[string](r.Developers)
	m.Publishers = datatypes.JSONSlice[string](r.Publishers)
	return m
}

// MediaUpdate is the partial-update contract shared by the per-kind payloads.
// Apply copies the set fields onto the row, TagList returns the replacement
// tag list when one was supplied and TagsOnly reports whether nothing but the
// tag list changes. Tag-only updates are the one edit allowed on imported
// rows.
type MediaUpdate interface {
	Apply(m *models.Media)
	TagList() *[]string
	TagsOnly() bool
}

// MediaUpdateRequest holds the shared updatable columns; nil means unchanged.
type MediaUpdateRequest struct {
	Title         *string      `json:"title" validate:"omitempty,min=1,max=255"`
	Description   *string      `json:"description"`
	ReleaseDate   *models.Date `json:"release_date"`
	CoverImageURL *string      `json:"cover_image_url" validate:"omitempty,max=512"`
	Tags          *[]string    `json:"tags" validate:"omitempty,dive,min=1,max=100"`
}

func (r *MediaUpdateRequest) Apply(m *models.Media) {
	if r.Title != nil {
		m.Title = *r.Title
	}
	if r.Description != nil {
		m.Description = *r.Description
	}
	if r.ReleaseDate != nil {
		m.ReleaseDate = r.ReleaseDate
	}
	if r.CoverImageURL != nil {
		m.CoverImageURL = *r.CoverImageURL
	}
}

func (r *MediaUpdateRequest) TagList() *[]string { return r.Tags }

func (r *MediaUpdateRequest) TagsOnly() bool {
	return r.Title == nil && r.Description == nil && r.ReleaseDate == nil && r.CoverImageURL == nil
}

type MovieUpdateRequest struct {
	MediaUpdateRequest
	Runtime   *int      `json:"runtime" validate:"omitempty,gte=0"`
	Directors *[]string `json:"directors"`
}

func (r *MovieUpdateRequest) Apply(m *models.Media) {
	r.MediaUpdateRequest.Apply(m)
	if r.Runtime != nil {
		m.Runtime = r.Runtime
	}
	if r.Directors != nil {
		m.Directors = datatypes.JSONSlice[string](*r.Directors)
	}
}

func (r *MovieUpdateRequest) TagsOnly() bool {
	return r.MediaUpdateRequest.TagsOnly() && r.Runtime == nil && r.Directors == nil
}

type SeriesUpdateRequest struct {
	MediaUpdateRequest
	TotalEpisodes *int                `json:"total_episodes" validate:"omitempty,gte=0"`
	Seasons       *int                `json:"seasons" validate:"omitempty,gte=0"`
	Status        *models.MediaStatus `json:"status" validate:"omitempty,oneof=airing finished upcoming cancelled"`
}

func (r *SeriesUpdateRequest) Apply(m *models.Media) {
	r.MediaUpdateRequest.Apply(m)
	if r.TotalEpisodes != nil {
		m.TotalEpisodes = r.TotalEpisodes
	}
	if r.Seasons != nil {
		m.Seasons = r.Seasons
	}
	if r.Status != nil {
		m.Status = r.Status
	}
}

func (r *SeriesUpdateRequest) TagsOnly() bool {
	return r.MediaUpdateRequest.TagsOnly() && r.TotalEpisodes == nil && r.Seasons == nil && r.Status == nil
}

type AnimeUpdateRequest struct {
	MediaUpdateRequest
	OriginalTitle *string             `json:"original_title" validate:"omitempty,max=255"`
	TotalEpisodes *int                `json:"total_episodes" validate:"omitempty,gte=0"`
	Status        *models.MediaStatus `json:"status" validate:"omitempty,oneof=airing finished upcoming cancelled"`
	AgeRating     *models.AgeRating   `json:"age_rating" validate:"omitempty,oneof=G PG PG-13 R R+ Rx NC-17 Unknown"`
	Studios       *[]string           `json:"studios"`
}

func (r *AnimeUpdateRequest) Apply(m *models.Media) {
	r.MediaUpdateRequest.Apply(m)
	if r.OriginalTitle != nil {
		m.OriginalTitle = *r.OriginalTitle
	}
	if r.TotalEpisodes != nil {
		m.TotalEpisodes = r.TotalEpisodes
	}
	if r.Status != nil {
		m.Status = r.Status
	}
	if r.AgeRating != nil {
		m.AgeRating = r.AgeRating
	}
	if r.Studios != nil {
		m.Studios = datatypes.JSONSlice[string](*r.Studios)
	}
}

func (r *AnimeUpdateRequest) TagsOnly() bool {
	return r.MediaUpdateRequest.TagsOnly() && r.OriginalTitle == nil && r.TotalEpisodes == nil &&
		r.Status == nil && r.AgeRating == nil && r.Studios == nil
}

type MangaUpdateRequest struct {
	MediaUpdateRequest
	OriginalTitle *string             `json:"original_title" validate:"omitempty,max=255"`
	TotalChapters *int                `json:"total_chapters" validate:"omitempty,gte=0"`
	TotalVolumes  *int                `json:"total_volumes" validate:"omitempty,gte=0"`
	Status        *models.MediaStatus `json:"status" validate:"omitempty,oneof=airing finished upcoming cancelled"`
	AgeRating     *models.AgeRating   `json:"age_rating" validate:"omitempty,oneof=G PG PG-13 R R+ Rx NC-17 Unknown"`
	Authors       *[]string           `json:"authors"`
}

func (r *MangaUpdateRequest) Apply(m *models.Media) {
	r.MediaUpdateRequest.Apply(m)
	if r.OriginalTitle != nil {
		m.OriginalTitle = *r.OriginalTitle
	}
	if r.TotalChapters != nil {
		m.TotalChapters = r.TotalChapters
	}
	if r.TotalVolumes != nil {
		m.TotalVolumes = r.TotalVolumes
	}
	if r.Status != nil {
		m.Status = r.Status
	}
	if r.AgeRating != nil {
		m.AgeRating = r.AgeRating
	}
	if r.Authors != nil {
		m.Authors = datatypes.JSONSlice[string](*r.Authors)
	}
}

func (r *MangaUpdateRequest) TagsOnly() bool {
	return r.MediaUpdateRequest.TagsOnly() && r.OriginalTitle == nil && r.TotalChapters == nil &&
		r.TotalVolumes == nil && r.Status == nil && r.AgeRating == nil && r.Authors == nil
}

type BookUpdateRequest struct {
	MediaUpdateRequest
	Authors   *[]string `json:"authors"`
	ISBN      *string   `json:"isbn" validate:"omitempty,max=20"`
	Pages     *int      `json:"pages" validate:"omitempty,gte=0"`
	Publisher *string   `json:"publisher" validate:"omitempty,max=255"`
}

func (r *BookUpdateRequest) Apply(m *models.Media) {
	r.MediaUpdateRequest.Apply(m)
	if r.Authors != nil {
		m.Authors = datatypes.JSONSlice[string](*r.Authors)
	}
	if r.ISBN != nil {
		m.ISBN = *r.ISBN
	}
	if r.Pages != nil {
		m.Pages = r.Pages
	}
	if r.Publisher != nil {
		m.Publisher = *r.Publisher
	}
}

func (r *BookUpdateRequest) TagsOnly() bool {
	return r.MediaUpdateRequest.TagsOnly() && r.Authors == nil && r.ISBN == nil &&
		r.Pages == nil && r.Publisher == nil
}

type GameUpdateRequest struct {
	MediaUpdateRequest
	Platforms  *[]string `json:"platforms" validate:"omitempty,dive,oneof=pc ps5 ps4 ps3 xbox_series xbox_one switch mobile vr"`
	Developers *[]string `json:"developers"`
	Publishers *[]string `json:"publishers"`
}

func (r *GameUpdateRequest) Apply(m *models.Media) {
	r.MediaUpdateRequest.Apply(m)
	if r.Platforms != nil {
		m.Platforms = datatypes.JSONSlice[string](*r.Platforms)
	}
	if r.Developers != nil {
		m.Developers = datatypes.JSONSlice[string](*r.Developers)
	}
	if r.Publishers != nil {
		m.Publishers = datatypes.JSONSlice[string](*r.Publishers)
	}
}

func (r *GameUpdateRequest) TagsOnly() bool {
	return r.MediaUpdateRequest.TagsOnly() && r.Platforms == nil && r.Developers == nil && r.Publishers == nil
}

type MediaResponse struct {
	*models.Media
	Tags      []string `json:"tags"`
	CanModify bool     `json:"can_modify"`
}

func NewMediaResponse(media *models.Media, userID uuid.UUID) MediaResponse {
	return MediaResponse{
		Media:     media,
		Tags:      media.TagNames(),
		CanModify: media.CanModify(userID),
	}
}

type MediaListResponse struct {
	Items []MediaResponse `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

func NewMediaListResponse(items []models.Media, total int64, page, limit int, userID uuid.UUID) MediaListResponse {
	out := make([]MediaResponse, len(items))
	for i := range items {
		out[i] = NewMediaResponse(&items[i], userID)
	}
	return MediaListResponse{Items: out, Total: total, Page: page, Limit: limit}
}

type UploadResponse struct {
	URL string `json:"url"`
}
