package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/ahmetcoskunkizilkaya/mediatrack/internal/cache"
	"github.com/ahmetcoskunkizilkaya/mediatrack/internal/config"
	"github.com/ahmetcoskunkizilkaya/mediatrack/internal/models"
	"github.com/ahmetcoskunkizilkaya/mediatrack/internal/providers"
)

// Details change rarely upstream, so they cache much longer than searches.
const detailsCacheTTL = 24 * time.Hour

// SearchService fronts the external catalogs. Responses are cached and
// concurrent identical lookups collapse into a single upstream call.
type SearchService struct {
	cache     cache.Cache
	group     singleflight.Group
	searchTTL time.Duration

	tmdb    *providers.TMDBClient
	jikan   *providers.JikanClient
	openLib *providers.OpenLibraryClient
	igdb    *providers.IGDBClient
}

func NewSearchService(cfg *config.Config, c cache.Cache) *SearchService {
	return &SearchService{
		cache:     c,
		searchTTL: cfg.CacheTTL,
		tmdb:      providers.NewTMDB(cfg.TMDBAPIKey, cfg.ProviderTimeout),
		jikan:     providers.NewJikan(cfg.ProviderTimeout),
		openLib:   providers.NewOpenLibrary(cfg.ProviderTimeout),
		igdb:      providers.NewIGDB(cfg.IGDBClientID, cfg.IGDBClientSecret, cfg.ProviderTimeout),
	}
}

// Source names the provider backing a media kind.
func Source(mediaType models.MediaType) string {
	switch mediaType {
	case models.MediaTypeMovie, models.MediaTypeSeries:
		return "tmdb"
	case models.MediaTypeAnime, models.MediaTypeManga:
		return "jikan"
	case models.MediaTypeBook:
		return "openlibrary"
	case models.MediaTypeGame:
		return "igdb"
	}
	return ""
}

func (s *SearchService) Search(ctx context.Context, mediaType models.MediaType, query string, limit int) ([]map[string]any, string, error) {
	source := Source(mediaType)
	key := fmt.Sprintf("api:%s:search:%s:limit=%d-q=%s", source, mediaType, limit, query)

	if raw, err := s.cache.Get(ctx, key); err == nil {
		var results []map[string]any
		if err := json.Unmarshal(raw, &results); err == nil {
			return results, source, nil
		}
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		results, err := s.fetchSearch(ctx, mediaType, query, limit)
		if err != nil {
			return nil, err
		}
		if raw, err := json.Marshal(results); err == nil {
			_ = s.cache.Set(ctx, key, raw, s.searchTTL)
		}
		return results, nil
	})
	if err != nil {
		return nil, source, err
	}
	return v.([]map[string]any), source, nil
}

// Details fetches one entry by its provider identifier. Missing entries
// surface as providers.ErrNotFound.
func (s *SearchService) Details(ctx context.Context, mediaType models.MediaType, id string) (map[string]any, string, error) {
	source := Source(mediaType)
	key := fmt.Sprintf("api:%s:details:%s:%s", source, mediaType, id)

	if raw, err := s.cache.Get(ctx, key); err == nil {
		var result map[string]any
		if err := json.Unmarshal(raw, &result); err == nil {
			return result, source, nil
		}
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		result, err := s.fetchDetails(ctx, mediaType, id)
		if err != nil {
			return nil, err
		}
		if raw, err := json.Marshal(result); err == nil {
			_ = s.cache.Set(ctx, key, raw, detailsCacheTTL)
		}
		return result, nil
	})
	if err != nil {
		return nil, source, err
	}
	return v.(map[string]any), source, nil
}

// Convert turns a raw provider payload into the matching creation request.
// TMDB listing payloads lack credits and genres, so movies and series are
// re-fetched by id before converting when that block is missing.
func (s *SearchService) Convert(ctx context.Context, mediaType models.MediaType, payload map[string]any) (any, error) {
	switch mediaType {
	case models.MediaTypeMovie:
		return providers.ToMovieCreate(s.withDetails(ctx, mediaType, payload)), nil
	case models.MediaTypeSeries:
		return providers.ToSeriesCreate(s.withDetails(ctx, mediaType, payload)), nil
	case models.MediaTypeAnime:
		return providers.ToAnimeCreate(payload), nil
	case models.MediaTypeManga:
		return providers.ToMangaCreate(payload), nil
	case models.MediaTypeBook:
		return providers.ToBookCreate(payload), nil
	case models.MediaTypeGame:
		return providers.ToGameCreate(payload), nil
	}
	return nil, fmt.Errorf("unsupported media type %q", mediaType)
}

func (s *SearchService) fetchSearch(ctx context.Context, mediaType models.MediaType, query string, limit int) ([]map[string]any, error) {
	switch mediaType {
	case models.MediaTypeMovie:
		return s.tmdb.Search(ctx, "movie", query, limit)
	case models.MediaTypeSeries:
		return s.tmdb.Search(ctx, "tv", query, limit)
	case models.MediaTypeAnime:
		return s.jikan.Search(ctx, "anime", query, limit)
	case models.MediaTypeManga:
		return s.jikan.Search(ctx, "manga", query, limit)
	case models.MediaTypeBook:
		return s.openLib.Search(ctx, query, limit)
	case models.MediaTypeGame:
		return s.igdb.Search(ctx, query, limit)
	}
	return nil, fmt.Errorf("unsupported media type %q", mediaType)
}

func (s *SearchService) fetchDetails(ctx context.Context, mediaType models.MediaType, id string) (map[string]any, error) {
	switch mediaType {
	case models.MediaTypeMovie:
		return s.tmdb.GetByID(ctx, "movie", id)
	case models.MediaTypeSeries:
		return s.tmdb.GetByID(ctx, "tv", id)
	case models.MediaTypeAnime:
		return s.jikan.GetByID(ctx, "anime", id)
	case models.MediaTypeManga:
		return s.jikan.GetByID(ctx, "manga", id)
	case models.MediaTypeBook:
		return s.openLib.GetByID(ctx, id)
	case models.MediaTypeGame:
		return s.igdb.GetByID(ctx, id)
	}
	return nil, fmt.Errorf("unsupported media type %q", mediaType)
}

// withDetails upgrades a partial payload to the full detail record, keeping
// the partial one when the id is missing or the upstream call fails.
func (s *SearchService) withDetails(ctx context.Context, mediaType models.MediaType, payload map[string]any) map[string]any {
	if _, ok := payload["genres"]; ok {
		return payload
	}
	id := providers.StringID(payload["id"])
	if id == "" {
		return payload
	}
	full, _, err := s.Details(ctx, mediaType, id)
	if err != nil {
		return payload
	}
	return full
}
