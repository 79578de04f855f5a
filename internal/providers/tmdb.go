package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ahmetcoskunkizilkaya/mediatrack/internal/dto"
	"github.com/ahmetcoskunkizilkaya/mediatrack/internal/models"
)

const tmdbBaseURL = "https://api.themoviedb.org/3"

// TMDBClient talks to The Movie Database. One client serves both movies and
// series; kind is the TMDB path segment, "movie" or "tv".
type TMDBClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewTMDB(apiKey string, timeout time.Duration) *TMDBClient {
	return &TMDBClient{
		apiKey:     apiKey,
		baseURL:    tmdbBaseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *TMDBClient) header() http.Header {
	h := http.Header{}
	if c.apiKey != "" {
		h.Set("Authorization", "Bearer "+c.apiKey)
	}
	return h
}

func (c *TMDBClient) Search(ctx context.Context, kind, query string, limit int) ([]map[string]any, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("include_adult", "true")
	params.Set("append_to_response", "credits")

	data, err := getJSON(ctx, c.httpClient, fmt.Sprintf("%s/search/%s?%s", c.baseURL, kind, params.Encode()), c.header())
	if err != nil {
		return nil, err
	}

	results := make([]map[string]any, 0, limit)
	for _, item := range asList(data, "results") {
		if m, ok := item.(map[string]any); ok {
			results = append(results, m)
			if len(results) == limit {
				break
			}
		}
	}
	return results, nil
}

func (c *TMDBClient) GetByID(ctx context.Context, kind, id string) (map[string]any, error) {
	params := url.Values{}
	params.Set("include_adult", "true")
	params.Set("append_to_response", "credits")

	data, err := getJSON(ctx, c.httpClient, fmt.Sprintf("%s/%s/%s?%s", c.baseURL, kind, url.PathEscape(id), params.Encode()), c.header())
	if err != nil {
		return nil, err
	}
	if data["id"] == nil {
		return nil, ErrNotFound
	}
	return data, nil
}

var tmdbSeriesStatuses = map[string]models.MediaStatus{
	"Ended":            models.MediaStatusFinished,
	"Returning Series": models.MediaStatusAiring,
	"Canceled":         models.MediaStatusCancelled,
	"Planned":          models.MediaStatusUpcoming,
	"In Production":    models.MediaStatusAiring,
}

// ToMovieCreate maps a TMDB movie payload onto the movie creation shape.
func ToMovieCreate(data map[string]any) *dto.MovieCreateRequest {
	req := &dto.MovieCreateRequest{}
	req.Title = stringOr(data, "title", "Unknown")
	req.Description = asString(data, "overview")
	req.ReleaseDate = parseDate(asString(data, "release_date"))
	req.CoverImageURL = CoverURL(data)
	req.ExternalID = StringID(data["id"])
	req.ExternalSource = "tmdb"
	req.Runtime = asInt(data, "runtime")
	req.Directors = tmdbDirectors(data)
	req.Tags = nameList(data, "genres")
	return req
}

// ToSeriesCreate maps a TMDB TV payload onto the series creation shape.
func ToSeriesCreate(data map[string]any) *dto.SeriesCreateRequest {
	status := models.MediaStatusFinished
	if s, ok := tmdbSeriesStatuses[asString(data, "status")]; ok {
		status = s
	}

	req := &dto.SeriesCreateRequest{}
	req.Title = stringOr(data, "name", "Unknown")
	req.Description = asString(data, "overview")
	req.ReleaseDate = parseDate(asString(data, "first_air_date"))
	req.CoverImageURL = CoverURL(data)
	req.ExternalID = StringID(data["id"])
	req.ExternalSource = "tmdb"
	req.TotalEpisodes = asInt(data, "number_of_episodes")
	req.Seasons = asInt(data, "number_of_seasons")
	req.Status = &status
	req.Tags = nameList(data, "genres")
	return req
}

// tmdbDirectors pulls director names from the appended credits payload.
func tmdbDirectors(data map[string]any) []string {
	var directors []string
	for _, item := range asList(asMap(data, "credits"), "crew") {
		member, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if asString(member, "job") != "Director" {
			continue
		}
		if name := asString(member, "name"); name != "" {
			directors = append(directors, name)
		}
	}
	return directors
}
