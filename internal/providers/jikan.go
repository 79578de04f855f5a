package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ahmetcoskunkizilkaya/mediatrack/internal/dto"
	"github.com/ahmetcoskunkizilkaya/mediatrack/internal/models"
)

const jikanBaseURL = "https://api.jikan.moe/v4"

// JikanClient talks to the Jikan API (unofficial MyAnimeList). Kind is the
// path segment, "anime" or "manga".
type JikanClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewJikan(timeout time.Duration) *JikanClient {
	return &JikanClient{
		baseURL:    jikanBaseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *JikanClient) Search(ctx context.Context, kind, query string, limit int) ([]map[string]any, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("sfw", "false")

	data, err := getJSON(ctx, c.httpClient, fmt.Sprintf("%s/%s?%s", c.baseURL, kind, params.Encode()), nil)
	if err != nil {
		return nil, err
	}

	var results []map[string]any
	for _, item := range asList(data, "data") {
		if m, ok := item.(map[string]any); ok {
			results = append(results, m)
		}
	}
	return results, nil
}

func (c *JikanClient) GetByID(ctx context.Context, kind, id string) (map[string]any, error) {
	data, err := getJSON(ctx, c.httpClient, fmt.Sprintf("%s/%s/%s/full", c.baseURL, kind, url.PathEscape(id)), nil)
	if err != nil {
		return nil, err
	}
	entry := asMap(data, "data")
	if entry == nil {
		return nil, ErrNotFound
	}
	return entry, nil
}

var jikanAnimeStatuses = map[string]models.MediaStatus{
	"Finished Airing":  models.MediaStatusFinished,
	"Currently Airing": models.MediaStatusAiring,
	"Not yet aired":    models.MediaStatusUpcoming,
}

var jikanMangaStatuses = map[string]models.MediaStatus{
	"Finished":          models.MediaStatusFinished,
	"Publishing":        models.MediaStatusAiring,
	"On Hiatus":         models.MediaStatusAiring,
	"Discontinued":      models.MediaStatusCancelled,
	"Not yet published": models.MediaStatusUpcoming,
}

var jikanAgeRatings = map[string]models.AgeRating{
	"G - All Ages":                   models.AgeRatingG,
	"PG - Children":                  models.AgeRatingPG,
	"PG-13 - Teens 13 or older":      models.AgeRatingPG13,
	"R - 17+ (violence & profanity)": models.AgeRatingR,
	"R+ - Mild Nudity":               models.AgeRatingRPlus,
	"Rx - Hentai":                    models.AgeRatingRx,
}

// ToAnimeCreate maps a Jikan anime payload onto the anime creation shape.
func ToAnimeCreate(data map[string]any) *dto.AnimeCreateRequest {
	status := models.MediaStatusFinished
	if s, ok := jikanAnimeStatuses[asString(data, "status")]; ok {
		status = s
	}
	ageRating := models.AgeRatingUnknown
	if r, ok := jikanAgeRatings[asString(data, "rating")]; ok {
		ageRating = r
	}

	req := &dto.AnimeCreateRequest{}
	req.Title = stringOr(data, "title", "Unknown")
	req.OriginalTitle = asString(data, "title_japanese")
	req.Description = asString(data, "synopsis")
	req.ReleaseDate = parseDate(asString(asMap(data, "aired"), "from"))
	req.CoverImageURL = CoverURL(data)
	req.ExternalID = StringID(data["mal_id"])
	req.ExternalSource = "jikan"
	req.TotalEpisodes = asInt(data, "episodes")
	req.Studios = nameList(data, "studios")
	req.Status = &status
	req.AgeRating = &ageRating
	req.Tags = jikanTags(data)
	return req
}

// ToMangaCreate maps a Jikan manga payload onto the manga creation shape.
func ToMangaCreate(data map[string]any) *dto.MangaCreateRequest {
	status := models.MediaStatusFinished
	if s, ok := jikanMangaStatuses[asString(data, "status")]; ok {
		status = s
	}

	req := &dto.MangaCreateRequest{}
	req.Title = stringOr(data, "title", "Unknown")
	req.OriginalTitle = asString(data, "title_japanese")
	req.Description = asString(data, "synopsis")
	req.ReleaseDate = parseDate(asString(asMap(data, "published"), "from"))
	req.CoverImageURL = CoverURL(data)
	req.ExternalID = StringID(data["mal_id"])
	req.ExternalSource = "jikan"
	req.TotalChapters = asInt(data, "chapters")
	req.TotalVolumes = asInt(data, "volumes")
	req.Authors = nameList(data, "authors")
	req.Status = &status
	req.Tags = jikanTags(data)
	return req
}

// jikanTags merges genres, themes and demographics into one tag list.
func jikanTags(data map[string]any) []string {
	var tags []string
	tags = append(tags, nameList(data, "genres")...)
	tags = append(tags, nameList(data, "themes")...)
	tags = append(tags, nameList(data, "demographics")...)
	return tags
}
