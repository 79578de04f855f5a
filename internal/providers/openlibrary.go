package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/mediatrack/internal/dto"
	"github.com/ahmetcoskunkizilkaya/mediatrack/internal/models"
)

const openLibraryBaseURL = "https://openlibrary.org"

const openLibrarySearchFields = "key,title,author_name,first_publish_year,isbn,cover_i,number_of_pages_median,subject_key"

type OpenLibraryClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewOpenLibrary(timeout time.Duration) *OpenLibraryClient {
	return &OpenLibraryClient{
		baseURL:    openLibraryBaseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *OpenLibraryClient) Search(ctx context.Context, query string, limit int) ([]map[string]any, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("fields", openLibrarySearchFields)
	params.Set("sort", "currently_reading")

	data, err := getJSON(ctx, c.httpClient, fmt.Sprintf("%s/search.json?%s", c.baseURL, params.Encode()), nil)
	if err != nil {
		return nil, err
	}

	var results []map[string]any
	for _, item := range asList(data, "docs") {
		if m, ok := item.(map[string]any); ok {
			results = append(results, m)
		}
	}
	return results, nil
}

// GetByID fetches a work record. Works reference authors by key only, so the
// author names are resolved with follow-up requests and grafted onto the
// payload under author_name, matching the search result shape.
func (c *OpenLibraryClient) GetByID(ctx context.Context, id string) (map[string]any, error) {
	id = strings.TrimPrefix(strings.ReplaceAll(id, "/works/", ""), "/")

	data, err := getJSON(ctx, c.httpClient, fmt.Sprintf("%s/works/%s.json", c.baseURL, url.PathEscape(id)), nil)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, item := range asList(data, "authors") {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		key := asString(asMap(entry, "author"), "key")
		if key == "" {
			continue
		}
		author, err := getJSON(ctx, c.httpClient, fmt.Sprintf("%s%s.json", c.baseURL, key), nil)
		if err != nil {
			continue
		}
		if name := asString(author, "name"); name != "" {
			names = append(names, name)
		}
	}
	if names != nil {
		data["author_name"] = toAnyList(names)
	}
	return data, nil
}

// ToBookCreate maps an Open Library payload onto the book creation shape.
// Search results and work records differ, so both field layouts are probed.
func ToBookCreate(data map[string]any) *dto.BookCreateRequest {
	authors := stringList(data, "author_name")
	if authors == nil {
		authors = nameList(data, "authors")
	}

	var isbn string
	if list := stringList(data, "isbn"); len(list) > 0 {
		isbn = list[0]
	}

	var releaseDate *models.Date
	if year := asInt(data, "first_publish_year"); year != nil {
		d := models.NewDate(*year, time.January, 1)
		releaseDate = &d
	}

	// Work records wrap the description in {"type": ..., "value": ...}.
	description := asString(data, "description")
	if description == "" {
		description = asString(asMap(data, "description"), "value")
	}

	externalID := asString(data, "key")
	if i := strings.LastIndex(externalID, "/"); i >= 0 {
		externalID = externalID[i+1:]
	}

	req := &dto.BookCreateRequest{}
	req.Title = stringOr(data, "title", "Unknown")
	req.Description = description
	req.ReleaseDate = releaseDate
	req.CoverImageURL = CoverURL(data)
	req.ExternalID = externalID
	req.ExternalSource = "openlibrary"
	req.Pages = asInt(data, "number_of_pages_median")
	req.Authors = authors
	req.ISBN = isbn
	req.Tags = stringList(data, "subject_key")
	return req
}

func toAnyList(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
