// Package providers contains the external catalog clients and the pure
// conversion helpers that map their payloads onto the local creation shapes.
package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/mediatrack/internal/models"
)

// ErrNotFound is returned when a provider has no record for the requested id.
var ErrNotFound = errors.New("provider: not found")

const tmdbImageURL = "https://image.tmdb.org/t/p/original"

// CoverURL derives a cover image URL from whichever provider-specific field
// is present, probed in a fixed priority order: TMDB poster path, Jikan
// nested image object, IGDB cover object, Open Library numeric cover id.
func CoverURL(data map[string]any) string {
	if path := asString(data, "poster_path"); path != "" {
		return tmdbImageURL + path
	}
	if jpg := asMap(asMap(data, "images"), "jpg"); jpg != nil {
		if u := asString(jpg, "large_image_url"); u != "" {
			return u
		}
	}
	if cover := asMap(data, "cover"); cover != nil {
		if u := asString(cover, "url"); u != "" {
			u = strings.Replace(u, "t_thumb", "t_cover_big", 1)
			if strings.HasPrefix(u, "//") {
				return "https:" + u
			}
			return u
		}
	}
	if id := asInt(data, "cover_i"); id != nil {
		return fmt.Sprintf("https://covers.openlibrary.org/b/id/%d-L.jpg", *id)
	}
	return ""
}

func getJSON(ctx context.Context, client *http.Client, url string, header http.Header) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	var data map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode provider response: %w", err)
	}
	return data, nil
}

// Payload accessors. Provider responses are decoded into map[string]any, so
// missing or oddly typed fields degrade to zero values instead of panicking.

func asString(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

func stringOr(m map[string]any, key, fallback string) string {
	if s := asString(m, key); s != "" {
		return s
	}
	return fallback
}

func asInt(m map[string]any, key string) *int {
	if m == nil {
		return nil
	}
	if f, ok := m[key].(float64); ok {
		n := int(f)
		return &n
	}
	return nil
}

func asMap(m map[string]any, key string) map[string]any {
	if m == nil {
		return nil
	}
	sub, _ := m[key].(map[string]any)
	return sub
}

func asList(m map[string]any, key string) []any {
	if m == nil {
		return nil
	}
	list, _ := m[key].([]any)
	return list
}

// nameList collects the "name" field from a list of objects, the shape every
// provider uses for genres, studios, authors and the like.
func nameList(m map[string]any, key string) []string {
	var names []string
	for _, item := range asList(m, key) {
		if obj, ok := item.(map[string]any); ok {
			if name := asString(obj, "name"); name != "" {
				names = append(names, name)
			}
		}
	}
	return names
}

// stringList returns entries of a plain string list, skipping anything else.
func stringList(m map[string]any, key string) []string {
	var out []string
	for _, item := range asList(m, key) {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

// StringID renders an external id that providers ship either as a JSON
// number or as a string.
func StringID(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return strconv.FormatInt(int64(id), 10)
	case json.Number:
		return id.String()
	}
	return ""
}

var dateLayouts = []string{"2006-01-02", time.RFC3339}

func parseDate(value string) *models.Date {
	if value == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			d := models.NewDate(t.Year(), t.Month(), t.Day())
			return &d
		}
	}
	return nil
}

func unixDate(m map[string]any, key string) *models.Date {
	if f, ok := m[key].(float64); ok {
		t := time.Unix(int64(f), 0).UTC()
		d := models.NewDate(t.Year(), t.Month(), t.Day())
		return &d
	}
	return nil
}
