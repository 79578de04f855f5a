package providers

import (
	"testing"

	"github.com/ahmetcoskunkizilkaya/mediatrack/internal/models"
)

// Fixture maps mirror decoded JSON, so every number is a float64.

func TestCoverURL(t *testing.T) {
	cases := []struct {
		name string
		data map[string]any
		want string
	}{
		{
			name: "tmdb poster path",
			data: map[string]any{"poster_path": "/abc.jpg"},
			want: "https://image.tmdb.org/t/p/original/abc.jpg",
		},
		{
			name: "jikan image object",
			data: map[string]any{
				"images": map[string]any{
					"jpg": map[string]any{"large_image_url": "https://cdn.myanimelist.net/images/anime/4/19644l.jpg"},
				},
			},
			want: "https://cdn.myanimelist.net/images/anime/4/19644l.jpg",
		},
		{
			name: "igdb cover upgraded to big size",
			data: map[string]any{
				"cover": map[string]any{"url": "//images.igdb.com/igdb/image/upload/t_thumb/co1wyy.jpg"},
			},
			want: "https://images.igdb.com/igdb/image/upload/t_cover_big/co1wyy.jpg",
		},
		{
			name: "open library cover id",
			data: map[string]any{"cover_i": 8392653.0},
			want: "https://covers.openlibrary.org/b/id/8392653-L.jpg",
		},
		{
			name: "poster path wins over the rest",
			data: map[string]any{
				"poster_path": "/abc.jpg",
				"cover_i":     8392653.0,
			},
			want: "https://image.tmdb.org/t/p/original/abc.jpg",
		},
		{
			name: "nothing usable",
			data: map[string]any{"title": "no art"},
			want: "",
		},
	}
	for _, c := range cases {
		if got := CoverURL(c.data); got != c.want {
			t.Errorf("%s: CoverURL = %q, want %q", c.name, got, c.want)
		}
	}
}

func TestToMovieCreate(t *testing.T) {
	req := ToMovieCreate(map[string]any{
		"id":           603.0,
		"title":        "The Matrix",
		"overview":     "A hacker discovers reality",
		"release_date": "1999-03-30",
		"poster_path":  "/abc.jpg",
		"runtime":      136.0,
		"genres":       []any{map[string]any{"name": "Action"}, map[string]any{"name": "Science Fiction"}},
		"credits": map[string]any{
			"crew": []any{
				map[string]any{"name": "Lana Wachowski", "job": "Director"},
				map[string]any{"name": "Lilly Wachowski", "job": "Director"},
				map[string]any{"name": "Joel Silver", "job": "Producer"},
			},
		},
	})

	if req.Title != "The Matrix" {
		t.Errorf("Title = %q", req.Title)
	}
	if req.ExternalID != "603" || req.ExternalSource != "tmdb" {
		t.Errorf("External ref = %q/%q", req.ExternalID, req.ExternalSource)
	}
	if req.ReleaseDate == nil || req.ReleaseDate.String() != "1999-03-30" {
		t.Errorf("ReleaseDate = %v", req.ReleaseDate)
	}
	if req.CoverImageURL != "https://image.tmdb.org/t/p/original/abc.jpg" {
		t.Errorf("CoverImageURL = %q", req.CoverImageURL)
	}
	if req.Runtime == nil || *req.Runtime != 136 {
		t.Errorf("Runtime = %v", req.Runtime)
	}
	if len(req.Directors) != 2 || req.Directors[0] != "Lana Wachowski" || req.Directors[1] != "Lilly Wachowski" {
		t.Errorf("Directors = %v", req.Directors)
	}
	if len(req.Tags) != 2 || req.Tags[0] != "Action" {
		t.Errorf("Tags = %v", req.Tags)
	}
}

func TestToMovieCreateDefaults(t *testing.T) {
	req := ToMovieCreate(map[string]any{})
	if req.Title != "Unknown" {
		t.Errorf("Title = %q, want Unknown", req.Title)
	}
	if req.ReleaseDate != nil || req.Runtime != nil || req.ExternalID != "" {
		t.Errorf("Expected empty payload to map to zero values: %+v", req)
	}
}

func TestToSeriesCreate(t *testing.T) {
	req := ToSeriesCreate(map[string]any{
		"id":                 1399.0,
		"name":               "Game of Thrones",
		"first_air_date":     "2011-04-17",
		"number_of_episodes": 73.0,
		"number_of_seasons":  8.0,
		"status":             "Returning Series",
	})

	if req.Title != "Game of Thrones" {
		t.Errorf("Title = %q", req.Title)
	}
	if req.TotalEpisodes == nil || *req.TotalEpisodes != 73 {
		t.Errorf("TotalEpisodes = %v", req.TotalEpisodes)
	}
	if req.Seasons == nil || *req.Seasons != 8 {
		t.Errorf("Seasons = %v", req.Seasons)
	}
	if req.Status == nil || *req.Status != models.MediaStatusAiring {
		t.Errorf("Status = %v", req.Status)
	}

	// Unmapped TMDB statuses fall back to finished, never nil.
	req = ToSeriesCreate(map[string]any{"name": "Old Show"})
	if req.Status == nil || *req.Status != models.MediaStatusFinished {
		t.Errorf("Default status = %v", req.Status)
	}
}

func TestToAnimeCreate(t *testing.T) {
	req := ToAnimeCreate(map[string]any{
		"mal_id":         1.0,
		"title":          "Cowboy Bebop",
		"title_japanese": "カウボーイビバップ",
		"synopsis":       "Bounty hunters in space",
		"status":         "Finished Airing",
		"rating":         "R - 17+ (violence & profanity)",
		"episodes":       26.0,
		"aired":          map[string]any{"from": "1998-04-03T00:00:00+00:00"},
		"studios":        []any{map[string]any{"name": "Sunrise"}},
		"genres":         []any{map[string]any{"name": "Action"}, map[string]any{"name": "Sci-Fi"}},
		"themes":         []any{map[string]any{"name": "Space"}},
		"demographics":   []any{map[string]any{"name": "Seinen"}},
	})

	if req.ExternalID != "1" || req.ExternalSource != "jikan" {
		t.Errorf("External ref = %q/%q", req.ExternalID, req.ExternalSource)
	}
	if req.OriginalTitle != "カウボーイビバップ" {
		t.Errorf("OriginalTitle = %q", req.OriginalTitle)
	}
	if req.ReleaseDate == nil || req.ReleaseDate.String() != "1998-04-03" {
		t.Errorf("ReleaseDate = %v", req.ReleaseDate)
	}
	if req.Status == nil || *req.Status != models.MediaStatusFinished {
		t.Errorf("Status = %v", req.Status)
	}
	if req.AgeRating == nil || *req.AgeRating != models.AgeRatingR {
		t.Errorf("AgeRating = %v", req.AgeRating)
	}
	if len(req.Studios) != 1 || req.Studios[0] != "Sunrise" {
		t.Errorf("Studios = %v", req.Studios)
	}
	want := []string{"Action", "Sci-Fi", "Space", "Seinen"}
	if len(req.Tags) != len(want) {
		t.Fatalf("Tags = %v, want %v", req.Tags, want)
	}
	for i := range want {
		if req.Tags[i] != want[i] {
			t.Errorf("Tags = %v, want %v", req.Tags, want)
		}
	}

	// An unrecognized rating string maps to Unknown.
	req = ToAnimeCreate(map[string]any{"title": "Obscure", "rating": "something else"})
	if req.AgeRating == nil || *req.AgeRating != models.AgeRatingUnknown {
		t.Errorf("Default age rating = %v", req.AgeRating)
	}
}

func TestToMangaCreate(t *testing.T) {
	req := ToMangaCreate(map[string]any{
		"mal_id":    2.0,
		"title":     "Berserk",
		"status":    "Publishing",
		"chapters":  364.0,
		"volumes":   41.0,
		"published": map[string]any{"from": "1989-08-25T00:00:00+00:00"},
		"authors":   []any{map[string]any{"name": "Kentarou Miura"}},
	})

	if req.ExternalID != "2" || req.ExternalSource != "jikan" {
		t.Errorf("External ref = %q/%q", req.ExternalID, req.ExternalSource)
	}
	if req.TotalChapters == nil || *req.TotalChapters != 364 {
		t.Errorf("TotalChapters = %v", req.TotalChapters)
	}
	if req.TotalVolumes == nil || *req.TotalVolumes != 41 {
		t.Errorf("TotalVolumes = %v", req.TotalVolumes)
	}
	if req.Status == nil || *req.Status != models.MediaStatusAiring {
		t.Errorf("Status = %v", req.Status)
	}
	if len(req.Authors) != 1 || req.Authors[0] != "Kentarou Miura" {
		t.Errorf("Authors = %v", req.Authors)
	}
	// Jikan has no manga content rating.
	if req.AgeRating != nil {
		t.Errorf("AgeRating = %v, want nil", req.AgeRating)
	}
	if req.ReleaseDate == nil || req.ReleaseDate.String() != "1989-08-25" {
		t.Errorf("ReleaseDate = %v", req.ReleaseDate)
	}
}

func TestToBookCreate(t *testing.T) {
	req := ToBookCreate(map[string]any{
		"key":                    "/works/OL893415W",
		"title":                  "Dune",
		"author_name":            []any{"Frank Herbert"},
		"first_publish_year":     1965.0,
		"isbn":                   []any{"9780441013593", "0441013597"},
		"number_of_pages_median": 412.0,
		"cover_i":                8392653.0,
		"subject_key":            []any{"science_fiction"},
	})

	if req.ExternalID != "OL893415W" || req.ExternalSource != "openlibrary" {
		t.Errorf("External ref = %q/%q", req.ExternalID, req.ExternalSource)
	}
	if len(req.Authors) != 1 || req.Authors[0] != "Frank Herbert" {
		t.Errorf("Authors = %v", req.Authors)
	}
	if req.ISBN != "9780441013593" {
		t.Errorf("ISBN = %q", req.ISBN)
	}
	// The year is all Open Library gives, so it pins January 1st.
	if req.ReleaseDate == nil || req.ReleaseDate.String() != "1965-01-01" {
		t.Errorf("ReleaseDate = %v", req.ReleaseDate)
	}
	if req.Pages == nil || *req.Pages != 412 {
		t.Errorf("Pages = %v", req.Pages)
	}
	if req.CoverImageURL != "https://covers.openlibrary.org/b/id/8392653-L.jpg" {
		t.Errorf("CoverImageURL = %q", req.CoverImageURL)
	}
	if len(req.Tags) != 1 || req.Tags[0] != "science_fiction" {
		t.Errorf("Tags = %v", req.Tags)
	}
}

func TestToBookCreateWorkRecord(t *testing.T) {
	// Work records nest the description and use resolved author objects.
	req := ToBookCreate(map[string]any{
		"key":         "/works/OL893415W",
		"title":       "Dune",
		"description": map[string]any{"type": "/type/text", "value": "Desert planet epic"},
		"authors":     []any{map[string]any{"name": "Frank Herbert"}},
	})

	if req.Description != "Desert planet epic" {
		t.Errorf("Description = %q", req.Description)
	}
	if len(req.Authors) != 1 || req.Authors[0] != "Frank Herbert" {
		t.Errorf("Authors = %v", req.Authors)
	}
}

func TestToGameCreate(t *testing.T) {
	req := ToGameCreate(map[string]any{
		"id":                 1942.0,
		"name":               "The Witcher 3: Wild Hunt",
		"summary":            "Monster hunter for hire",
		"first_release_date": 1431993600.0,
		"cover":              map[string]any{"url": "//images.igdb.com/igdb/image/upload/t_thumb/co1wyy.jpg"},
		"platforms": []any{
			map[string]any{"name": "PC (Microsoft Windows)"},
			map[string]any{"name": "PlayStation 4"},
			map[string]any{"name": "iOS"},
			map[string]any{"name": "Android"},
			map[string]any{"name": "Commodore 64"},
		},
		"involved_companies": []any{
			map[string]any{"company": map[string]any{"name": "CD Projekt Red"}, "developer": true, "publisher": false},
			map[string]any{"company": map[string]any{"name": "CD Projekt"}, "developer": false, "publisher": true},
		},
		"genres":     []any{map[string]any{"name": "Role-playing (RPG)"}},
		"themes":     []any{map[string]any{"name": "Fantasy"}},
		"game_modes": []any{map[string]any{"name": "Single player"}},
	})

	if req.ExternalID != "1942" || req.ExternalSource != "igdb" {
		t.Errorf("External ref = %q/%q", req.ExternalID, req.ExternalSource)
	}
	if req.ReleaseDate == nil || req.ReleaseDate.String() != "2015-05-19" {
		t.Errorf("ReleaseDate = %v", req.ReleaseDate)
	}
	// iOS and Android collapse into mobile, unmapped platforms drop out.
	wantPlatforms := []string{"pc", "ps4", "mobile"}
	if len(req.Platforms) != len(wantPlatforms) {
		t.Fatalf("Platforms = %v, want %v", req.Platforms, wantPlatforms)
	}
	for i := range wantPlatforms {
		if req.Platforms[i] != wantPlatforms[i] {
			t.Errorf("Platforms = %v, want %v", req.Platforms, wantPlatforms)
		}
	}
	if len(req.Developers) != 1 || req.Developers[0] != "CD Projekt Red" {
		t.Errorf("Developers = %v", req.Developers)
	}
	if len(req.Publishers) != 1 || req.Publishers[0] != "CD Projekt" {
		t.Errorf("Publishers = %v", req.Publishers)
	}
	if req.CoverImageURL != "https://images.igdb.com/igdb/image/upload/t_cover_big/co1wyy.jpg" {
		t.Errorf("CoverImageURL = %q", req.CoverImageURL)
	}
	want := []string{"Role-playing (RPG)", "Fantasy", "Single player"}
	if len(req.Tags) != len(want) {
		t.Fatalf("Tags = %v, want %v", req.Tags, want)
	}

	// Storyline fills in when there is no summary.
	req = ToGameCreate(map[string]any{"name": "Quiet Game", "storyline": "A long tale"})
	if req.Description != "A long tale" {
		t.Errorf("Description = %q", req.Description)
	}
}
