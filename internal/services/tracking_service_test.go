package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/ahmetcoskunkizilkaya/mediatrack/internal/dto"
	"github.com/ahmetcoskunkizilkaya/mediatrack/internal/models"
)

func newTestCatalog(t *testing.T) (*MediaService, *TrackingService, *models.User) {
	t.Helper()
	db := setupTestDB(t)
	media := newTestMediaService(t, db)
	return media, NewTrackingService(db, media), newTestUser(t, db, "alice")
}

func mustCreateMedia(t *testing.T, svc *MediaService, userID uuid.UUID, m *models.Media) *models.Media {
	t.Helper()
	created, err := svc.Create(context.Background(), m, nil, userID)
	if err != nil {
		t.Fatalf("Failed to create media %q: %v", m.Title, err)
	}
	return created
}

// TestTrackingLifecycle walks a custom book from the plan pile to finished
// and out of the library again.
func TestTrackingLifecycle(t *testing.T) {
	media, tracking, alice := newTestCatalog(t)
	ctx := context.Background()

	dune := mustCreateMedia(t, media, alice.ID, &models.Media{
		MediaType: models.MediaTypeBook,
		Title:     "Dune",
		Pages:     ptr(412),
		IsCustom:  true,
	})

	entry, err := tracking.Create(alice.ID, &dto.TrackingCreateRequest{
		MediaID:  dune.ID,
		Priority: ptr(models.PriorityHigh),
	})
	if err != nil {
		t.Fatalf("Failed to create tracking: %v", err)
	}
	if entry.Status != models.TrackingStatusPlanned {
		t.Errorf("Expected default status planned, got %s", entry.Status)
	}
	if entry.MediaType != models.MediaTypeBook {
		t.Errorf("Expected media type book, got %s", entry.MediaType)
	}
	if entry.Media == nil || entry.Media.Title != "Dune" {
		t.Errorf("Expected the media row to be loaded, got %+v", entry.Media)
	}

	stats, err := tracking.Statistics(alice.ID, "")
	if err != nil {
		t.Fatalf("Statistics failed: %v", err)
	}
	if stats.Total != 1 || stats.PlanToWatch != 1 || stats.Completed != 0 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
	if len(stats.ByType) != 6 {
		t.Errorf("Expected all six kinds in the breakdown, got %v", stats.ByType)
	}
	if stats.ByType["book"] != 1 || stats.ByType["movie"] != 0 {
		t.Errorf("Unexpected breakdown: %v", stats.ByType)
	}

	entry, err = tracking.Update(alice.ID, dune.ID, &dto.TrackingUpdateRequest{
		Status:   ptr(models.TrackingStatusCompleted),
		Progress: ptr(412),
		Rating:   ptr(9.0),
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if entry.Status != models.TrackingStatusCompleted || entry.Progress != 412 {
		t.Errorf("Update not applied: %+v", entry)
	}
	if entry.EndDate == nil {
		t.Error("Expected end date to be filled on completion")
	}
	if entry.Priority != nil {
		t.Error("Expected priority to be dropped once no longer planned")
	}

	stats, err = tracking.Statistics(alice.ID, "")
	if err != nil {
		t.Fatalf("Statistics failed: %v", err)
	}
	if stats.Completed != 1 || stats.PlanToWatch != 0 {
		t.Errorf("Unexpected stats after completion: %+v", stats)
	}
	if stats.AverageRating != 9 {
		t.Errorf("Expected average rating 9, got %v", stats.AverageRating)
	}

	if err := tracking.Delete(ctx, alice.ID, dune.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	// Dropping the entry removes the custom row it pointed at.
	if _, err := media.Get(models.MediaTypeBook, dune.ID); !errors.Is(err, ErrMediaNotFound) {
		t.Errorf("Expected custom media to be gone, got: %v", err)
	}
	if err := tracking.Delete(ctx, alice.ID, dune.ID); !errors.Is(err, ErrTrackingNotFound) {
		t.Errorf("Expected ErrTrackingNotFound on second delete, got: %v", err)
	}
}

func TestTrackingCreateErrors(t *testing.T) {
	media, tracking, alice := newTestCatalog(t)

	if _, err := tracking.Create(alice.ID, &dto.TrackingCreateRequest{MediaID: uuid.New()}); !errors.Is(err, ErrMediaNotFound) {
		t.Errorf("Expected ErrMediaNotFound for unknown media, got: %v", err)
	}

	row := mustCreateMedia(t, media, alice.ID, &models.Media{
		MediaType: models.MediaTypeMovie,
		Title:     "Once",
		IsCustom:  true,
	})
	if _, err := tracking.Create(alice.ID, &dto.TrackingCreateRequest{MediaID: row.ID}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := tracking.Create(alice.ID, &dto.TrackingCreateRequest{MediaID: row.ID}); !errors.Is(err, ErrTrackingExists) {
		t.Errorf("Expected ErrTrackingExists, got: %v", err)
	}
}

func TestTrackingDeleteKeepsImportedMedia(t *testing.T) {
	media, tracking, alice := newTestCatalog(t)
	ctx := context.Background()

	imported := mustCreateMedia(t, media, alice.ID, &models.Media{
		MediaType:      models.MediaTypeMovie,
		Title:          "The Matrix",
		ExternalID:     "603",
		ExternalSource: "tmdb",
	})
	if _, err := tracking.Create(alice.ID, &dto.TrackingCreateRequest{MediaID: imported.ID}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := tracking.Delete(ctx, alice.ID, imported.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := media.Get(models.MediaTypeMovie, imported.ID); err != nil {
		t.Errorf("Expected imported media to survive: %v", err)
	}
}

func TestIntegrityRules(t *testing.T) {
	media, tracking, alice := newTestCatalog(t)

	row := mustCreateMedia(t, media, alice.ID, &models.Media{
		MediaType:     models.MediaTypeAnime,
		Title:         "Cowboy Bebop",
		TotalEpisodes: ptr(26),
		IsCustom:      true,
	})

	// Planned entries cannot carry progress data even when the request
	// supplies it.
	entry, err := tracking.Create(alice.ID, &dto.TrackingCreateRequest{
		MediaID:  row.ID,
		Status:   models.TrackingStatusPlanned,
		Priority: ptr(models.PriorityMid),
		Rating:   ptr(8.0),
		Progress: ptr(12),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if entry.Rating != nil || entry.Progress != 0 || entry.StartDate != nil || entry.EndDate != nil {
		t.Errorf("Expected planned entry to be wiped clean, got %+v", entry)
	}
	if entry.Priority == nil || *entry.Priority != models.PriorityMid {
		t.Errorf("Expected priority to survive on a planned entry, got %v", entry.Priority)
	}

	// Starting it stamps the start date and drops the priority.
	entry, err = tracking.Update(alice.ID, row.ID, &dto.TrackingUpdateRequest{
		Status:   ptr(models.TrackingStatusInProgress),
		Progress: ptr(5),
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if entry.StartDate == nil {
		t.Error("Expected start date to be filled when work starts")
	}
	if entry.Priority != nil {
		t.Error("Expected priority to be cleared off a started entry")
	}
	if entry.Progress != 5 {
		t.Errorf("Expected progress 5, got %d", entry.Progress)
	}

	// Dropping it stamps the end date.
	entry, err = tracking.Update(alice.ID, row.ID, &dto.TrackingUpdateRequest{
		Status: ptr(models.TrackingStatusDropped),
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if entry.EndDate == nil {
		t.Error("Expected end date to be filled when dropped")
	}

	// Picking it back up clears the end date but keeps the start date.
	entry, err = tracking.Update(alice.ID, row.ID, &dto.TrackingUpdateRequest{
		Status: ptr(models.TrackingStatusInProgress),
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if entry.EndDate != nil {
		t.Error("Expected end date to be cleared when resumed")
	}
	if entry.StartDate == nil {
		t.Error("Expected start date to be kept when resumed")
	}

	// Back to planned wipes everything except the fresh priority.
	entry, err = tracking.Update(alice.ID, row.ID, &dto.TrackingUpdateRequest{
		Status:   ptr(models.TrackingStatusPlanned),
		Priority: ptr(models.PriorityLow),
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if entry.Progress != 0 || entry.StartDate != nil || entry.Rating != nil {
		t.Errorf("Expected progress data to be wiped, got %+v", entry)
	}
	if entry.Priority == nil || *entry.Priority != models.PriorityLow {
		t.Errorf("Expected new priority to stick, got %v", entry.Priority)
	}
}

func TestListSorting(t *testing.T) {
	media, tracking, alice := newTestCatalog(t)

	titles := []string{"Banana", "Apple", "Cherry"}
	priorities := []*models.TrackingPriority{ptr(models.PriorityLow), ptr(models.PriorityHigh), ptr(models.PriorityMid)}
	ids := make([]uuid.UUID, len(titles))
	for i, title := range titles {
		row := mustCreateMedia(t, media, alice.ID, &models.Media{
			MediaType: models.MediaTypeMovie,
			Title:     title,
			IsCustom:  true,
		})
		ids[i] = row.ID
		_, err := tracking.Create(alice.ID, &dto.TrackingCreateRequest{
			MediaID:  row.ID,
			Priority: priorities[i],
		})
		if err != nil {
			t.Fatalf("Failed to track %q: %v", title, err)
		}
	}

	// A planned list without an explicit sort is the watchlist order.
	items, total, err := tracking.List(alice.ID, TrackingQuery{Status: models.TrackingStatusPlanned})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 3 {
		t.Fatalf("Expected 3 entries, got %d", total)
	}
	got := []models.TrackingPriority{*items[0].Priority, *items[1].Priority, *items[2].Priority}
	want := []models.TrackingPriority{models.PriorityHigh, models.PriorityMid, models.PriorityLow}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Expected priority order %v, got %v", want, got)
		}
	}

	items, _, err = tracking.List(alice.ID, TrackingQuery{SortBy: "title"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	for i, want := range []string{"Apple", "Banana", "Cherry"} {
		if items[i].Media == nil || items[i].Media.Title != want {
			t.Fatalf("Expected alphabetical order, got %+v at %d", items[i].Media, i)
		}
	}

	// Rate two of them; unrated rows sort last.
	for i, rating := range []*float64{ptr(7.0), ptr(9.0)} {
		_, err := tracking.Update(alice.ID, ids[i], &dto.TrackingUpdateRequest{
			Status: ptr(models.TrackingStatusCompleted),
			Rating: rating,
		})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
	}
	items, _, err = tracking.List(alice.ID, TrackingQuery{SortBy: "rating"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if items[0].Rating == nil || *items[0].Rating != 9 {
		t.Errorf("Expected highest rating first, got %v", items[0].Rating)
	}
	if items[1].Rating == nil || *items[1].Rating != 7 {
		t.Errorf("Expected rating 7 second, got %v", items[1].Rating)
	}
	if items[2].Rating != nil {
		t.Errorf("Expected unrated entry last, got %v", items[2].Rating)
	}
}

func TestListFilters(t *testing.T) {
	media, tracking, alice := newTestCatalog(t)

	book := mustCreateMedia(t, media, alice.ID, &models.Media{
		MediaType: models.MediaTypeBook, Title: "Dune", IsCustom: true,
	})
	movie := mustCreateMedia(t, media, alice.ID, &models.Media{
		MediaType: models.MediaTypeMovie, Title: "Arrival", IsCustom: true,
	})
	if _, err := tracking.Create(alice.ID, &dto.TrackingCreateRequest{MediaID: book.ID}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	_, err := tracking.Create(alice.ID, &dto.TrackingCreateRequest{
		MediaID: movie.ID,
		Status:  models.TrackingStatusCompleted,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	items, total, err := tracking.List(alice.ID, TrackingQuery{Status: models.TrackingStatusCompleted})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 1 || len(items) != 1 || items[0].MediaID != movie.ID {
		t.Errorf("Status filter wrong: total=%d items=%d", total, len(items))
	}

	items, total, err = tracking.List(alice.ID, TrackingQuery{MediaType: models.MediaTypeBook})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 1 || len(items) != 1 || items[0].MediaID != book.ID {
		t.Errorf("Kind filter wrong: total=%d items=%d", total, len(items))
	}

	// Other users see nothing.
	bob := newTestUser(t, tracking.db, "bob")
	_, total, err = tracking.List(bob.ID, TrackingQuery{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 0 {
		t.Errorf("Expected empty list for another user, got %d", total)
	}
}

func TestFavorites(t *testing.T) {
	media, tracking, alice := newTestCatalog(t)

	for i, entry := range []struct {
		kind     models.MediaType
		title    string
		favorite bool
	}{
		{models.MediaTypeBook, "Dune", true},
		{models.MediaTypeMovie, "Arrival", true},
		{models.MediaTypeMovie, "Gigli", false},
	} {
		row := mustCreateMedia(t, media, alice.ID, &models.Media{
			MediaType: entry.kind, Title: entry.title, IsCustom: true,
		})
		_, err := tracking.Create(alice.ID, &dto.TrackingCreateRequest{
			MediaID:  row.ID,
			Favorite: entry.favorite,
		})
		if err != nil {
			t.Fatalf("Create %d failed: %v", i, err)
		}
	}

	_, total, err := tracking.Favorites(alice.ID, "", 1, 100)
	if err != nil {
		t.Fatalf("Favorites failed: %v", err)
	}
	if total != 2 {
		t.Errorf("Expected 2 favorites, got %d", total)
	}

	items, total, err := tracking.Favorites(alice.ID, models.MediaTypeMovie, 1, 100)
	if err != nil {
		t.Fatalf("Favorites failed: %v", err)
	}
	if total != 1 || len(items) != 1 || items[0].Media.Title != "Arrival" {
		t.Errorf("Kind filter wrong: total=%d", total)
	}
}

func TestStatisticsFiltered(t *testing.T) {
	media, tracking, alice := newTestCatalog(t)

	book := mustCreateMedia(t, media, alice.ID, &models.Media{
		MediaType: models.MediaTypeBook, Title: "Dune", IsCustom: true,
	})
	movie := mustCreateMedia(t, media, alice.ID, &models.Media{
		MediaType: models.MediaTypeMovie, Title: "Arrival", IsCustom: true,
	})
	_, err := tracking.Create(alice.ID, &dto.TrackingCreateRequest{
		MediaID: book.ID,
		Status:  models.TrackingStatusCompleted,
		Rating:  ptr(8.0),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	_, err = tracking.Create(alice.ID, &dto.TrackingCreateRequest{
		MediaID: movie.ID,
		Status:  models.TrackingStatusCompleted,
		Rating:  ptr(9.0),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	stats, err := tracking.Statistics(alice.ID, models.MediaTypeBook)
	if err != nil {
		t.Fatalf("Statistics failed: %v", err)
	}
	if stats.Total != 1 || stats.Completed != 1 {
		t.Errorf("Unexpected filtered stats: %+v", stats)
	}
	if stats.AverageRating != 8 {
		t.Errorf("Expected average 8, got %v", stats.AverageRating)
	}
	// The kind breakdown only makes sense unfiltered.
	if stats.ByType != nil {
		t.Errorf("Expected no breakdown when filtered, got %v", stats.ByType)
	}

	stats, err = tracking.Statistics(alice.ID, "")
	if err != nil {
		t.Fatalf("Statistics failed: %v", err)
	}
	if stats.AverageRating != 8.5 {
		t.Errorf("Expected average 8.5, got %v", stats.AverageRating)
	}
}
