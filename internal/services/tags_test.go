package services

import "testing"

func TestSlugify(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Science Fiction", "science-fiction"},
		{"  Sci-Fi  ", "sci-fi"},
		{"Shoot 'em up!", "shoot-em-up"},
		{"Slice of   Life", "slice-of-life"},
		{"R&B", "rb"},
		{"already-slugged", "already-slugged"},
	}
	for _, c := range cases {
		if got := slugify(c.in); got != c.want {
			t.Errorf("slugify(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeTagNames(t *testing.T) {
	got := normalizeTagNames([]string{" Sci-Fi ", "sci-fi", "", "  ", "Epic", "SCI-FI", "epic"})
	want := []string{"Sci-Fi", "Epic"}
	if len(got) != len(want) {
		t.Fatalf("normalizeTagNames returned %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("normalizeTagNames returned %v, want %v", got, want)
		}
	}
}

func TestResolveTagsReusesRows(t *testing.T) {
	db := setupTestDB(t)

	first, err := resolveTags(db, []string{"Sci-Fi"})
	if err != nil {
		t.Fatalf("resolveTags failed: %v", err)
	}
	second, err := resolveTags(db, []string{"SCI-FI"})
	if err != nil {
		t.Fatalf("resolveTags failed: %v", err)
	}
	if first[0].ID != second[0].ID {
		t.Errorf("Expected the same tag row for both spellings, got %s and %s", first[0].ID, second[0].ID)
	}
	if second[0].Name != "Sci-Fi" {
		t.Errorf("Expected the first spelling to stick, got %q", second[0].Name)
	}
}
