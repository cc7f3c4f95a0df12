package assets

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMergeFromKeepsSurvivorPaths(t *testing.T) {
	tests := []struct {
		name     string
		survivor map[string]string
		loser    map[string]string
		expect   map[string]string
	}{
		{
			name:     "disjoint albums merge",
			survivor: map[string]string{None: "/lib/a.jpg"},
			loser:    map[string]string{"Vacation": "/in/Vacation/a.jpg"},
			expect:   map[string]string{None: "/lib/a.jpg", "Vacation": "/in/Vacation/a.jpg"},
		},
		{
			name:     "survivor label wins on conflict",
			survivor: map[string]string{"Trip": "/lib/trip/a.jpg"},
			loser:    map[string]string{"Trip": "/in/Trip2/a.jpg"},
			expect:   map[string]string{"Trip": "/lib/trip/a.jpg"},
		},
		{
			name:     "loser supplies missing None",
			survivor: map[string]string{"Trip": "/lib/trip/a.jpg"},
			loser:    map[string]string{None: "/in/all/a.jpg"},
			expect:   map[string]string{"Trip": "/lib/trip/a.jpg", None: "/in/all/a.jpg"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Asset{Files: tt.survivor}
			b := &Asset{Files: tt.loser}
			a.MergeFrom(b)
			if len(a.Files) != len(tt.expect) {
				t.Fatalf("expected %d entries, got %d (%v)", len(tt.expect), len(a.Files), a.Files)
			}
			for label, path := range tt.expect {
				if a.Files[label] != path {
					t.Errorf("label %q: expected %q, got %q", label, path, a.Files[label])
				}
			}
		})
	}
}

func TestHashIsCachedAndStreamed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.jpg")
	if err := os.WriteFile(path, []byte("same bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	a := New(path)
	h1, err := a.Hash()
	if err != nil {
		t.Fatal(err)
	}
	if h1 == "" {
		t.Fatal("expected non-empty hash")
	}
	// mutate the file; cached hash must not change since Hash() memoizes.
	if err := os.WriteFile(path, []byte("different bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	h2, err := a.Hash()
	if err != nil {
		t.Fatal(err)
	}
	if h1 != h2 {
		t.Errorf("expected cached hash to survive file mutation: %q != %q", h1, h2)
	}
}

func TestCanonicalPathFallsBackToAlbumEntry(t *testing.T) {
	a := &Asset{Files: map[string]string{"Vacation": "/in/Vacation/a.jpg"}}
	p, ok := a.CanonicalPath()
	if !ok || p != "/in/Vacation/a.jpg" {
		t.Errorf("expected fallback to album-only entry, got %q, %v", p, ok)
	}
}

func TestAlbumsExcludesNoneAndSorts(t *testing.T) {
	a := &Asset{Files: map[string]string{None: "/lib/a.jpg", "Z": "z", "A": "a"}}
	got := a.Albums()
	if len(got) != 2 || got[0] != "A" || got[1] != "Z" {
		t.Errorf("expected [A Z], got %v", got)
	}
}
