package discover

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shaankhosla/gphotosreconcile/internal/filenames"
)

func mkfile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestClassifyFolder(t *testing.T) {
	cases := []struct {
		name     string
		hasMedia bool
		want     FolderKind
	}{
		{"Photos from 2016", false, KindYear},
		{"Photos from 2101", true, KindAlbum}, // decade prefix outside {18,19,20} is not a year folder; with media it is an album
		{"Archive", false, KindSpecial},
		{"Trash", true, KindSpecial},
		{"Birthday Party", true, KindAlbum},
		{"Birthday Party", false, KindOther},
		{"random", false, KindOther},
	}
	for _, tc := range cases {
		got := ClassifyFolder(tc.name, tc.hasMedia)
		if got != tc.want {
			t.Errorf("%q (hasMedia=%v): expected %v, got %v", tc.name, tc.hasMedia, tc.want, got)
		}
	}
}

func TestWalkAndBuildAssets(t *testing.T) {
	root := t.TempDir()
	mkfile(t, filepath.Join(root, "Photos from 2016", "a.jpg"))
	mkfile(t, filepath.Join(root, "Photos from 2016", "a.jpg.json"))
	mkfile(t, filepath.Join(root, "Birthday Party", "b.jpg"))
	mkfile(t, filepath.Join(root, "Archive", "c.jpg"))
	mkfile(t, filepath.Join(root, "empty-notes", "readme.txt"))

	entries, err := Walk(root, filenames.DefaultSupportedMedia)
	if err != nil {
		t.Fatal(err)
	}

	col := BuildAssets(entries)
	if col.Len() != 3 {
		t.Fatalf("expected 3 assets (sidecar and txt excluded), got %d", col.Len())
	}

	var sawAlbum, sawSpecial, sawNone bool
	for _, a := range col.Items() {
		if _, ok := a.Files["Birthday Party"]; ok {
			sawAlbum = true
		}
		if _, ok := a.Files["Archive"]; ok {
			sawSpecial = true
		}
		if _, ok := a.Files[""]; ok {
			sawNone = true
		}
	}
	if !sawAlbum || !sawSpecial || !sawNone {
		t.Errorf("expected album, special, and canonical entries; got album=%v special=%v none=%v", sawAlbum, sawSpecial, sawNone)
	}
}
