package dateextract

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shaankhosla/gphotosreconcile/internal/assets"
)

func TestChainPrefersJSONOverFolderYear(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Photos from 2016")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	mediaPath := filepath.Join(dir, "a.jpg")
	if err := os.WriteFile(mediaPath, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(mediaPath+".json", []byte(`{"photoTakenTime":{"timestamp":"1000000000"}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(false)
	res, ok := c.Extract(context.Background(), mediaPath)
	if !ok {
		t.Fatal("expected a match")
	}
	if res.Tier != assets.TierJSON {
		t.Errorf("expected TierJSON, got %v", res.Tier)
	}
	want := time.Unix(1000000000, 0).UTC()
	if !res.Time.Equal(want) {
		t.Errorf("expected %v, got %v", want, res.Time)
	}
}

func TestChainFallsBackToFolderYear(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Photos from 2016")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	mediaPath := filepath.Join(dir, "orphan.jpg")
	if err := os.WriteFile(mediaPath, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(false)
	res, ok := c.Extract(context.Background(), mediaPath)
	if !ok {
		t.Fatal("expected folder-year fallback to match")
	}
	if res.Tier != assets.TierFolderYear {
		t.Errorf("expected TierFolderYear, got %v", res.Tier)
	}
	if res.Time.Year() != 2016 {
		t.Errorf("expected year 2016, got %d", res.Time.Year())
	}
}

func TestChainRejectsOutOfRangeFolderYear(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Photos from 2999")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	mediaPath := filepath.Join(dir, "orphan.jpg")
	if err := os.WriteFile(mediaPath, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(false)
	_, ok := c.Extract(context.Background(), mediaPath)
	if ok {
		t.Fatal("expected no match for an implausible folder year")
	}
}

func TestChainGuessFromNameGatedByConfig(t *testing.T) {
	dir := t.TempDir()
	mediaPath := filepath.Join(dir, "PXL_20231026_210642603.dng")
	if err := os.WriteFile(mediaPath, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	without := New(false)
	if _, ok := without.Extract(context.Background(), mediaPath); ok {
		t.Fatal("expected no match with guess-from-name disabled and no other source")
	}

	with := New(true)
	res, ok := with.Extract(context.Background(), mediaPath)
	if !ok {
		t.Fatal("expected guess-from-name to match")
	}
	if res.Tier != assets.TierGuessName {
		t.Errorf("expected TierGuessName, got %v", res.Tier)
	}
}
