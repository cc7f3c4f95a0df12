package sidecar

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFindSidecarBracketSwap(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "image.jpg(11).json"))
	p, ok := FindSidecar(filepath.Join(dir, "image(11).jpg"), false)
	if !ok {
		t.Fatal("expected bracket-swap match")
	}
	if filepath.Base(p) != "image.jpg(11).json" {
		t.Errorf("got %q", p)
	}
}

func TestFindSidecarIdentity(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "a.jpg.json"))
	p, ok := FindSidecar(filepath.Join(dir, "a.jpg"), false)
	if !ok || filepath.Base(p) != "a.jpg.json" {
		t.Errorf("expected identity match, got %q %v", p, ok)
	}
}

func TestFindSidecarSupplementalMetadata(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "a.jpg.supplemental-metadata.json"))
	p, ok := FindSidecar(filepath.Join(dir, "a.jpg"), false)
	if !ok || filepath.Base(p) != "a.jpg.supplemental-metadata.json" {
		t.Errorf("expected supplemental-metadata match, got %q %v", p, ok)
	}
}

func TestFindSidecarExtensionFixingReverse(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "IMG_2367.HEIC.supplemental-metadata(1).json"))
	p, ok := FindSidecar(filepath.Join(dir, "IMG_2367(1).jpg.heic"), false)
	if !ok {
		t.Fatal("expected extension-fixing-reverse match")
	}
	if filepath.Base(p) != "IMG_2367.HEIC.supplemental-metadata(1).json" {
		t.Errorf("got %q", p)
	}
}

func TestFindSidecarCaseInsensitiveScan(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "A.JPG.JSON"))
	p, ok := FindSidecar(filepath.Join(dir, "a.jpg"), false)
	if !ok || filepath.Base(p) != "A.JPG.JSON" {
		t.Errorf("expected case-insensitive scan match, got %q %v", p, ok)
	}
}

func TestFindSidecarTryHardIsSuperset(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "IMG_1234.jpg.json"))
	// "-edi" is a truncated prefix of "-edited"; only try_hard finds it.
	_, ok := FindSidecar(filepath.Join(dir, "IMG_1234-edi.jpg"), false)
	if ok {
		t.Fatal("expected no match without try_hard")
	}
	p, ok := FindSidecar(filepath.Join(dir, "IMG_1234-edi.jpg"), true)
	if !ok || filepath.Base(p) != "IMG_1234.jpg.json" {
		t.Errorf("expected try_hard partial-suffix match, got %q %v", p, ok)
	}
}

func TestFindSidecarNoMatch(t *testing.T) {
	dir := t.TempDir()
	_, ok := FindSidecar(filepath.Join(dir, "orphan.jpg"), true)
	if ok {
		t.Fatal("expected no sidecar for orphan file")
	}
}

func TestShorteningBoundary(t *testing.T) {
	base51 := make([]byte, 46)
	for i := range base51 {
		base51[i] = 'a'
	}
	name51 := string(base51) // 46 + ".json"(5) == 51, must not trigger
	if _, ok := shorteningTransform(name51); ok {
		t.Errorf("expected no shortening at exactly 51 combined length")
	}

	base52 := make([]byte, 47)
	for i := range base52 {
		base52[i] = 'a'
	}
	name52 := string(base52) // 47 + 5 == 52, must trigger
	candidate, ok := shorteningTransform(name52)
	if !ok {
		t.Fatal("expected shortening to trigger at combined length 52")
	}
	if len(candidate) != 46 {
		t.Errorf("expected truncated length 46, got %d", len(candidate))
	}
}

func TestDigitRemovalSingleDigitOnly(t *testing.T) {
	got, ok := digitRemovalTransform("image(2).png")
	if !ok || got != "image.png" {
		t.Errorf("expected image.png, got %q %v", got, ok)
	}
	_, ok = digitRemovalTransform("image(23).png")
	if ok {
		t.Error("expected multi-digit parens to be left alone")
	}
}

func TestFindSidecarIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "a.jpg.json"))
	media := filepath.Join(dir, "a.jpg")
	p1, ok1 := FindSidecar(media, false)
	p2, ok2 := FindSidecar(media, false)
	if ok1 != ok2 || p1 != p2 {
		t.Errorf("expected idempotent result, got (%q,%v) then (%q,%v)", p1, ok1, p2, ok2)
	}
}
