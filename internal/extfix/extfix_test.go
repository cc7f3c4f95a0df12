package extfix

import (
	"os"
	"path/filepath"
	"testing"
)

// a minimal valid JPEG: SOI + APP0 JFIF header + EOI.
var jpegBytes = []byte{
	0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00,
	0x01, 0x01, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00,
	0xFF, 0xD9,
}

func TestFixExtensionsRenamesMisnamedJPEG(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "photo.png")
	if err := os.WriteFile(path, jpegBytes, 0o644); err != nil {
		t.Fatal(err)
	}

	results, err := FixExtensions(dir, false)
	if err != nil {
		t.Fatal(err)
	}
	if CountFixed(results) != 1 {
		t.Fatalf("expected exactly one fix, got %d", CountFixed(results))
	}

	want := path + ".jpg"
	if _, err := os.Stat(want); err != nil {
		t.Errorf("expected %s to exist: %v", want, err)
	}
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected original %s to be gone", path)
	}
}

func TestFixExtensionsSkipsAlreadyCorrect(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "photo.jpg")
	if err := os.WriteFile(path, jpegBytes, 0o644); err != nil {
		t.Fatal(err)
	}

	results, err := FixExtensions(dir, false)
	if err != nil {
		t.Fatal(err)
	}
	if CountFixed(results) != 0 {
		t.Fatalf("expected no fixes for an already-correct extension, got %d", CountFixed(results))
	}
}

func TestFixExtensionsSkipsExtraVariant(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "photo-edited.png")
	if err := os.WriteFile(path, jpegBytes, 0o644); err != nil {
		t.Fatal(err)
	}

	results, err := FixExtensions(dir, false)
	if err != nil {
		t.Fatal(err)
	}
	if CountFixed(results) != 0 {
		t.Fatalf("expected extra variant to be skipped, got %d fixes", CountFixed(results))
	}
}

func TestFixExtensionsRenamesSidecar(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "photo.png")
	if err := os.WriteFile(path, jpegBytes, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path+".json", []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := FixExtensions(dir, false); err != nil {
		t.Fatal(err)
	}

	want := path + ".jpg.json"
	if _, err := os.Stat(want); err != nil {
		t.Errorf("expected sidecar renamed to %s: %v", want, err)
	}
}
