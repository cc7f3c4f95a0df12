package creationtime

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shaankhosla/gphotosreconcile/internal/assets"
	"github.com/shaankhosla/gphotosreconcile/internal/events"
)

func newTestRecorder(t *testing.T) *events.Recorder {
	t.Helper()
	rec, err := events.NewRecorder(slog.New(slog.NewTextHandler(os.Stderr, nil)), "")
	if err != nil {
		t.Fatal(err)
	}
	return rec
}

func TestSyncAllReportsUnsupportedWithoutTouchingFiles(t *testing.T) {
	if supported {
		t.Skip("platform exposes a creation-time API; unsupported-path behavior does not apply")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "a.jpg")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	a := &assets.Asset{
		Files:     map[string]string{assets.None: path},
		DateTaken: &assets.DateStamp{Time: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	col := assets.NewCollection([]*assets.Asset{a})

	n, err := SyncAll(context.Background(), col, newTestRecorder(t))
	if err != ErrPlatformUnsupported {
		t.Fatalf("expected ErrPlatformUnsupported, got %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 files updated, got %d", n)
	}
}
