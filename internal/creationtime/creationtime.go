// Package creationtime implements stage 8 (§4.8): an optional,
// platform-gated sync of each Media Entity's filesystem creation time to
// its recovered date_taken. It exposes a narrow collaborator interface, with
// a real implementation only where the platform exposes one (Windows) and a
// no-op everywhere else, split across build-tagged files per platform.
package creationtime

import (
	"context"
	"fmt"

	"github.com/shaankhosla/gphotosreconcile/internal/assets"
	"github.com/shaankhosla/gphotosreconcile/internal/events"
)

// ErrPlatformUnsupported is returned by setCreationTime on platforms with no
// creation-time API exposed to this package (§7 PlatformUnsupported: logged
// at info, the stage no-ops rather than failing the run).
var ErrPlatformUnsupported = fmt.Errorf("creationtime: not supported on this platform")

// SyncAll sets every entity's canonical file's creation time to its
// DateTaken, skipping entities with no recovered date. It returns the
// number of files actually updated. If the platform exposes no
// creation-time API, it logs once via events.CreationTimeUnsupported and
// returns ErrPlatformUnsupported without touching any file, so a caller can
// surface the §7 PlatformUnsupported info-level message and move on rather
// than repeating the same failure per file.
func SyncAll(ctx context.Context, col *assets.Collection, rec *events.Recorder) (int, error) {
	if !supported {
		rec.Record(ctx, events.CreationTimeUnsupported, "", ErrPlatformUnsupported.Error())
		return 0, ErrPlatformUnsupported
	}

	updated := 0
	for _, a := range col.Items() {
		select {
		case <-ctx.Done():
			return updated, ctx.Err()
		default:
		}
		if a.DateTaken == nil {
			continue
		}
		path, ok := a.CanonicalPath()
		if !ok {
			continue
		}
		if err := setCreationTime(path, a.DateTaken.Time); err != nil {
			rec.Record(ctx, events.Error, path, err.Error())
			continue
		}
		updated++
		rec.Record(ctx, events.CreationTimeUpdated, path, "")
	}
	return updated, nil
}
