// Package pipeline implements the 8-stage driver (§4, §4.8): extension
// correction, discovery, deduplication, date extraction, metadata write,
// album detection, moving, and the optional creation-time sync, threaded
// through one config.Config and reporting every outcome through an
// events.Recorder. Run sequences a fixed list of stages behind one context
// and returns an aggregate error on the way out.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shaankhosla/gphotosreconcile/internal/album"
	"github.com/shaankhosla/gphotosreconcile/internal/assets"
	"github.com/shaankhosla/gphotosreconcile/internal/burstgroup"
	"github.com/shaankhosla/gphotosreconcile/internal/config"
	"github.com/shaankhosla/gphotosreconcile/internal/creationtime"
	"github.com/shaankhosla/gphotosreconcile/internal/dateextract"
	"github.com/shaankhosla/gphotosreconcile/internal/dedup"
	"github.com/shaankhosla/gphotosreconcile/internal/discover"
	"github.com/shaankhosla/gphotosreconcile/internal/events"
	"github.com/shaankhosla/gphotosreconcile/internal/extfix"
	"github.com/shaankhosla/gphotosreconcile/internal/filenames"
	"github.com/shaankhosla/gphotosreconcile/internal/metawrite"
	"github.com/shaankhosla/gphotosreconcile/internal/mover"
	"github.com/shaankhosla/gphotosreconcile/internal/progress"
	"github.com/shaankhosla/gphotosreconcile/internal/sidecar"
)

// Summary is the Result Builder of §4.8: the aggregate counts and error
// lines the CLI layer prints once the run completes.
type Summary struct {
	ExtensionsFixed   int
	Discovered        int
	DuplicatesRemoved int
	DatesExtracted    int
	ExifWritten       int
	AlbumsAttached    int
	Moved             int
	MoveFailed        int
	CreationTimeSet   int
	BurstFramesTagged int
	Errors            []string
}

// Run executes every stage in order, gated by cfg's flags, and returns the
// final Summary. It never calls os.Exit; the CLI layer maps the returned
// error to an exit code.
func Run(ctx context.Context, cfg *config.Config, log *slog.Logger, rec *events.Recorder) (Summary, error) {
	var summary Summary

	// Stage 1: extension correction. Runs before discovery so the walk sees
	// corrected names; solo mode stops here (§4.4, §6).
	if cfg.ExtensionFix != config.FixNone {
		skipJPEG := cfg.ExtensionFix == config.FixConservative
		results, err := extfix.FixExtensions(cfg.InputPath, skipJPEG)
		if err != nil {
			return summary, fmt.Errorf("pipeline: extension correction: %w", err)
		}
		summary.ExtensionsFixed = extfix.CountFixed(results)
		for _, r := range results {
			if r.Fixed {
				rec.Record(ctx, events.ExtensionFixed, r.NewPath, r.Reason)
			}
		}
		log.Info("extension correction complete", "fixed", summary.ExtensionsFixed, "considered", len(results))
		if cfg.IsSolo() {
			return summary, nil
		}
	}

	// Stage 2: discovery.
	sm := filenames.DefaultSupportedMedia
	entries, err := discover.Walk(cfg.InputPath, sm)
	if err != nil {
		return summary, fmt.Errorf("pipeline: discovery: %w", err)
	}
	col := discover.BuildAssets(entries)
	summary.Discovered = col.Len()
	log.Info("discovery complete", "entities", summary.Discovered)

	listing := buildAlbumListing(entries)

	// Stage 3: deduplication.
	var dedupProgress progress.Sink = progress.NoOp{}
	if !cfg.Verbose {
		// a rendered bar only makes sense attached to an interactive
		// terminal; verbose runs already emit a log line per outcome.
		dedupProgress = progress.NewBar(col.Len(), "dedup")
	}
	removed, err := dedup.Dedupe(ctx, col, cfg.LimitFileSize, cfg.MaxConcurrency, dedupProgress)
	if err != nil {
		return summary, fmt.Errorf("pipeline: dedup: %w", err)
	}
	summary.DuplicatesRemoved = removed
	for i := 0; i < removed; i++ {
		rec.Record(ctx, events.DuplicateRemoved, "", "")
	}
	log.Info("dedup complete", "removed", removed, "remaining", col.Len())

	// Stage 4: date extraction, plus the GPS/partner-share sidecar read that
	// rides along with it since both come from the same JSON parse.
	chain := dateextract.New(cfg.GuessFromName)
	for _, a := range col.Items() {
		path, ok := a.CanonicalPath()
		if !ok {
			continue
		}
		if res, ok := chain.Extract(ctx, path); ok {
			a.DateTaken = &assets.DateStamp{Time: res.Time, Tier: res.Tier}
			summary.DatesExtracted++
			rec.Record(ctx, events.DateExtracted, path, res.Tier.String())
		} else {
			rec.Record(ctx, events.Discarded, path, "no date source matched")
		}
		applySidecarMetadata(a, path)
	}
	log.Info("date extraction complete", "extracted", summary.DatesExtracted, "total", col.Len())

	summary.BurstFramesTagged = burstgroup.Detect(col, filenames.NewInfoCollector())
	log.Info("burst grouping complete", "tagged", summary.BurstFramesTagged)

	// Stage 5: metadata write (optional).
	if cfg.WriteExif {
		n, err := writeMetadata(ctx, col, cfg.LimitFileSize, rec, log)
		if err != nil {
			return summary, fmt.Errorf("pipeline: metadata write: %w", err)
		}
		summary.ExifWritten = n
	}

	// Stage 6: album detection, attaching any label dedup's hash-merge missed.
	album.Resolve(col, listing)
	if cfg.AlbumBehavior == config.AlbumNothing {
		album.EnforceNothingConflictRule(col)
	}
	summary.AlbumsAttached = countAlbumMemberships(col)
	log.Info("album resolution complete", "memberships", summary.AlbumsAttached)

	// `nothing` mode silently drops any entity that exists only under an
	// album or special folder label, since moveNothing only ever
	// materializes the None entry. Warn once rather than aborting: this data
	// loss is intentional, but the user should still be told about it.
	if cfg.AlbumBehavior == config.AlbumNothing {
		if n := countSpecialOnlyEntities(col); n > 0 {
			log.Warn("albums=nothing will drop files that exist only in album or special folders (e.g. Archive/Trash)", "count", n)
		}
	}

	// Stage 7: moving.
	var moveProgress progress.Sink = progress.NoOp{}
	if !cfg.Verbose {
		moveProgress = progress.NewBar(col.Len(), "move")
	}
	moveOpts := mover.Options{
		OutputRoot:          cfg.OutputPath,
		Behavior:            toMoverBehavior(cfg.AlbumBehavior),
		Division:            toMoverDivision(cfg.DateDivision),
		DividePartnerShared: cfg.DividePartnerShared,
		MaxConcurrency:      cfg.MaxConcurrency,
		BatchSize:           cfg.BatchSize,
		Progress:            moveProgress,
	}
	moveSummary := mover.Move(ctx, col, moveOpts, rec)
	summary.Moved = moveSummary.Moved
	summary.MoveFailed = moveSummary.Failed
	// move failures reach summary.Errors through rec.ErrorLines below.
	if cfg.AlbumBehavior == config.AlbumJSON {
		if err := mover.WriteManifest(col, cfg.OutputPath, rec.RunID()); err != nil {
			return summary, fmt.Errorf("pipeline: writing manifest: %w", err)
		}
	}
	log.Info("move complete", "moved", summary.Moved, "failed", summary.MoveFailed)

	// Stage 8: creation-time sync (optional, platform-gated).
	if cfg.UpdateCreationTime {
		n, err := creationtime.SyncAll(ctx, col, rec)
		if err == creationtime.ErrPlatformUnsupported {
			log.Info("creation-time sync unavailable", "error", err)
		} else if err != nil {
			log.Warn("creation-time sync unavailable", "error", err)
		}
		summary.CreationTimeSet = n
	}

	summary.Errors = append(summary.Errors, rec.ErrorLines()...)
	return summary, nil
}

// buildAlbumListing mirrors discover's per-directory classification into an
// album.Listing keyed by basename, the shape album.Resolve expects.
func buildAlbumListing(entries []discover.Entry) album.Listing {
	listing := album.NewListing()
	for _, e := range entries {
		if e.IsSidecar || e.AlbumName == "" {
			continue
		}
		listing.Add(e.AlbumName, filepath.Base(e.Path))
	}
	return listing
}

// applySidecarMetadata looks up the best-match sidecar (non-try-hard first,
// falling back to try-hard) independently of the date chain's own JSON
// extractors, since GPS/partner-share data may be present even when the
// chain picked a later tier for the timestamp itself.
func applySidecarMetadata(a *assets.Asset, path string) {
	sidecarPath, ok := sidecar.FindSidecar(path, false)
	if !ok {
		sidecarPath, ok = sidecar.FindSidecar(path, true)
	}
	if !ok {
		return
	}
	rec, err := sidecar.Parse(sidecarPath)
	if err != nil {
		return
	}
	if lat, lon, ok := rec.Coordinates(); ok {
		a.Coordinates = &assets.Coordinates{Latitude: lat, Longitude: lon}
	}
	a.PartnerShare = rec.IsPartnerShared()
}

func writeMetadata(ctx context.Context, col *assets.Collection, limitFileSize bool, rec *events.Recorder, log *slog.Logger) (int, error) {
	writer, err := metawrite.NewExiftoolWriter()
	if err != nil {
		log.Warn("exiftool unavailable, skipping metadata write", "error", err)
		return 0, nil
	}
	defer writer.Close()

	written := 0
	for _, a := range col.Items() {
		path, ok := a.CanonicalPath()
		if !ok {
			continue
		}
		select {
		case <-ctx.Done():
			return written, ctx.Err()
		default:
		}
		if limitFileSize {
			if info, err := os.Stat(path); err == nil && info.Size() > config.LimitFileSizeBytes {
				continue
			}
		}
		if a.DateTaken != nil {
			if ok, err := writer.WriteDateTime(path, a.DateTaken.Time); err != nil {
				rec.Record(ctx, events.Error, path, err.Error())
			} else if ok {
				written++
				rec.Record(ctx, events.ExifDateTimeWritten, path, "")
			}
		}
		if a.Coordinates != nil {
			if ok, err := writer.WriteGPS(path, *a.Coordinates); err != nil {
				rec.Record(ctx, events.Error, path, err.Error())
			} else if ok {
				rec.Record(ctx, events.ExifGPSWritten, path, "")
			}
		}
	}
	return written, nil
}

// countSpecialOnlyEntities reports how many entities moveNothing will drop:
// those whose only Files entry is an album label, rather than the None
// sentinel (album-only entities never acquire a None entry, since discovery
// keys special-folder and regular album files the same way; see
// discover.BuildAssets).
func countSpecialOnlyEntities(col *assets.Collection) int {
	n := 0
	for _, a := range col.Items() {
		if _, ok := a.Files[assets.None]; !ok {
			n++
		}
	}
	return n
}

func countAlbumMemberships(col *assets.Collection) int {
	n := 0
	for _, a := range col.Items() {
		n += len(a.Albums())
	}
	return n
}

func toMoverBehavior(b config.AlbumBehavior) mover.AlbumBehavior {
	switch b {
	case config.AlbumShortcut:
		return mover.Shortcut
	case config.AlbumReverseShortcut:
		return mover.ReverseShortcut
	case config.AlbumDuplicateCopy:
		return mover.DuplicateCopy
	case config.AlbumJSON:
		return mover.JSON
	default:
		return mover.Nothing
	}
}

func toMoverDivision(d config.DateDivision) mover.DateDivision {
	switch d {
	case config.DivideYear:
		return mover.DivisionYear
	case config.DivideMonth:
		return mover.DivisionMonth
	case config.DivideDay:
		return mover.DivisionDay
	default:
		return mover.DivisionNone
	}
}
