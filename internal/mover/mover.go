// Package mover implements the output materialization stage (§4.7):
// strategy-dispatched placement of every Media Entity under an output tree,
// with a date-division directory layout and a name-collision suffix policy.
// Path-generation shape (year/month/day directory, collision counter)
// follows cacack-sortpics-go's pathgen.PathGenerator and rename.go; the
// semaphore-bounded batch pool generalizes a per-entity worker-count idiom
// from upload concurrency to filesystem concurrency.
package mover

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/shaankhosla/gphotosreconcile/internal/assets"
	"github.com/shaankhosla/gphotosreconcile/internal/events"
	"github.com/shaankhosla/gphotosreconcile/internal/progress"
)

// AlbumBehavior mirrors internal/config.AlbumBehavior without importing it,
// keeping this package free of a config dependency; the pipeline driver
// converts its config value to this type at the call site.
type AlbumBehavior string

const (
	Shortcut        AlbumBehavior = "shortcut"
	ReverseShortcut AlbumBehavior = "reverse-shortcut"
	DuplicateCopy   AlbumBehavior = "duplicate-copy"
	JSON            AlbumBehavior = "json"
	Nothing         AlbumBehavior = "nothing"
)

// DateDivision mirrors internal/config.DateDivision.
type DateDivision int

const (
	DivisionNone DateDivision = iota
	DivisionYear
	DivisionMonth
	DivisionDay
)

// Options configures one Move call.
type Options struct {
	OutputRoot          string
	Behavior            AlbumBehavior
	Division            DateDivision
	DividePartnerShared bool
	MaxConcurrency      int
	BatchSize           int
	Progress            progress.Sink // ticked once per moved entity; nil means silent
}

// Summary tallies the outcome of a Move call, per §4.7's failure semantics:
// a failed file operation logs and continues, and the driver reports up to
// five errors then "... and N more".
type Summary struct {
	Moved  int
	Failed int
	Errors []string
}

const maxReportedMoveErrors = 5

// Move materializes col under opts.OutputRoot per the selected album
// strategy, processing entities in semaphore-bounded concurrent batches.
func Move(ctx context.Context, col *assets.Collection, opts Options, rec *events.Recorder) Summary {
	items := col.Items()
	maxConcurrency := opts.MaxConcurrency
	if maxConcurrency < 1 {
		maxConcurrency = 10
	}
	batchSize := opts.BatchSize
	if batchSize < 1 {
		batchSize = 100
	}
	prog := opts.Progress
	if prog == nil {
		prog = progress.NoOp{}
	}

	var (
		mu      sync.Mutex
		summary Summary
	)
	record := func(err error, path string) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			summary.Failed++
			if len(summary.Errors) < maxReportedMoveErrors {
				summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %v", path, err))
			}
			if rec != nil {
				rec.Record(ctx, events.MoveFailed, path, err.Error())
			}
			return
		}
		summary.Moved++
		prog.Add(1)
		if rec != nil {
			rec.Record(ctx, events.Moved, path, "")
		}
	}

	for start := 0; start < len(items); start += batchSize {
		end := start + batchSize
		if end > len(items) {
			end = len(items)
		}
		batch := items[start:end]

		var wg sync.WaitGroup
		sem := make(chan struct{}, maxConcurrency)
		for _, a := range batch {
			select {
			case <-ctx.Done():
				return summary
			default:
			}
			if opts.Behavior == Nothing {
				if _, ok := a.Files[assets.None]; !ok {
					continue // album-only entity: dropped, counted neither as moved nor failed
				}
			}
			wg.Add(1)
			sem <- struct{}{}
			go func(a *assets.Asset) {
				defer wg.Done()
				defer func() { <-sem }()
				err := moveOne(a, opts)
				path, _ := a.CanonicalPath()
				record(err, path)
			}(a)
		}
		wg.Wait()
	}

	return summary
}

// IoError wraps a failure in the underlying filesystem operation (rename,
// copy, symlink, mkdir) a move strategy attempted, per §7. moveOne is the
// single seam every strategy funnels through, so it is wrapped there rather
// than at each relocate/copyFile/symlinkRelative call site.
type IoError struct {
	Path string
	Err  error
}

func (e *IoError) Error() string { return fmt.Sprintf("mover: %s: %v", e.Path, e.Err) }
func (e *IoError) Unwrap() error { return e.Err }

func moveOne(a *assets.Asset, opts Options) error {
	if err := dispatchMove(a, opts); err != nil {
		path, _ := a.CanonicalPath()
		return &IoError{Path: path, Err: err}
	}
	return nil
}

func dispatchMove(a *assets.Asset, opts Options) error {
	switch opts.Behavior {
	case Shortcut:
		return moveShortcut(a, opts)
	case ReverseShortcut:
		return moveReverseShortcut(a, opts)
	case DuplicateCopy:
		return moveDuplicateCopy(a, opts)
	case JSON:
		return moveJSONStrategy(a, opts)
	case Nothing:
		return moveNothing(a, opts)
	default:
		return fmt.Errorf("mover: unknown album behavior %q", opts.Behavior)
	}
}

// datePath derives <date-path> per §4.7's division rule, substituting the
// UNKNOWN_* placeholders at the matching depth when no date was recovered.
func datePath(a *assets.Asset, division DateDivision) string {
	if division == DivisionNone {
		return ""
	}
	if a.DateTaken == nil {
		switch division {
		case DivisionYear:
			return "UNKNOWN_DATE"
		case DivisionMonth:
			return filepath.Join("UNKNOWN_DATE", "UNKNOWN_MONTH")
		default:
			return filepath.Join("UNKNOWN_DATE", "UNKNOWN_MONTH", "UNKNOWN_DAY")
		}
	}
	t := a.DateTaken.Time
	switch division {
	case DivisionYear:
		return fmt.Sprintf("%04d", t.Year())
	case DivisionMonth:
		return filepath.Join(fmt.Sprintf("%04d", t.Year()), fmt.Sprintf("%02d", int(t.Month())))
	default:
		return filepath.Join(fmt.Sprintf("%04d", t.Year()), fmt.Sprintf("%02d", int(t.Month())), fmt.Sprintf("%02d", t.Day()))
	}
}

func rootFor(a *assets.Asset, opts Options) string {
	if opts.DividePartnerShared && a.PartnerShare {
		return filepath.Join(opts.OutputRoot, "PARTNER_SHARED")
	}
	return opts.OutputRoot
}

// resolveCollision appends " (1)", " (2)", ... before the final extension
// until the target path is free, per §4.7's name-collision policy. Callers
// must go through placeInDir rather than calling this directly: two
// goroutines racing resolveCollision against the same directory can both
// observe the same free name before either writes it.
func resolveCollision(path string) string {
	if _, err := os.Stat(path); err != nil {
		return path
	}
	ext := filepath.Ext(path)
	base := path[:len(path)-len(ext)]
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s (%d)%s", base, n, ext)
		if _, err := os.Stat(candidate); err != nil {
			return candidate
		}
	}
}

// dirLocks holds one *sync.Mutex per output directory ever targeted by a
// move, giving §5's "collision resolution is single-threaded per target
// directory" requirement an actual lock rather than relying on goroutine
// scheduling luck.
var dirLocks sync.Map // map[string]*sync.Mutex

func lockFor(dir string) *sync.Mutex {
	v, _ := dirLocks.LoadOrStore(dir, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// placeInDir resolves a collision-free path for base inside dir and runs
// place against it, holding dir's mutex across both steps so no other
// goroutine can pick the same free name before place has written it.
func placeInDir(dir, base string, place func(dst string) error) (string, error) {
	mu := lockFor(dir)
	mu.Lock()
	defer mu.Unlock()
	dst := resolveCollision(filepath.Join(dir, base))
	if err := place(dst); err != nil {
		return "", err
	}
	return dst, nil
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

func symlinkRelative(target, linkPath string) error {
	if err := os.MkdirAll(filepath.Dir(linkPath), 0o755); err != nil {
		return err
	}
	rel, err := filepath.Rel(filepath.Dir(linkPath), target)
	if err != nil {
		rel = target
	}
	return os.Symlink(rel, linkPath)
}

// sortedAlbums is the album-target enumeration shared by the shortcut,
// reverse-shortcut and duplicate-copy strategies; WriteManifest calls
// assets.Asset.Albums directly.
func sortedAlbums(a *assets.Asset) []string {
	albums := a.Albums()
	sort.Strings(albums)
	return albums
}
