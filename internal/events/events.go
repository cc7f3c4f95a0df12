// Package events implements a concurrency-safe per-file outcome recorder:
// every stage reports what it did to one file, and the driver reads back
// aggregate counts for the final summary (§4.8, §7).
package events

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	_ "github.com/glebarez/go-sqlite"
)

// Code enumerates the kinds of per-file outcomes stages report.
type Code int

const (
	Info Code = iota
	Error
	ExtensionFixed
	SidecarMatched
	SidecarMissing
	DuplicateRemoved
	AlbumMerged
	DateExtracted
	ExifDateTimeWritten
	ExifGPSWritten
	Moved
	MoveFailed
	CreationTimeUpdated
	CreationTimeUnsupported
	Discarded
)

func (c Code) String() string {
	switch c {
	case Info:
		return "info"
	case Error:
		return "error"
	case ExtensionFixed:
		return "extension-fixed"
	case SidecarMatched:
		return "sidecar-matched"
	case SidecarMissing:
		return "sidecar-missing"
	case DuplicateRemoved:
		return "duplicate-removed"
	case AlbumMerged:
		return "album-merged"
	case DateExtracted:
		return "date-extracted"
	case ExifDateTimeWritten:
		return "exif-datetime-written"
	case ExifGPSWritten:
		return "exif-gps-written"
	case Moved:
		return "moved"
	case MoveFailed:
		return "move-failed"
	case CreationTimeUpdated:
		return "creation-time-updated"
	case CreationTimeUnsupported:
		return "creation-time-unsupported"
	case Discarded:
		return "discarded"
	default:
		return "unknown"
	}
}

// maxReportedErrors is how many individual error lines the final summary
// lists before collapsing the rest into "... and N more" (§4.7).
const maxReportedErrors = 5

// Recorder is the concurrency-safe sink every stage reports outcomes to.
// There is no per-entity lock contention: Record takes a single mutex held
// only long enough to update in-memory counters, matching §5's "no shared
// mutable state between in-flight tasks" save for this one aggregation
// point.
type Recorder struct {
	log   *slog.Logger
	runID string

	mu      sync.Mutex
	counts  map[Code]int
	errMsgs []string

	db *sql.DB
}

// NewRecorder builds a Recorder that logs through log, tagging every record
// with a fresh run identifier (google/uuid) so multiple runs logged to the
// same --report-db can be told apart. If dbPath is non-empty, outcomes are
// additionally persisted to an opt-in, durable SQLite database at that
// path.
func NewRecorder(log *slog.Logger, dbPath string) (*Recorder, error) {
	r := &Recorder{
		log:    log,
		runID:  uuid.New().String(),
		counts: make(map[Code]int),
	}
	if dbPath != "" {
		db, err := openReportDB(dbPath)
		if err != nil {
			return nil, err
		}
		r.db = db
	}
	return r, nil
}

// RunID returns the identifier stamped on every record this Recorder emits.
func (r *Recorder) RunID() string { return r.runID }

func openReportDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS file_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		code TEXT NOT NULL,
		path TEXT NOT NULL,
		message TEXT
	)`)
	if err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Record logs and counts one outcome for path.
func (r *Recorder) Record(ctx context.Context, code Code, path string, message string) {
	r.mu.Lock()
	r.counts[code]++
	if code == Error || code == MoveFailed {
		if len(r.errMsgs) < maxReportedErrors {
			r.errMsgs = append(r.errMsgs, fmt.Sprintf("%s: %s", path, message))
		}
	}
	r.mu.Unlock()

	level := slog.LevelInfo
	switch code {
	case Error, MoveFailed:
		level = slog.LevelError
	case SidecarMissing:
		level = slog.LevelDebug
	}
	r.log.Log(ctx, level, code.String(), "run_id", r.runID, "path", path, "message", message)

	if r.db != nil {
		_, _ = r.db.ExecContext(ctx, `INSERT INTO file_events (run_id, code, path, message) VALUES (?, ?, ?, ?)`, r.runID, code.String(), path, message)
	}
}

// Count returns the running total for a code.
func (r *Recorder) Count(code Code) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[code]
}

// ErrorLines returns up to maxReportedErrors formatted error lines plus a
// trailing "... and N more" line if more errors occurred, per §4.7's
// failure-summary contract.
func (r *Recorder) ErrorLines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := r.counts[Error] + r.counts[MoveFailed]
	lines := make([]string, len(r.errMsgs))
	copy(lines, r.errMsgs)
	if total > len(lines) {
		lines = append(lines, fmt.Sprintf("... and %d more", total-len(lines)))
	}
	return lines
}

// Close releases the optional database handle.
func (r *Recorder) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}
