// Package logging sets up the process-wide structured logger: a single
// *slog.Logger built around a humane handler rather than a hand-rolled
// logging abstraction.
package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/telemachus/humane"
)

// New builds a slog.Logger writing to w (os.Stderr in production, a buffer
// in tests) at Info level; verbose lowers the floor to Debug, matching the
// CLI's --verbose flag (§6).
func New(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	h := humane.NewHandler(w, &humane.Options{Level: level})
	return slog.New(h)
}

// NewDefault builds the production logger writing to stderr.
func NewDefault(verbose bool) *slog.Logger {
	return New(os.Stderr, verbose)
}
