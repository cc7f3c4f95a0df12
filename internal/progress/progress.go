// Package progress defines the ProgressSink collaborator: stages 3 and 7
// (dedup, mover) talk to this narrow interface rather than a concrete
// renderer. The default is a no-op; Bar swaps in schollz/progressbar/v3 for
// an interactive run.
package progress

import "github.com/schollz/progressbar/v3"

// Sink receives incremental progress ticks from a bounded-work stage.
type Sink interface {
	Add(n int)
}

// NoOp discards every tick; the pipeline uses it for --verbose runs, and
// tests pass it (or nil) for a silent run.
type NoOp struct{}

func (NoOp) Add(int) {}

// Bar wraps schollz/progressbar/v3 as a Sink.
type Bar struct {
	bar *progressbar.ProgressBar
}

// NewBar renders a determinate bar of the given total to stderr, labeled
// with name (e.g. "dedup", "move").
func NewBar(total int, name string) *Bar {
	return &Bar{bar: progressbar.Default(int64(total), name)}
}

func (b *Bar) Add(n int) {
	_ = b.bar.Add(n)
}
