// Package album implements the album resolver (§4.5): after dedup, scan
// each entity's canonical file against the album-folder listings collected
// by discover, attaching any label dedup's content-hash grouping missed,
// e.g. a file physically copied into an album folder and re-encoded by some
// other tool, so it hashes differently from its ALL_PHOTOS counterpart.
// Album membership is tracked as a label set alongside the entity's
// canonical entry, the same shape as assets.Asset.Files.
package album

import (
	"path/filepath"

	"github.com/shaankhosla/gphotosreconcile/internal/assets"
)

// Listing maps an album label to the set of file basenames (not full
// paths; matching happens by name, since dedup has already merged
// byte-identical content) discover observed under that album's directory.
type Listing map[string]map[string]bool

// NewListing builds a Listing from discover.Entry-shaped data: the caller
// supplies, for each album-classified file, its label and basename.
func NewListing() Listing {
	return Listing{}
}

// Add records that basename appeared under label during discovery.
func (l Listing) Add(label, basename string) {
	if l[label] == nil {
		l[label] = map[string]bool{}
	}
	l[label][basename] = true
}

// Resolve attaches any label from listing that entity's canonical file's
// basename is known to belong to, but which is not already present in its
// Files map (per §4.5's conflict rule, this never touches the None entry).
func Resolve(col *assets.Collection, listing Listing) {
	for _, a := range col.Items() {
		path, ok := a.CanonicalPath()
		if !ok {
			continue
		}
		base := filepath.Base(path)
		for label, basenames := range listing {
			if _, already := a.Files[label]; already {
				continue
			}
			if basenames[base] {
				a.Files[label] = path
			}
		}
	}
}

// EnforceNothingConflictRule applies §4.5's conflict rule for the `nothing`
// album behavior: moveNothing only ever materializes an entity's None entry,
// so any album-label entries alongside it are redundant for that strategy
// and are stripped here. An entity with no None entry at all (an album-only
// member dedup never merged against a plain-folder copy) is left untouched;
// moveNothing drops it by doing nothing, the sole data loss `nothing` mode
// sanctions.
func EnforceNothingConflictRule(col *assets.Collection) {
	for _, a := range col.Items() {
		if _, hasNone := a.Files[assets.None]; !hasNone {
			continue
		}
		for _, label := range a.Albums() {
			delete(a.Files, label)
		}
	}
}
