package mover

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shaankhosla/gphotosreconcile/internal/assets"
)

// moveShortcut: canonical file lands under ALL_PHOTOS/<date-path>/<name>;
// each album label becomes a directory under ALBUMS/<label>/ containing a
// symlink pointing relatively into ALL_PHOTOS.
func moveShortcut(a *assets.Asset, opts Options) error {
	src, ok := a.CanonicalPath()
	if !ok {
		return fmt.Errorf("mover: entity has no canonical file for shortcut strategy")
	}
	root := rootFor(a, opts)
	dst, err := placeInDir(filepath.Join(root, "ALL_PHOTOS", datePath(a, opts.Division)), filepath.Base(src), func(dst string) error {
		return relocate(src, dst)
	})
	if err != nil {
		return err
	}
	a.Files[assets.None] = dst

	for _, label := range sortedAlbums(a) {
		if _, err := placeInDir(filepath.Join(root, "ALBUMS", label), filepath.Base(dst), func(linkPath string) error {
			return symlinkRelative(dst, linkPath)
		}); err != nil {
			return err
		}
	}
	return nil
}

// moveReverseShortcut: canonical file lands under
// ALBUMS/<first-label>/<name>, physically duplicated into each additional
// album folder; ALL_PHOTOS holds a symlink back.
func moveReverseShortcut(a *assets.Asset, opts Options) error {
	src, ok := a.CanonicalPath()
	if !ok {
		return fmt.Errorf("mover: entity has no canonical file for reverse-shortcut strategy")
	}
	root := rootFor(a, opts)
	albums := sortedAlbums(a)
	if len(albums) == 0 {
		// no album membership: behaves like a plain ALL_PHOTOS placement
		_, err := placeInDir(filepath.Join(root, "ALL_PHOTOS", datePath(a, opts.Division)), filepath.Base(src), func(dst string) error {
			return relocate(src, dst)
		})
		return err
	}

	first := albums[0]
	primary, err := placeInDir(filepath.Join(root, "ALBUMS", first), filepath.Base(src), func(dst string) error {
		return relocate(src, dst)
	})
	if err != nil {
		return err
	}
	a.Files[first] = primary

	for _, label := range albums[1:] {
		dst, err := placeInDir(filepath.Join(root, "ALBUMS", label), filepath.Base(primary), func(dst string) error {
			return copyFile(primary, dst)
		})
		if err != nil {
			return err
		}
		a.Files[label] = dst
	}

	_, err = placeInDir(filepath.Join(root, "ALL_PHOTOS", datePath(a, opts.Division)), filepath.Base(primary), func(linkPath string) error {
		return symlinkRelative(primary, linkPath)
	})
	return err
}

// moveDuplicateCopy: a physical byte copy in every destination the entity
// belongs to (ALL_PHOTOS plus every album label).
func moveDuplicateCopy(a *assets.Asset, opts Options) error {
	root := rootFor(a, opts)
	src, ok := a.CanonicalPath()
	if !ok {
		return fmt.Errorf("mover: entity has no canonical file for duplicate-copy strategy")
	}

	dst, err := placeInDir(filepath.Join(root, "ALL_PHOTOS", datePath(a, opts.Division)), filepath.Base(src), func(dst string) error {
		return copyFile(src, dst)
	})
	if err != nil {
		return err
	}
	a.Files[assets.None] = dst

	for _, label := range sortedAlbums(a) {
		labelSrc, ok := a.Files[label]
		if !ok {
			labelSrc = src
		}
		dst, err := placeInDir(filepath.Join(root, "ALBUMS", label), filepath.Base(labelSrc), func(dst string) error {
			return copyFile(labelSrc, dst)
		})
		if err != nil {
			return err
		}
		a.Files[label] = dst
	}
	// the original input file is left untouched: duplicate-copy only ever
	// adds destinations, per §4.7's "no byte stream is discarded" invariant.
	return nil
}

// manifestEntry is one row of the json strategy's metadata.json output.
type manifestEntry struct {
	Path   string   `json:"path"`
	Albums []string `json:"albums"`
}

// manifestFile is the top-level shape written to metadata.json: the run
// identifier (google/uuid, stamped by the same Recorder that logged this
// run's per-file outcomes) alongside the flat entry list.
type manifestFile struct {
	RunID   string          `json:"runId"`
	Entries []manifestEntry `json:"entries"`
}

// moveJSONStrategy: single flat placement under ALL_PHOTOS/<date-path>/; a
// sidecar metadata.json at the output root lists every file with its album
// label set. The manifest itself is accumulated and flushed by the pipeline
// driver (WriteManifest), since it spans the whole collection rather than
// one entity.
func moveJSONStrategy(a *assets.Asset, opts Options) error {
	src, ok := a.CanonicalPath()
	if !ok {
		return fmt.Errorf("mover: entity has no canonical file for json strategy")
	}
	root := rootFor(a, opts)
	dst, err := placeInDir(filepath.Join(root, "ALL_PHOTOS", datePath(a, opts.Division)), filepath.Base(src), func(dst string) error {
		return relocate(src, dst)
	})
	if err != nil {
		return err
	}
	a.Files[assets.None] = dst
	return nil
}

// WriteManifest flushes the json strategy's metadata.json, called once by
// the pipeline driver after every entity in the collection has moved.
func WriteManifest(col *assets.Collection, outputRoot string, runID string) error {
	entries := make([]manifestEntry, 0, col.Len())
	for _, a := range col.Items() {
		path, ok := a.CanonicalPath()
		if !ok {
			continue
		}
		entries = append(entries, manifestEntry{Path: path, Albums: a.Albums()})
	}
	data, err := json.MarshalIndent(manifestFile{RunID: runID, Entries: entries}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outputRoot, "metadata.json"), data, 0o644)
}

// moveNothing: place only entries carrying the None sentinel; entities that
// exist only as album members are dropped. The sole data-loss behavior,
// explicit in config.
func moveNothing(a *assets.Asset, opts Options) error {
	src, ok := a.Files[assets.None]
	if !ok {
		return nil // album-only entity: intentionally dropped
	}
	root := rootFor(a, opts)
	dst, err := placeInDir(filepath.Join(root, "ALL_PHOTOS", datePath(a, opts.Division)), filepath.Base(src), func(dst string) error {
		return relocate(src, dst)
	})
	if err != nil {
		return err
	}
	a.Files[assets.None] = dst
	return nil
}

// relocate moves src to dst, falling back to copy+remove across filesystem
// boundaries (os.Rename fails with a cross-device link error in that case).
func relocate(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := copyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}
