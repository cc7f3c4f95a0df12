// Package discover implements the tree walk and folder classification stage
// (stage 2): a single pass over the input tree that buckets every directory
// into a FolderKind and emits one assets.Asset per discovered media file.
// Walk uses filepath.WalkDir over a real input directory since the pipeline
// always walks a local Takeout export rather than an arbitrary fs.FS.
package discover

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/shaankhosla/gphotosreconcile/internal/assets"
	"github.com/shaankhosla/gphotosreconcile/internal/filenames"
)

// InputError wraps a failure to walk the input tree itself, distinct from a
// per-file error encountered mid-walk: an unreadable or missing root means
// there is nothing to discover at all (§7).
type InputError struct {
	Root string
	Err  error
}

func (e *InputError) Error() string { return fmt.Sprintf("discover: walk %s: %v", e.Root, e.Err) }
func (e *InputError) Unwrap() error { return e.Err }

// FolderKind classifies one directory per §3's Folder Classification rule.
type FolderKind int

const (
	KindOther FolderKind = iota
	KindYear
	KindSpecial
	KindAlbum
)

func (k FolderKind) String() string {
	switch k {
	case KindYear:
		return "year"
	case KindSpecial:
		return "special"
	case KindAlbum:
		return "album"
	default:
		return "other"
	}
}

var reYearFolder = regexp.MustCompile(`^Photos from (18|19|20)\d{2}$`)

var specialFolders = map[string]bool{
	"Archive":     true,
	"Trash":       true,
	"Screenshots": true,
	"Camera":      true,
}

// ClassifyFolder implements §3's Folder Classification rule for one
// directory name. hasMedia reports whether the directory (non-recursively)
// contains at least one photo/video file, required to distinguish an Album
// Folder from an ignored Other directory.
func ClassifyFolder(name string, hasMedia bool) FolderKind {
	if reYearFolder.MatchString(name) {
		return KindYear
	}
	if specialFolders[name] {
		return KindSpecial
	}
	if hasMedia {
		return KindAlbum
	}
	return KindOther
}

// AlbumLabel derives the album label used as a Media Entity's files map key
// for an Album Folder. Special folders are labelled with their directory
// name exactly as album folders are, so the label alone does not tell a
// Google album apart from Archive/Trash/Screenshots/Camera.
func AlbumLabel(kind FolderKind, dirName string) (string, bool) {
	switch kind {
	case KindAlbum:
		return dirName, true
	case KindSpecial:
		return dirName, true
	default:
		return "", false
	}
}

// Entry is one discovered file together with the classification of the
// directory it was found in.
type Entry struct {
	Path       string
	FolderKind FolderKind
	AlbumName  string // "" unless FolderKind is KindAlbum or KindSpecial
	IsSidecar  bool
}

// Walk traverses root and returns every media file and sidecar JSON file
// found (other files are skipped), each tagged with its containing folder's
// classification. Sidecar JSON files are
// reported (IsSidecar=true) but are not asset entries in their own right,
// callers filter them before constructing assets.Asset values.
func Walk(root string, sm filenames.SupportedMedia) ([]Entry, error) {
	mediaDirs, err := scanMediaDirs(root, sm)
	if err != nil {
		return nil, &InputError{Root: root, Err: err}
	}

	var entries []Entry
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		isSidecar := strings.HasSuffix(strings.ToLower(d.Name()), ".json")
		if !isSidecar && !isMediaFile(path, sm) {
			return nil
		}
		dir := filepath.Dir(path)
		dirName := filepath.Base(dir)
		kind := ClassifyFolder(dirName, mediaDirs[dir])
		label, _ := AlbumLabel(kind, dirName)

		entries = append(entries, Entry{
			Path:       path,
			FolderKind: kind,
			AlbumName:  label,
			IsSidecar:  isSidecar,
		})
		return nil
	})
	if err != nil {
		return nil, &InputError{Root: root, Err: err}
	}
	return entries, nil
}

// isMediaFile implements §3's MIME-primary recognition rule: a file's true
// format, sniffed from its leading bytes, decides whether it is a photo or
// video entity; the extension table is consulted only when sniffing is
// inconclusive (the file is unreadable, or mimetype reports a generic type
// neither image/* nor video/*), the same detect-first shape extfix already
// uses for extension correction.
func isMediaFile(path string, sm filenames.SupportedMedia) bool {
	if detected, err := mimetype.DetectFile(path); err == nil {
		root := strings.SplitN(detected.String(), "/", 2)[0]
		switch root {
		case "image":
			return true
		case "video":
			return true
		}
	}
	return sm.TypeFromExt(filepath.Ext(path)) != filenames.TypeUnknown
}

// scanMediaDirs pre-computes, for every directory under root, whether it
// directly contains at least one media file; needed before classification
// because a directory's kind depends on its own contents, not on the walk
// order fs.WalkDir happens to use.
func scanMediaDirs(root string, sm filenames.SupportedMedia) (map[string]bool, error) {
	result := map[string]bool{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(strings.ToLower(d.Name()), ".json") {
			return nil
		}
		if !isMediaFile(path, sm) {
			return nil
		}
		result[filepath.Dir(path)] = true
		return nil
	})
	return result, err
}

// BuildAssets turns a flat Entry slice into a Collection of one Asset per
// non-sidecar media file, setting the None entry for plain/year-folder
// files and the directory's label for album/special members. Discovery
// never merges two paths: that is dedup's (§4.3) job.
func BuildAssets(entries []Entry) *assets.Collection {
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })

	items := make([]*assets.Asset, 0, len(entries))
	for _, e := range entries {
		if e.IsSidecar {
			continue
		}
		a := &assets.Asset{Files: map[string]string{}}
		if e.AlbumName != "" {
			a.Files[e.AlbumName] = e.Path
		} else {
			a.Files[assets.None] = e.Path
		}
		items = append(items, a)
	}
	return assets.NewCollection(items)
}
