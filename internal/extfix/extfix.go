// Package extfix implements the extension corrector (§4.4): stage 1 of the
// pipeline, run before discovery. It sniffs each media file's true format
// from its leading bytes and renames any file whose extension disagrees,
// carrying the matching sidecar along with it.
//
// MIME sniffing is grounded on Navknight's core/metadata write stage (the
// same "detect, compare, rename" shape) but delegates the byte-sniffing
// itself to gabriel-vasile/mimetype rather than a hand-rolled magic table,
// since that library is already part of the retrieved corpus's dependency
// surface and gives broader format coverage than a 128-byte prefix table.
package extfix

import (
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/shaankhosla/gphotosreconcile/internal/sidecar"
)

// preferredExt maps a detected MIME type to the extension the corrector
// renames onto, per §4.4's "fixed table" requirement.
var preferredExt = map[string]string{
	"image/jpeg":       "jpg",
	"image/png":        "png",
	"image/gif":        "gif",
	"image/bmp":        "bmp",
	"image/webp":       "webp",
	"image/heic":       "heic",
	"image/heif":       "heif",
	"image/x-canon-cr2": "cr2",
	"image/x-adobe-dng": "dng",
	"video/mp4":         "mp4",
	"video/quicktime":   "mov",
	"video/x-msvideo":   "avi",
	"video/3gpp":        "3gp",
}

// extraMarkers flags a basename as an "edited variant" that §4.4 requires
// skipping, so the corrector never renames a derivative file out from under
// its own un-derived sibling.
var extraMarkers = []string{"-edited", "-bearbeitet", "-modifié", "-editado"}

// Result reports the outcome of attempting to fix one file's extension.
type Result struct {
	OriginalPath string
	NewPath      string
	Fixed        bool
	Reason       string // set when Fixed is false, for logging
}

// FixExtensions implements fix_extensions(dir, skip_jpeg) -> count_fixed. It
// walks dir once, renaming each misnamed media file (and its sidecar, if
// any) and returns one Result per file considered.
func FixExtensions(dir string, skipJPEG bool) ([]Result, error) {
	var results []Result
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasSuffix(strings.ToLower(d.Name()), ".json") {
			return nil
		}
		res, err := fixOne(path, skipJPEG)
		if err != nil {
			return nil // fail soft: a single unreadable file does not abort the walk
		}
		results = append(results, res)
		return nil
	})
	return results, err
}

// CountFixed tallies how many Results actually renamed a file.
func CountFixed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Fixed {
			n++
		}
	}
	return n
}

func fixOne(path string, skipJPEG bool) (Result, error) {
	res := Result{OriginalPath: path}

	if isExtra(path) {
		res.Reason = "extra variant"
		return res, nil
	}

	detected, err := mimetype.DetectFile(path)
	if err != nil {
		return res, err
	}
	detectedMIME := strings.Split(detected.String(), ";")[0]

	if detectedMIME == "image/tiff" {
		// camera RAW formats are commonly misidentified as plain TIFF
		res.Reason = "ambiguous tiff/raw detection"
		return res, nil
	}

	currentMIME := mimeFromExt(filepath.Ext(path))
	if currentMIME == detectedMIME {
		res.Reason = "extension already correct"
		return res, nil
	}

	preferred, ok := preferredExt[detectedMIME]
	if !ok {
		res.Reason = "no preferred extension mapping for " + detectedMIME
		return res, nil
	}
	if skipJPEG && preferred == "jpg" {
		res.Reason = "skip-jpeg"
		return res, nil
	}

	newPath := path + "." + preferred
	if err := renameVerified(path, newPath); err != nil {
		return res, err
	}
	res.NewPath = newPath
	res.Fixed = true

	renameSidecar(path, newPath)
	return res, nil
}

func isExtra(path string) bool {
	base := strings.ToLower(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	for _, marker := range extraMarkers {
		if strings.HasSuffix(base, marker) {
			return true
		}
	}
	return false
}

func mimeFromExt(ext string) string {
	return strings.Split(mime.TypeByExtension(ext), ";")[0]
}

// renameVerified performs the rename and confirms the post-condition §4.4
// requires: the new path exists and the old one is gone (force-deleted if a
// lingering hardlink or race left it behind).
func renameVerified(oldPath, newPath string) error {
	if err := os.Rename(oldPath, newPath); err != nil {
		return err
	}
	if _, err := os.Stat(newPath); err != nil {
		return fmt.Errorf("extfix: rename of %s reported success but %s is missing", oldPath, newPath)
	}
	if _, err := os.Stat(oldPath); err == nil {
		if rmErr := os.Remove(oldPath); rmErr != nil {
			return fmt.Errorf("extfix: stale original %s survived rename and could not be removed: %w", oldPath, rmErr)
		}
	}
	return nil
}

// renameSidecar locates the sidecar for the pre-fix path and renames it to
// match the new media basename, so later stages' sidecar lookups keep
// working. A missing sidecar is not an error.
func renameSidecar(oldPath, newPath string) {
	sidecarPath, ok := sidecar.FindSidecar(oldPath, true)
	if !ok {
		return
	}
	oldBase := filepath.Base(oldPath)
	newBase := filepath.Base(newPath)
	oldSidecarName := filepath.Base(sidecarPath)
	newSidecarName := strings.Replace(oldSidecarName, oldBase, newBase, 1)
	if newSidecarName == oldSidecarName {
		// matched through a non-identity transform, so the sidecar's name
		// does not contain the old media basename: name it for the identity
		// probe of the new media name instead.
		newSidecarName = newBase + ".json"
		if strings.Contains(strings.ToLower(oldSidecarName), ".supplemental-metadata") {
			newSidecarName = newBase + ".supplemental-metadata.json"
		}
	}
	_ = os.Rename(sidecarPath, filepath.Join(filepath.Dir(sidecarPath), newSidecarName))
}
