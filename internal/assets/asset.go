// Package assets implements the Media Entity data model: the record that
// tracks one logical photo or video as it moves through the reconciliation
// pipeline, plus the mutable Collection the pipeline driver threads through
// each stage.
package assets

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"sort"
	"time"
)

// None is the sentinel album label denoting the canonical, album-independent
// copy of a Media Entity. It is never a valid user-facing album name because
// Google Takeout album directory names are never empty.
const None = ""

// AccuracyTier ranks the source that produced a Media Entity's date_taken.
// Lower is better; TierNone means no date could be established.
type AccuracyTier int

const (
	TierJSON AccuracyTier = iota
	TierExif
	TierGuessName
	TierJSONTryHard
	TierFolderYear
	TierNone = AccuracyTier(1 << 30)
)

func (t AccuracyTier) String() string {
	switch t {
	case TierJSON:
		return "json"
	case TierExif:
		return "exif"
	case TierGuessName:
		return "guess-name"
	case TierJSONTryHard:
		return "json-tryhard"
	case TierFolderYear:
		return "folder-year"
	default:
		return "none"
	}
}

// Coordinates is a GPS fix in decimal degrees, present only when the sidecar
// carried a non-zero latitude/longitude pair.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// IsZero reports whether the coordinate pair is the Google Takeout "absent"
// sentinel of exactly (0, 0).
func (c Coordinates) IsZero() bool {
	return c.Latitude == 0 && c.Longitude == 0
}

// Asset is one Media Entity: a mapping from album label to concrete path,
// plus the recovered date/coordinates/partner-share flag and a lazily
// computed content hash.
//
// Invariant: exactly one entry per distinct album the media belongs to, plus
// optionally the None entry; every path in Files refers to byte-identical
// content (enforced by the deduplicator before album labels are merged).
type Asset struct {
	Files map[string]string // album label -> path; None is the canonical entry

	DateTaken    *DateStamp
	Coordinates  *Coordinates
	PartnerShare bool

	// SeriesID groups entities captured together in one burst/bracket
	// (§ supplemented burst awareness); "" means the entity belongs to no
	// detected series. SeriesCover marks the representative entity of its
	// series, mirroring a camera app's own cover-frame choice.
	SeriesID    string
	SeriesCover bool

	contentHash string // SHA-256 hex, populated lazily by Hash()
}

// DateStamp pairs an extracted timestamp with the accuracy tier of the
// extractor that produced it.
type DateStamp struct {
	Time time.Time
	Tier AccuracyTier
}

// New creates an Asset whose only entry is the canonical (None) file.
func New(path string) *Asset {
	return &Asset{Files: map[string]string{None: path}}
}

// CanonicalPath returns the entity's canonical file path: the None entry if
// present, otherwise an arbitrary album-label entry (entities discovered
// only inside album folders may never acquire a None entry).
func (a *Asset) CanonicalPath() (string, bool) {
	if p, ok := a.Files[None]; ok {
		return p, true
	}
	for _, p := range a.Files {
		return p, true
	}
	return "", false
}

// Albums returns the sorted list of non-sentinel album labels this entity
// belongs to.
func (a *Asset) Albums() []string {
	labels := make([]string, 0, len(a.Files))
	for label := range a.Files {
		if label != None {
			labels = append(labels, label)
		}
	}
	sort.Strings(labels)
	return labels
}

// MergeFrom absorbs another entity's album-label entries into a, used by the
// deduplicator to fold a loser/duplicate into a survivor.
// Entries already present in a are left untouched: the survivor's own path
// for a given label always wins.
func (a *Asset) MergeFrom(other *Asset) {
	for label, path := range other.Files {
		if label == None {
			// the survivor keeps its own canonical path; the loser's None
			// path fills the survivor's None slot only when the survivor has
			// none, and is otherwise not recorded (the file stays on disk).
			if _, ok := a.Files[None]; !ok {
				a.Files[None] = path
			}
			continue
		}
		if _, ok := a.Files[label]; !ok {
			a.Files[label] = path
		}
	}
}

// Hash computes (and caches) the SHA-256 of the canonical file's bytes.
// Hashing streams the file rather than buffering it fully, per the
// resource-cap requirement that hash/EXIF reads never fully buffer large
// files.
func (a *Asset) Hash() (string, error) {
	if a.contentHash != "" {
		return a.contentHash, nil
	}
	path, ok := a.CanonicalPath()
	if !ok {
		return "", os.ErrNotExist
	}
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	a.contentHash = hex.EncodeToString(h.Sum(nil))
	return a.contentHash, nil
}

// SetHash injects a precomputed hash, used by the deduplicator to avoid a
// second read once a group has already hashed the canonical file.
func (a *Asset) SetHash(hash string) {
	a.contentHash = hash
}

// Collection is the ordered, mutable sequence of Media Entities threaded
// through the pipeline. Ownership is exclusive to the pipeline driver;
// stages receive a mutable reference via *Collection or []* Asset.
type Collection struct {
	items []*Asset
}

// NewCollection wraps a slice of entities as a Collection.
func NewCollection(items []*Asset) *Collection {
	return &Collection{items: items}
}

// Items returns the live backing slice. Callers that need to replace the
// whole collection (dedup, album merge) should use Replace instead of
// mutating the slice out from under concurrent readers.
func (c *Collection) Items() []*Asset { return c.items }

// Len reports the number of entities currently tracked.
func (c *Collection) Len() int { return len(c.items) }

// Replace swaps the backing slice, used after a stage reduces the
// collection's length (dedup, album merge).
func (c *Collection) Replace(items []*Asset) { c.items = items }

// Append adds a newly discovered entity.
func (c *Collection) Append(a *Asset) { c.items = append(c.items, a) }
