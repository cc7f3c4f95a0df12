// Package dateextract implements the ordered date-source chain of §4.2: an
// ordered list of independent extractor functions, first Some wins, its
// index recorded as the accuracy tier. The composition shape follows
// schneiel's image-manager (ExtractorBuilder assembling a []DateExtractor),
// adapted here to a plain slice of function values.
package dateextract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/rwcarlsen/goexif/exif"

	"github.com/shaankhosla/gphotosreconcile/internal/assets"
	"github.com/shaankhosla/gphotosreconcile/internal/filenames"
	"github.com/shaankhosla/gphotosreconcile/internal/sidecar"
)

// Result is what one extractor call, or the whole chain, produces.
type Result struct {
	Time time.Time
	Tier assets.AccuracyTier
}

// Extractor attempts to derive a capture timestamp for one media path. A
// zero Result and ok=false means "no opinion"; the chain tries the next.
type Extractor func(ctx context.Context, mediaPath string) (Result, bool)

// Chain holds the ordered extractor list plus the config gates (§4.2 step 3
// is only consulted when guessFromName is enabled).
type Chain struct {
	extractors []namedExtractor
	collector  *filenames.InfoCollector
}

type namedExtractor struct {
	tier assets.AccuracyTier
	fn   Extractor
}

var reFolderYear = regexp.MustCompile(`(?i)Photos\s+from\s+(\d{4})`)

// New builds the standard chain: JSON, EXIF, guess-from-name (optional),
// JSON try-hard, folder year.
func New(guessFromName bool) *Chain {
	c := &Chain{collector: filenames.NewInfoCollector()}
	c.extractors = []namedExtractor{
		{assets.TierJSON, c.fromJSON(false)},
		{assets.TierExif, c.fromEXIF},
	}
	if guessFromName {
		c.extractors = append(c.extractors, namedExtractor{assets.TierGuessName, c.fromName})
	}
	c.extractors = append(c.extractors,
		namedExtractor{assets.TierJSONTryHard, c.fromJSON(true)},
		namedExtractor{assets.TierFolderYear, c.fromFolderYear},
	)
	return c
}

// Extract runs the chain against one media file and returns the first hit,
// or assets.TierNone with ok=false if nothing in the chain matched.
func (c *Chain) Extract(ctx context.Context, mediaPath string) (Result, bool) {
	for _, e := range c.extractors {
		select {
		case <-ctx.Done():
			return Result{}, false
		default:
		}
		if res, ok := e.fn(ctx, mediaPath); ok {
			res.Tier = e.tier
			return res, true
		}
	}
	return Result{Tier: assets.TierNone}, false
}

func (c *Chain) fromJSON(tryHard bool) Extractor {
	return func(_ context.Context, mediaPath string) (Result, bool) {
		sidecarPath, ok := sidecar.FindSidecar(mediaPath, tryHard)
		if !ok {
			return Result{}, false
		}
		rec, err := sidecar.Parse(sidecarPath)
		if err != nil {
			return Result{}, false
		}
		t, ok := rec.Timestamp()
		if !ok {
			return Result{}, false
		}
		return Result{Time: t}, true
	}
}

func (c *Chain) fromEXIF(_ context.Context, mediaPath string) (Result, bool) {
	f, err := os.Open(mediaPath)
	if err != nil {
		return Result{}, false
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return Result{}, false
	}
	for _, tag := range []string{"DateTimeOriginal", "DateTime", "DateTimeDigitized"} {
		if t, err := tagTime(x, tag); err == nil {
			return Result{Time: t}, true
		}
	}
	return Result{}, false
}

// tagTime reads one EXIF tag as the conventional "2006:01:02 15:04:05"
// layout exif.Exif.DateTime() assumes for DateTimeOriginal; it's reused
// here for the fallback tags too since they share the same format.
func tagTime(x *exif.Exif, tagName string) (time.Time, error) {
	tag, err := x.Get(exif.FieldName(tagName))
	if err != nil {
		return time.Time{}, err
	}
	s, err := tag.StringVal()
	if err != nil {
		return time.Time{}, err
	}
	return time.ParseInLocation("2006:01:02 15:04:05", s, time.Local)
}

func (c *Chain) fromName(_ context.Context, mediaPath string) (Result, bool) {
	info := c.collector.GetInfo(mediaPath)
	if info.Taken.IsZero() {
		return Result{}, false
	}
	return Result{Time: info.Taken}, true
}

func (c *Chain) fromFolderYear(_ context.Context, mediaPath string) (Result, bool) {
	parent := filepath.Base(filepath.Dir(mediaPath))
	m := reFolderYear.FindStringSubmatch(parent)
	if m == nil {
		return Result{}, false
	}
	year, err := strconv.Atoi(m[1])
	if err != nil {
		return Result{}, false
	}
	maxYear := time.Now().Year() + 1
	if year < 1900 || year > maxYear {
		return Result{}, false
	}
	return Result{Time: time.Date(year, time.January, 1, 0, 0, 0, 0, time.Local)}, true
}

// ErrNoDate is returned by callers that require a date and found none; the
// chain itself never errors, it just reports ok=false.
var ErrNoDate = fmt.Errorf("dateextract: no extractor produced a date")
