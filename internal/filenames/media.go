// Package filenames supplies the "guess from name" date extractor (§4.2
// step 3): recognizing Pixel/Nexus burst sequences, Samsung burst indices,
// and the handful of embedded-timestamp filename conventions Google Photos
// Takeout archives actually contain. The recognized patterns and their
// exact expectations are reproduced from this package's own test fixtures
// (info_test.go, nexus_test.go).
package filenames

import (
	"strings"
	"time"
)

// MediaType mirrors the subset of §3's photo/video recognition rule this
// package needs: just enough to tag a NameInfo with what kind of file it
// names, without owning the MIME-sniffing logic (that lives in extfix).
type MediaType int

const (
	TypeUnknown MediaType = iota
	TypeImage
	TypeVideo
)

// SupportedMedia maps a lowercase extension (with leading dot) to a
// MediaType.
type SupportedMedia map[string]MediaType

// TypeFromExt looks up the type for a (possibly mixed-case) extension.
func (sm SupportedMedia) TypeFromExt(ext string) MediaType {
	if t, ok := sm[strings.ToLower(ext)]; ok {
		return t
	}
	return TypeUnknown
}

// DefaultSupportedMedia covers the common Takeout export extensions; the
// MIME-based recognition rule (§3) is owned by discover, which sniffs header
// bytes first and consults this table only when sniffing is inconclusive.
var DefaultSupportedMedia = SupportedMedia{
	".jpg": TypeImage, ".jpeg": TypeImage, ".png": TypeImage, ".gif": TypeImage,
	".bmp": TypeImage, ".webp": TypeImage, ".heic": TypeImage, ".heif": TypeImage,
	".tiff": TypeImage, ".tif": TypeImage, ".dng": TypeImage, ".cr2": TypeImage,
	".nef": TypeImage, ".arw": TypeImage, ".raf": TypeImage, ".crw": TypeImage,
	".cr3": TypeImage, ".nrw": TypeImage, ".mp": TypeImage, ".avif": TypeImage,
	".mp4": TypeVideo, ".mov": TypeVideo, ".avi": TypeVideo, ".m4v": TypeVideo,
	".3gp": TypeVideo, ".mpg": TypeVideo, ".mts": TypeVideo, ".mv": TypeVideo,
}

// Kind further classifies a name as part of a burst sequence; burstgroup
// uses it to pick the entities whose frames it groups into one series.
type Kind string

const (
	KindNone  Kind = ""
	KindBurst Kind = "burst"
)

// NameInfo is what GetInfo/Nexus extract from one filename.
type NameInfo struct {
	Base    string
	Radical string
	Ext     string
	Type    MediaType
	Kind    Kind
	IsCover bool
	Index   int

	Taken time.Time
}
