// Package sidecar implements the Sidecar Record model (§3) and the sidecar
// matcher cascade (§4.1): a pure, filesystem-read-only lookup from a media
// path to its companion Google Photos Takeout JSON, plus the decoder for
// that JSON's small set of recognized fields.
//
// The JSON shape is grounded on assets/gp/json.go's googleMetaData /
// googTimeObject / googGeoData types; field names and the epoch-as-string
// timestamp quirk are kept identical.
package sidecar

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Record is the parsed subset of a Takeout sidecar JSON the pipeline cares
// about. Unknown keys are ignored; malformed JSON is "no data", not fatal
// (§7 SidecarError).
type Record struct {
	Title          string    `json:"title"`
	PhotoTakenTime timestamp `json:"photoTakenTime"`
	GeoData        geoData   `json:"geoData"`
	GooglePhotosOrigin struct {
		FromPartnerSharing present `json:"fromPartnerSharing"`
	} `json:"googlePhotosOrigin"`
}

// Timestamp returns the photoTakenTime as a time.Time, or the zero time and
// false if the field was absent or unparsable.
func (r *Record) Timestamp() (time.Time, bool) {
	if r.PhotoTakenTime.Seconds == 0 {
		return time.Time{}, false
	}
	return time.Unix(r.PhotoTakenTime.Seconds, 0).UTC(), true
}

// Coordinates returns the sidecar's GPS fix, or false if it was missing or
// the Google "no location" sentinel of exactly (0, 0) (§3).
func (r *Record) Coordinates() (lat, lon float64, ok bool) {
	if r.GeoData.Latitude == 0 && r.GeoData.Longitude == 0 {
		return 0, 0, false
	}
	return r.GeoData.Latitude, r.GeoData.Longitude, true
}

// IsPartnerShared reports whether the sidecar carries the partner-share
// marker (§3).
func (r *Record) IsPartnerShared() bool {
	return bool(r.GooglePhotosOrigin.FromPartnerSharing)
}

type geoData struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// timestamp decodes photoTakenTime.timestamp, which Google encodes as a
// JSON string holding a decimal seconds-since-epoch value.
type timestamp struct {
	Seconds int64
}

func (t *timestamp) UnmarshalJSON(data []byte) error {
	aux := struct {
		Timestamp string `json:"timestamp"`
	}{}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Timestamp == "" {
		t.Seconds = 0
		return nil
	}
	secs, err := strconv.ParseInt(aux.Timestamp, 10, 64)
	if err != nil {
		// fail soft: an unparsable timestamp is treated as absent, not fatal.
		t.Seconds = 0
		return nil
	}
	t.Seconds = secs
	return nil
}

// present decodes a JSON field whose mere presence (any value other than
// null, including an empty object) signals a boolean flag, mirroring
// assets/gp/json.go's googIsPresent.
type present bool

func (p *present) UnmarshalJSON(b []byte) error {
	*p = len(b) > 0 && string(b) != "null"
	return nil
}

// SidecarError wraps a failure to read a sidecar JSON file. Per §7, callers
// treat it as "no sidecar" and log at debug level rather than aborting the
// file it was matched to.
type SidecarError struct {
	Path string
	Err  error
}

func (e *SidecarError) Error() string { return fmt.Sprintf("sidecar: read %s: %v", e.Path, e.Err) }
func (e *SidecarError) Unwrap() error { return e.Err }

// DecodeError wraps a failure to unmarshal a sidecar JSON file's bytes, kept
// distinct from SidecarError since a read failure and a malformed payload
// are different failure modes worth distinguishing in logs.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("sidecar: decode %s: %v", e.Path, e.Err) }
func (e *DecodeError) Unwrap() error { return e.Err }

// Parse reads and decodes the sidecar JSON at path. A read or decode error
// is returned to the caller, who (per §7 SidecarError) should log it at
// debug level and treat it as "no sidecar" rather than aborting the file.
func Parse(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &SidecarError{Path: path, Err: err}
	}
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	return &r, nil
}
