package filenames

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	reNexusBurst    = regexp.MustCompile(`^(\d+)l?(?:IMG|PORTRAIT)_(\d+)_BURST(\d{14})(\d{3})?(_COVER)?\.([A-Za-z0-9]+)$`)
	reSamsungBurst  = regexp.MustCompile(`^(\d{8}_\d{6})_(\d{3})$`)
	rePixelName     = regexp.MustCompile(`^PXL_(\d{8})_(\d{6})\d*$`)
	reCameraName    = regexp.MustCompile(`^(?:IMG|VID|MVIMG)_(\d{8})_(\d{6})$`)
	dateTimeLayout = "20060102150405"
)

// InfoCollector extracts a NameInfo from a filename, trying the embedded-
// timestamp conventions actually observed in Takeout archives in order of
// specificity: Nexus/Pixel burst sequences first, then Samsung bursts, then
// Pixel's PXL_ convention (embedded in UTC), then generic camera names.
// Anything that matches none of these still gets a Radical and Ext, just no
// Taken value. The caller (dateextract) treats a zero Taken as "no guess".
type InfoCollector struct {
	TZ *time.Location
	SM SupportedMedia
}

// NewInfoCollector builds a collector against the default extension table
// in the local zone.
func NewInfoCollector() *InfoCollector {
	return &InfoCollector{TZ: time.Local, SM: DefaultSupportedMedia}
}

func (c *InfoCollector) zone() *time.Location {
	if c.TZ != nil {
		return c.TZ
	}
	return time.Local
}

// GetInfo extracts everything GetInfo can determine from a bare filename
// (no directory component required, though one is tolerated and ignored).
func (c *InfoCollector) GetInfo(filename string) NameInfo {
	base := filepath.Base(filename)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	if ok, info := c.Nexus(base); ok {
		return info
	}

	info := NameInfo{
		Base:    base,
		Radical: stem,
		Ext:     ext,
		Type:    c.SM.TypeFromExt(ext),
	}

	if m := reSamsungBurst.FindStringSubmatch(stem); m != nil {
		if t, err := time.ParseInLocation("20060102_150405", m[1], c.zone()); err == nil {
			info.Radical = m[1]
			info.Kind = KindBurst
			info.Taken = t
			if n, err := strconv.Atoi(m[2]); err == nil {
				info.Index = n
			}
		}
		return info
	}

	// PXL_ names embed the capture instant in UTC, not the device's local
	// zone; every other recognized convention embeds local time.
	if m := rePixelName.FindStringSubmatch(stem); m != nil {
		if t, err := time.ParseInLocation(dateTimeLayout, m[1]+m[2], time.UTC); err == nil {
			info.Taken = t
		}
		return info
	}

	if m := reCameraName.FindStringSubmatch(stem); m != nil {
		if t, err := time.ParseInLocation(dateTimeLayout, m[1]+m[2], c.zone()); err == nil {
			info.Taken = t
		}
		return info
	}

	return info
}

// Nexus recognizes the Nexus/Pixel MotionPhoto burst naming convention,
// e.g. "00015IMG_00015_BURST20171111030039_COVER.jpg". The leading index
// and the one embedded in the IMG_/PORTRAIT_ segment are always equal in
// practice; only the leading one is kept.
func (c *InfoCollector) Nexus(filename string) (bool, NameInfo) {
	base := filepath.Base(filename)
	m := reNexusBurst.FindStringSubmatch(base)
	if m == nil {
		return false, NameInfo{}
	}

	index, _ := strconv.Atoi(m[1])
	ts := m[3]
	taken, err := time.ParseInLocation(dateTimeLayout, ts, c.zone())
	if err != nil {
		return false, NameInfo{}
	}
	ext := "." + m[6]

	return true, NameInfo{
		Base:    base,
		Radical: "BURST" + ts + m[4],
		Ext:     ext,
		Type:    c.SM.TypeFromExt(ext),
		Kind:    KindBurst,
		IsCover: m[5] != "",
		Index:   index,
		Taken:   taken,
	}
}
