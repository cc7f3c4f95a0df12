package burstgroup

import (
	"testing"
	"time"

	"github.com/shaankhosla/gphotosreconcile/internal/assets"
	"github.com/shaankhosla/gphotosreconcile/internal/filenames"
)

func asset(path string, t time.Time) *assets.Asset {
	return &assets.Asset{
		Files:     map[string]string{assets.None: path},
		DateTaken: &assets.DateStamp{Time: t},
	}
}

func TestDetectGroupsBurstFramesWithinWindow(t *testing.T) {
	base := time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)
	col := assets.NewCollection([]*assets.Asset{
		asset("00001IMG_00001_BURST20210601120000.jpg", base),
		asset("00001IMG_00001_BURST20210601120000_COVER.jpg", base.Add(300*time.Millisecond)),
		asset("unrelated.jpg", base),
	})

	tagged := Detect(col, filenames.NewInfoCollector())

	if tagged != 2 {
		t.Fatalf("expected 2 entities tagged, got %d", tagged)
	}
	items := col.Items()
	if items[0].SeriesID == "" || items[0].SeriesID != items[1].SeriesID {
		t.Errorf("expected burst frames to share a SeriesID, got %q and %q", items[0].SeriesID, items[1].SeriesID)
	}
	if !items[1].SeriesCover {
		t.Errorf("expected the _COVER frame to be marked as the series cover")
	}
	if items[2].SeriesID != "" {
		t.Errorf("expected the unrelated file to remain untagged")
	}
}

func TestDetectSplitsGroupsOutsideWindow(t *testing.T) {
	base := time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)
	col := assets.NewCollection([]*assets.Asset{
		asset("00001IMG_00001_BURST20210601120000.jpg", base),
		asset("00001IMG_00001_BURST20210601120000.jpg", base.Add(5*time.Second)),
	})

	tagged := Detect(col, filenames.NewInfoCollector())
	if tagged != 0 {
		t.Errorf("expected frames more than burstWindow apart to stay ungrouped, got %d tagged", tagged)
	}
}
