// Package burstgroup detects burst/bracket series among already-deduped,
// dated Media Entities and tags each member with a shared SeriesID plus a
// cover flag. This supplements §4.2's guess-from-name step, which only
// recovers a timestamp from a burst filename; it does not associate the
// burst's frames with one another. Detect runs a single pass over an
// already-materialized Collection rather than a streaming group builder,
// since the rest of this pipeline threads a mutable *assets.Collection
// rather than channels.
package burstgroup

import (
	"path/filepath"
	"sort"
	"time"

	"golang.org/x/exp/constraints"

	"github.com/shaankhosla/gphotosreconcile/internal/assets"
	"github.com/shaankhosla/gphotosreconcile/internal/filenames"
)

// burstWindow is how close two same-radical frames' capture times must be
// to count as one series.
const burstWindow = 1 * time.Second

// candidate pairs an entity with the filename info that qualified it as a
// possible burst member.
type candidate struct {
	asset *assets.Asset
	info  filenames.NameInfo
}

// Detect scans col for entities whose filename-derived radical repeats
// (Nexus/Samsung/Pixel burst sequences, §4.2's guess-from-name patterns)
// within burstWindow of each other, and assigns each such group a shared
// SeriesID (the radical) with a cover entity chosen by filenames.NameInfo's
// own IsCover flag, falling back to the earliest capture time. It returns
// the number of entities tagged.
func Detect(col *assets.Collection, collector *filenames.InfoCollector) int {
	byRadical := map[string][]candidate{}
	for _, a := range col.Items() {
		path, ok := a.CanonicalPath()
		if !ok || a.DateTaken == nil {
			continue
		}
		info := collector.GetInfo(filepath.Base(path))
		if info.Kind != filenames.KindBurst || info.Radical == "" {
			continue
		}
		byRadical[info.Radical] = append(byRadical[info.Radical], candidate{asset: a, info: info})
	}

	tagged := 0
	for radical, members := range byRadical {
		if len(members) < 2 {
			continue
		}
		sort.Slice(members, func(i, j int) bool {
			return members[i].asset.DateTaken.Time.Before(members[j].asset.DateTaken.Time)
		})

		for _, group := range splitByWindow(members) {
			if len(group) < 2 {
				continue
			}
			cover := 0
			for i, m := range group {
				if m.info.IsCover {
					cover = i
				}
				m.asset.SeriesID = radical
			}
			group[cover].asset.SeriesCover = true
			tagged += len(group)
		}
	}
	return tagged
}

func splitByWindow(members []candidate) [][]candidate {
	var groups [][]candidate
	var current []candidate
	for _, m := range members {
		if len(current) > 0 {
			gap := absDuration(current[len(current)-1].asset.DateTaken.Time.Sub(m.asset.DateTaken.Time))
			if gap > burstWindow {
				groups = append(groups, current)
				current = nil
			}
		}
		current = append(current, m)
	}
	if len(current) > 0 {
		groups = append(groups, current)
	}
	return groups
}

func absDuration[T constraints.Integer](x T) T {
	if x < 0 {
		return -x
	}
	return x
}
