// Package dedup implements the deduplicator (§4.3): group Media Entities by
// the SHA-256 of their canonical file's bytes, keep one survivor per group,
// and fold every loser's album labels into it. Grounded on gavinmcnair's
// imagedup worker-pool shape (fan out hashing across goroutines, fan in to
// a single grouping pass) adapted from perceptual image hashing to the
// spec's exact-byte content hash.
package dedup

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/shaankhosla/gphotosreconcile/internal/assets"
	"github.com/shaankhosla/gphotosreconcile/internal/progress"
)

const limitFileSizeBytes = 64 * 1024 * 1024

// Dedupe implements dedupe(&mut collection) -> count_removed. limitFileSize
// gates the 64 MiB skip rule; files over the limit are left unhashed and
// treated as unique (excluded from dedup) rather than erroring. prog receives one
// tick per hashed entity; pass progress.NoOp{} for a silent run.
func Dedupe(ctx context.Context, col *assets.Collection, limitFileSize bool, workers int, prog progress.Sink) (int, error) {
	if prog == nil {
		prog = progress.NoOp{}
	}
	items := col.Items()
	hashes := make([]string, len(items))

	if workers < 1 {
		workers = 1
	}
	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)
	var firstErr error
	var mu sync.Mutex

	for i, a := range items {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		default:
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, a *assets.Asset) {
			defer wg.Done()
			defer func() { <-sem }()

			if limitFileSize {
				if oversize(a) {
					return // treated as unique: leave hashes[i] empty
				}
			}
			h, err := a.Hash()
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
			hashes[i] = h
			prog.Add(1)
		}(i, a)
	}
	wg.Wait()
	if firstErr != nil {
		return 0, firstErr
	}

	groups := map[string][]int{}
	for i, h := range hashes {
		if h == "" {
			continue // oversize or unhashed: always unique
		}
		groups[h] = append(groups[h], i)
	}

	removed := 0
	survivorSet := map[int]bool{}
	for i := range items {
		survivorSet[i] = true
	}

	for _, idxs := range groups {
		if len(idxs) < 2 {
			continue
		}
		survivor := chooseSurvivor(items, idxs)
		for _, i := range idxs {
			if i == survivor {
				continue
			}
			items[survivor].MergeFrom(items[i])
			delete(survivorSet, i)
			removed++
		}
	}

	result := make([]*assets.Asset, 0, len(survivorSet))
	for i, a := range items {
		if survivorSet[i] {
			result = append(result, a)
		}
	}
	col.Replace(result)
	return removed, nil
}

func oversize(a *assets.Asset) bool {
	path, ok := a.CanonicalPath()
	if !ok {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Size() > limitFileSizeBytes
}

// chooseSurvivor applies §4.3's tiebreak chain: longest filename, then
// better (smaller) accuracy tier, then lexicographically smaller path.
func chooseSurvivor(items []*assets.Asset, idxs []int) int {
	best := idxs[0]
	for _, i := range idxs[1:] {
		if better(items[i], items[best]) {
			best = i
		}
	}
	return best
}

func better(a, b *assets.Asset) bool {
	aPath, _ := a.CanonicalPath()
	bPath, _ := b.CanonicalPath()

	aLen := len(strings.TrimSuffix(filepath.Base(aPath), filepath.Ext(aPath)))
	bLen := len(strings.TrimSuffix(filepath.Base(bPath), filepath.Ext(bPath)))
	if aLen != bLen {
		return aLen > bLen
	}

	aTier, bTier := tierOf(a), tierOf(b)
	if aTier != bTier {
		return aTier < bTier
	}

	return aPath < bPath
}

func tierOf(a *assets.Asset) assets.AccuracyTier {
	if a.DateTaken == nil {
		return assets.TierNone
	}
	return a.DateTaken.Tier
}

// SortByPath orders a collection deterministically, used by callers (tests,
// the pipeline driver's summary) that need reproducible iteration order.
func SortByPath(col *assets.Collection) {
	items := col.Items()
	sort.Slice(items, func(i, j int) bool {
		pi, _ := items[i].CanonicalPath()
		pj, _ := items[j].CanonicalPath()
		return pi < pj
	})
}
