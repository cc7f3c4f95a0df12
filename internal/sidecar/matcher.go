package sidecar

import (
	"os"
	"path/filepath"
	"strings"
)

// FindSidecar implements the §4.1 contract: find_sidecar(media_path,
// try_hard) -> Option<sidecar_path>. It is a pure lookup, no filesystem
// mutation, that walks the transform cascade in strict
// decreasing-reliability order, probing after each candidate, and returns
// the first hit. A more aggressive transform never overrides a hit a more
// reliable one would have found, because the cascade returns immediately.
func FindSidecar(mediaPath string, tryHard bool) (string, bool) {
	dir := filepath.Dir(mediaPath)
	base := filepath.Base(mediaPath)

	steps := basicTransforms
	if tryHard {
		steps = append(append([]transform{}, basicTransforms...), aggressiveTransforms...)
	}

	for _, step := range steps {
		candidate, ok := step.apply(base)
		if !ok {
			continue
		}
		if p, found := probe(dir, candidate); found {
			return p, true
		}
	}
	return "", false
}

// probe checks the five JSON patterns §4.1 specifies for one candidate
// basename: the two direct suffix forms, the two numbered-duplicate forms
// when the candidate ends in "(N)", and a case-insensitive directory scan
// as a last resort.
func probe(dir, base string) (string, bool) {
	names := probeNames(base)
	for _, name := range names {
		p := filepath.Join(dir, name)
		if fileExists(p) {
			return p, true
		}
	}
	return caseInsensitiveScan(dir, base)
}

func probeNames(base string) []string {
	names := []string{
		base + ".supplemental-metadata.json",
		base + ".json",
	}
	if m := reNumberedBase.FindStringSubmatch(base); m != nil {
		stem, n := m[1], m[2]
		names = append(names,
			stem+".supplemental-metadata("+n+").json",
			stem+"("+n+").json",
		)
	}
	return names
}

func caseInsensitiveScan(dir, base string) (string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}
	want := map[string]bool{
		strings.ToLower(base + ".supplemental-metadata.json"): true,
		strings.ToLower(base + ".json"):                       true,
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if want[strings.ToLower(e.Name())] {
			return filepath.Join(dir, e.Name()), true
		}
	}
	return "", false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
