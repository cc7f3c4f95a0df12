package sidecar

import (
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// transform generates one candidate sidecar basename from a media basename.
// ok reports whether the transform applies at all; callers skip the probe
// when it does not (e.g. bracket-swap when there is no "(N)." to swap).
type transform struct {
	name  string
	apply func(base string) (candidate string, ok bool)
}

// heavyFormatExts is the "extension-fixing" target set §4.1 step 4 expects
// stage 1 (extfix) to have appended onto a misnamed light-format file.
var heavyFormatExts = []string{"heic", "heif", "tiff", "tif", "webp", "avif", "cr2", "dng", "arw", "nef", "raf", "crw", "cr3", "nrw"}
var lightFormatExts = []string{"jpg", "jpeg", "png"}

var extGroup = strings.Join(lightFormatExts, "|")
var heavyGroup = strings.Join(heavyFormatExts, "|")

var reLightThenHeavy = regexp.MustCompile(`(?i)^(.+?)(\(\d+\))?\.(` + extGroup + `)\.(` + heavyGroup + `)$`)
var reHeavyThenLight = regexp.MustCompile(`(?i)^(.+?)(\(\d+\))?\.(` + heavyGroup + `)\.(` + extGroup + `)$`)
var reBracketBeforeExt = regexp.MustCompile(`^(.+)(\(\d+\))(\.[^.]+)$`)
var reNumberedBase = regexp.MustCompile(`^(.+)\((\d+)\)$`)
var reSingleDigitParen = regexp.MustCompile(`\(\d\)\.`)

// extraSuffixes is the fixed table of localized "edited" markers Google
// Photos appends to a derivative file name (§4.1 step 6, Glossary "Extra").
var extraSuffixes = []string{
	"-edited",
	"-edytowane",
	"-bearbeitet",
	"-modifié",
	"-modificato",
	"-editado",
	"-editat",
	"-bewerkt",
	"-redigerad",
	"-redigeret",
	"-redigert",
	"-muokattu",
	"-upraveno",
	"-szerkesztve",
	"-editat",
	"-düzenlendi",
	"-diedit",
	"-đã chỉnh sửa",
	"-แก้ไขแล้ว",
	"-수정됨",
	"-編集済み",
	"-已編輯",
	"-отредактировано",
	"-відредаговано",
}

// basicTransforms run unconditionally, in strict decreasing-reliability
// order (§4.1).
var basicTransforms = []transform{
	{"identity", identityTransform},
	{"shortening", shorteningTransform},
	{"bracket-swap", bracketSwapTransform},
	{"extension-fixing-reverse", extensionFixingReverseTransform},
	{"drop-extension", dropExtensionTransform},
	{"extra-suffix-removal", extraSuffixRemovalTransform},
}

// aggressiveTransforms run only when try_hard is requested (§4.1).
var aggressiveTransforms = []transform{
	{"partial-extra-suffix", partialExtraSuffixTransform},
	{"partial-extension-restore", partialExtensionRestoreTransform},
	{"edge-case-extra", edgeCaseExtraTransform},
	{"digit-removal", digitRemovalTransform},
}

func identityTransform(base string) (string, bool) {
	return base, true
}

// shorteningTransform addresses filesystems that silently truncated
// Google's JSON filenames: if basename+".json" exceeds 51 characters,
// truncate the basename to 51-5=46 characters.
func shorteningTransform(base string) (string, bool) {
	if len(base)+len(".json") <= 51 {
		return "", false
	}
	const maxLen = 51 - 5
	r := []rune(base)
	if len(r) <= maxLen {
		return base, true
	}
	return string(r[:maxLen]), true
}

// bracketSwapTransform moves a trailing "(N)" that precedes the extension
// to after it: image(11).jpg -> image.jpg(11).
func bracketSwapTransform(base string) (string, bool) {
	m := reBracketBeforeExt.FindStringSubmatch(base)
	if m == nil {
		return "", false
	}
	name, num, ext := m[1], m[2], m[3]
	return name + ext + num, true
}

// extensionFixingReverseTransform undoes stage 1's extension correction:
// "name(N).jpg.heic" (or its reverse, "name(N).heic.jpg") reconstructs to
// "name.HEIC(N)", the name the original sidecar was written against.
func extensionFixingReverseTransform(base string) (string, bool) {
	if m := reLightThenHeavy.FindStringSubmatch(base); m != nil {
		name, num, heavy := m[1], m[2], m[4]
		return name + "." + strings.ToUpper(heavy) + num, true
	}
	if m := reHeavyThenLight.FindStringSubmatch(base); m != nil {
		name, num, heavy := m[1], m[2], m[3]
		return name + "." + strings.ToUpper(heavy) + num, true
	}
	return "", false
}

func dropExtensionTransform(base string) (string, bool) {
	ext := filepath.Ext(base)
	if ext == "" {
		return "", false
	}
	return strings.TrimSuffix(base, ext), true
}

// extraSuffixRemovalTransform strips a known "edited" marker (with an
// optional trailing "(N)") from just before the extension, after
// normalizing to NFC since some filesystems deliver NFD-decomposed names.
func extraSuffixRemovalTransform(base string) (string, bool) {
	normalized := norm.NFC.String(base)
	ext := filepath.Ext(normalized)
	stem := strings.TrimSuffix(normalized, ext)

	stem, num := splitTrailingParenNumber(stem)
	for _, marker := range extraSuffixes {
		if strings.HasSuffix(strings.ToLower(stem), strings.ToLower(marker)) {
			trimmed := stem[:len(stem)-len(marker)]
			return trimmed + num + ext, true
		}
	}
	return "", false
}

func splitTrailingParenNumber(s string) (rest string, paren string) {
	m := reNumberedBase.FindStringSubmatch(s)
	if m == nil {
		return s, ""
	}
	return m[1], "(" + m[2] + ")"
}

// partialExtraSuffixTransform (try_hard only) strips any 2-character-or-
// longer prefix of a known extra marker found truncated at the end of the
// stem, guarding against filesystem name-length truncation landing mid-marker.
func partialExtraSuffixTransform(base string) (string, bool) {
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	stem, num := splitTrailingParenNumber(stem)
	lower := strings.ToLower(stem)

	bestLen := 0
	for _, marker := range extraSuffixes {
		lm := strings.ToLower(marker)
		for n := len(lm); n >= 2; n-- {
			prefix := lm[:n]
			if strings.HasSuffix(lower, prefix) && n > bestLen {
				bestLen = n
			}
		}
	}
	if bestLen == 0 {
		return "", false
	}
	return stem[:len(stem)-bestLen] + num + ext, true
}

// truncatedExtensions maps a truncated extension (observed when both the
// marker and the extension were cut by a filesystem name-length limit) to
// its likely canonical form.
var truncatedExtensions = map[string]string{
	".jp":  ".jpg",
	".jpe": ".jpeg",
	".pn":  ".png",
	".hei": ".heic",
	".ti":  ".tiff",
	".we":  ".webp",
}

// partialExtensionRestoreTransform (try_hard only) runs after the partial
// marker strip and additionally restores a truncated extension from a fixed
// candidate table.
func partialExtensionRestoreTransform(base string) (string, bool) {
	stripped, ok := partialExtraSuffixTransform(base)
	if !ok {
		return "", false
	}
	ext := filepath.Ext(stripped)
	full, known := truncatedExtensions[strings.ToLower(ext)]
	if !known {
		return "", false
	}
	stem := strings.TrimSuffix(stripped, ext)
	return stem + full, true
}

// edgeCaseExtraTransform (try_hard only) catches markers that lost their
// leading hyphen to truncation (e.g. "...edited" without the dash), the one
// otherwise-missed truncation shape observed in practice.
func edgeCaseExtraTransform(base string) (string, bool) {
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	stem, num := splitTrailingParenNumber(stem)
	lower := strings.ToLower(stem)
	for _, marker := range extraSuffixes {
		bare := strings.TrimPrefix(marker, "-")
		if bare == marker || len(bare) < 2 {
			continue
		}
		if strings.HasSuffix(lower, bare) {
			return stem[:len(stem)-len(bare)] + num + ext, true
		}
	}
	return "", false
}

// digitRemovalTransform (try_hard only) strips a single-digit "(N)." run
// immediately before the extension; multi-digit numbers are left alone
// since they more likely denote genuine duplicate numbering.
func digitRemovalTransform(base string) (string, bool) {
	if !reSingleDigitParen.MatchString(base) {
		return "", false
	}
	return reSingleDigitParen.ReplaceAllString(base, "."), true
}
