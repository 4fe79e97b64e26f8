package ingest

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// Turkish letters do not decompose to ASCII under NFD, so they are mapped
	// explicitly before the generic accent fold.
	turkishReplacer = strings.NewReplacer(
		"ş", "s", "Ş", "s",
		"ı", "i", "İ", "i",
		"ö", "o", "Ö", "o",
		"ü", "u", "Ü", "u",
		"ç", "c", "Ç", "c",
		"ğ", "g", "Ğ", "g",
	)

	nonAlphanumRegex = regexp.MustCompile(`[^a-z0-9]+`)
)

// Normalize converts a free-form name into a comparable ASCII slug key:
// lowercase, Turkish letters transliterated, remaining accents folded, every
// non-alphanumeric run collapsed to a single hyphen, outer hyphens trimmed.
// It never fails; symbol-only input yields an empty string.
func Normalize(s string) string {
	s = turkishReplacer.Replace(s)
	s = strings.ToLower(s)

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, _ = transform.String(t, s)

	s = nonAlphanumRegex.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// StripHyphens removes every hyphen from a normalized key, producing the
// tight form used when upload conventions disagree about hyphenation.
func StripHyphens(s string) string {
	return strings.ReplaceAll(s, "-", "")
}

// ModelKey returns the matching key for a vehicle: the normalized first word
// of its display name.
func ModelKey(name string) string {
	fields := strings.Fields(strings.TrimSpace(name))
	if len(fields) == 0 {
		return ""
	}
	return Normalize(fields[0])
}
