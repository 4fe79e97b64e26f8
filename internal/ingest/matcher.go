package ingest

import "strings"

// ImageSet holds the storage file names matched to one vehicle. Cover is
// empty when no head image matched; that is not an error, the row proceeds
// without images.
type ImageSet struct {
	Cover   string
	Gallery []string
}

// MatchImages selects a cover and gallery for a model key from the full
// storage listing. A file containing "head" becomes the cover (first match in
// listing order wins); every other matching file joins the gallery in listing
// order. An empty key matches nothing.
func MatchImages(modelKey string, fileNames []string) ImageSet {
	var set ImageSet
	if modelKey == "" {
		return set
	}
	tightKey := StripHyphens(modelKey)

	for _, name := range fileNames {
		normName := Normalize(name)
		if !matchesKey(normName, modelKey, tightKey) {
			continue
		}
		if strings.Contains(normName, "head") {
			if set.Cover == "" {
				set.Cover = name
			}
			continue
		}
		set.Gallery = append(set.Gallery, name)
	}
	return set
}

// matchesKey applies the loose rule (key prefix followed by a word boundary)
// and the tight rule (hyphen-stripped prefix). The tight rule exists because
// upload conventions are inconsistent about hyphenation: arona-head.webp and
// aronahead.webp must resolve to the same vehicle. A key that is a prefix of
// another model's key can still collide under the tight rule since no
// boundary survives stripping.
func matchesKey(normName, key, tightKey string) bool {
	if strings.HasPrefix(normName, key) {
		rest := normName[len(key):]
		if rest == "" || rest[0] == '-' {
			return true
		}
	}
	return strings.HasPrefix(StripHyphens(normName), tightKey)
}
