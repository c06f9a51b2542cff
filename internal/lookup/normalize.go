// Package lookup implements the truck/trailer lookup data model: identifier
// normalization, the derived dual-map index, and the merge rules applied to
// imported yard sheets.
package lookup

import (
	"strings"

	"golang.org/x/text/cases"
)

// TrailerPrefix is an optional trailer-identifier prefix that must be
// transparent to lookup: a trailer is searchable with or without it.
const TrailerPrefix = "o-"

// NormalizeID trims an identifier for storage. Case is preserved for
// display; all comparisons must go through Fold.
func NormalizeID(raw string) string {
	return strings.TrimSpace(raw)
}

// Fold returns the canonical comparison form of an identifier: trimmed and
// case-folded. Two identifiers are the same key iff their folds are equal.
func Fold(raw string) string {
	return cases.Fold().String(strings.TrimSpace(raw))
}

// StripTrailerPrefix returns the trailer identifier without its "o-" prefix
// and true when the prefix applies (case-insensitively). When the trailer
// does not carry the prefix it returns "" and false.
func StripTrailerPrefix(trailer string) (string, bool) {
	trimmed := strings.TrimSpace(trailer)
	if len(trimmed) < len(TrailerPrefix) {
		return "", false
	}
	if !strings.EqualFold(trimmed[:len(TrailerPrefix)], TrailerPrefix) {
		return "", false
	}
	return trimmed[len(TrailerPrefix):], true
}
