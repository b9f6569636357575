package catalogparser

import (
	"strconv"
	"strings"

	"golang.org/x/text/width"
)

// CanonicalRegionID converts a numeric region id to its zero-padded 3-digit
// form ("13" -> "013"). Non-numeric ids are returned trimmed but otherwise
// unchanged. Canonicalizing at ingestion removes the need for loose
// string/number comparison anywhere downstream.
func CanonicalRegionID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return id
	}
	n, err := strconv.Atoi(id)
	if err != nil || n < 0 {
		return id
	}
	return pad3(n)
}

func pad3(n int) string {
	s := strconv.Itoa(n)
	for len(s) < 3 {
		s = "0" + s
	}
	return s
}

// FoldKey normalizes a clinic code or text item key for lookup: full-width
// characters are folded to their half-width equivalents and surrounding
// whitespace is stripped. Spreadsheet-sourced keys mix both widths.
func FoldKey(key string) string {
	return strings.TrimSpace(width.Fold.String(key))
}
