package compare

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// CollapseWhitespace folds every run of Unicode whitespace into a single
// space and trims both ends.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Fold applies Unicode case folding, the comparison form used when
// CaseSensitive is off.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// NormalizeString produces the comparison key for a leaf string value. Two
// strings are option-equivalent iff their normalized forms are equal.
func NormalizeString(s string, opts *Options) string {
	if opts.IgnoreWhitespace {
		s = CollapseWhitespace(s)
	}
	if !opts.CaseSensitive {
		s = Fold(s)
	}
	return s
}

// IsBlank reports whether s contains only whitespace.
func IsBlank(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
