// Package textnorm normalizes recognized text for matching, so queries hit
// watermarks regardless of letter case in either the query or the stored
// text.
package textnorm

import (
	"strings"

	"golang.org/x/text/cases"
)

// Fold trims and case-folds s for caseless comparison. Folding handles
// characters simple lowercasing misses, such as the German eszett.
func Fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// Contains reports whether haystack contains needle under case folding. An
// empty needle matches everything.
func Contains(haystack, needle string) bool {
	if strings.TrimSpace(needle) == "" {
		return true
	}
	return strings.Contains(Fold(haystack), Fold(needle))
}
