// Package textmatch provides the string normalization and similarity scoring
// used by the column mapper and foreign-key matching.
package textmatch

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize folds a header or reference label into its canonical matching
// form: lowercased, diacritics stripped, whitespace and punctuation removed.
// Arabic letters pass through untouched; tatweel and combining marks do not.
// PRE: none
// POST: result contains only lowercase letters and digits
func Normalize(s string) string {
	decomposed := norm.NFD.String(strings.ToLower(strings.TrimSpace(s)))
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		switch {
		case unicode.Is(unicode.Mn, r):
			// combining marks (Latin accents, Arabic harakat)
		case r == 0x0640:
			// tatweel
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Similarity scores two already-normalized strings in the 0-100 range using
// normalized Levenshtein distance. Identical strings score 100; strings with
// nothing in common score 0.
// PRE: a and b are Normalize output
// POST: 0 <= score <= 100; Similarity(a, a) == 100
func Similarity(a, b string) int {
	if a == b {
		if a == "" {
			return 0
		}
		return 100
	}
	ra := []rune(a)
	rb := []rune(b)
	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}
	if maxLen == 0 {
		return 0
	}
	dist := levenshtein(ra, rb)
	return int(100 * (1 - float64(dist)/float64(maxLen)))
}

// levenshtein computes the edit distance between two rune slices using the
// two-row dynamic programming form.
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost
			curr[j] = min(del, ins, sub)
		}
		copy(prev, curr)
	}
	return prev[len(b)]
}
