// Package normalize provides the locale-insensitive text form used for
// matching suggestions: lowercase, diacritic-free, punctuation-collapsed.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFD, removes combining marks, and recomposes.
// This folds "é" to "e" but leaves letters with no decomposition alone.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// baseLetters maps letters that have no Unicode decomposition to their
// base Latin form. Vietnamese đ is the common case in our catalog.
var baseLetters = strings.NewReplacer(
	"đ", "d",
	"Đ", "d",
)

// String returns the normalized form of s: lowercase, diacritics stripped,
// every non-word rune replaced by a space, whitespace collapsed, trimmed.
// Pure and idempotent; never fails.
func String(s string) string {
	folded, _, err := transform.String(stripMarks, strings.ToLower(s))
	if err != nil {
		// The transform chain cannot fail on valid UTF-8; fall back to the
		// lowercased input so matching degrades instead of breaking.
		folded = strings.ToLower(s)
	}
	folded = baseLetters.Replace(folded)

	var b strings.Builder
	b.Grow(len(folded))
	space := false
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		} else {
			space = true
		}
	}
	return b.String()
}
