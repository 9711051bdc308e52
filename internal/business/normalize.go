package business

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalize drops every rune that is neither a word rune (letter, number,
// underscore) nor whitespace and lowercases what is left.
//
// Lowercasing uses full Unicode case mapping, so a word-final Σ becomes ς.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isWordRune(r) || isSpace(r) {
			b.WriteRune(r)
		}
	}
	// Casers keep state between calls and must not be shared.
	return cases.Lower(language.Und).String(b.String())
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// isSpace also treats the information separators U+001C..U+001F as
// whitespace, as text coming from Python-based clients does.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= '\x1c' && r <= '\x1f')
}

func isBlank(s string) bool {
	return strings.TrimFunc(s, isSpace) == ""
}
