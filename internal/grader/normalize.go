// Package grader decides whether a learner's tile sequence matches the
// reference translation, under language-appropriate comparison rules.
package grader

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// gradePunctuation is stripped before comparison: CJK and Western
// punctuation, curly quotes, brackets, and full-width variants. It is a
// superset of the tile filter's set so a stripped reference text can
// never retain a character the tiles cannot produce.
const gradePunctuation = "。，、；：？！…—・·「」『』（）【】《》〈〉" +
	"“”‘’" +
	`.,;:?!()[]{}"'-–—` +
	"～〜．＇＂"

// Normalize maps a string to its canonical comparison form: NFKC
// (compatibility folding, e.g. full-width → half-width), then all
// whitespace and all punctuation removed. Two strings are equivalent for
// grading iff their normalized forms are identical.
func Normalize(s string) string {
	s = norm.NFKC.String(s)
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		if strings.ContainsRune(gradePunctuation, r) {
			return -1
		}
		return r
	}, s)
}
