package builder

import (
	"regexp"
	"strings"
	"unicode"
)

// tilePunctuation is the fixed set of characters that never belong on a
// tile: CJK punctuation, curly quotes, Western punctuation, and the
// full-width variants the tokenizers occasionally emit.
const tilePunctuation = "。，、；：？！…—·「」『』（）【】《》〈〉" +
	"“”‘’" +
	`.,;:?!()[]"'-–—` +
	"～〜．＇＂"

// quoteRunes are quotation marks that signal a malformed token boundary
// when they appear at either edge of a token.
const quoteRunes = `"'“”‘’＂＇`

// multiDialogue matches an English source embedding two quoted utterances
// separated by whitespace, e.g. `"Hello." "Hi there."`. Such sentences
// make poor single-answer exercises.
var multiDialogue = regexp.MustCompile(`"\s+"`)

// isPunct reports whether r is in the fixed tile punctuation set or is
// whitespace.
func isPunct(r rune) bool {
	return unicode.IsSpace(r) || strings.ContainsRune(tilePunctuation, r)
}

// ValidToken reports whether a token may appear on a tile, either as a
// correct token or as a distractor. A token is rejected when it is empty
// or whitespace, consists purely of punctuation, or starts or ends with a
// quotation mark.
func ValidToken(token string) bool {
	if strings.TrimSpace(token) == "" {
		return false
	}

	stripped := strings.Map(func(r rune) rune {
		if isPunct(r) {
			return -1
		}
		return r
	}, token)
	if stripped == "" {
		return false
	}

	runes := []rune(token)
	if strings.ContainsRune(quoteRunes, runes[0]) || strings.ContainsRune(quoteRunes, runes[len(runes)-1]) {
		return false
	}
	return true
}

// ValidTokens returns the tokens that pass ValidToken, order preserved.
func ValidTokens(tokens []string) []string {
	var out []string
	for _, t := range tokens {
		if ValidToken(t) {
			out = append(out, t)
		}
	}
	return out
}

// SuitableEnglish reports whether an English source sentence is usable as
// an exercise prompt. It rejects multi-dialogue sentences; the check
// deliberately inspects only the English side.
func SuitableEnglish(english string) bool {
	return !multiDialogue.MatchString(english)
}
