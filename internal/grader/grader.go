package grader

import (
	"strings"

	"github.com/ayasuda/kumitate/internal/language"
)

// Expected is the reference side of a grading comparison: the display
// text and the filtered correct token sequence produced by the builder.
type Expected struct {
	// Text is the full reference translation, used both for
	// concatenative comparison and as the display form in the result.
	Text string

	// Tokens is the builder's ground-truth token sequence, consumed by
	// token-sequence grading.
	Tokens []string
}

// Result is the grading verdict.
type Result struct {
	Correct bool `json:"correct"`

	// Expected is the display form of the reference answer,
	// un-normalized.
	Expected string `json:"expected"`

	// Submitted is the learner's answer rendered with the language's
	// display separator.
	Submitted string `json:"submitted"`
}

// Grade compares a learner's ordered tile texts against the expected
// answer for lang. It is a pure function: identical inputs always yield
// identical results, so clients may grade locally without a round trip.
func Grade(lang language.Language, expected Expected, submitted []string) Result {
	res := Result{
		Expected:  expected.Text,
		Submitted: strings.Join(submitted, lang.JoinSep),
	}

	switch lang.Mode {
	case language.ModeTokenSequence:
		res.Correct = equalTokenSequences(expected.Tokens, submitted)
	default:
		// Concatenative: tokens reassemble into the surface form once
		// punctuation and whitespace are gone.
		res.Correct = Normalize(strings.Join(submitted, "")) == Normalize(expected.Text)
	}
	return res
}

// equalTokenSequences requires the same token count and a normalized
// match at every position. Reordering is never tolerated: morpheme order
// is part of the answer.
func equalTokenSequences(expected, submitted []string) bool {
	if len(expected) != len(submitted) {
		return false
	}
	for i := range expected {
		if Normalize(submitted[i]) != Normalize(expected[i]) {
			return false
		}
	}
	return true
}
