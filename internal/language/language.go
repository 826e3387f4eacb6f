// Package language defines the closed set of supported target languages
// and the grading mode each one uses.
package language

// Mode describes how a learner's tile sequence is compared against the
// reference translation.
type Mode string

const (
	// ModeConcatenative means the tokens of a correct answer reassemble
	// into the surface text once punctuation and whitespace are stripped
	// (Japanese, Chinese). Grading concatenates and compares one string.
	ModeConcatenative Mode = "concatenative"

	// ModeTokenSequence means tokens are morpheme-level units that do not
	// concatenate back to the surface text (Korean, Turkish). Grading
	// compares the token sequences position by position.
	ModeTokenSequence Mode = "token_sequence"
)

// Language is one supported target language.
type Language struct {
	// Code is the corpus language code, e.g. "ja".
	Code string

	// Name is the English display name.
	Name string

	// Mode selects the grading strategy.
	Mode Mode

	// JoinSep is the separator used when rendering a submitted token
	// sequence back into a display string. Turkish reads with spaces;
	// Japanese, Chinese and Korean display conventions use none.
	JoinSep string
}

// registry is the explicit language→mode lookup table. Grading behavior
// must never be decided by ad hoc string checks outside this table.
var registry = map[string]Language{
	"ja": {Code: "ja", Name: "Japanese", Mode: ModeConcatenative, JoinSep: ""},
	"zh": {Code: "zh", Name: "Chinese", Mode: ModeConcatenative, JoinSep: ""},
	"ko": {Code: "ko", Name: "Korean", Mode: ModeTokenSequence, JoinSep: ""},
	"tr": {Code: "tr", Name: "Turkish", Mode: ModeTokenSequence, JoinSep: " "},
}

// Lookup returns the Language for a corpus code. Unknown codes fall back
// to concatenative grading with no separator, matching how the corpus
// treats languages added before the registry learns about them.
func Lookup(code string) Language {
	if l, ok := registry[code]; ok {
		return l
	}
	return Language{Code: code, Name: code, Mode: ModeConcatenative, JoinSep: ""}
}

// Known reports whether code is in the registry.
func Known(code string) bool {
	_, ok := registry[code]
	return ok
}

// Codes returns the registered language codes in a stable order.
func Codes() []string {
	return []string{"ja", "zh", "ko", "tr"}
}
