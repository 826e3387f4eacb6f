// Package builder assembles tile exercises from the pre-tokenized corpus:
// it picks a sentence, filters invalid tokens, selects distractors, and
// emits a shuffled tile set per language.
package builder

// Tile is one draggable unit in the word bank. IDs are assigned after the
// final shuffle, so they are purely positional and stable only within a
// single exercise instance.
type Tile struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// Exercise is the per-language exercise payload.
type Exercise struct {
	// Text is the full reference translation, used as the display form
	// of the expected answer.
	Text string `json:"text"`

	// Tokens is the filtered correct token sequence in order — the
	// ground truth the grader compares against.
	Tokens []string `json:"tokens"`

	// Tiles is the shuffled word bank: correct tokens plus distractors.
	Tiles []Tile `json:"tiles"`

	// NumCorrectTiles tells the UI how many tiles the answer needs.
	// The grader never reads it.
	NumCorrectTiles int `json:"num_correct_tiles"`
}

// UnifiedExercise is one chosen sentence rendered as an exercise in every
// language that has a usable translation for it.
type UnifiedExercise struct {
	// ExerciseID is the corpus sentence ID, usable for a deterministic
	// re-fetch of the same sentence.
	ExerciseID int `json:"exercise_id"`

	// English is the source prompt shown to the learner.
	English string `json:"english"`

	// Languages maps language code to its exercise. Languages with no
	// translation, or no valid tokens, are absent.
	Languages map[string]Exercise `json:"languages"`
}
