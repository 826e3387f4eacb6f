// Package corpus provides read access to the pre-tokenized parallel
// sentence corpus: a manifest, fixed-size sentence chunks, and the
// per-language distractor pool.
package corpus

import "context"

// Translation is one target-language rendition of a sentence.
type Translation struct {
	// Text is the full surface string, punctuation included.
	Text string `json:"text"`

	// Tokens is the pre-computed ordered token sequence. For
	// concatenative languages they reassemble to Text once punctuation
	// and whitespace are stripped; for agglutinative languages they are
	// morphemes and do not.
	Tokens []string `json:"tokens"`
}

// Sentence is one corpus entry: an English source and its translations.
type Sentence struct {
	ID           int                    `json:"id"`
	English      string                 `json:"en"`
	Translations map[string]Translation `json:"translations"`
}

// Manifest describes the corpus layout.
type Manifest struct {
	Total     int      `json:"total"`
	Chunks    int      `json:"chunks"`
	ChunkSize int      `json:"chunk_size"`
	Languages []string `json:"languages"`
}

// Pool maps a language code to its flat list of candidate distractor
// tokens, drawn from across the corpus by the offline data pipeline.
type Pool map[string][]string

// Store is the corpus collaborator consumed by the exercise builder.
// Implementations are read-only; chunk contents never change for the
// life of a process.
type Store interface {
	// Manifest returns the corpus metadata.
	Manifest(ctx context.Context) (*Manifest, error)

	// Chunk returns the sentences of chunk index, covering global
	// sentence IDs [index*ChunkSize, (index+1)*ChunkSize).
	Chunk(ctx context.Context, index int) ([]Sentence, error)

	// Distractors returns the per-language distractor pool.
	Distractors(ctx context.Context) (Pool, error)
}
