package builder

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/ayasuda/kumitate/internal/corpus"
)

var (
	// ErrNoSuitableSentence means every sampled sentence failed the
	// suitability filter within the retry bound. A fresh request will
	// usually succeed.
	ErrNoSuitableSentence = errors.New("no suitable sentence found")

	// ErrSentenceNotFound means the computed chunk/offset did not yield
	// a sentence record.
	ErrSentenceNotFound = errors.New("sentence not found")
)

// DefaultMaxRetries bounds the suitability retry loop.
const DefaultMaxRetries = 10

// Builder constructs exercises from a corpus store.
// Safe for concurrent use; the random source is guarded internally.
type Builder struct {
	store      corpus.Store
	maxRetries int

	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a Builder. The random source is injected so shuffle and
// selection behavior is reproducible in tests.
func New(store corpus.Store, rng *rand.Rand) *Builder {
	return &Builder{
		store:      store,
		rng:        rng,
		maxRetries: DefaultMaxRetries,
	}
}

// Build picks a random suitable sentence and returns one exercise per
// requested language that has valid tokens for it. An empty langs slice
// means every language the manifest advertises.
//
// Returns ErrNoSuitableSentence when the retry bound is exhausted.
func (b *Builder) Build(ctx context.Context, langs []string) (*UnifiedExercise, error) {
	m, err := b.store.Manifest(ctx)
	if err != nil {
		return nil, fmt.Errorf("load manifest: %w", err)
	}
	if m.Total <= 0 {
		return nil, ErrNoSuitableSentence
	}
	pool, err := b.store.Distractors(ctx)
	if err != nil {
		return nil, fmt.Errorf("load distractor pool: %w", err)
	}
	if len(langs) == 0 {
		langs = m.Languages
	}

	for attempt := 0; attempt < b.maxRetries; attempt++ {
		index := b.intn(m.Total)
		sentence, err := b.sentenceAt(ctx, m, index)
		if err != nil {
			return nil, err
		}
		if !SuitableEnglish(sentence.English) {
			continue
		}

		ex := b.assemble(sentence, langs, pool)
		if len(ex.Languages) == 0 {
			// Nothing usable in any requested language; draw again.
			continue
		}
		return ex, nil
	}
	return nil, ErrNoSuitableSentence
}

// BuildForSentence returns the exercise for a specific sentence ID. The
// suitability filter does not apply here: a deterministic re-fetch must
// return whatever the ID names. Used for grading and deep links.
func (b *Builder) BuildForSentence(ctx context.Context, id int, langs []string) (*UnifiedExercise, error) {
	m, err := b.store.Manifest(ctx)
	if err != nil {
		return nil, fmt.Errorf("load manifest: %w", err)
	}
	if id < 0 || id >= m.Total {
		return nil, fmt.Errorf("%w: id %d", ErrSentenceNotFound, id)
	}
	pool, err := b.store.Distractors(ctx)
	if err != nil {
		return nil, fmt.Errorf("load distractor pool: %w", err)
	}
	if len(langs) == 0 {
		langs = m.Languages
	}

	sentence, err := b.sentenceAt(ctx, m, id)
	if err != nil {
		return nil, err
	}
	return b.assemble(sentence, langs, pool), nil
}

// sentenceAt resolves a global sentence index to its record via the
// chunk/offset arithmetic: chunk = index div chunk_size, offset = index
// mod chunk_size. A chunk shorter than the offset is a data-integrity
// failure, not a crash.
func (b *Builder) sentenceAt(ctx context.Context, m *corpus.Manifest, index int) (*corpus.Sentence, error) {
	chunkIndex := index / m.ChunkSize
	offset := index % m.ChunkSize

	chunk, err := b.store.Chunk(ctx, chunkIndex)
	if err != nil {
		return nil, fmt.Errorf("fetch chunk %d: %w", chunkIndex, err)
	}
	if offset >= len(chunk) {
		return nil, fmt.Errorf("%w: index %d beyond chunk %d (%d sentences)",
			ErrSentenceNotFound, index, chunkIndex, len(chunk))
	}
	s := chunk[offset]
	return &s, nil
}

// assemble builds the per-language exercises for one sentence. Languages
// with no translation or no valid tokens are omitted, never padded.
func (b *Builder) assemble(sentence *corpus.Sentence, langs []string, pool corpus.Pool) *UnifiedExercise {
	out := &UnifiedExercise{
		ExerciseID: sentence.ID,
		English:    sentence.English,
		Languages:  make(map[string]Exercise),
	}
	for _, lang := range langs {
		tr, ok := sentence.Translations[lang]
		if !ok {
			continue
		}
		ex, ok := b.buildLanguage(tr, pool[lang])
		if !ok {
			continue
		}
		out.Languages[lang] = ex
	}
	return out
}

// buildLanguage turns one translation into a tile exercise. Returns false
// when no valid tokens survive the filter.
func (b *Builder) buildLanguage(tr corpus.Translation, pool []string) (Exercise, bool) {
	tokens := ValidTokens(tr.Tokens)
	if len(tokens) == 0 {
		return Exercise{}, false
	}

	correct := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		correct[t] = struct{}{}
	}

	distractors := b.selectDistractors(pool, correct, distractorCount(len(tokens)))

	texts := make([]string, 0, len(tokens)+len(distractors))
	texts = append(texts, tokens...)
	texts = append(texts, distractors...)
	b.shuffle(texts)

	tiles := make([]Tile, len(texts))
	for i, text := range texts {
		tiles[i] = Tile{ID: i, Text: text}
	}

	return Exercise{
		Text:            tr.Text,
		Tokens:          tokens,
		Tiles:           tiles,
		NumCorrectTiles: len(tokens),
	}, true
}

// intn draws a uniform index under the rng lock.
func (b *Builder) intn(n int) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rng.Intn(n)
}

// shuffle applies a uniform Fisher–Yates permutation in place.
func (b *Builder) shuffle(s []string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rng.Shuffle(len(s), func(i, j int) {
		s[i], s[j] = s[j], s[i]
	})
}
