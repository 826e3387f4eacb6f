package builder

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/ayasuda/kumitate/internal/corpus"
)

// fakeStore serves a fixed corpus from memory.
type fakeStore struct {
	manifest    corpus.Manifest
	chunks      map[int][]corpus.Sentence
	pool        corpus.Pool
	manifestErr error
	chunkErr    error
}

func (f *fakeStore) Manifest(ctx context.Context) (*corpus.Manifest, error) {
	if f.manifestErr != nil {
		return nil, f.manifestErr
	}
	m := f.manifest
	return &m, nil
}

func (f *fakeStore) Chunk(ctx context.Context, index int) ([]corpus.Sentence, error) {
	if f.chunkErr != nil {
		return nil, f.chunkErr
	}
	chunk, ok := f.chunks[index]
	if !ok {
		return nil, corpus.ErrNoChunk
	}
	return chunk, nil
}

func (f *fakeStore) Distractors(ctx context.Context) (corpus.Pool, error) {
	return f.pool, nil
}

func testStore() *fakeStore {
	return &fakeStore{
		manifest: corpus.Manifest{Total: 4, Chunks: 2, ChunkSize: 2, Languages: []string{"ja", "ko"}},
		chunks: map[int][]corpus.Sentence{
			0: {
				{
					ID:      0,
					English: "I am a student.",
					Translations: map[string]corpus.Translation{
						"ja": {Text: "私は学生です。", Tokens: []string{"私", "は", "学生", "です", "。"}},
						"ko": {Text: "저는 학생이에요.", Tokens: []string{"저", "는", "학생", "이에요"}},
					},
				},
				{
					ID:      1,
					English: "Let's try something.",
					Translations: map[string]corpus.Translation{
						"ja": {Text: "何かしてみましょう。", Tokens: []string{"何", "か", "し", "て", "み", "ましょう", "。"}},
					},
				},
			},
			1: {
				{
					ID:      2,
					English: `"Hello." "Hi there."`,
					Translations: map[string]corpus.Translation{
						"ja": {Text: "「こんにちは」「やあ」", Tokens: []string{"こんにちは", "やあ"}},
					},
				},
				{
					ID:      3,
					English: "Only punctuation.",
					Translations: map[string]corpus.Translation{
						"ja": {Text: "。。。", Tokens: []string{"。", "。", "。"}},
					},
				},
			},
		},
		pool: corpus.Pool{
			"ja": {"犬", "猫", "先生", "本", "水", "食べる", "大きい", "行く", "見る", "話す"},
			"ko": {"물", "책", "개", "고양이", "선생님"},
		},
	}
}

func TestBuildForSentence_ChunkArithmetic(t *testing.T) {
	b := New(testStore(), rand.New(rand.NewSource(1)))

	// Every global index must resolve through chunk*size+offset.
	for id := 0; id < 4; id++ {
		ex, err := b.BuildForSentence(context.Background(), id, nil)
		if err != nil {
			t.Fatalf("id %d: unexpected error: %v", id, err)
		}
		if ex.ExerciseID != id {
			t.Errorf("id %d: got exercise_id %d", id, ex.ExerciseID)
		}
	}
}

func TestBuildForSentence_Exercise(t *testing.T) {
	b := New(testStore(), rand.New(rand.NewSource(3)))

	ex, err := b.BuildForSentence(context.Background(), 0, []string{"ja", "ko"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ex.English != "I am a student." {
		t.Errorf("unexpected english: %q", ex.English)
	}

	ja, ok := ex.Languages["ja"]
	if !ok {
		t.Fatal("missing ja exercise")
	}
	// The punctuation-only token is dropped from the ground truth.
	wantTokens := []string{"私", "は", "学生", "です"}
	if len(ja.Tokens) != len(wantTokens) {
		t.Fatalf("ja tokens = %v, want %v", ja.Tokens, wantTokens)
	}
	for i := range wantTokens {
		if ja.Tokens[i] != wantTokens[i] {
			t.Errorf("ja token %d = %q, want %q", i, ja.Tokens[i], wantTokens[i])
		}
	}
	if ja.NumCorrectTiles != 4 {
		t.Errorf("num_correct_tiles = %d, want 4", ja.NumCorrectTiles)
	}
	// 4 correct tokens → 3 distractors → 7 tiles.
	if len(ja.Tiles) != 7 {
		t.Errorf("got %d tiles, want 7", len(ja.Tiles))
	}
	for i, tile := range ja.Tiles {
		if tile.ID != i {
			t.Errorf("tile %d has id %d; ids must be sequential post-shuffle", i, tile.ID)
		}
	}

	if _, ok := ex.Languages["ko"]; !ok {
		t.Error("missing ko exercise")
	}
}

func TestBuild_TilesContainAllCorrectTokens(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		b := New(testStore(), rand.New(rand.NewSource(seed)))
		ex, err := b.Build(context.Background(), []string{"ja"})
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		ja := ex.Languages["ja"]

		tileTexts := make(map[string]int)
		for _, tile := range ja.Tiles {
			tileTexts[tile.Text]++
		}
		for _, tok := range ja.Tokens {
			if tileTexts[tok] == 0 {
				t.Errorf("seed %d: correct token %q missing from tiles", seed, tok)
			}
		}
	}
}

func TestBuild_DistractorsDisjointFromCorrect(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		b := New(testStore(), rand.New(rand.NewSource(seed)))
		ex, err := b.Build(context.Background(), []string{"ja"})
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		ja := ex.Languages["ja"]

		correct := make(map[string]int)
		for _, tok := range ja.Tokens {
			correct[tok]++
		}
		// Each correct token may appear exactly as often as it occurs in
		// the answer; any extra occurrence would be a colliding distractor.
		seen := make(map[string]int)
		for _, tile := range ja.Tiles {
			seen[tile.Text]++
		}
		for tok, n := range correct {
			if seen[tok] > n {
				t.Errorf("seed %d: token %q appears %d times in tiles but %d times in answer",
					seed, tok, seen[tok], n)
			}
		}
	}
}

func TestBuild_SkipsMultiDialogueSentences(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		b := New(testStore(), rand.New(rand.NewSource(seed)))
		ex, err := b.Build(context.Background(), []string{"ja"})
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if ex.ExerciseID == 2 {
			t.Errorf("seed %d: multi-dialogue sentence 2 was selected", seed)
		}
	}
}

func TestBuild_NoSuitableSentence(t *testing.T) {
	store := testStore()
	// Make every sentence unsuitable.
	for _, chunk := range store.chunks {
		for i := range chunk {
			chunk[i].English = `"A." "B."`
		}
	}

	b := New(store, rand.New(rand.NewSource(1)))
	_, err := b.Build(context.Background(), nil)
	if !errors.Is(err, ErrNoSuitableSentence) {
		t.Fatalf("got %v, want ErrNoSuitableSentence", err)
	}
}

func TestBuild_OmitsLanguageWithoutValidTokens(t *testing.T) {
	b := New(testStore(), rand.New(rand.NewSource(9)))

	// Sentence 3 has only punctuation tokens in ja.
	ex, err := b.BuildForSentence(context.Background(), 3, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ex.Languages) != 0 {
		t.Errorf("expected no languages, got %v", ex.Languages)
	}
}

func TestBuildForSentence_OutOfRange(t *testing.T) {
	b := New(testStore(), rand.New(rand.NewSource(1)))

	for _, id := range []int{-1, 4, 100} {
		_, err := b.BuildForSentence(context.Background(), id, nil)
		if !errors.Is(err, ErrSentenceNotFound) {
			t.Errorf("id %d: got %v, want ErrSentenceNotFound", id, err)
		}
	}
}

func TestBuildForSentence_ShortChunk(t *testing.T) {
	store := testStore()
	store.chunks[1] = store.chunks[1][:1] // chunk 1 is missing its second sentence

	b := New(store, rand.New(rand.NewSource(1)))
	_, err := b.BuildForSentence(context.Background(), 3, nil)
	if !errors.Is(err, ErrSentenceNotFound) {
		t.Fatalf("got %v, want ErrSentenceNotFound for short chunk", err)
	}
}

func TestBuild_SurfacesStoreFailure(t *testing.T) {
	store := testStore()
	store.manifestErr = errors.New("storage down")

	b := New(store, rand.New(rand.NewSource(1)))
	if _, err := b.Build(context.Background(), nil); err == nil {
		t.Fatal("expected manifest failure to surface")
	}
}
