package corpus

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
)

// countingStore counts underlying fetches.
type countingStore struct {
	manifestCalls   atomic.Int32
	chunkCalls      atomic.Int32
	distractorCalls atomic.Int32
}

func (c *countingStore) Manifest(ctx context.Context) (*Manifest, error) {
	c.manifestCalls.Add(1)
	return &Manifest{Total: 1, Chunks: 1, ChunkSize: 1000, Languages: []string{"ja"}}, nil
}

func (c *countingStore) Chunk(ctx context.Context, index int) ([]Sentence, error) {
	c.chunkCalls.Add(1)
	return []Sentence{{ID: 0, English: "x", Translations: map[string]Translation{
		"ja": {Text: "x", Tokens: []string{"x"}},
	}}}, nil
}

func (c *countingStore) Distractors(ctx context.Context) (Pool, error) {
	c.distractorCalls.Add(1)
	return Pool{"ja": {"犬"}}, nil
}

func TestCache_SingleFetch(t *testing.T) {
	inner := &countingStore{}
	cache := NewCache(inner)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := cache.Manifest(ctx); err != nil {
			t.Fatal(err)
		}
		if _, err := cache.Distractors(ctx); err != nil {
			t.Fatal(err)
		}
		if _, err := cache.Chunk(ctx, 0); err != nil {
			t.Fatal(err)
		}
	}

	if n := inner.manifestCalls.Load(); n != 1 {
		t.Errorf("manifest fetched %d times, want 1", n)
	}
	if n := inner.distractorCalls.Load(); n != 1 {
		t.Errorf("distractors fetched %d times, want 1", n)
	}
	if n := inner.chunkCalls.Load(); n != 1 {
		t.Errorf("chunk fetched %d times, want 1", n)
	}
}

func TestCache_ConcurrentFirstAccess(t *testing.T) {
	inner := &countingStore{}
	cache := NewCache(inner)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Manifest(ctx); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	// The single-flight guard collapses concurrent first reads; at most
	// a couple of fetches are tolerable, corruption never is.
	if n := inner.manifestCalls.Load(); n > 2 {
		t.Errorf("manifest fetched %d times under concurrency", n)
	}
}

func TestCache_Invalidate(t *testing.T) {
	inner := &countingStore{}
	cache := NewCache(inner)
	ctx := context.Background()

	if _, err := cache.Manifest(ctx); err != nil {
		t.Fatal(err)
	}
	cache.Invalidate()
	if _, err := cache.Manifest(ctx); err != nil {
		t.Fatal(err)
	}

	if n := inner.manifestCalls.Load(); n != 2 {
		t.Errorf("manifest fetched %d times after invalidation, want 2", n)
	}
}
