package corpus

import (
	"context"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache is a read-through wrapper around a Store. The manifest and the
// distractor pool are fetched at most once per process; concurrent first
// reads share a single in-flight fetch instead of racing. Chunks are
// memoized per index since they are immutable for the process lifetime.
type Cache struct {
	store Store
	group singleflight.Group

	mu          sync.RWMutex
	manifest    *Manifest
	distractors Pool
	chunks      map[int][]Sentence
}

// NewCache wraps store with read-through memoization.
func NewCache(store Store) *Cache {
	return &Cache{
		store:  store,
		chunks: make(map[int][]Sentence),
	}
}

func (c *Cache) Manifest(ctx context.Context) (*Manifest, error) {
	c.mu.RLock()
	m := c.manifest
	c.mu.RUnlock()
	if m != nil {
		return m, nil
	}

	v, err, _ := c.group.Do("manifest", func() (any, error) {
		m, err := c.store.Manifest(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.manifest = m
		c.mu.Unlock()
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Manifest), nil
}

func (c *Cache) Distractors(ctx context.Context) (Pool, error) {
	c.mu.RLock()
	p := c.distractors
	c.mu.RUnlock()
	if p != nil {
		return p, nil
	}

	v, err, _ := c.group.Do("distractors", func() (any, error) {
		p, err := c.store.Distractors(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.distractors = p
		c.mu.Unlock()
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Pool), nil
}

func (c *Cache) Chunk(ctx context.Context, index int) ([]Sentence, error) {
	c.mu.RLock()
	cached, ok := c.chunks[index]
	c.mu.RUnlock()
	if ok {
		return cached, nil
	}

	key := "chunk:" + strconv.Itoa(index)
	v, err, _ := c.group.Do(key, func() (any, error) {
		sentences, err := c.store.Chunk(ctx, index)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.chunks[index] = sentences
		c.mu.Unlock()
		return sentences, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]Sentence), nil
}

// Invalidate drops all cached values. Exposed for tests and for a future
// reload signal; production restarts the process instead.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.manifest = nil
	c.distractors = nil
	c.chunks = make(map[int][]Sentence)
	c.mu.Unlock()
}
