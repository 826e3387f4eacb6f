package corpus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
)

// ErrNoChunk indicates a chunk index outside the corpus.
var ErrNoChunk = errors.New("chunk index out of range")

// DirStore reads the unified data directory layout written by the offline
// pipeline:
//
//	manifest.json
//	distractors.json
//	chunks/0.json, chunks/1.json, ...
//
// Every document is schema-validated before decoding.
type DirStore struct {
	dir string
}

// NewDirStore creates a DirStore rooted at dir. The directory must contain
// manifest.json; the check is deferred to the first read.
func NewDirStore(dir string) *DirStore {
	return &DirStore{dir: dir}
}

func (s *DirStore) Manifest(ctx context.Context) (*Manifest, error) {
	raw, err := s.readFile("manifest.json")
	if err != nil {
		return nil, err
	}
	if err := validateDocument("manifest", raw); err != nil {
		return nil, fmt.Errorf("manifest.json: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode manifest.json: %w", err)
	}
	return &m, nil
}

func (s *DirStore) Chunk(ctx context.Context, index int) ([]Sentence, error) {
	if index < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNoChunk, index)
	}
	name := filepath.Join("chunks", strconv.Itoa(index)+".json")
	raw, err := s.readFile(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %d", ErrNoChunk, index)
		}
		return nil, err
	}
	if err := validateDocument("chunk", raw); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	var sentences []Sentence
	if err := json.Unmarshal(raw, &sentences); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return sentences, nil
}

func (s *DirStore) Distractors(ctx context.Context) (Pool, error) {
	raw, err := s.readFile("distractors.json")
	if err != nil {
		return nil, err
	}
	if err := validateDocument("distractors", raw); err != nil {
		return nil, fmt.Errorf("distractors.json: %w", err)
	}
	var p Pool
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode distractors.json: %w", err)
	}
	return p, nil
}

func (s *DirStore) readFile(name string) ([]byte, error) {
	raw, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return raw, nil
}
