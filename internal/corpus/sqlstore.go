package corpus

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// DefaultChunkSize matches the chunk size the offline pipeline writes.
const DefaultChunkSize = 1000

// SQLStore serves the corpus from a read-only SQLite database, the
// ingest format that predates the chunked-JSON layout. Chunking is
// synthesized from sentence IDs so both stores expose the same shape.
//
// Schema:
//
//	sentences(id INTEGER PRIMARY KEY, en TEXT NOT NULL)
//	translations(sentence_id INTEGER, lang TEXT, text TEXT, tokens TEXT)  -- tokens is a JSON array
//	distractors(lang TEXT, token TEXT)
type SQLStore struct {
	db        *sql.DB
	chunkSize int
}

// OpenSQL opens the SQLite corpus at dsn.
func OpenSQL(dsn string) (*SQLStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	return &SQLStore{db: db, chunkSize: DefaultChunkSize}, nil
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) Manifest(ctx context.Context) (*Manifest, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sentences").Scan(&total); err != nil {
		return nil, fmt.Errorf("count sentences: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT lang FROM translations ORDER BY lang")
	if err != nil {
		return nil, fmt.Errorf("list languages: %w", err)
	}
	defer rows.Close()

	var langs []string
	for rows.Next() {
		var lang string
		if err := rows.Scan(&lang); err != nil {
			return nil, fmt.Errorf("scan language: %w", err)
		}
		langs = append(langs, lang)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list languages: %w", err)
	}

	chunks := (total + s.chunkSize - 1) / s.chunkSize
	return &Manifest{
		Total:     total,
		Chunks:    chunks,
		ChunkSize: s.chunkSize,
		Languages: langs,
	}, nil
}

func (s *SQLStore) Chunk(ctx context.Context, index int) ([]Sentence, error) {
	if index < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNoChunk, index)
	}
	lo := index * s.chunkSize
	hi := lo + s.chunkSize

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, en FROM sentences WHERE id >= ? AND id < ? ORDER BY id", lo, hi)
	if err != nil {
		return nil, fmt.Errorf("query chunk %d: %w", index, err)
	}
	defer rows.Close()

	var sentences []Sentence
	byID := make(map[int]int) // sentence id → position in slice
	for rows.Next() {
		var sent Sentence
		if err := rows.Scan(&sent.ID, &sent.English); err != nil {
			return nil, fmt.Errorf("scan sentence: %w", err)
		}
		sent.Translations = make(map[string]Translation)
		byID[sent.ID] = len(sentences)
		sentences = append(sentences, sent)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query chunk %d: %w", index, err)
	}
	if len(sentences) == 0 {
		return nil, fmt.Errorf("%w: %d", ErrNoChunk, index)
	}

	trows, err := s.db.QueryContext(ctx,
		"SELECT sentence_id, lang, text, tokens FROM translations WHERE sentence_id >= ? AND sentence_id < ?", lo, hi)
	if err != nil {
		return nil, fmt.Errorf("query translations for chunk %d: %w", index, err)
	}
	defer trows.Close()

	for trows.Next() {
		var (
			sentenceID int
			lang       string
			tr         Translation
			tokensJSON string
		)
		if err := trows.Scan(&sentenceID, &lang, &tr.Text, &tokensJSON); err != nil {
			return nil, fmt.Errorf("scan translation: %w", err)
		}
		if err := json.Unmarshal([]byte(tokensJSON), &tr.Tokens); err != nil {
			return nil, fmt.Errorf("decode tokens for sentence %d (%s): %w", sentenceID, lang, err)
		}
		if pos, ok := byID[sentenceID]; ok {
			sentences[pos].Translations[lang] = tr
		}
	}
	if err := trows.Err(); err != nil {
		return nil, fmt.Errorf("query translations for chunk %d: %w", index, err)
	}

	return sentences, nil
}

func (s *SQLStore) Distractors(ctx context.Context) (Pool, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT lang, token FROM distractors")
	if err != nil {
		return nil, fmt.Errorf("query distractors: %w", err)
	}
	defer rows.Close()

	pool := make(Pool)
	for rows.Next() {
		var lang, token string
		if err := rows.Scan(&lang, &token); err != nil {
			return nil, fmt.Errorf("scan distractor: %w", err)
		}
		pool[lang] = append(pool[lang], token)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query distractors: %w", err)
	}
	return pool, nil
}

// applyPragmas configures SQLite for read-mostly single-process use.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}
