package services

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/Kashyap0319/AI-Internship-Project-EsMagico/models"
)

// CacheEntry is the persisted result of chunking and embedding one document.
// Chunks and Vectors are parallel slices; an entry where they disagree is
// corrupt and treated as a miss.
type CacheEntry struct {
	Chunks  []models.Chunk `json:"chunks"`
	Vectors [][]float32    `json:"vectors"`
}

// EmbeddingCache is a durable key→blob store for cache entries, keyed by a
// content fingerprint. Entries are never updated in place: a changed
// fingerprint yields a new key and the stale row is simply never read again.
type EmbeddingCache struct {
	db *sql.DB
}

const cacheSchema = `
CREATE TABLE IF NOT EXISTS embedding_cache (
	cache_key  TEXT PRIMARY KEY,
	document   TEXT NOT NULL,
	model      TEXT NOT NULL,
	payload    BLOB NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`

// NewEmbeddingCache opens (or creates) the cache database under dir.
func NewEmbeddingCache(dir string) (*EmbeddingCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	dbPath := filepath.Join(dir, "embeddings.db")
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	if _, err := db.Exec(cacheSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache schema: %w", err)
	}
	return &EmbeddingCache{db: db}, nil
}

// Close releases the underlying database handle.
func (c *EmbeddingCache) Close() error {
	if c == nil {
		return nil
	}
	return c.db.Close()
}

// Fingerprint derives the cache key for a document. Any change to the
// document's name, its last-modified time or the embedding model produces a
// different key, invalidating the old entry deterministically.
func Fingerprint(docName string, modTime time.Time, embeddingModel string) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s", docName, modTime.UTC().Format(time.RFC3339Nano), embeddingModel)
	return hex.EncodeToString(h.Sum(nil))
}

// Load fetches the entry for key. The boolean is false on a miss; corrupt
// payloads and mismatched chunk/vector lengths also count as misses so the
// caller regenerates rather than indexing bad data. A nil cache always misses.
func (c *EmbeddingCache) Load(key string) (*CacheEntry, bool) {
	if c == nil {
		return nil, false
	}
	var payload []byte
	err := c.db.QueryRow("SELECT payload FROM embedding_cache WHERE cache_key = ?", key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false
	}
	if err != nil {
		log.Printf("CACHE WARN: read failed for key %.12s...: %v", key, err)
		return nil, false
	}
	var entry CacheEntry
	if err := json.Unmarshal(payload, &entry); err != nil {
		log.Printf("CACHE WARN: corrupt payload for key %.12s...: %v", key, err)
		return nil, false
	}
	if len(entry.Chunks) != len(entry.Vectors) {
		log.Printf("CACHE WARN: entry %.12s... has %d chunks but %d vectors, discarding", key, len(entry.Chunks), len(entry.Vectors))
		return nil, false
	}
	return &entry, true
}

// Save persists an entry under key. Failures are logged and swallowed:
// losing a cache write only costs recomputation on the next run.
func (c *EmbeddingCache) Save(key, docName, model string, entry *CacheEntry) {
	if c == nil {
		return
	}
	if len(entry.Chunks) != len(entry.Vectors) {
		log.Printf("CACHE WARN: refusing to save %s: %d chunks vs %d vectors", docName, len(entry.Chunks), len(entry.Vectors))
		return
	}
	payload, err := json.Marshal(entry)
	if err != nil {
		log.Printf("CACHE WARN: marshal failed for %s: %v", docName, err)
		return
	}
	_, err = c.db.Exec(
		"INSERT OR REPLACE INTO embedding_cache (cache_key, document, model, payload) VALUES (?, ?, ?, ?)",
		key, docName, model, payload,
	)
	if err != nil {
		log.Printf("CACHE WARN: write failed for %s: %v", docName, err)
	}
}
