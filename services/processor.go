package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Kashyap0319/AI-Internship-Project-EsMagico/models"
)

// DocumentProcessor owns the corpus lifecycle: it drives extraction,
// chunking, embedding and caching across every document in the docs
// directory, and holds the single in-memory VectorIndex for the process.
// The index is an immutable snapshot swapped wholesale on rebuild, so
// queries never see a half-built corpus.
type DocumentProcessor struct {
	chunker   *Chunker
	embedder  Embedder
	cache     *EmbeddingCache
	extractor TextExtractor
	docsDir   string

	mu    sync.RWMutex
	index *VectorIndex
}

// NewDocumentProcessor wires the ingestion collaborators together. The cache
// may be nil, which disables persistence but not ingestion.
func NewDocumentProcessor(chunker *Chunker, embedder Embedder, cache *EmbeddingCache, extractor TextExtractor, docsDir string) *DocumentProcessor {
	return &DocumentProcessor{
		chunker:   chunker,
		embedder:  embedder,
		cache:     cache,
		extractor: extractor,
		docsDir:   docsDir,
	}
}

// Ingest processes every supported document in the docs directory and
// replaces the vector index with the result. One bad document never aborts
// the run: its error is logged and the rest of the corpus proceeds. The
// returned count is the number of chunks indexed.
func (p *DocumentProcessor) Ingest(ctx context.Context) (int, error) {
	entries, err := os.ReadDir(p.docsDir)
	if err != nil {
		return 0, fmt.Errorf("could not read docs directory %s: %w", p.docsDir, err)
	}

	var allChunks []models.Chunk
	var allVectors [][]float32

	for _, dirEntry := range entries {
		if dirEntry.IsDir() {
			continue
		}
		path := filepath.Join(p.docsDir, dirEntry.Name())
		if !p.extractor.Supported(path) {
			continue
		}
		entry, err := p.processDocument(ctx, path, dirEntry.Name())
		if err != nil {
			log.Printf("INDEXER: skipping %s: %v", dirEntry.Name(), err)
			continue
		}
		if entry == nil {
			continue
		}
		allChunks = append(allChunks, entry.Chunks...)
		allVectors = append(allVectors, entry.Vectors...)
	}

	if len(allChunks) == 0 {
		log.Printf("INDEXER: no chunks produced from %s, index not initialized", p.docsDir)
		p.swap(nil)
		return 0, nil
	}

	p.swap(NewVectorIndex(allChunks, allVectors))
	log.Printf("INDEXER: knowledge base ready with %d chunks", len(allChunks))
	return len(allChunks), nil
}

// processDocument returns the cached entry for a document or regenerates it.
// A nil entry with nil error means the document yielded no chunks.
func (p *DocumentProcessor) processDocument(ctx context.Context, path, name string) (*CacheEntry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat failed: %w", err)
	}
	key := Fingerprint(name, info.ModTime(), p.embedder.Name())

	if entry, ok := p.cache.Load(key); ok {
		log.Printf("INDEXER: cache hit for %s (%d chunks)", name, len(entry.Chunks))
		return entry, nil
	}

	text, err := p.extractor.Extract(path)
	if err != nil {
		return nil, fmt.Errorf("extraction failed: %w", err)
	}

	chunks := p.chunker.Chunk(text, name)
	if len(chunks) == 0 {
		log.Printf("INDEXER: %s produced no chunks", name)
		return nil, nil
	}

	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Text
	}
	// One batched call per document, not one per chunk.
	vectors, err := p.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding failed: %w", err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	entry := &CacheEntry{Chunks: chunks, Vectors: vectors}
	p.cache.Save(key, name, p.embedder.Name(), entry)
	log.Printf("INDEXER: created %d chunks from %s", len(chunks), name)
	return entry, nil
}

// Search embeds the query and ranks it against the index, returning at most
// topK results in descending score order. An uninitialized index yields an
// empty result set rather than an error.
func (p *DocumentProcessor) Search(ctx context.Context, query string, topK int) ([]models.RetrievalResult, error) {
	idx := p.snapshot()
	if idx.Len() == 0 {
		log.Printf("SEARCH: no index available for query %.50q", query)
		return nil, nil
	}
	qvec, err := p.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("could not embed query: %w", err)
	}
	return idx.Search(qvec, topK), nil
}

// IsInitialized reports whether an index with at least one chunk exists.
func (p *DocumentProcessor) IsInitialized() bool {
	return p.snapshot().Len() > 0
}

// ChunkCount returns the number of chunks in the current index.
func (p *DocumentProcessor) ChunkCount() int {
	return p.snapshot().Len()
}

func (p *DocumentProcessor) snapshot() *VectorIndex {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.index
}

func (p *DocumentProcessor) swap(idx *VectorIndex) {
	p.mu.Lock()
	p.index = idx
	p.mu.Unlock()
}

// Watch re-ingests the whole corpus when files in the docs directory change.
// Events are debounced because editors fire several per save. Blocks until
// the context is cancelled.
func (p *DocumentProcessor) Watch(ctx context.Context) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("WATCHER: failed to create watcher: %v", err)
		return
	}
	defer watcher.Close()

	if err := watcher.Add(p.docsDir); err != nil {
		log.Printf("WATCHER: failed to watch %s: %v", p.docsDir, err)
		return
	}
	log.Printf("WATCHER: watching %s", p.docsDir)

	var debounce *time.Timer
	rebuild := func() {
		log.Println("WATCHER: corpus changed, rebuilding index...")
		if _, err := p.Ingest(ctx); err != nil {
			log.Printf("WATCHER: rebuild failed: %v", err)
		}
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !p.extractor.Supported(event.Name) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				log.Printf("WATCHER: %s", event)
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(2*time.Second, rebuild)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("WATCHER: %v", err)
		case <-ctx.Done():
			log.Println("WATCHER: shutting down")
			return
		}
	}
}
