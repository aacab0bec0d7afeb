package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeExtractor reads plain files and fails on demand for specific names.
type fakeExtractor struct {
	failOn string
}

func (f *fakeExtractor) Supported(path string) bool {
	return strings.HasSuffix(path, ".txt")
}

func (f *fakeExtractor) Extract(path string) (string, error) {
	if f.failOn != "" && filepath.Base(path) == f.failOn {
		return "", fmt.Errorf("simulated extraction failure")
	}
	data, err := os.ReadFile(path)
	return string(data), err
}

// fakeEmbedder returns a fixed-direction vector for every input and counts
// batch calls so cache behavior is observable.
type fakeEmbedder struct {
	batchCalls atomic.Int64
	queryCalls atomic.Int64
	queryVec   []float32
	batchErr   error
}

func (f *fakeEmbedder) Name() string { return "fake/embedder" }

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	f.batchCalls.Add(1)
	if f.batchErr != nil {
		return nil, f.batchErr
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0}
	}
	return out, nil
}

func (f *fakeEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	f.queryCalls.Add(1)
	if f.queryVec != nil {
		return f.queryVec, nil
	}
	return []float32{1, 0}, nil
}

func writeCorpus(t *testing.T, docs map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range docs {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestIngestBuildsIndexFromCorpus(t *testing.T) {
	dir := writeCorpus(t, map[string]string{
		"alice.txt":    "Alice fell down the rabbit hole into Wonderland.",
		"gulliver.txt": "Gulliver washed ashore on the island of Lilliput.",
		"notes.bin":    "unsupported format, must be ignored",
	})
	embedder := &fakeEmbedder{}
	p := NewDocumentProcessor(NewChunker(1200, 250), embedder, nil, &fakeExtractor{}, dir)

	count, err := p.Ingest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.True(t, p.IsInitialized())
	assert.Equal(t, 2, p.ChunkCount())
	assert.Equal(t, int64(2), embedder.batchCalls.Load())
}

func TestIngestSkipsFailingDocument(t *testing.T) {
	dir := writeCorpus(t, map[string]string{
		"good.txt":   "A perfectly readable tale.",
		"broken.txt": "never read",
		"other.txt":  "Another perfectly readable tale.",
	})
	p := NewDocumentProcessor(NewChunker(1200, 250), &fakeEmbedder{}, nil, &fakeExtractor{failOn: "broken.txt"}, dir)

	count, err := p.Ingest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.True(t, p.IsInitialized())
}

func TestIngestEmptyCorpus(t *testing.T) {
	p := NewDocumentProcessor(NewChunker(1200, 250), &fakeEmbedder{}, nil, &fakeExtractor{}, t.TempDir())

	count, err := p.Ingest(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.False(t, p.IsInitialized())
}

func TestIngestMissingDirectoryIsAnError(t *testing.T) {
	p := NewDocumentProcessor(NewChunker(1200, 250), &fakeEmbedder{}, nil, &fakeExtractor{}, "/nonexistent/docs")

	_, err := p.Ingest(context.Background())
	assert.Error(t, err)
}

func TestIngestSecondRunHitsCache(t *testing.T) {
	dir := writeCorpus(t, map[string]string{
		"alice.txt": "Alice fell down the rabbit hole into Wonderland.",
	})
	cache, err := NewEmbeddingCache(t.TempDir())
	require.NoError(t, err)
	defer cache.Close()

	embedder := &fakeEmbedder{}
	p := NewDocumentProcessor(NewChunker(1200, 250), embedder, cache, &fakeExtractor{}, dir)

	_, err = p.Ingest(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), embedder.batchCalls.Load())

	// Unchanged document, same model: the fingerprint matches and no new
	// embedding call is made.
	count, err := p.Ingest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, int64(1), embedder.batchCalls.Load())
}

func TestSearchOnUninitializedIndex(t *testing.T) {
	embedder := &fakeEmbedder{}
	p := NewDocumentProcessor(NewChunker(1200, 250), embedder, nil, &fakeExtractor{}, t.TempDir())

	results, err := p.Search(context.Background(), "anything", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
	// The query must not be embedded when there is nothing to search.
	assert.Zero(t, embedder.queryCalls.Load())
}

func TestSearchReturnsRankedResults(t *testing.T) {
	dir := writeCorpus(t, map[string]string{
		"alice.txt": "Alice fell down the rabbit hole into Wonderland.",
	})
	p := NewDocumentProcessor(NewChunker(1200, 250), &fakeEmbedder{}, nil, &fakeExtractor{}, dir)
	_, err := p.Ingest(context.Background())
	require.NoError(t, err)

	results, err := p.Search(context.Background(), "who fell down the hole?", 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "alice.txt", results[0].Chunk.Source)
	assert.InDelta(t, 1.0, results[0].Score, 1e-9)
}
