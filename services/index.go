package services

import (
	"math"
	"sort"

	"github.com/Kashyap0319/AI-Internship-Project-EsMagico/models"
)

// VectorIndex is an immutable snapshot of the embedded corpus. It is built
// once per ingestion run and replaced wholesale on rebuild, so concurrent
// readers never observe a partially built index.
type VectorIndex struct {
	chunks  []models.Chunk
	vectors [][]float32
}

// NewVectorIndex builds a snapshot from parallel chunk and vector slices.
// The slices are not copied; callers hand over ownership.
func NewVectorIndex(chunks []models.Chunk, vectors [][]float32) *VectorIndex {
	return &VectorIndex{chunks: chunks, vectors: vectors}
}

// Len returns the number of indexed chunks.
func (idx *VectorIndex) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.chunks)
}

// Search scores every indexed vector against the query by cosine similarity
// and returns up to topK results in descending score order. Equal scores keep
// insertion order. An empty index yields an empty slice.
func (idx *VectorIndex) Search(query []float32, topK int) []models.RetrievalResult {
	if idx == nil || len(idx.chunks) == 0 || topK <= 0 {
		return nil
	}

	results := make([]models.RetrievalResult, len(idx.chunks))
	for i, vec := range idx.vectors {
		results[i] = models.RetrievalResult{
			Chunk: idx.chunks[i],
			Score: cosineSimilarity(query, vec),
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if topK > len(results) {
		topK = len(results)
	}
	return results[:topK]
}

// cosineSimilarity computes dot(a,b) / (||a||*||b||) with float64
// accumulation. Zero-magnitude vectors score 0 rather than NaN.
func cosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
