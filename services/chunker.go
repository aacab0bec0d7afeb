package services

import (
	"strings"

	"github.com/Kashyap0319/AI-Internship-Project-EsMagico/models"
)

// Chunker splits raw document text into overlapping, sentence-aligned
// segments. Splitting is deterministic: the same text, source and settings
// always yield the same chunks, which the embedding cache relies on.
type Chunker struct {
	chunkSize int
	overlap   int
}

// NewChunker creates a chunker with the given window size and overlap, both
// in runes. Invalid values fall back to defaults, and the overlap is clamped
// below the chunk size so the window always advances.
func NewChunker(chunkSize, overlap int) *Chunker {
	if chunkSize <= 0 {
		chunkSize = 1200
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize / 4
	}
	return &Chunker{chunkSize: chunkSize, overlap: overlap}
}

// Chunk splits text into windows of chunkSize runes with overlap runes
// repeated between consecutive windows. Every window except the final one is
// trimmed back to the rightmost sentence terminator (. ? !) when that
// terminator sits past the window's halfway mark, so chunks end on sentence
// boundaries without discarding more than half a window. Whitespace-only
// windows are dropped and do not consume a sequence index.
func (c *Chunker) Chunk(text, source string) []models.Chunk {
	runes := []rune(text)
	var chunks []models.Chunk

	start := 0
	seq := 0
	for start < len(runes) {
		end := start + c.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		window := runes[start:end]

		// Snap to a sentence boundary, but only for non-final windows.
		if end < len(runes) {
			if cut := lastTerminator(window); cut > c.chunkSize/2 {
				window = window[:cut+1]
				end = start + cut + 1
			}
		}

		if trimmed := strings.TrimSpace(string(window)); trimmed != "" {
			chunks = append(chunks, models.Chunk{
				Text:          trimmed,
				Source:        source,
				SequenceIndex: seq,
				StartOffset:   start,
			})
			seq++
		}

		if end == len(runes) {
			break
		}
		next := end - c.overlap
		if next <= start {
			// A trim combined with a large overlap could walk backwards.
			next = start + 1
		}
		start = next
	}
	return chunks
}

// lastTerminator returns the index of the rightmost sentence terminator in
// the window, or -1 if there is none.
func lastTerminator(window []rune) int {
	for i := len(window) - 1; i >= 0; i-- {
		switch window[i] {
		case '.', '?', '!':
			return i
		}
	}
	return -1
}
