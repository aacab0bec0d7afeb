package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkShortTextSingleChunk(t *testing.T) {
	c := NewChunker(1200, 250)
	chunks := c.Chunk("Once upon a time there was a storyteller.", "tales.txt")

	require.Len(t, chunks, 1)
	assert.Equal(t, "Once upon a time there was a storyteller.", chunks[0].Text)
	assert.Equal(t, "tales.txt", chunks[0].Source)
	assert.Equal(t, 0, chunks[0].SequenceIndex)
	assert.Equal(t, 0, chunks[0].StartOffset)
}

func TestChunkEmptyAndWhitespaceText(t *testing.T) {
	c := NewChunker(100, 20)
	assert.Empty(t, c.Chunk("", "doc.txt"))
	assert.Empty(t, c.Chunk("   \n\t  ", "doc.txt"))
}

func TestChunkSnapsToSentenceBoundary(t *testing.T) {
	// The '.' at rune 26 sits past the midpoint of a 40-rune window, so the
	// first chunk must end exactly at the sentence.
	text := "This is the first sentence. And here is more text that continues beyond the window."
	c := NewChunker(40, 10)
	chunks := c.Chunk(text, "doc.txt")

	require.NotEmpty(t, chunks)
	assert.Equal(t, "This is the first sentence.", chunks[0].Text)

	// The next window starts overlap runes before the trimmed end.
	require.True(t, len(chunks) >= 2)
	assert.Equal(t, 17, chunks[1].StartOffset)
}

func TestChunkTwoSentenceStory(t *testing.T) {
	text := "Alice fell down the rabbit hole. She saw a white rabbit."
	c := NewChunker(40, 10)
	chunks := c.Chunk(text, "alice.txt")

	require.GreaterOrEqual(t, len(chunks), 2)
	assert.Equal(t, "Alice fell down the rabbit hole.", chunks[0].Text)
	for _, ch := range chunks {
		assert.NotEmpty(t, strings.TrimSpace(ch.Text))
	}
	assert.True(t, strings.HasSuffix(chunks[len(chunks)-1].Text, "white rabbit."))
}

func TestChunkNoSnapWhenTerminatorBeforeMidpoint(t *testing.T) {
	// Terminator at rune 2 is before the midpoint of a 40-rune window, so the
	// full window is kept.
	text := "Hi. " + strings.Repeat("x", 100)
	c := NewChunker(40, 10)
	chunks := c.Chunk(text, "doc.txt")

	require.NotEmpty(t, chunks)
	assert.Len(t, []rune(chunks[0].Text), 40)
}

func TestChunkCoversFullText(t *testing.T) {
	text := strings.Repeat("All work and no play makes a dull tale. ", 50)
	c := NewChunker(120, 30)
	chunks := c.Chunk(text, "doc.txt")

	require.NotEmpty(t, chunks)
	// The final chunk must reach the end of the document.
	last := chunks[len(chunks)-1]
	assert.True(t, strings.HasSuffix(last.Text, "a dull tale."))

	for i, ch := range chunks {
		assert.Equal(t, i, ch.SequenceIndex)
		assert.NotEmpty(t, ch.Text)
		if i > 0 {
			assert.Greater(t, ch.StartOffset, chunks[i-1].StartOffset)
		}
	}
}

func TestChunkDeterministic(t *testing.T) {
	text := strings.Repeat("The rabbit checked his pocket watch. He was late again! ", 30)
	c := NewChunker(150, 40)

	first := c.Chunk(text, "alice.txt")
	second := c.Chunk(text, "alice.txt")
	assert.Equal(t, first, second)
}

func TestChunkHandlesMultibyteRunes(t *testing.T) {
	text := strings.Repeat("Il était une fois une princesse très curieuse. ", 20)
	c := NewChunker(100, 25)
	chunks := c.Chunk(text, "contes.txt")

	require.NotEmpty(t, chunks)
	for _, ch := range chunks {
		assert.LessOrEqual(t, len([]rune(ch.Text)), 100)
	}
}

func TestNewChunkerClampsInvalidSettings(t *testing.T) {
	c := NewChunker(0, -5)
	assert.Equal(t, 1200, c.chunkSize)
	assert.Equal(t, 0, c.overlap)

	c = NewChunker(100, 100)
	assert.Equal(t, 25, c.overlap)
}
