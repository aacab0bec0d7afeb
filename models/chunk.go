package models

// Chunk is a bounded, sentence-aligned slice of a document's text. It is the
// unit of retrieval: chunks are embedded at ingestion time and ranked against
// the query at search time.
type Chunk struct {
	Text          string `json:"text"`
	Source        string `json:"source"`
	SequenceIndex int    `json:"sequence_index"`
	StartOffset   int    `json:"start_offset"`
}

// RetrievalResult pairs a chunk with its cosine similarity to a query.
// Produced per query, never persisted.
type RetrievalResult struct {
	Chunk Chunk
	Score float64
}

// ConversationTurn is one message of the rolling conversation memory.
// Role is either "user" or "assistant".
type ConversationTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
