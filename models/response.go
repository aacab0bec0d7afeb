package models

// SourceRef is a citation entry shown alongside an answer: a truncated
// preview of the retrieved chunk, the document it came from and its score.
type SourceRef struct {
	Text   string `json:"text"`
	Source string `json:"source"`
	Score  string `json:"score"`
}

// StoryResponse is the assembled result of one orchestrated ask.
// ImageURL and AudioURL are empty when the corresponding generator was
// disabled, unconfigured or failed.
type StoryResponse struct {
	Answer   string      `json:"answer"`
	ImageURL string      `json:"image_url,omitempty"`
	AudioURL string      `json:"audio_url,omitempty"`
	Grounded bool        `json:"grounded"`
	Sources  []SourceRef `json:"sources"`
}

// AskResponse is StoryResponse plus the session identifier the controller
// assigned or re-used for conversation memory.
type AskResponse struct {
	StoryResponse
	SessionID string `json:"session_id"`
}

// SuggestionsResponse lists canned questions for the frontend pills.
type SuggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}
