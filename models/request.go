package models

// AskRequest is the payload for POST /api/ask.
// GenerateImage and GenerateAudio are pointers so that an omitted field can
// default to true, matching the frontend's expectations.
type AskRequest struct {
	Question      string `json:"question" binding:"required"`
	GenerateImage *bool  `json:"generate_image"`
	GenerateAudio *bool  `json:"generate_audio"`
	Language      string `json:"language"`
	SessionID     string `json:"session_id,omitempty"`
}

// WantImage reports whether the caller asked for an illustration (default true).
func (r *AskRequest) WantImage() bool {
	return r.GenerateImage == nil || *r.GenerateImage
}

// WantAudio reports whether the caller asked for narration (default true).
func (r *AskRequest) WantAudio() bool {
	return r.GenerateAudio == nil || *r.GenerateAudio
}
