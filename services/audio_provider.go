package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"
)

// AudioSynthesizer narrates text. A failure means "no narration", never a
// failed response.
type AudioSynthesizer interface {
	Name() string
	Synthesize(ctx context.Context, text, language string) ([]byte, error)
}

const elevenLabsAPIURL = "https://api.elevenlabs.io/v1/text-to-speech"

// emoji and other symbols trip up TTS; keep letters, digits and basic
// punctuation in any script.
var ttsCleanRe = regexp.MustCompile(`[^\p{L}\p{N}\s.,!?'"-]`)

// CleanForSpeech strips characters that text-to-speech engines mangle.
func CleanForSpeech(text string) string {
	return ttsCleanRe.ReplaceAllString(text, "")
}

// ElevenLabsSynthesizer narrates answers through the ElevenLabs API.
type ElevenLabsSynthesizer struct {
	client  *http.Client
	apiKey  string
	voiceID string
}

// NewElevenLabsSynthesizer creates a synthesizer for the given voice.
func NewElevenLabsSynthesizer(apiKey, voiceID string) *ElevenLabsSynthesizer {
	return &ElevenLabsSynthesizer{
		client:  &http.Client{Timeout: 120 * time.Second},
		apiKey:  apiKey,
		voiceID: voiceID,
	}
}

func (e *ElevenLabsSynthesizer) Name() string { return "elevenlabs" }

func (e *ElevenLabsSynthesizer) Synthesize(ctx context.Context, text, language string) ([]byte, error) {
	modelID := "eleven_monolingual_v1"
	if language != "en" {
		modelID = "eleven_multilingual_v2"
	}
	payload := map[string]any{
		"text":     CleanForSpeech(text),
		"model_id": modelID,
		"voice_settings": map[string]any{
			"stability":        0.5,
			"similarity_boost": 0.75,
		},
	}
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal elevenlabs request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, elevenLabsAPIURL+"/"+e.voiceID, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create elevenlabs request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("elevenlabs returned status %d: %s", resp.StatusCode, string(body))
	}
	return io.ReadAll(resp.Body)
}
