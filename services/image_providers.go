package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// ImageGenerator renders a scene description to image bytes. Implementations
// apply their own timeouts and report failure through the error; the chain
// below turns any failure into "try the next provider".
type ImageGenerator interface {
	Name() string
	Generate(ctx context.Context, prompt string) ([]byte, error)
}

// NewImageFallbackChain composes generators into one that tries each in
// order and returns the first success. Used as DALL-E first, Stability AI
// second, mirroring the provider priority of the original service.
func NewImageFallbackChain(generators ...ImageGenerator) ImageGenerator {
	return &imageFallbackChain{generators: generators}
}

type imageFallbackChain struct {
	generators []ImageGenerator
}

func (c *imageFallbackChain) Name() string { return "fallback-chain" }

func (c *imageFallbackChain) Generate(ctx context.Context, prompt string) ([]byte, error) {
	var lastErr error
	for _, gen := range c.generators {
		data, err := gen.Generate(ctx, prompt)
		if err == nil {
			return data, nil
		}
		log.Printf("IMAGE: %s failed, trying next provider: %v", gen.Name(), err)
		lastErr = err
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no image providers configured")
	}
	return nil, lastErr
}

// ---- OpenAI DALL-E ----

// DalleImageGenerator calls the OpenAI image generation API.
type DalleImageGenerator struct {
	client *http.Client
	apiKey string
}

// NewDalleImageGenerator creates a DALL-E generator from an API key.
func NewDalleImageGenerator(apiKey string) *DalleImageGenerator {
	return &DalleImageGenerator{
		client: &http.Client{Timeout: 120 * time.Second},
		apiKey: apiKey,
	}
}

func (d *DalleImageGenerator) Name() string { return "dall-e" }

func (d *DalleImageGenerator) Generate(ctx context.Context, prompt string) ([]byte, error) {
	payload := map[string]any{
		"model":           "dall-e-3",
		"prompt":          prompt,
		"size":            "1024x1024",
		"quality":         "standard",
		"n":               1,
		"response_format": "b64_json",
	}
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal dall-e request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.openai.com/v1/images/generations", bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create dall-e request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+d.apiKey)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dall-e call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("dall-e returned status %d: %s", resp.StatusCode, string(body))
	}

	var out struct {
		Data []struct {
			B64JSON string `json:"b64_json"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode dall-e response: %w", err)
	}
	if len(out.Data) == 0 || out.Data[0].B64JSON == "" {
		return nil, fmt.Errorf("dall-e returned no image data")
	}
	return base64.StdEncoding.DecodeString(out.Data[0].B64JSON)
}

// ---- Stability AI ----

const stabilityAPIURL = "https://api.stability.ai/v1/generation/stable-diffusion-xl-1024-v1-0/text-to-image"

// StabilityImageGenerator calls the Stability AI text-to-image API with the
// storybook style preset.
type StabilityImageGenerator struct {
	client *http.Client
	apiKey string
	apiURL string
}

// NewStabilityImageGenerator creates a Stability generator from an API key.
func NewStabilityImageGenerator(apiKey string) *StabilityImageGenerator {
	return &StabilityImageGenerator{
		client: &http.Client{Timeout: 120 * time.Second},
		apiKey: apiKey,
		apiURL: stabilityAPIURL,
	}
}

func (s *StabilityImageGenerator) Name() string { return "stability" }

func (s *StabilityImageGenerator) Generate(ctx context.Context, prompt string) ([]byte, error) {
	payload := map[string]any{
		"text_prompts": []map[string]any{
			{"text": prompt, "weight": 1},
			{"text": "blurry, bad quality, distorted, ugly, modern, photograph, realistic", "weight": -1},
		},
		"cfg_scale":    7,
		"height":       512,
		"width":        512,
		"steps":        30,
		"samples":      1,
		"style_preset": "fantasy-art",
	}
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal stability request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create stability request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stability call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("stability returned status %d: %s", resp.StatusCode, string(body))
	}

	var out struct {
		Artifacts []struct {
			Base64 string `json:"base64"`
		} `json:"artifacts"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode stability response: %w", err)
	}
	if len(out.Artifacts) == 0 {
		return nil, fmt.Errorf("stability returned no artifacts")
	}
	return base64.StdEncoding.DecodeString(out.Artifacts[0].Base64)
}
