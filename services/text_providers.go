package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"google.golang.org/genai"

	"github.com/Kashyap0319/AI-Internship-Project-EsMagico/models"
)

// TextGenerator produces the storyteller's answer from a prompt and the
// recent conversation turns. There is deliberately no fallback between text
// providers: a misconfigured backend should be visible, not papered over.
type TextGenerator interface {
	Name() string
	Generate(ctx context.Context, prompt string, history []models.ConversationTurn) (string, error)
}

// ---- Gemini ----

// GeminiTextGenerator generates answers with the Gemini API.
type GeminiTextGenerator struct {
	client      *genai.Client
	model       string
	temperature float32
	maxTokens   int32
}

// NewGeminiTextGenerator wraps an existing genai client for generation.
func NewGeminiTextGenerator(client *genai.Client, model string, temperature float64, maxTokens int) *GeminiTextGenerator {
	return &GeminiTextGenerator{
		client:      client,
		model:       model,
		temperature: float32(temperature),
		maxTokens:   int32(maxTokens),
	}
}

func (g *GeminiTextGenerator) Name() string { return "gemini" }

func (g *GeminiTextGenerator) Generate(ctx context.Context, prompt string, history []models.ConversationTurn) (string, error) {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, turn := range history {
		role := genai.Role(genai.RoleUser)
		if turn.Role == "assistant" {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(turn.Content, role))
	}
	contents = append(contents, genai.NewContentFromText(prompt, genai.RoleUser))

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(g.temperature),
		MaxOutputTokens: g.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("gemini api call failed: %w", err)
	}
	answer := strings.TrimSpace(resp.Text())
	if answer == "" {
		return "", fmt.Errorf("gemini returned an empty response")
	}
	return answer, nil
}

// ---- OpenAI ----

// OpenAITextGenerator generates answers through langchaingo's OpenAI client.
type OpenAITextGenerator struct {
	llm         *openai.LLM
	temperature float64
	maxTokens   int
}

// NewOpenAITextGenerator builds an OpenAI-backed generator from an API key.
func NewOpenAITextGenerator(apiKey, model string, temperature float64, maxTokens int) (*OpenAITextGenerator, error) {
	llm, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("could not create openai client: %w", err)
	}
	return &OpenAITextGenerator{llm: llm, temperature: temperature, maxTokens: maxTokens}, nil
}

func (o *OpenAITextGenerator) Name() string { return "openai" }

func (o *OpenAITextGenerator) Generate(ctx context.Context, prompt string, history []models.ConversationTurn) (string, error) {
	messages := make([]llms.MessageContent, 0, len(history)+1)
	for _, turn := range history {
		role := llms.ChatMessageTypeHuman
		if turn.Role == "assistant" {
			role = llms.ChatMessageTypeAI
		}
		messages = append(messages, llms.TextParts(role, turn.Content))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, prompt))

	resp, err := o.llm.GenerateContent(ctx, messages,
		llms.WithTemperature(o.temperature),
		llms.WithMaxTokens(o.maxTokens),
	)
	if err != nil {
		return "", fmt.Errorf("openai api call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	answer := strings.TrimSpace(resp.Choices[0].Content)
	if answer == "" {
		return "", fmt.Errorf("openai returned an empty response")
	}
	return answer, nil
}
