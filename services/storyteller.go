package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/Kashyap0319/AI-Internship-Project-EsMagico/config"
	"github.com/Kashyap0319/AI-Internship-Project-EsMagico/models"
)

const sourcePreviewRunes = 200

// Storyteller orchestrates a full answer: retrieval, relevance gating, text
// generation and the parallel image/audio fan-out. Every provider failure is
// converted into a degraded-but-well-formed response; nothing escapes to the
// caller as an error.
type Storyteller struct {
	processor *DocumentProcessor
	gate      *RelevanceGate
	text      TextGenerator    // nil when no LLM is configured
	image     ImageGenerator   // nil when no image provider is configured
	audio     AudioSynthesizer // nil when no audio provider is configured
	media     *MediaStore
	cfg       *config.Config
}

// NewStoryteller assembles the orchestrator. Generator arguments may be nil;
// the corresponding capability then degrades per the error policy.
func NewStoryteller(processor *DocumentProcessor, gate *RelevanceGate, text TextGenerator, image ImageGenerator, audio AudioSynthesizer, media *MediaStore, cfg *config.Config) *Storyteller {
	return &Storyteller{
		processor: processor,
		gate:      gate,
		text:      text,
		image:     image,
		audio:     audio,
		media:     media,
		cfg:       cfg,
	}
}

// Respond answers a question from the corpus. Ungrounded questions get the
// localized fallback without any generator being invoked. Grounded ones get
// one text generation call followed by a joined fan-out of image and audio
// generation; the two run concurrently and both resolve (possibly to
// nothing) before the response is assembled.
func (s *Storyteller) Respond(ctx context.Context, question string, wantImage, wantAudio bool, language string, history []models.ConversationTurn) *models.StoryResponse {
	results, err := s.processor.Search(ctx, question, s.cfg.TopKResults)
	if err != nil {
		log.Printf("SERVICE: retrieval failed: %v", err)
		return &models.StoryResponse{
			Answer:   degradedAnswer(err),
			Grounded: false,
			Sources:  []models.SourceRef{},
		}
	}

	if !s.gate.Grounded(results) {
		log.Printf("SERVICE: question not grounded in corpus: %.60q", question)
		return &models.StoryResponse{
			Answer:   config.FallbackMessage(language),
			Grounded: false,
			Sources:  []models.SourceRef{},
		}
	}

	answer := s.generateAnswer(ctx, question, language, results, history)

	var imageURL, audioURL string
	var wg sync.WaitGroup

	if wantImage && s.cfg.ImageGenerationEnabled && s.image != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			imageURL = s.generateImage(ctx, question, answer)
		}()
	}
	if wantAudio && s.cfg.AudioEnabled && s.audio != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			audioURL = s.generateAudio(ctx, answer, language)
		}()
	}
	wg.Wait()

	return &models.StoryResponse{
		Answer:   answer,
		ImageURL: imageURL,
		AudioURL: audioURL,
		Grounded: true,
		Sources:  buildSources(results),
	}
}

// generateAnswer builds the prompt from the ranked context and invokes the
// configured text generator once. There is no text fallback chain: a missing
// or failing backend yields a visible message so misconfiguration surfaces.
func (s *Storyteller) generateAnswer(ctx context.Context, question, language string, results []models.RetrievalResult, history []models.ConversationTurn) string {
	if s.text == nil {
		return "Sorry, text generation is not available. Please configure an LLM API key."
	}

	contexts := make([]string, len(results))
	for i, r := range results {
		contexts[i] = r.Chunk.Text
	}
	prompt := fmt.Sprintf(config.StorytellerPrompt, strings.Join(contexts, "\n\n"), question)

	if language != "" && language != "en" {
		langName, ok := config.SupportedLanguages[language]
		if !ok {
			langName = "English"
		}
		prompt += fmt.Sprintf("\n\n**CRITICAL: You MUST respond ENTIRELY in %s. Do NOT use English. Translate everything to %s.**", langName, langName)
	}

	answer, err := s.text.Generate(ctx, prompt, lastTurns(history, s.cfg.HistoryWindow))
	if err != nil {
		log.Printf("SERVICE: text generation failed: %v", err)
		return degradedAnswer(err)
	}
	log.Printf("SERVICE: %s generated response (%d chars)", s.text.Name(), len(answer))
	return answer
}

// generateImage runs the provider fallback chain and persists the result.
// Any failure yields an empty URL, never an error.
func (s *Storyteller) generateImage(ctx context.Context, question, answer string) string {
	prompt := BuildImagePrompt(question, answer)
	data, err := s.image.Generate(ctx, prompt)
	if err != nil {
		log.Printf("SERVICE: image generation failed: %v", err)
		return ""
	}
	url, err := s.media.SaveImage(prompt, data)
	if err != nil {
		log.Printf("SERVICE: could not persist image: %v", err)
		return ""
	}
	log.Printf("SERVICE: image generated: %s", url)
	return url
}

// generateAudio narrates the answer. Any failure yields an empty URL.
func (s *Storyteller) generateAudio(ctx context.Context, answer, language string) string {
	data, err := s.audio.Synthesize(ctx, answer, language)
	if err != nil {
		log.Printf("SERVICE: audio generation failed: %v", err)
		return ""
	}
	url, err := s.media.SaveAudio(answer, data)
	if err != nil {
		log.Printf("SERVICE: could not persist audio: %v", err)
		return ""
	}
	log.Printf("SERVICE: audio generated: %s", url)
	return url
}

// buildSources converts the retrieval set into citation previews.
func buildSources(results []models.RetrievalResult) []models.SourceRef {
	sources := make([]models.SourceRef, len(results))
	for i, r := range results {
		preview := r.Chunk.Text
		if runes := []rune(preview); len(runes) > sourcePreviewRunes {
			preview = string(runes[:sourcePreviewRunes]) + "..."
		}
		sources[i] = models.SourceRef{
			Text:   preview,
			Source: r.Chunk.Source,
			Score:  fmt.Sprintf("%.2f", r.Score),
		}
	}
	return sources
}

// lastTurns returns the most recent n turns, oldest dropped first.
func lastTurns(history []models.ConversationTurn, n int) []models.ConversationTurn {
	if n <= 0 || len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}

func degradedAnswer(err error) string {
	msg := err.Error()
	if runes := []rune(msg); len(runes) > 100 {
		msg = string(runes[:100])
	}
	return fmt.Sprintf("Oops! My wit machine broke down. Try asking again! 😅 (Error: %s)", msg)
}
