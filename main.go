package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"google.golang.org/genai"

	"github.com/Kashyap0319/AI-Internship-Project-EsMagico/config"
	"github.com/Kashyap0319/AI-Internship-Project-EsMagico/controller"
	"github.com/Kashyap0319/AI-Internship-Project-EsMagico/services"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	// A Gemini client is shared by the embedder and the text generator when
	// either of them is configured to use Gemini.
	var geminiClient *genai.Client
	if cfg.GeminiAPIKey != "" {
		var err error
		geminiClient, err = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.GeminiAPIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			log.Fatalf("FATAL: Failed to create Gemini client: %v", err)
		}
		log.Println("Successfully connected to Google Gemini.")
	}

	embedder := buildEmbedder(cfg, geminiClient)
	textGen := buildTextGenerator(cfg, geminiClient)

	// The embedding cache is an optimization. A broken cache directory must
	// not stop the server; ingestion just recomputes everything.
	cache, err := services.NewEmbeddingCache(cfg.CacheDir)
	if err != nil {
		log.Printf("WARN: embedding cache unavailable, continuing without it: %v", err)
		cache = nil
	} else {
		defer cache.Close()
	}

	processor := services.NewDocumentProcessor(
		services.NewChunker(cfg.ChunkSize, cfg.ChunkOverlap),
		embedder,
		cache,
		services.NewFileExtractor(),
		cfg.DocsDir,
	)

	count, err := processor.Ingest(ctx)
	if err != nil {
		log.Fatalf("FATAL: Failed to ingest corpus from %s: %v", cfg.DocsDir, err)
	}
	log.Printf("INDEXER: corpus ready, %d chunks indexed", count)
	go processor.Watch(ctx)

	media, err := services.NewMediaStore(cfg.StaticDir)
	if err != nil {
		log.Fatalf("FATAL: Failed to prepare media directories: %v", err)
	}

	storyteller := services.NewStoryteller(
		processor,
		services.NewRelevanceGate(cfg.RelevanceThreshold),
		textGen,
		buildImageChain(cfg),
		buildAudioSynthesizer(cfg),
		media,
		cfg,
	)
	storyController := controller.NewStoryController(storyteller, processor, cfg)

	router := gin.Default()

	// CORS so the static frontend can be served from anywhere during dev.
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	router.GET("/health", storyController.Health)
	router.Static("/static", cfg.StaticDir)

	api := router.Group("/api")
	{
		api.POST("/ask", storyController.Ask)
		api.GET("/suggestions", storyController.Suggestions)
	}

	log.Printf("Storyteller backend starting on http://localhost:%s", cfg.Port)
	log.Printf("Health check available at: http://localhost:%s/health", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("FATAL: Failed to start server: %v", err)
	}
}

// buildEmbedder selects the embedding backend. Embeddings are mandatory:
// without them there is no retrieval, so a misconfiguration here is fatal.
func buildEmbedder(cfg *config.Config, geminiClient *genai.Client) services.Embedder {
	switch cfg.EmbeddingProvider {
	case "gemini":
		if geminiClient == nil {
			log.Fatal("FATAL: EMBEDDING_PROVIDER=gemini requires GEMINI_API_KEY")
		}
		return services.NewGeminiEmbedder(geminiClient, cfg.EmbeddingModel)
	case "openai":
		embedder, err := services.NewOpenAIEmbedder(cfg.OpenAIAPIKey, cfg.EmbeddingModel)
		if err != nil {
			log.Fatalf("FATAL: Failed to create OpenAI embedder: %v", err)
		}
		return embedder
	default:
		return services.NewOllamaEmbedder(cfg.OllamaURL, cfg.EmbeddingModel)
	}
}

// buildTextGenerator selects the LLM backend, or nil when no key is set.
// There is deliberately no provider fallback for text: a missing key should
// surface in the answer, not silently switch models.
func buildTextGenerator(cfg *config.Config, geminiClient *genai.Client) services.TextGenerator {
	switch cfg.LLMProvider {
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			log.Println("WARN: LLM_PROVIDER=openai but OPENAI_API_KEY is empty, text generation disabled")
			return nil
		}
		gen, err := services.NewOpenAITextGenerator(cfg.OpenAIAPIKey, cfg.LLMModel, cfg.LLMTemperature, cfg.LLMMaxTokens)
		if err != nil {
			log.Printf("WARN: Failed to create OpenAI generator, text generation disabled: %v", err)
			return nil
		}
		return gen
	default:
		if geminiClient == nil {
			log.Println("WARN: GEMINI_API_KEY is empty, text generation disabled")
			return nil
		}
		return services.NewGeminiTextGenerator(geminiClient, cfg.LLMModel, cfg.LLMTemperature, cfg.LLMMaxTokens)
	}
}

// buildImageChain assembles the image providers in fallback order, or nil
// when no provider has a key.
func buildImageChain(cfg *config.Config) services.ImageGenerator {
	var generators []services.ImageGenerator
	if cfg.OpenAIAPIKey != "" {
		generators = append(generators, services.NewDalleImageGenerator(cfg.OpenAIAPIKey))
	}
	if cfg.StabilityAPIKey != "" {
		generators = append(generators, services.NewStabilityImageGenerator(cfg.StabilityAPIKey))
	}
	if len(generators) == 0 {
		log.Println("WARN: no image provider configured, illustrations disabled")
		return nil
	}
	return services.NewImageFallbackChain(generators...)
}

func buildAudioSynthesizer(cfg *config.Config) services.AudioSynthesizer {
	if cfg.ElevenLabsAPIKey == "" {
		log.Println("WARN: ELEVENLABS_API_KEY is empty, narration disabled")
		return nil
	}
	return services.NewElevenLabsSynthesizer(cfg.ElevenLabsAPIKey, cfg.ElevenLabsVoiceID)
}
