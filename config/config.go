// Package config centralizes every tunable of the storyteller backend.
// Values come from the environment (a .env file is honored), with defaults
// chosen for a small, static storybook corpus.
package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings for the server.
type Config struct {
	// Paths
	DocsDir   string // corpus of storybook documents (.pdf, .txt, .md)
	CacheDir  string // durable embedding cache location
	StaticDir string // generated media root, served under /static
	Port      string

	// API keys
	GeminiAPIKey     string
	OpenAIAPIKey     string
	StabilityAPIKey  string
	ElevenLabsAPIKey string

	// Provider selection
	LLMProvider       string // "gemini" or "openai"
	LLMModel          string
	LLMTemperature    float64
	LLMMaxTokens      int
	EmbeddingProvider string // "ollama", "gemini" or "openai"
	EmbeddingModel    string
	OllamaURL         string

	// Retrieval
	ChunkSize          int
	ChunkOverlap       int
	TopKResults        int
	RelevanceThreshold float64

	// Generation toggles
	ImageGenerationEnabled bool
	AudioEnabled           bool
	ElevenLabsVoiceID      string

	// Conversation memory
	HistoryWindow          int // turns passed to the text generator
	MaxConversationHistory int // turns retained per session
}

// Load reads the environment (and .env, if present) into a Config.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("CONFIG: No .env file found, relying on environment variables.")
	}

	cfg := &Config{
		DocsDir:   getEnv("DOCS_DIR", "data/pdfs"),
		CacheDir:  getEnv("CACHE_DIR", "data/cache"),
		StaticDir: getEnv("STATIC_DIR", "static"),
		Port:      getEnv("PORT", "8080"),

		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		StabilityAPIKey:  os.Getenv("STABILITY_API_KEY"),
		ElevenLabsAPIKey: os.Getenv("ELEVENLABS_API_KEY"),

		LLMProvider:       getEnv("LLM_PROVIDER", "gemini"),
		LLMTemperature:    getEnvFloat("LLM_TEMPERATURE", 0.8),
		LLMMaxTokens:      getEnvInt("LLM_MAX_TOKENS", 512),
		EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "ollama"),
		OllamaURL:         getEnv("OLLAMA_URL", "http://localhost:11434"),

		ChunkSize:          getEnvInt("CHUNK_SIZE", 1200),
		ChunkOverlap:       getEnvInt("CHUNK_OVERLAP", 250),
		TopKResults:        getEnvInt("TOP_K_RESULTS", 5),
		RelevanceThreshold: getEnvFloat("RELEVANCE_THRESHOLD", 0.25),

		ImageGenerationEnabled: getEnvBool("IMAGE_GENERATION_ENABLED", true),
		AudioEnabled:           getEnvBool("AUDIO_ENABLED", true),
		ElevenLabsVoiceID:      getEnv("ELEVENLABS_VOICE_ID", "21m00Tcm4TlvDq8ikWAM"),

		HistoryWindow:          getEnvInt("HISTORY_WINDOW", 6),
		MaxConversationHistory: getEnvInt("MAX_CONVERSATION_HISTORY", 10),
	}

	if cfg.LLMProvider == "openai" {
		cfg.LLMModel = getEnv("LLM_MODEL", "gpt-4o-mini")
	} else {
		cfg.LLMModel = getEnv("LLM_MODEL", "gemini-2.0-flash")
	}

	switch cfg.EmbeddingProvider {
	case "gemini":
		cfg.EmbeddingModel = getEnv("EMBEDDING_MODEL", "gemini-embedding-001")
	case "openai":
		cfg.EmbeddingModel = getEnv("EMBEDDING_MODEL", "text-embedding-3-small")
	default:
		cfg.EmbeddingModel = getEnv("EMBEDDING_MODEL", "nomic-embed-text:v1.5")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("CONFIG: invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("CONFIG: invalid %s=%q, using %g", key, v, fallback)
		return fallback
	}
	return f
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("CONFIG: invalid %s=%q, using %t", key, v, fallback)
		return fallback
	}
	return b
}
