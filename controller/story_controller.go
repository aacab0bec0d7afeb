package controller

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Kashyap0319/AI-Internship-Project-EsMagico/config"
	"github.com/Kashyap0319/AI-Internship-Project-EsMagico/models"
	"github.com/Kashyap0319/AI-Internship-Project-EsMagico/services"
)

// StoryController handles the HTTP surface of the storyteller API. It owns
// per-session conversation memory and delegates answer assembly to the
// Storyteller service.
type StoryController struct {
	storyteller *services.Storyteller
	processor   *services.DocumentProcessor
	cfg         *config.Config

	mu       sync.Mutex
	sessions map[string][]models.ConversationTurn
}

// NewStoryController is a constructor function that creates a new
// StoryController. Called from main.go to inject the dependencies.
func NewStoryController(storyteller *services.Storyteller, processor *services.DocumentProcessor, cfg *config.Config) *StoryController {
	return &StoryController{
		storyteller: storyteller,
		processor:   processor,
		cfg:         cfg,
		sessions:    make(map[string][]models.ConversationTurn),
	}
}

// Ask is the Gin handler for POST /api/ask. It resolves the session, runs
// the orchestrated pipeline and records the exchange in memory.
func (c *StoryController) Ask(ctx *gin.Context) {
	var req models.AskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	language := req.Language
	if language == "" {
		language = "en"
	}

	sessionID, history := c.sessionHistory(req.SessionID)

	response := c.storyteller.Respond(ctx.Request.Context(), req.Question, req.WantImage(), req.WantAudio(), language, history)

	c.recordTurn(sessionID, req.Question, response.Answer)

	ctx.JSON(http.StatusOK, models.AskResponse{
		StoryResponse: *response,
		SessionID:     sessionID,
	})
}

// Suggestions is the Gin handler for GET /api/suggestions.
func (c *StoryController) Suggestions(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, models.SuggestionsResponse{
		Suggestions: config.SuggestedQuestions,
	})
}

// Health is the Gin handler for GET /health. It reports whether the corpus
// index is ready and how many chunks it holds.
func (c *StoryController) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"initialized": c.processor.IsInitialized(),
		"chunks":      c.processor.ChunkCount(),
	})
}

// sessionHistory returns the effective session ID and a copy of its stored
// history. An empty or unknown ID starts a fresh session.
func (c *StoryController) sessionHistory(sessionID string) (string, []models.ConversationTurn) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	stored := c.sessions[sessionID]
	history := make([]models.ConversationTurn, len(stored))
	copy(history, stored)
	return sessionID, history
}

// recordTurn appends the question/answer pair to the session, trimming the
// oldest turns beyond the retention limit.
func (c *StoryController) recordTurn(sessionID, question, answer string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	history := append(c.sessions[sessionID],
		models.ConversationTurn{Role: "user", Content: question},
		models.ConversationTurn{Role: "assistant", Content: answer},
	)
	if max := c.cfg.MaxConversationHistory; max > 0 && len(history) > max {
		history = history[len(history)-max:]
	}
	c.sessions[sessionID] = history
}
