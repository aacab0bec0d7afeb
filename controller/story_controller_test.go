package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kashyap0319/AI-Internship-Project-EsMagico/config"
	"github.com/Kashyap0319/AI-Internship-Project-EsMagico/models"
	"github.com/Kashyap0319/AI-Internship-Project-EsMagico/services"
)

type stubEmbedder struct{}

func (stubEmbedder) Name() string { return "stub" }

func (stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0}
	}
	return out, nil
}

func (stubEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return []float32{1, 0}, nil
}

type stubExtractor struct{}

func (stubExtractor) Supported(path string) bool { return strings.HasSuffix(path, ".txt") }

func (stubExtractor) Extract(path string) (string, error) {
	data, err := os.ReadFile(path)
	return string(data), err
}

type stubTextGen struct {
	lastHistory []models.ConversationTurn
}

func (s *stubTextGen) Name() string { return "stub-llm" }

func (s *stubTextGen) Generate(ctx context.Context, prompt string, history []models.ConversationTurn) (string, error) {
	s.lastHistory = history
	return "Once upon a time, Alice tumbled into Wonderland.", nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *stubTextGen) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	docsDir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(docsDir, "alice.txt"),
		[]byte("Alice fell down the rabbit hole into Wonderland."),
		0o644,
	))

	cfg := &config.Config{
		TopKResults:            5,
		RelevanceThreshold:     0.25,
		HistoryWindow:          6,
		MaxConversationHistory: 4,
	}

	processor := services.NewDocumentProcessor(
		services.NewChunker(1200, 250), stubEmbedder{}, nil, stubExtractor{}, docsDir,
	)
	_, err := processor.Ingest(context.Background())
	require.NoError(t, err)

	media, err := services.NewMediaStore(t.TempDir())
	require.NoError(t, err)

	textGen := &stubTextGen{}
	storyteller := services.NewStoryteller(
		processor, services.NewRelevanceGate(cfg.RelevanceThreshold),
		textGen, nil, nil, media, cfg,
	)

	ctrl := NewStoryController(storyteller, processor, cfg)
	router := gin.New()
	router.GET("/health", ctrl.Health)
	router.POST("/api/ask", ctrl.Ask)
	router.GET("/api/suggestions", ctrl.Suggestions)
	return router, textGen
}

func postAsk(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/ask", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAskReturnsGroundedAnswer(t *testing.T) {
	router, _ := newTestRouter(t)

	w := postAsk(t, router, `{"question":"what happened to alice?"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.AskResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Grounded)
	assert.Contains(t, resp.Answer, "Alice")
	assert.NotEmpty(t, resp.SessionID)
	assert.NotEmpty(t, resp.Sources)
}

func TestAskRejectsMissingQuestion(t *testing.T) {
	router, _ := newTestRouter(t)

	w := postAsk(t, router, `{"language":"en"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAskMaintainsSessionHistory(t *testing.T) {
	router, textGen := newTestRouter(t)

	w := postAsk(t, router, `{"question":"who fell down the hole?"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var first models.AskResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
	assert.Empty(t, textGen.lastHistory)

	w = postAsk(t, router, `{"question":"and then what?","session_id":"`+first.SessionID+`"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var second models.AskResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))

	assert.Equal(t, first.SessionID, second.SessionID)
	require.Len(t, textGen.lastHistory, 2)
	assert.Equal(t, "user", textGen.lastHistory[0].Role)
	assert.Equal(t, "who fell down the hole?", textGen.lastHistory[0].Content)
	assert.Equal(t, "assistant", textGen.lastHistory[1].Role)
}

func TestAskTrimsSessionHistory(t *testing.T) {
	router, textGen := newTestRouter(t)

	w := postAsk(t, router, `{"question":"first question?"}`)
	var resp models.AskResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	sessionField := `,"session_id":"` + resp.SessionID + `"`

	// Retention is 4 turns, so after several exchanges the oldest pairs
	// must have been dropped.
	for i := 0; i < 4; i++ {
		postAsk(t, router, `{"question":"again?"`+sessionField+`}`)
	}
	assert.Len(t, textGen.lastHistory, 4)
}

func TestAskUnknownSessionStartsFresh(t *testing.T) {
	router, _ := newTestRouter(t)

	w := postAsk(t, router, `{"question":"hello?","session_id":"never-seen-before"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.AskResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "never-seen-before", resp.SessionID)
}

func TestSuggestionsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/suggestions", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.SuggestionsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Suggestions)
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, true, body["initialized"])
	assert.EqualValues(t, 1, body["chunks"])
}
