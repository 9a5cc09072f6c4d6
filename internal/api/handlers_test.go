package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"voiceagent/internal/agent"
	"voiceagent/internal/data"
	"voiceagent/internal/storage"
	"voiceagent/internal/transcribe"
)

type stubTranscriber struct {
	result transcribe.Result
}

func (s stubTranscriber) Submit(ctx context.Context, audio []byte) transcribe.Result {
	return s.result
}

type stubResolver struct {
	result agent.QueryResult
}

func (s stubResolver) Resolve(ctx context.Context, text string) agent.QueryResult {
	return s.result
}

func newTestRouter(t *testing.T, resolver agent.Resolver, transcriber agent.Transcriber) (*gin.Engine, *Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	path := filepath.Join(t.TempDir(), "capitals.yaml")
	dataset := "countries:\n  France: Paris\nstates:\n  Texas: Austin\n"
	if err := os.WriteFile(path, []byte(dataset), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	capitals, err := data.Load(path)
	if err != nil {
		t.Fatalf("data.Load() error = %v", err)
	}

	audio, err := storage.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("storage.NewStore() error = %v", err)
	}

	coordinator := agent.NewCoordinator(transcriber, resolver, nil, nil, nil)
	server := NewServer(coordinator, capitals, audio, transcribe.ModeDegraded, nil, prometheus.NewRegistry())

	r := gin.New()
	server.RegisterRoutes(r)
	return r, server
}

func perform(r *gin.Engine, method, path, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// TestHealthEndpoint checks the liveness surface.
func TestHealthEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, stubResolver{}, stubTranscriber{})

	w := perform(r, http.MethodGet, "/health", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Fatalf("body = %s", w.Body.String())
	}
}

// TestEntitiesEndpoint checks the dataset listing.
func TestEntitiesEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, stubResolver{}, stubTranscriber{})

	w := perform(r, http.MethodGet, "/entities", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Countries []string `json:"countries"`
			States    []string `json:"states"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Unmarshal() error = %v: %s", err, w.Body.String())
	}
	if !body.Success || len(body.Data.Countries) != 1 || len(body.Data.States) != 1 {
		t.Fatalf("body = %+v", body)
	}
}

// TestStatusEndpoint checks the mode and capability report.
func TestStatusEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, stubResolver{}, stubTranscriber{})

	w := perform(r, http.MethodGet, "/status", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `"transcription_mode":"degraded"`) {
		t.Fatalf("body = %s", body)
	}
	if !strings.Contains(body, `"synthesis_enabled":false`) {
		t.Fatalf("body = %s", body)
	}
}

// TestProcessTextEndpoint checks the resolved result is returned as-is.
func TestProcessTextEndpoint(t *testing.T) {
	resolver := stubResolver{
		result: agent.QueryResult{
			ResponseText: "The capital of France is Paris.",
			Success:      true,
			QueryType:    "country",
			Entity:       "France",
			Capital:      "Paris",
		},
	}
	r, _ := newTestRouter(t, resolver, stubTranscriber{})

	w := perform(r, http.MethodPost, "/api/v1/query/text", "application/json",
		`{"text": "What is the capital of France?"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var result agent.QueryResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !result.Success || result.Capital != "Paris" {
		t.Fatalf("result = %+v", result)
	}
}

// TestProcessTextRequiresText checks the binding error path.
func TestProcessTextRequiresText(t *testing.T) {
	r, _ := newTestRouter(t, stubResolver{}, stubTranscriber{})

	w := perform(r, http.MethodPost, "/api/v1/query/text", "application/json", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

// TestProcessVoiceRejectsBadBase64 checks malformed audio_data is a 400.
func TestProcessVoiceRejectsBadBase64(t *testing.T) {
	r, _ := newTestRouter(t, stubResolver{}, stubTranscriber{})

	w := perform(r, http.MethodPost, "/api/v1/query/voice", "application/json",
		`{"audio_data": "not!!base64"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", w.Code, w.Body.String())
	}
}

// TestProcessVoiceFailureResponse checks transcription failures surface in
// the result body, not as HTTP errors.
func TestProcessVoiceFailureResponse(t *testing.T) {
	transcriber := stubTranscriber{
		result: transcribe.Result{
			Success: false,
			Error:   "Audio data too small or invalid",
			Kind:    transcribe.FailureInvalidAudio,
		},
	}
	r, _ := newTestRouter(t, stubResolver{}, transcriber)

	w := perform(r, http.MethodPost, "/api/v1/query/voice", "application/json",
		`{"audio_data": "QUFBQQ=="}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var result agent.VoiceQueryResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if result.Success {
		t.Fatalf("result = %+v", result)
	}
	if result.ResponseText != "Audio data too small or invalid" {
		t.Fatalf("response = %q", result.ResponseText)
	}
}

// TestGetAudioUnknownName checks unregistered audio names are a 404.
func TestGetAudioUnknownName(t *testing.T) {
	r, _ := newTestRouter(t, stubResolver{}, stubTranscriber{})

	w := perform(r, http.MethodGet, "/api/v1/audio/nope.mp3", "", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

// TestMetricsEndpoint checks the registry is exposed.
func TestMetricsEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, stubResolver{}, stubTranscriber{})

	w := perform(r, http.MethodGet, "/metrics", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}
