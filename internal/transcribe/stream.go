package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// ChunkRecognizer transcribes one audio chunk synchronously. It backs the
// streaming path, where the job-based service is too slow per increment.
type ChunkRecognizer interface {
	RecognizeChunk(ctx context.Context, chunk []byte) (string, error)
}

// StreamManager turns an ordered sequence of audio chunks into an ordered
// sequence of incremental transcripts.
type StreamManager struct {
	recognizer    ChunkRecognizer
	minChunkBytes int
}

// NewStreamManager creates a streaming transcription manager
func NewStreamManager(recognizer ChunkRecognizer) *StreamManager {
	return &StreamManager{
		recognizer:    recognizer,
		minChunkBytes: MinAudioBytes,
	}
}

// Transcribe consumes chunks until the input closes or ctx is cancelled and
// emits transcript increments in arrival order. Cancellation terminates the
// output silently; no error is ever delivered on the channel.
func (s *StreamManager) Transcribe(ctx context.Context, chunks <-chan []byte) <-chan string {
	out := make(chan string)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case chunk, ok := <-chunks:
				if !ok {
					return
				}
				if len(chunk) < s.minChunkBytes {
					continue
				}

				text, err := s.recognizer.RecognizeChunk(ctx, chunk)
				if err != nil {
					// The stream ends quietly; callers observe channel
					// closure, never an error.
					log.Printf("[Transcribe] Stream recognition stopped: %v", err)
					return
				}
				if text == "" {
					continue
				}

				select {
				case out <- text:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}

// RESTRecognizer posts raw audio chunks to a synchronous recognition
// endpoint.
type RESTRecognizer struct {
	url        string
	apiKey     string
	httpClient *http.Client
}

// NewRESTRecognizer creates a chunk recognizer client
func NewRESTRecognizer(url, apiKey string) *RESTRecognizer {
	return &RESTRecognizer{
		url:        url,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type recognizeResponse struct {
	Text      string `json:"text"`
	ErrorCode int    `json:"errorCode,omitempty"`
	Message   string `json:"message,omitempty"`
}

// RecognizeChunk transcribes one chunk of audio.
func (r *RESTRecognizer) RecognizeChunk(ctx context.Context, chunk []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(chunk))
	if err != nil {
		return "", fmt.Errorf("failed to create recognition request: %w", err)
	}
	req.Header.Set("api-key", r.apiKey)
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send chunk to recognizer: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read recognizer response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("recognizer returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed recognizeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse recognizer response: %w", err)
	}
	if parsed.ErrorCode != 0 {
		return "", fmt.Errorf("recognizer error %d: %s", parsed.ErrorCode, parsed.Message)
	}

	return strings.TrimSpace(parsed.Text), nil
}

// DegradedRecognizer emits a placeholder increment per chunk, mirroring the
// manager's degraded mode for the streaming path.
type DegradedRecognizer struct{}

// RecognizeChunk returns the placeholder transcript.
func (DegradedRecognizer) RecognizeChunk(ctx context.Context, chunk []byte) (string, error) {
	return DegradedTranscript, nil
}
