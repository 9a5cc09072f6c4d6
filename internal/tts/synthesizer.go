package tts

import (
	"context"
	"fmt"
	"log"

	"github.com/sashabaranov/go-openai"

	"voiceagent/internal/storage"
)

// Synthesizer converts response text into a stored audio file. Synthesis is
// a best-effort enhancement; callers keep their result when it fails.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (string, error)
}

// OpenAISynthesizer implements Synthesizer with the OpenAI speech API.
type OpenAISynthesizer struct {
	client *openai.Client
	store  *storage.Store
}

// NewOpenAISynthesizer creates a speech synthesizer
func NewOpenAISynthesizer(apiKey string, store *storage.Store) *OpenAISynthesizer {
	return &OpenAISynthesizer{
		client: openai.NewClient(apiKey),
		store:  store,
	}
}

// Synthesize renders text to speech and returns the stored file path.
func (s *OpenAISynthesizer) Synthesize(ctx context.Context, text string) (string, error) {
	if text == "" {
		return "", fmt.Errorf("cannot synthesize empty text")
	}

	resp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model: openai.TTSModel1,
		Input: text,
		Voice: openai.VoiceAlloy,
	})
	if err != nil {
		return "", fmt.Errorf("speech synthesis failed: %w", err)
	}
	defer resp.Close()

	audio, err := s.store.Save(resp, "mp3")
	if err != nil {
		return "", fmt.Errorf("failed to store synthesized audio: %w", err)
	}

	log.Printf("[TTS] Synthesized %d bytes to %s", audio.Size, audio.Name)
	return audio.Path, nil
}
