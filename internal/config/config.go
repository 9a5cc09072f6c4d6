package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// OpenAI powers intent classification, response generation and speech
	// synthesis. Required.
	OpenAIKey string

	// Transcription service. When TranscribeKey is empty the service runs in
	// degraded mode and returns a placeholder transcript.
	TranscribeURL string
	TranscribeKey string

	// Object storage for staged audio.
	StorageURL string
	StorageKey string

	// Streaming recognizer endpoint for the realtime path.
	StreamRecognizerURL string

	CapitalsPath string
	AudioDir     string

	PollInterval    time.Duration
	MaxPollAttempts int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:                getEnv("PORT", "8080"),
		OpenAIKey:           os.Getenv("OPENAI_API_KEY"),
		TranscribeURL:       getEnv("TRANSCRIBE_API_URL", "https://api.transcribe.example.com/v1"),
		TranscribeKey:       os.Getenv("TRANSCRIBE_API_KEY"),
		StorageURL:          getEnv("OBJECT_STORE_URL", "https://storage.example.com/v1"),
		StorageKey:          os.Getenv("OBJECT_STORE_KEY"),
		StreamRecognizerURL: os.Getenv("STREAM_RECOGNIZER_URL"),
		CapitalsPath:        getEnv("CAPITALS_DATA_PATH", "./data/capitals.yaml"),
		AudioDir:            getEnv("AUDIO_DIR", "./audio"),
		PollInterval:        getDurationEnv("TRANSCRIBE_POLL_INTERVAL", 2*time.Second),
		MaxPollAttempts:     getIntEnv("TRANSCRIBE_MAX_POLL_ATTEMPTS", 60),
	}

	// Validate required environment variables
	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required. Please set it as environment variable:\n  Linux/Mac: export OPENAI_API_KEY=\"your_key\"\n  Windows PowerShell: $env:OPENAI_API_KEY=\"your_key\"")
	}

	if cfg.MaxPollAttempts < 1 {
		return nil, fmt.Errorf("TRANSCRIBE_MAX_POLL_ATTEMPTS must be at least 1")
	}

	// Transcription key is optional: without it the job manager runs in
	// degraded mode (validated at provider construction).

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
