package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"voiceagent/internal/agent"
	"voiceagent/internal/ai"
	"voiceagent/internal/api"
	"voiceagent/internal/config"
	"voiceagent/internal/data"
	"voiceagent/internal/metrics"
	"voiceagent/internal/storage"
	"voiceagent/internal/transcribe"
	"voiceagent/internal/tts"
)

func main() {
	// Load .env file if it exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode (default to release mode)
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	registry := prometheus.NewRegistry()
	m := metrics.NewMetrics(registry)

	capitals, err := data.Load(cfg.CapitalsPath)
	if err != nil {
		log.Fatalf("Failed to load capitals data from %s: %v", cfg.CapitalsPath, err)
	}
	log.Printf("Loaded capitals data: %v", capitals.Summary())

	aiClient := ai.NewClient(cfg.OpenAIKey)

	manager, err := transcribe.NewManagerFromConfig(cfg, m)
	if err != nil {
		log.Fatalf("Failed to create transcription manager: %v", err)
	}

	// Streaming path: a live recognizer when configured, otherwise the
	// degraded placeholder recognizer so the endpoint stays available.
	var recognizer transcribe.ChunkRecognizer
	if cfg.StreamRecognizerURL != "" && cfg.TranscribeKey != "" {
		recognizer = transcribe.NewRESTRecognizer(cfg.StreamRecognizerURL, cfg.TranscribeKey)
	} else {
		log.Println("STREAM_RECOGNIZER_URL not set, streaming runs in degraded mode")
		recognizer = transcribe.DegradedRecognizer{}
	}
	streams := transcribe.NewStreamManager(recognizer)

	audioStore, err := storage.NewStore(cfg.AudioDir)
	if err != nil {
		log.Fatalf("Failed to create audio storage at %s: %v", cfg.AudioDir, err)
	}

	synthesizer := tts.NewOpenAISynthesizer(cfg.OpenAIKey, audioStore)

	pipeline := agent.NewPipeline(aiClient, aiClient, capitals, m)
	coordinator := agent.NewCoordinator(manager, pipeline, streams, synthesizer, m)

	r := gin.Default()

	// Add CORS middleware for mobile app
	r.Use(corsMiddleware())

	// Register routes
	server := api.NewServer(coordinator, capitals, audioStore, manager.Mode(), m, registry)
	server.RegisterRoutes(r)

	log.Printf("Voice agent backend running on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// corsMiddleware adds CORS headers for mobile app
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
