package transcribe

import (
	"fmt"
	"log"

	"voiceagent/internal/config"
	"voiceagent/internal/metrics"
	"voiceagent/internal/objectstore"
)

// NewManagerFromConfig wires a Manager from environment configuration. When
// no transcription key is configured the manager is created in degraded mode
// so the system stays operable without live credentials.
func NewManagerFromConfig(cfg *config.Config, m *metrics.Metrics) (*Manager, error) {
	if cfg.TranscribeKey == "" {
		log.Printf("[Transcribe Factory] TRANSCRIBE_API_KEY not set, creating degraded-mode manager")
		return NewManager(ManagerOptions{
			Mode:            ModeDegraded,
			PollInterval:    cfg.PollInterval,
			MaxPollAttempts: cfg.MaxPollAttempts,
			Metrics:         m,
		})
	}

	service, err := NewRESTService(cfg.TranscribeURL, cfg.TranscribeKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create transcription service client: %w", err)
	}

	var store objectstore.Store
	if cfg.StorageKey != "" {
		store = objectstore.NewHTTPStore(cfg.StorageURL, cfg.StorageKey)
	} else {
		log.Printf("[Transcribe Factory] OBJECT_STORE_KEY not set, staging objects in memory")
		store = objectstore.NewMemoryStore()
	}

	log.Printf("[Transcribe Factory] Creating live transcription manager (service: %s)", service.Name())
	return NewManager(ManagerOptions{
		Store:           store,
		Service:         service,
		Mode:            ModeLive,
		PollInterval:    cfg.PollInterval,
		MaxPollAttempts: cfg.MaxPollAttempts,
		Metrics:         m,
	})
}
