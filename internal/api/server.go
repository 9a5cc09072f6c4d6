package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"voiceagent/internal/agent"
	"voiceagent/internal/data"
	"voiceagent/internal/metrics"
	"voiceagent/internal/storage"
	"voiceagent/internal/transcribe"
)

// Server holds the HTTP surface's collaborators.
type Server struct {
	coordinator *agent.Coordinator
	capitals    *data.Capitals
	audio       *storage.Store
	mode        transcribe.Mode
	metrics     *metrics.Metrics
	registry    *prometheus.Registry
}

// NewServer creates the API server
func NewServer(coordinator *agent.Coordinator, capitals *data.Capitals, audio *storage.Store,
	mode transcribe.Mode, m *metrics.Metrics, registry *prometheus.Registry) *Server {
	return &Server{
		coordinator: coordinator,
		capitals:    capitals,
		audio:       audio,
		mode:        mode,
		metrics:     m,
		registry:    registry,
	}
}

// RegisterRoutes attaches all endpoints to the gin engine.
func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", s.healthCheck)
	r.GET("/status", s.getStatus)
	r.GET("/entities", s.getEntities)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	v1 := r.Group("/api/v1")
	{
		v1.POST("/query/text", s.processText)
		v1.POST("/query/voice", s.processVoice)
		v1.GET("/query/stream", s.processVoiceStream)
		v1.GET("/audio/:name", s.getAudio)
	}
}

func (s *Server) countRequest(path string, status int) {
	if s.metrics == nil {
		return
	}
	s.metrics.HTTPRequests.WithLabelValues(path, httpStatusLabel(status)).Inc()
}

func httpStatusLabel(status int) string {
	switch {
	case status < 300:
		return "2xx"
	case status < 400:
		return "3xx"
	case status < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
