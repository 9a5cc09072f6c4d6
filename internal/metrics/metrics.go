package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the voice agent
type Metrics struct {
	// Transcription job metrics
	TranscriptionRequests  prometheus.Counter
	TranscriptionSuccesses prometheus.Counter
	TranscriptionFailures  prometheus.Counter
	TranscriptionDuration  prometheus.Histogram

	// Query pipeline metrics
	QueriesTotal  *prometheus.CounterVec
	QueryFailures prometheus.Counter

	// Speech synthesis metrics
	SynthesisRequests prometheus.Counter
	SynthesisFailures prometheus.Counter

	// HTTP API metrics
	HTTPRequests *prometheus.CounterVec
}

// NewMetrics creates and registers all metrics on the given registerer
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		TranscriptionRequests: factory.NewCounter(prometheus.CounterOpts{
			Name: "voiceagent_transcription_requests_total",
			Help: "Total number of transcription submissions",
		}),
		TranscriptionSuccesses: factory.NewCounter(prometheus.CounterOpts{
			Name: "voiceagent_transcription_successes_total",
			Help: "Total number of successful transcriptions",
		}),
		TranscriptionFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "voiceagent_transcription_failures_total",
			Help: "Total number of failed transcriptions",
		}),
		TranscriptionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "voiceagent_transcription_duration_seconds",
			Help:    "Duration of transcription submissions in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
		QueriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "voiceagent_queries_total",
			Help: "Total number of resolved queries by query type",
		}, []string{"query_type"}),
		QueryFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "voiceagent_query_failures_total",
			Help: "Total number of queries that failed to resolve",
		}),
		SynthesisRequests: factory.NewCounter(prometheus.CounterOpts{
			Name: "voiceagent_synthesis_requests_total",
			Help: "Total number of speech synthesis requests",
		}),
		SynthesisFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "voiceagent_synthesis_failures_total",
			Help: "Total number of failed speech synthesis requests",
		}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "voiceagent_http_requests_total",
			Help: "Total number of HTTP requests by path and status",
		}, []string{"path", "status"}),
	}
}
