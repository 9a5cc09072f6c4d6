package agent

import (
	"context"
	"log"

	"voiceagent/internal/metrics"
	"voiceagent/internal/transcribe"
	"voiceagent/internal/tts"
)

// Transcriber is the voice-to-text collaborator consumed by the coordinator.
type Transcriber interface {
	Submit(ctx context.Context, audio []byte) transcribe.Result
}

// Resolver turns text into a structured query result.
type Resolver interface {
	Resolve(ctx context.Context, text string) QueryResult
}

// StreamTranscriber is the chunked variant for realtime sessions.
type StreamTranscriber interface {
	Transcribe(ctx context.Context, chunks <-chan []byte) <-chan string
}

// Coordinator sequences transcription, intent resolution, and optional
// speech synthesis for one voice session. Any stage failure short-circuits
// the rest; synthesis failures never fail a session.
type Coordinator struct {
	transcriber Transcriber
	resolver    Resolver
	streams     StreamTranscriber
	synthesizer tts.Synthesizer // nil when synthesis is disabled
	metrics     *metrics.Metrics
}

// NewCoordinator creates the voice session coordinator
func NewCoordinator(transcriber Transcriber, resolver Resolver, streams StreamTranscriber, synthesizer tts.Synthesizer, m *metrics.Metrics) *Coordinator {
	return &Coordinator{
		transcriber: transcriber,
		resolver:    resolver,
		streams:     streams,
		synthesizer: synthesizer,
		metrics:     m,
	}
}

// ProcessText resolves a text query.
func (c *Coordinator) ProcessText(ctx context.Context, text string) QueryResult {
	return c.resolver.Resolve(ctx, text)
}

// ProcessVoice runs one audio payload end to end: transcribe, resolve,
// synthesize.
func (c *Coordinator) ProcessVoice(ctx context.Context, audio []byte) VoiceQueryResult {
	tr := c.transcriber.Submit(ctx, audio)
	if !tr.Success {
		return VoiceQueryResult{
			QueryResult: QueryResult{
				ResponseText: tr.Error,
				Success:      false,
				Error:        tr.Error,
			},
		}
	}

	result := c.resolver.Resolve(ctx, tr.Transcription)
	voice := VoiceQueryResult{
		QueryResult:     result,
		TranscribedText: tr.Transcription,
	}
	if !result.Success {
		return voice
	}

	if c.synthesizer != nil {
		if c.metrics != nil {
			c.metrics.SynthesisRequests.Inc()
		}
		path, err := c.synthesizer.Synthesize(ctx, result.ResponseText)
		if err != nil {
			// Synthesis is best-effort; the answer stands without audio.
			log.Printf("[Coordinator] Synthesis failed: %v", err)
			if c.metrics != nil {
				c.metrics.SynthesisFailures.Inc()
			}
		} else {
			voice.AudioFilePath = path
		}
	}

	return voice
}

// ProcessVoiceStream surfaces incremental transcripts for a realtime
// session. The returned channel closes when the input closes or the session
// is cancelled.
func (c *Coordinator) ProcessVoiceStream(ctx context.Context, chunks <-chan []byte) <-chan string {
	if c.streams == nil {
		out := make(chan string)
		close(out)
		return out
	}
	return c.streams.Transcribe(ctx, chunks)
}

// StreamingEnabled reports whether the realtime path is configured.
func (c *Coordinator) StreamingEnabled() bool {
	return c.streams != nil
}

// SynthesisEnabled reports whether speech synthesis is configured.
func (c *Coordinator) SynthesisEnabled() bool {
	return c.synthesizer != nil
}
