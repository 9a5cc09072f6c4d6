package transcribe

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"voiceagent/internal/metrics"
	"voiceagent/internal/objectstore"
)

// MinAudioBytes is the smallest payload accepted for transcription. Anything
// below it is rejected before any collaborator is called.
const MinAudioBytes = 100

// DegradedTranscript is the deterministic placeholder returned when the
// manager runs without transcription credentials.
const DegradedTranscript = "placeholder transcript (transcription credentials not configured)"

// Mode selects between live transcription and the credential-less degraded
// behavior. The mode is fixed at construction.
type Mode string

const (
	ModeLive     Mode = "live"
	ModeDegraded Mode = "degraded"
)

// Manager drives one transcription job per Submit call: staging, upload,
// submission, polling, and cleanup of both staged artifacts.
type Manager struct {
	store           objectstore.Store
	service         Service
	mode            Mode
	tempDir         string
	pollInterval    time.Duration
	maxPollAttempts int
	metrics         *metrics.Metrics
}

// ManagerOptions configures a Manager.
type ManagerOptions struct {
	Store           objectstore.Store
	Service         Service
	Mode            Mode
	TempDir         string // defaults to the OS temp dir
	PollInterval    time.Duration
	MaxPollAttempts int
	Metrics         *metrics.Metrics
}

// NewManager creates a transcription job manager
func NewManager(opts ManagerOptions) (*Manager, error) {
	if opts.Mode == "" {
		opts.Mode = ModeLive
	}
	if opts.Mode == ModeLive {
		if opts.Store == nil {
			return nil, fmt.Errorf("object store is required in live mode")
		}
		if opts.Service == nil {
			return nil, fmt.Errorf("transcription service is required in live mode")
		}
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 2 * time.Second
	}
	if opts.MaxPollAttempts <= 0 {
		opts.MaxPollAttempts = 60
	}

	return &Manager{
		store:           opts.Store,
		service:         opts.Service,
		mode:            opts.Mode,
		tempDir:         opts.TempDir,
		pollInterval:    opts.PollInterval,
		maxPollAttempts: opts.MaxPollAttempts,
		metrics:         opts.Metrics,
	}, nil
}

// Mode reports whether the manager runs live or degraded.
func (m *Manager) Mode() Mode {
	return m.mode
}

// Submit runs one audio payload through the full transcription lifecycle.
// All failures are converted into the returned Result; nothing escapes as an
// error.
func (m *Manager) Submit(ctx context.Context, audio []byte) Result {
	start := time.Now()
	res := m.submit(ctx, audio)
	m.observe(res, time.Since(start))
	return res
}

func (m *Manager) submit(ctx context.Context, audio []byte) Result {
	if len(audio) < MinAudioBytes {
		log.Printf("[Transcribe] Rejecting audio payload: %d bytes (minimum %d)", len(audio), MinAudioBytes)
		return failure(FailureInvalidAudio, "")
	}

	// Stage to a scoped temporary file. Removal is guaranteed on every exit
	// path below.
	tmp, err := os.CreateTemp(m.tempDir, "voice-*.wav")
	if err != nil {
		return failure(FailureOther, fmt.Sprintf("failed to stage audio: %v", err))
	}
	tmpPath := tmp.Name()
	defer func() {
		if err := os.Remove(tmpPath); err != nil && !os.IsNotExist(err) {
			log.Printf("[Transcribe] Failed to remove staged audio %s: %v", tmpPath, err)
		}
	}()

	if _, err := tmp.Write(audio); err != nil {
		tmp.Close()
		return failure(FailureOther, fmt.Sprintf("failed to write staged audio: %v", err))
	}
	if err := tmp.Close(); err != nil {
		return failure(FailureOther, fmt.Sprintf("failed to close staged audio: %v", err))
	}

	// Without credentials the manager short-circuits with the documented
	// placeholder instead of calling the service.
	if m.mode == ModeDegraded {
		log.Printf("[Transcribe] Degraded mode: returning placeholder transcript")
		return Result{Success: true, Transcription: DegradedTranscript}
	}

	job := newJob(tmpPath)
	log.Printf("[Transcribe] Job %s created (%d bytes)", job.ID, len(audio))

	if err := job.transition(StatusUploading); err != nil {
		return failure(FailureOther, err.Error())
	}

	remoteKey := "audio/" + job.ID + ".wav"
	if err := m.store.Upload(ctx, tmpPath, remoteKey); err != nil {
		log.Printf("[Transcribe] Job %s upload failed: %v", job.ID, err)
		m.failJob(job, fmt.Sprintf("upload failed: %v", err))
		return failure(FailureOther, fmt.Sprintf("upload failed: %v", err))
	}

	// The staged remote object is deleted whatever the outcome; a failed
	// delete never masks the primary result.
	defer func() {
		if err := m.store.Delete(context.WithoutCancel(ctx), remoteKey); err != nil {
			log.Printf("[Transcribe] Job %s: failed to delete staged object %s: %v", job.ID, remoteKey, err)
		}
	}()

	if err := job.transition(StatusSubmitted); err != nil {
		return failure(FailureOther, err.Error())
	}

	remoteID, err := m.service.SubmitJob(ctx, remoteKey)
	if err != nil {
		log.Printf("[Transcribe] Job %s submission failed: %v", job.ID, err)
		m.failJob(job, fmt.Sprintf("submission failed: %v", err))
		return failure(FailureOther, fmt.Sprintf("submission failed: %v", err))
	}

	if err := job.transition(StatusPolling); err != nil {
		return failure(FailureOther, err.Error())
	}

	return m.poll(ctx, job, remoteID)
}

// poll waits for the remote job to reach a terminal status, bounded by
// maxPollAttempts.
func (m *Manager) poll(ctx context.Context, job *Job, remoteID string) Result {
	for attempt := 1; attempt <= m.maxPollAttempts; attempt++ {
		state, err := m.service.GetJobStatus(ctx, remoteID)
		if err != nil {
			log.Printf("[Transcribe] Job %s status poll failed: %v", job.ID, err)
			m.failJob(job, fmt.Sprintf("status poll failed: %v", err))
			return failure(FailureOther, fmt.Sprintf("status poll failed: %v", err))
		}

		switch state.Status {
		case JobCompleted:
			transcript, err := m.service.FetchResult(ctx, state.ResultLocation)
			if err != nil {
				log.Printf("[Transcribe] Job %s result fetch failed: %v", job.ID, err)
				m.failJob(job, fmt.Sprintf("result fetch failed: %v", err))
				return failure(FailureOther, fmt.Sprintf("result fetch failed: %v", err))
			}
			if err := job.complete(transcript); err != nil {
				return failure(FailureOther, err.Error())
			}
			log.Printf("[Transcribe] Job %s completed after %d polls (transcript length: %d)",
				job.ID, attempt, len(transcript))
			return Result{Success: true, Transcription: transcript}

		case JobFailed:
			kind := ClassifyFailure(state.FailureCode, state.FailureReason)
			log.Printf("[Transcribe] Job %s reported failure (%s): %s", job.ID, kind, state.FailureReason)
			m.failJob(job, state.FailureReason)
			return failure(kind, state.FailureReason)
		}

		// No point sleeping after the last attempt; report the timeout now.
		if attempt == m.maxPollAttempts {
			break
		}

		select {
		case <-ctx.Done():
			log.Printf("[Transcribe] Job %s abandoned: %v", job.ID, ctx.Err())
			m.failJob(job, ctx.Err().Error())
			return failure(FailureOther, "request cancelled")
		case <-time.After(m.pollInterval):
		}
	}

	log.Printf("[Transcribe] Job %s timed out after %d polls", job.ID, m.maxPollAttempts)
	m.failJob(job, "polling attempts exhausted")
	return failure(FailureTimeout, "")
}

func (m *Manager) failJob(job *Job, reason string) {
	if job.Terminal() {
		return
	}
	if err := job.fail(reason); err != nil {
		log.Printf("[Transcribe] Job %s: %v", job.ID, err)
	}
}

func (m *Manager) observe(res Result, elapsed time.Duration) {
	if m.metrics == nil {
		return
	}
	m.metrics.TranscriptionRequests.Inc()
	m.metrics.TranscriptionDuration.Observe(elapsed.Seconds())
	if res.Success {
		m.metrics.TranscriptionSuccesses.Inc()
	} else {
		m.metrics.TranscriptionFailures.Inc()
	}
}
