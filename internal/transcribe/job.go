package transcribe

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status is a transcription job lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusUploading Status = "uploading"
	StatusSubmitted Status = "submitted"
	StatusPolling   Status = "polling"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Job tracks one in-flight speech-to-text request. Transitions are monotonic;
// ResultText and FailureReason are mutually exclusive and set exactly once at
// the transition into the terminal state.
type Job struct {
	ID            string
	AudioRef      string
	Status        Status
	ResultText    string
	FailureReason string
	CreatedAt     time.Time
	CompletedAt   time.Time
}

func newJob(audioRef string) *Job {
	return &Job{
		ID:        uuid.New().String(),
		AudioRef:  audioRef,
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}
}

// transition advances the job to the next lifecycle state.
func (j *Job) transition(to Status) error {
	if !isValidTransition(j.Status, to) {
		return fmt.Errorf("invalid job transition: %s -> %s", j.Status, to)
	}
	j.Status = to
	return nil
}

// complete moves the job to its successful terminal state.
func (j *Job) complete(text string) error {
	if err := j.transition(StatusCompleted); err != nil {
		return err
	}
	j.ResultText = text
	j.CompletedAt = time.Now()
	return nil
}

// fail moves the job to its failed terminal state.
func (j *Job) fail(reason string) error {
	if err := j.transition(StatusFailed); err != nil {
		return err
	}
	j.FailureReason = reason
	j.CompletedAt = time.Now()
	return nil
}

// Terminal reports whether the job can transition no further.
func (j *Job) Terminal() bool {
	return j.Status == StatusCompleted || j.Status == StatusFailed
}

// isValidTransition enforces the one-directional job state machine.
func isValidTransition(from, to Status) bool {
	switch from {
	case StatusPending:
		return to == StatusUploading || to == StatusFailed
	case StatusUploading:
		return to == StatusSubmitted || to == StatusFailed
	case StatusSubmitted:
		return to == StatusPolling || to == StatusFailed
	case StatusPolling:
		return to == StatusCompleted || to == StatusFailed
	default:
		return false
	}
}
