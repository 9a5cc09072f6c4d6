package transcribe

import "context"

// Remote job statuses reported by the transcription service.
const (
	JobInProgress = "IN_PROGRESS"
	JobCompleted  = "COMPLETED"
	JobFailed     = "FAILED"
)

// JobState is the status of a remote transcription job.
type JobState struct {
	Status         string
	ResultLocation string // set when Status is COMPLETED
	FailureCode    string // structured failure code, may be empty
	FailureReason  string // set when Status is FAILED
}

// Service is the asynchronous transcription collaborator. Implementations
// never retry on behalf of the caller.
type Service interface {
	// SubmitJob starts a transcription job for a staged object and returns
	// the remote job id.
	SubmitJob(ctx context.Context, remoteKey string) (string, error)

	// GetJobStatus reports the current state of a remote job.
	GetJobStatus(ctx context.Context, jobID string) (*JobState, error)

	// FetchResult retrieves the transcript from a completed job's result
	// location.
	FetchResult(ctx context.Context, location string) (string, error)

	// Name identifies the service implementation in logs.
	Name() string
}
