package transcribe

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"voiceagent/internal/objectstore"
)

// fakeService simulates the remote transcription service.
type fakeService struct {
	submitCalls int
	statusCalls int
	fetchCalls  int

	submit func(ctx context.Context, remoteKey string) (string, error)
	status func(ctx context.Context, jobID string) (*JobState, error)
	fetch  func(ctx context.Context, location string) (string, error)
}

func (f *fakeService) SubmitJob(ctx context.Context, remoteKey string) (string, error) {
	f.submitCalls++
	if f.submit == nil {
		return "remote-job-1", nil
	}
	return f.submit(ctx, remoteKey)
}

func (f *fakeService) GetJobStatus(ctx context.Context, jobID string) (*JobState, error) {
	f.statusCalls++
	if f.status == nil {
		return &JobState{Status: JobCompleted, ResultLocation: "results/remote-job-1"}, nil
	}
	return f.status(ctx, jobID)
}

func (f *fakeService) FetchResult(ctx context.Context, location string) (string, error) {
	f.fetchCalls++
	if f.fetch == nil {
		return "hello", nil
	}
	return f.fetch(ctx, location)
}

func (f *fakeService) Name() string { return "fake" }

func validAudio() []byte {
	return make([]byte, MinAudioBytes*2)
}

func newTestManager(t *testing.T, store objectstore.Store, service Service) *Manager {
	t.Helper()
	m, err := NewManager(ManagerOptions{
		Store:           store,
		Service:         service,
		Mode:            ModeLive,
		TempDir:         t.TempDir(),
		PollInterval:    time.Millisecond,
		MaxPollAttempts: 10,
	})
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	return m
}

// TestSubmitRejectsSmallPayload checks the size gate fires before any
// collaborator is touched.
func TestSubmitRejectsSmallPayload(t *testing.T) {
	store := objectstore.NewMemoryStore()
	service := &fakeService{}
	m := newTestManager(t, store, service)

	res := m.Submit(context.Background(), make([]byte, MinAudioBytes-1))

	if res.Success {
		t.Fatalf("Submit() succeeded for undersized payload")
	}
	if res.Kind != FailureInvalidAudio {
		t.Fatalf("kind = %q, want %q", res.Kind, FailureInvalidAudio)
	}
	if res.Error != "Audio data too small or invalid" {
		t.Fatalf("error = %q", res.Error)
	}
	if service.submitCalls != 0 || service.statusCalls != 0 {
		t.Fatalf("service called for rejected payload: submits=%d statuses=%d",
			service.submitCalls, service.statusCalls)
	}
	if store.Len() != 0 {
		t.Fatalf("store holds %d objects after rejection, want 0", store.Len())
	}
}

// TestSubmitDegradedMode checks the placeholder path never reaches the
// service and is deterministic.
func TestSubmitDegradedMode(t *testing.T) {
	m, err := NewManager(ManagerOptions{
		Mode:    ModeDegraded,
		TempDir: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	first := m.Submit(context.Background(), validAudio())
	second := m.Submit(context.Background(), validAudio())

	if !first.Success || !second.Success {
		t.Fatalf("degraded Submit() failed: %+v / %+v", first, second)
	}
	if first.Transcription != DegradedTranscript {
		t.Fatalf("transcription = %q, want placeholder", first.Transcription)
	}
	if first.Transcription != second.Transcription {
		t.Fatalf("degraded output not deterministic: %q vs %q", first.Transcription, second.Transcription)
	}
}

// TestSubmitDegradedModeStillRejectsSmallPayload checks the size gate applies
// before the degraded short-circuit.
func TestSubmitDegradedModeStillRejectsSmallPayload(t *testing.T) {
	m, err := NewManager(ManagerOptions{Mode: ModeDegraded, TempDir: t.TempDir()})
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	res := m.Submit(context.Background(), []byte("tiny"))
	if res.Success || res.Kind != FailureInvalidAudio {
		t.Fatalf("degraded Submit() accepted undersized payload: %+v", res)
	}
}

// TestSubmitPollsToCompletion checks the full lifecycle including cleanup of
// both the staged file and the remote object.
func TestSubmitPollsToCompletion(t *testing.T) {
	store := objectstore.NewMemoryStore()
	tempDir := t.TempDir()

	polls := 0
	service := &fakeService{
		status: func(ctx context.Context, jobID string) (*JobState, error) {
			if jobID != "remote-job-1" {
				t.Fatalf("GetJobStatus jobID = %q", jobID)
			}
			polls++
			if polls < 3 {
				return &JobState{Status: JobInProgress}, nil
			}
			return &JobState{Status: JobCompleted, ResultLocation: "results/remote-job-1"}, nil
		},
		fetch: func(ctx context.Context, location string) (string, error) {
			if location != "results/remote-job-1" {
				t.Fatalf("FetchResult location = %q", location)
			}
			return "what is the capital of France", nil
		},
	}

	m, err := NewManager(ManagerOptions{
		Store:           store,
		Service:         service,
		Mode:            ModeLive,
		TempDir:         tempDir,
		PollInterval:    time.Millisecond,
		MaxPollAttempts: 10,
	})
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	res := m.Submit(context.Background(), validAudio())

	if !res.Success {
		t.Fatalf("Submit() failed: %+v", res)
	}
	if res.Transcription != "what is the capital of France" {
		t.Fatalf("transcription = %q", res.Transcription)
	}
	if polls != 3 {
		t.Fatalf("polls = %d, want 3", polls)
	}
	if service.submitCalls != 1 {
		t.Fatalf("submit calls = %d, want 1", service.submitCalls)
	}
	if store.Len() != 0 {
		t.Fatalf("remote object not cleaned up, store holds %d", store.Len())
	}
	entries, err := os.ReadDir(tempDir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("staged file not cleaned up, %d entries remain", len(entries))
	}
}

// TestSubmitAccessDeniedFailure checks structured failure classification and
// that cleanup still runs on the failure path.
func TestSubmitAccessDeniedFailure(t *testing.T) {
	store := objectstore.NewMemoryStore()
	service := &fakeService{
		status: func(ctx context.Context, jobID string) (*JobState, error) {
			return &JobState{
				Status:        JobFailed,
				FailureCode:   "AccessDenied",
				FailureReason: "caller lacks transcribe:StartJob",
			}, nil
		},
	}
	m := newTestManager(t, store, service)

	res := m.Submit(context.Background(), validAudio())

	if res.Success {
		t.Fatalf("Submit() succeeded for failed job")
	}
	if res.Kind != FailureAccessDenied {
		t.Fatalf("kind = %q, want %q", res.Kind, FailureAccessDenied)
	}
	want := "Transcription failed: access denied. Check the transcription service credentials and permissions"
	if res.Error != want {
		t.Fatalf("error = %q, want %q", res.Error, want)
	}
	if store.Len() != 0 {
		t.Fatalf("remote object not cleaned up after failure")
	}
}

// TestSubmitTimesOut checks poll attempt exhaustion maps to the timeout kind.
func TestSubmitTimesOut(t *testing.T) {
	store := objectstore.NewMemoryStore()
	service := &fakeService{
		status: func(ctx context.Context, jobID string) (*JobState, error) {
			return &JobState{Status: JobInProgress}, nil
		},
	}
	m, err := NewManager(ManagerOptions{
		Store:           store,
		Service:         service,
		Mode:            ModeLive,
		TempDir:         t.TempDir(),
		PollInterval:    time.Millisecond,
		MaxPollAttempts: 3,
	})
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	res := m.Submit(context.Background(), validAudio())

	if res.Success || res.Kind != FailureTimeout {
		t.Fatalf("result = %+v, want timeout failure", res)
	}
	if service.statusCalls != 3 {
		t.Fatalf("status calls = %d, want 3", service.statusCalls)
	}
	if res.Error != "Transcription timed out waiting for the job to complete" {
		t.Fatalf("error = %q", res.Error)
	}
}

// TestSubmitTimeoutSkipsFinalSleep checks the timeout is reported right
// after the last poll attempt instead of waiting one more interval.
func TestSubmitTimeoutSkipsFinalSleep(t *testing.T) {
	store := objectstore.NewMemoryStore()
	service := &fakeService{
		status: func(ctx context.Context, jobID string) (*JobState, error) {
			return &JobState{Status: JobInProgress}, nil
		},
	}
	m, err := NewManager(ManagerOptions{
		Store:           store,
		Service:         service,
		Mode:            ModeLive,
		TempDir:         t.TempDir(),
		PollInterval:    time.Hour,
		MaxPollAttempts: 1,
	})
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	start := time.Now()
	res := m.Submit(context.Background(), validAudio())

	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("Submit() took %v, want immediate timeout", elapsed)
	}
	if res.Success || res.Kind != FailureTimeout {
		t.Fatalf("result = %+v, want timeout failure", res)
	}
	if service.statusCalls != 1 {
		t.Fatalf("status calls = %d, want 1", service.statusCalls)
	}
}

// TestSubmitCancelled checks a cancelled context stops polling.
func TestSubmitCancelled(t *testing.T) {
	store := objectstore.NewMemoryStore()
	service := &fakeService{
		status: func(ctx context.Context, jobID string) (*JobState, error) {
			return &JobState{Status: JobInProgress}, nil
		},
	}
	m, err := NewManager(ManagerOptions{
		Store:           store,
		Service:         service,
		Mode:            ModeLive,
		TempDir:         t.TempDir(),
		PollInterval:    time.Hour,
		MaxPollAttempts: 10,
	})
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := m.Submit(ctx, validAudio())

	if res.Success {
		t.Fatalf("Submit() succeeded with cancelled context")
	}
	if !strings.Contains(res.Error, "request cancelled") {
		t.Fatalf("error = %q, want cancellation text", res.Error)
	}
	if service.statusCalls != 1 {
		t.Fatalf("status calls = %d, want 1", service.statusCalls)
	}
	if store.Len() != 0 {
		t.Fatalf("remote object not cleaned up after cancellation")
	}
}

// TestSubmitUploadFailure checks an upload error surfaces without touching
// the service.
func TestSubmitUploadFailure(t *testing.T) {
	service := &fakeService{}
	m := newTestManager(t, failingStore{}, service)

	res := m.Submit(context.Background(), validAudio())

	if res.Success || res.Kind != FailureOther {
		t.Fatalf("result = %+v, want other failure", res)
	}
	if !strings.Contains(res.Error, "upload failed") {
		t.Fatalf("error = %q", res.Error)
	}
	if service.submitCalls != 0 {
		t.Fatalf("service submit called after failed upload")
	}
}

func TestNewManagerRequiresCollaboratorsInLiveMode(t *testing.T) {
	if _, err := NewManager(ManagerOptions{Mode: ModeLive}); err == nil {
		t.Fatalf("NewManager() accepted live mode without collaborators")
	}
	if _, err := NewManager(ManagerOptions{Mode: ModeLive, Store: objectstore.NewMemoryStore()}); err == nil {
		t.Fatalf("NewManager() accepted live mode without a service")
	}
}

type failingStore struct{}

func (failingStore) Upload(ctx context.Context, localPath, key string) error {
	return errors.New("connection refused")
}

func (failingStore) Delete(ctx context.Context, key string) error { return nil }
