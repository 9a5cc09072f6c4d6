package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// RESTService talks to the transcription service over its REST API. Auth is
// either a plain API key or a service-account token source.
type RESTService struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	useAPIKey  bool
}

// NewRESTService creates a transcription service client.
// keyData can be either:
//   - An API key string
//   - A file path to a JSON service-account key file
//   - A JSON string containing the service-account credentials
func NewRESTService(baseURL, keyData string) (*RESTService, error) {
	keyData = strings.TrimSpace(keyData)
	if keyData == "" {
		return nil, fmt.Errorf("transcription service key is not set")
	}

	// Service-account material is JSON or a path to JSON; anything else is
	// treated as an API key.
	isServiceAccount := strings.HasPrefix(keyData, "{")
	if !isServiceAccount {
		if _, err := os.Stat(keyData); err == nil {
			isServiceAccount = true
		}
	}

	if !isServiceAccount {
		log.Printf("[Transcribe] Using API key authentication")
		return &RESTService{
			baseURL:    baseURL,
			apiKey:     keyData,
			httpClient: &http.Client{Timeout: 90 * time.Second},
			useAPIKey:  true,
		}, nil
	}

	var jsonData []byte
	var err error
	if strings.HasPrefix(keyData, "{") {
		log.Printf("[Transcribe] Using service-account JSON from environment")
		jsonData = []byte(keyData)
	} else {
		log.Printf("[Transcribe] Reading service-account key file: %s", keyData)
		jsonData, err = os.ReadFile(keyData)
		if err != nil {
			return nil, fmt.Errorf("failed to read key file %q: %w", keyData, err)
		}
	}

	ctx := context.Background()
	creds, err := google.CredentialsFromJSON(ctx, jsonData, "https://www.googleapis.com/auth/cloud-platform")
	if err != nil {
		return nil, fmt.Errorf("failed to create credentials from JSON: %w", err)
	}

	return &RESTService{
		baseURL:    baseURL,
		httpClient: oauth2.NewClient(ctx, creds.TokenSource),
		useAPIKey:  false,
	}, nil
}

// Name returns the service name
func (s *RESTService) Name() string {
	return "rest"
}

type submitJobRequest struct {
	MediaKey     string `json:"media_key"`
	MediaFormat  string `json:"media_format"`
	LanguageCode string `json:"language_code"`
}

type submitJobResponse struct {
	JobID string `json:"job_id"`
}

type jobStatusResponse struct {
	Status         string `json:"status"`
	ResultLocation string `json:"result_location,omitempty"`
	Failure        *struct {
		Code   string `json:"code,omitempty"`
		Reason string `json:"reason,omitempty"`
	} `json:"failure,omitempty"`
}

// transcriptDocument is the result payload fetched from the job's result
// location.
type transcriptDocument struct {
	Results struct {
		Transcripts []struct {
			Transcript string `json:"transcript"`
		} `json:"transcripts"`
	} `json:"results"`
}

// SubmitJob starts a transcription job for the staged object.
func (s *RESTService) SubmitJob(ctx context.Context, remoteKey string) (string, error) {
	reqBody, err := json.Marshal(submitJobRequest{
		MediaKey:     remoteKey,
		MediaFormat:  "wav",
		LanguageCode: "en-US",
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal job request: %w", err)
	}

	body, err := s.do(ctx, http.MethodPost, s.baseURL+"/jobs", bytes.NewReader(reqBody))
	if err != nil {
		return "", err
	}

	var resp submitJobResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to parse job submission response: %w", err)
	}
	if resp.JobID == "" {
		return "", fmt.Errorf("transcription service returned no job id")
	}

	log.Printf("[Transcribe] Submitted job %s for key %s", resp.JobID, remoteKey)
	return resp.JobID, nil
}

// GetJobStatus reports the current remote job state.
func (s *RESTService) GetJobStatus(ctx context.Context, jobID string) (*JobState, error) {
	body, err := s.do(ctx, http.MethodGet, s.baseURL+"/jobs/"+jobID, nil)
	if err != nil {
		return nil, err
	}

	var resp jobStatusResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse job status response: %w", err)
	}

	state := &JobState{
		Status:         resp.Status,
		ResultLocation: resp.ResultLocation,
	}
	if resp.Failure != nil {
		state.FailureCode = resp.Failure.Code
		state.FailureReason = resp.Failure.Reason
	}
	return state, nil
}

// FetchResult retrieves and extracts the transcript for a completed job.
func (s *RESTService) FetchResult(ctx context.Context, location string) (string, error) {
	body, err := s.do(ctx, http.MethodGet, location, nil)
	if err != nil {
		return "", err
	}

	var doc transcriptDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return "", fmt.Errorf("failed to parse transcript document: %w", err)
	}
	if len(doc.Results.Transcripts) == 0 {
		return "", fmt.Errorf("transcript document contains no transcripts")
	}

	transcript := strings.TrimSpace(doc.Results.Transcripts[0].Transcript)
	if transcript == "" {
		return "", fmt.Errorf("empty transcript returned")
	}
	return transcript, nil
}

func (s *RESTService) do(ctx context.Context, method, url string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.useAPIKey {
		req.Header.Set("api-key", s.apiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("transcription service request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		preview := string(respBody)
		if len(preview) > 500 {
			preview = preview[:500] + "..."
		}
		return nil, fmt.Errorf("transcription service returned status %d: %s", resp.StatusCode, preview)
	}

	return respBody, nil
}
