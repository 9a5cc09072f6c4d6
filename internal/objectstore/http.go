package objectstore

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"
)

// HTTPStore stages objects on a remote object store over its REST API.
type HTTPStore struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPStore creates a remote object store client
func NewHTTPStore(baseURL, apiKey string) *HTTPStore {
	return &HTTPStore{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 90 * time.Second},
	}
}

// Upload PUTs the local file under the given key.
func (s *HTTPStore) Upload(ctx context.Context, localPath, key string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open staged audio %s: %w", localPath, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat staged audio %s: %w", localPath, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.objectURL(key), f)
	if err != nil {
		return fmt.Errorf("failed to create upload request: %w", err)
	}
	req.ContentLength = info.Size()
	req.Header.Set("api-key", s.apiKey)
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to upload object %s: %w", key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("object store returned status %d for upload of %s: %s", resp.StatusCode, key, string(body))
	}

	log.Printf("[ObjectStore] Uploaded %s (%d bytes)", key, info.Size())
	return nil
}

// Delete removes a staged object.
func (s *HTTPStore) Delete(ctx context.Context, key string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, s.objectURL(key), nil)
	if err != nil {
		return fmt.Errorf("failed to create delete request: %w", err)
	}
	req.Header.Set("api-key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusNotFound {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("object store returned status %d for delete of %s: %s", resp.StatusCode, key, string(body))
	}

	return nil
}

func (s *HTTPStore) objectURL(key string) string {
	return s.baseURL + "/objects/" + url.PathEscape(key)
}
