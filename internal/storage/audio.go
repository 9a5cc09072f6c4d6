package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Audio describes one stored audio file.
type Audio struct {
	Name      string
	Path      string
	Size      int64
	CreatedAt time.Time
}

// Store persists audio files under a single directory and tracks them in
// memory so handlers can serve them by name only.
type Store struct {
	dir   string
	mu    sync.Mutex
	files map[string]*Audio
}

// NewStore creates the audio directory and an empty registry
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create audio directory %s: %w", dir, err)
	}
	return &Store{
		dir:   dir,
		files: make(map[string]*Audio),
	}, nil
}

// Save writes the audio stream to a fresh file and registers it.
func (s *Store) Save(r io.Reader, ext string) (*Audio, error) {
	name := uuid.New().String() + "." + ext
	path := filepath.Join(s.dir, name)

	out, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create audio file: %w", err)
	}

	size, err := io.Copy(out, r)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to write audio file: %w", err)
	}

	audio := &Audio{
		Name:      name,
		Path:      path,
		Size:      size,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	s.files[name] = audio
	s.mu.Unlock()

	return audio, nil
}

// Get retrieves a stored audio file by name.
func (s *Store) Get(name string) (*Audio, bool) {
	// Names are always registry keys; a path can never reach the filesystem
	// directly.
	s.mu.Lock()
	defer s.mu.Unlock()
	audio, ok := s.files[name]
	if !ok {
		return nil, false
	}
	// Return a copy to avoid race conditions
	audioCopy := *audio
	return &audioCopy, true
}

// Len reports how many audio files are registered.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}
