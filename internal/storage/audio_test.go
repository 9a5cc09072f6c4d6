package storage

import (
	"os"
	"strings"
	"testing"
)

// TestStoreSaveAndGet checks saved audio is on disk and in the registry.
func TestStoreSaveAndGet(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	audio, err := s.Save(strings.NewReader("mp3-bytes"), "mp3")
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if !strings.HasSuffix(audio.Name, ".mp3") {
		t.Fatalf("name = %q, want .mp3 suffix", audio.Name)
	}
	if audio.Size != int64(len("mp3-bytes")) {
		t.Fatalf("size = %d", audio.Size)
	}

	data, err := os.ReadFile(audio.Path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "mp3-bytes" {
		t.Fatalf("file contents = %q", data)
	}

	got, ok := s.Get(audio.Name)
	if !ok || got.Path != audio.Path {
		t.Fatalf("Get(%q) = %+v, %t", audio.Name, got, ok)
	}
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
}

// TestStoreGetUnknownName checks unknown names miss.
func TestStoreGetUnknownName(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	if _, ok := s.Get("nope.mp3"); ok {
		t.Fatalf("Get() hit for unknown name")
	}
	// Path-shaped names never resolve either
	if _, ok := s.Get("../../../etc/passwd"); ok {
		t.Fatalf("Get() hit for path traversal name")
	}
}

// TestStoreSaveGeneratesUniqueNames checks consecutive saves never collide.
func TestStoreSaveGeneratesUniqueNames(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	first, err := s.Save(strings.NewReader("a"), "mp3")
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	second, err := s.Save(strings.NewReader("b"), "mp3")
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if first.Name == second.Name {
		t.Fatalf("duplicate audio name %q", first.Name)
	}
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
}
