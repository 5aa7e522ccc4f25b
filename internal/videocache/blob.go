package videocache

import (
	"fmt"
	"os"
	"sync"

	"codeberg.org/snonux/signreel/internal"
)

// TempBlobStore keeps blobs as files in a private temporary directory so
// external players can open them. The URL is the file path.
type TempBlobStore struct {
	dir string
}

// NewTempBlobStore creates a blob directory below parent ("" for the system temp dir)
func NewTempBlobStore(parent string) (*TempBlobStore, error) {
	if parent != "" {
		if err := os.MkdirAll(parent, 0755); err != nil {
			return nil, fmt.Errorf("failed to create blob directory: %w", err)
		}
	}
	dir, err := os.MkdirTemp(parent, "signreel-blobs-")
	if err != nil {
		return nil, fmt.Errorf("failed to create blob directory: %w", err)
	}
	return &TempBlobStore{dir: dir}, nil
}

// Dir returns the directory holding the blobs
func (s *TempBlobStore) Dir() string {
	return s.dir
}

// Create writes data to a new file
func (s *TempBlobStore) Create(word string, data []byte) (string, error) {
	f, err := os.CreateTemp(s.dir, internal.SanitizeFilename(word)+"-*.mp4")
	if err != nil {
		return "", fmt.Errorf("failed to create blob: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write blob: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write blob: %w", err)
	}
	return f.Name(), nil
}

// Revoke deletes the blob file
func (s *TempBlobStore) Revoke(url string) error {
	if err := os.Remove(url); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Close removes the blob directory and anything left in it
func (s *TempBlobStore) Close() error {
	return os.RemoveAll(s.dir)
}

// MemoryBlobStore issues opaque blob: URLs for data held in memory
type MemoryBlobStore struct {
	mu      sync.Mutex
	next    int
	blobs   map[string][]byte
	revoked map[string]int
}

// NewMemoryBlobStore creates an empty in-memory store
func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{
		blobs:   make(map[string][]byte),
		revoked: make(map[string]int),
	}
}

// Create registers data under a new URL
func (s *MemoryBlobStore) Create(word string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.next++
	url := fmt.Sprintf("blob:signreel/%s/%d", word, s.next)
	s.blobs[url] = data
	return url, nil
}

// Revoke drops the data behind url
func (s *MemoryBlobStore) Revoke(url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.revoked[url]++
	if _, ok := s.blobs[url]; !ok {
		return fmt.Errorf("unknown blob: %s", url)
	}
	delete(s.blobs, url)
	return nil
}

// Get returns the data behind a live url
func (s *MemoryBlobStore) Get(url string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.blobs[url]
	return data, ok
}

// Live returns the number of blobs not yet revoked
func (s *MemoryBlobStore) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.blobs)
}

// Revocations returns how often url was revoked
func (s *MemoryBlobStore) Revocations(url string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revoked[url]
}
