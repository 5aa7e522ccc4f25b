// Package draft keeps the last text typed on the Text to ISL page so it
// survives a restart.
package draft

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"codeberg.org/snonux/signreel/internal/logging"
)

// FileName is the name of the state file
const FileName = "sign_language_input"

// DefaultDelay is how long input has to settle before it is written
const DefaultDelay = 500 * time.Millisecond

// Store writes the draft after the input stopped changing for the delay.
// Write failures are logged and otherwise ignored.
type Store struct {
	path   string
	delay  time.Duration
	logger *zap.SugaredLogger

	mu      sync.Mutex
	pending *snapshot
	version uint64
	timer   *time.Timer
	closed  bool

	// writeMu serializes writes; written is the newest version on disk
	writeMu sync.Mutex
	written uint64
}

type snapshot struct {
	text    string
	version uint64
}

// Option configures a Store
type Option func(*Store)

// WithDelay overrides DefaultDelay
func WithDelay(d time.Duration) Option {
	return func(s *Store) {
		s.delay = d
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(s *Store) {
		s.logger = logging.OrNop(logger)
	}
}

// New creates a store keeping its file in dir
func New(dir string, opts ...Option) *Store {
	s := &Store{
		path:   filepath.Join(dir, FileName),
		delay:  DefaultDelay,
		logger: zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefaultDir returns the per-user state directory
func DefaultDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "signreel")
	}
	return "."
}

// Path returns the state file location
func (s *Store) Path() string {
	return s.path
}

// Load returns the saved draft, or "" when there is none
func (s *Store) Load() string {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warnw("Failed to read draft", "path", s.path, "error", err)
		}
		return ""
	}
	return string(data)
}

// Set schedules text to be written. Each call restarts the delay.
func (s *Store) Set(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	s.version++
	s.pending = &snapshot{text: text, version: s.version}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, s.Flush)
}

// Flush writes a pending draft right away
func (s *Store) Flush() {
	s.save(s.take())
}

// take removes the pending draft
func (s *Store) take() *snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	pending := s.pending
	s.pending = nil
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	return pending
}

// save writes snap unless a newer draft is already on disk
func (s *Store) save(snap *snapshot) {
	if snap == nil {
		return
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if snap.version <= s.written {
		return
	}
	if err := s.write(snap.text); err != nil {
		s.logger.Warnw("Failed to save draft", "path", s.path, "error", err)
		return
	}
	s.written = snap.version
}

// Close flushes the pending draft. Later calls to Set are ignored.
func (s *Store) Close() {
	s.Flush()
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

func (s *Store) write(text string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create draft directory: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write draft: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to write draft: %w", err)
	}
	return nil
}
