package draft

import (
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"codeberg.org/snonux/signreel/internal/testutil"
)

func TestStore_LoadMissing(t *testing.T) {
	s := New(t.TempDir())
	if got := s.Load(); got != "" {
		t.Errorf("expected empty draft, got %q", got)
	}
}

func TestStore_FlushWritesLatest(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, WithDelay(time.Hour))

	s.Set("I")
	s.Set("I want")
	s.Set("I want water")

	testutil.AssertFileNotExists(t, filepath.Join(dir, FileName))

	s.Flush()
	testutil.AssertFileContent(t, filepath.Join(dir, FileName), []byte("I want water"))
	testutil.AssertFileNotExists(t, filepath.Join(dir, FileName+".tmp"))
}

func TestStore_StaleFlushKeepsNewerText(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, WithDelay(time.Hour))

	// A timer flush picks up "I want" but writes only after a newer flush
	s.Set("I want")
	stale := s.take()
	s.Set("I want water")
	s.Flush()
	s.save(stale)

	testutil.AssertFileContent(t, filepath.Join(dir, FileName), []byte("I want water"))

	// Later edits are still written
	s.Set("I want water now")
	s.Flush()
	testutil.AssertFileContent(t, filepath.Join(dir, FileName), []byte("I want water now"))
}

func TestStore_Debounce(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, WithDelay(20*time.Millisecond))
	defer s.Close()

	s.Set("hello")
	s.Set("hello doctor")

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s.Load() == "hello doctor" {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Errorf("draft was not written, got %q", s.Load())
}

func TestStore_CloseFlushesAndStops(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, WithDelay(time.Hour))

	s.Set("ನಮಸ್ಕಾರ")
	s.Close()
	if got := s.Load(); got != "ನಮಸ್ಕಾರ" {
		t.Errorf("Close must flush, got %q", got)
	}

	s.Set("ignored")
	s.Flush()
	if got := s.Load(); got != "ನಮಸ್ಕಾರ" {
		t.Errorf("Set after Close must be ignored, got %q", got)
	}
}

func TestStore_WriteFailureIsLogged(t *testing.T) {
	parent := filepath.Join(t.TempDir(), "file")
	testutil.CreateTestFile(t, parent, nil)

	core, logs := observer.New(zapcore.WarnLevel)
	s := New(filepath.Join(parent, "sub"), WithDelay(time.Hour), WithLogger(zap.New(core).Sugar()))

	s.Set("text")
	s.Flush()

	if logs.FilterMessage("Failed to save draft").Len() != 1 {
		t.Errorf("expected a logged write failure, got %v", logs.All())
	}
}

func TestStore_FlushCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "signreel")
	s := New(dir)

	s.Set("thank you")
	s.Flush()
	testutil.AssertFileExists(t, s.Path())
}

func TestStore_Path(t *testing.T) {
	s := New("/state")
	if s.Path() != filepath.Join("/state", FileName) {
		t.Errorf("unexpected path %q", s.Path())
	}
}
