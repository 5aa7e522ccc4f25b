package player

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"codeberg.org/snonux/signreel/internal/logging"
)

// ErrNoPlayer is returned when no external video player is installed
var ErrNoPlayer = errors.New("no video player found. Install mpv or ffplay")

// MediaEvents receives playback events. *Clip implements it.
type MediaEvents interface {
	HandleLoadStart()
	HandleLoaded()
	HandleTimeUpdate(elapsed time.Duration)
	HandleDurationChange(duration time.Duration)
	HandleEnded()
	HandleError(err error)
}

// ProcessMedia plays local clip files through an external player process.
// Pausing stops the process; the next Play starts the clip from the beginning.
type ProcessMedia struct {
	command  string
	tick     time.Duration
	logger   *zap.SugaredLogger
	lookPath func(string) (string, error)

	mu      sync.Mutex
	events  MediaEvents
	src     string
	rate    float64
	cmd     *exec.Cmd
	stopped chan struct{}
}

// NewProcessMedia creates a media element. An empty command picks the first
// available of mpv and ffplay.
func NewProcessMedia(command string, logger *zap.SugaredLogger) *ProcessMedia {
	return &ProcessMedia{
		command:  command,
		tick:     250 * time.Millisecond,
		logger:   logging.OrNop(logger),
		lookPath: exec.LookPath,
		rate:     1,
	}
}

// SetEvents wires the receiver of playback events
func (m *ProcessMedia) SetEvents(events MediaEvents) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = events
}

// Load adopts a clip file
func (m *ProcessMedia) Load(src string) error {
	m.stop()

	m.mu.Lock()
	m.src = src
	events := m.events
	m.mu.Unlock()

	if events != nil {
		events.HandleLoadStart()
	}
	if _, err := os.Stat(src); err != nil {
		if events != nil {
			events.HandleError(err)
		}
		return fmt.Errorf("failed to open clip: %w", err)
	}
	if events != nil {
		events.HandleLoaded()
	}
	return nil
}

// SetRate sets the playback speed used by the next Play
func (m *ProcessMedia) SetRate(rate float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rate > 0 {
		m.rate = rate
	}
}

// Play starts the player process. It is a no-op while a process is running.
func (m *ProcessMedia) Play(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.src == "" {
		return fmt.Errorf("no clip loaded")
	}
	if m.cmd != nil {
		return nil
	}

	args, err := m.commandLine()
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", args[0], err)
	}
	m.logger.Debugw("Started video player", "command", args)

	stopped := make(chan struct{})
	m.cmd = cmd
	m.stopped = stopped
	go m.wait(cmd, stopped, m.events, m.rate)
	return nil
}

// wait reports progress until cmd exits, then reports the end of the clip
// unless the process was stopped on purpose.
func (m *ProcessMedia) wait(cmd *exec.Cmd, stopped chan struct{}, events MediaEvents, rate float64) {
	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	start := time.Now()
	ticker := time.NewTicker(m.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if events != nil {
				elapsed := time.Duration(float64(time.Since(start)) * rate)
				events.HandleTimeUpdate(elapsed)
			}
		case err := <-done:
			m.mu.Lock()
			current := m.cmd == cmd
			if current {
				m.cmd = nil
			}
			m.mu.Unlock()

			select {
			case <-stopped:
				return
			default:
			}
			if !current || events == nil {
				return
			}
			if err != nil {
				events.HandleError(err)
				return
			}
			events.HandleEnded()
			return
		}
	}
}

// Pause stops the running player process
func (m *ProcessMedia) Pause() {
	m.stop()
}

// Release stops playback and forgets the clip
func (m *ProcessMedia) Release() {
	m.stop()
	m.mu.Lock()
	m.src = ""
	m.mu.Unlock()
}

func (m *ProcessMedia) stop() {
	m.mu.Lock()
	cmd, stopped := m.cmd, m.stopped
	m.cmd, m.stopped = nil, nil
	m.mu.Unlock()

	if cmd == nil {
		return
	}
	close(stopped)
	if cmd.Process != nil {
		cmd.Process.Kill()
	}
}

// commandLine builds the player invocation for the loaded clip
func (m *ProcessMedia) commandLine() ([]string, error) {
	speed := strconv.FormatFloat(m.rate, 'f', -1, 64)

	candidates := []string{"mpv", "ffplay"}
	if m.command != "" {
		candidates = []string{m.command}
	}

	for _, name := range candidates {
		path, err := m.lookPath(name)
		if err != nil {
			continue
		}
		switch name {
		case "mpv":
			return []string{path, "--mute=yes", "--really-quiet", "--loop-file=no", "--speed=" + speed, m.src}, nil
		case "ffplay":
			return []string{path, "-an", "-autoexit", "-loglevel", "quiet", "-vf", "setpts=PTS/" + speed, m.src}, nil
		default:
			return []string{path, m.src}, nil
		}
	}

	if runtime.GOOS == "darwin" && m.command == "" {
		return []string{"open", "-W", "-a", "QuickTime Player", m.src}, nil
	}
	return nil, ErrNoPlayer
}
