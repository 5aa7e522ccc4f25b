package player

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"codeberg.org/snonux/signreel/internal/gloss"
	"codeberg.org/snonux/signreel/internal/logging"
)

// DefaultNoticeDelay is how long the "no sign available" notice stays up
const DefaultNoticeDelay = 2 * time.Second

// Phase is what the player is currently showing
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseClip
	PhaseNotice
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseClip:
		return "Clip"
	case PhaseNotice:
		return "Notice"
	default:
		return "Unknown"
	}
}

// PlaybackState is a snapshot of the sequencer
type PlaybackState struct {
	ActiveIndex int
	Playing     bool
	ShowNotice  bool
	Phase       Phase
	// Finished is set once the last word has been shown to completion
	Finished bool
}

// Timer is the part of *time.Timer the sequencer needs
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Sequencer owns the position in a word list
type Sequencer struct {
	mu         sync.Mutex
	words      []gloss.Word
	state      PlaybackState
	timer      Timer
	generation uint64
	version    uint64
	closed     bool

	// notifyMu orders callbacks: a transition older than the last one
	// delivered is dropped.
	notifyMu  sync.Mutex
	delivered uint64

	delay        time.Duration
	after        AfterFunc
	onChange     func(PlaybackState)
	onTransition func(PlaybackState, gloss.Word)
	logger       *zap.SugaredLogger
}

// transition is a state snapshot taken under the sequencer lock
type transition struct {
	state   PlaybackState
	word    gloss.Word
	version uint64
}

// SequencerOption configures a Sequencer
type SequencerOption func(*Sequencer)

// WithNoticeDelay overrides DefaultNoticeDelay
func WithNoticeDelay(d time.Duration) SequencerOption {
	return func(s *Sequencer) {
		s.delay = d
	}
}

// WithAfterFunc replaces time.AfterFunc
func WithAfterFunc(after AfterFunc) SequencerOption {
	return func(s *Sequencer) {
		s.after = after
	}
}

// WithOnChange registers a callback invoked after every transition.
// It runs without the sequencer lock held but callbacks never overlap and
// arrive in transition order, so a callback must not drive the sequencer
// synchronously.
func WithOnChange(fn func(PlaybackState)) SequencerOption {
	return func(s *Sequencer) {
		s.onChange = fn
	}
}

func withOnTransition(fn func(PlaybackState, gloss.Word)) SequencerOption {
	return func(s *Sequencer) {
		s.onTransition = fn
	}
}

// WithSequencerLogger sets the logger
func WithSequencerLogger(logger *zap.SugaredLogger) SequencerOption {
	return func(s *Sequencer) {
		s.logger = logging.OrNop(logger)
	}
}

// NewSequencer creates an idle sequencer
func NewSequencer(opts ...SequencerOption) *Sequencer {
	s := &Sequencer{
		delay:  DefaultNoticeDelay,
		after:  realAfterFunc,
		logger: zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the word list and starts from the first word
func (s *Sequencer) Load(words []gloss.Word) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.cancelTimerLocked()
	s.words = append([]gloss.Word(nil), words...)
	if len(s.words) == 0 {
		s.state = PlaybackState{}
	} else {
		s.enterLocked(0)
	}
	t := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(t)
}

// enterLocked moves to index i, deciding between clip and notice
func (s *Sequencer) enterLocked(i int) {
	s.cancelTimerLocked()
	s.state = PlaybackState{ActiveIndex: i, Playing: true}

	last := i == len(s.words)-1
	if s.words[i].Translatable {
		s.state.Phase = PhaseClip
		return
	}

	s.state.Phase = PhaseNotice
	s.state.ShowNotice = true
	if last {
		s.state.Finished = true
		return
	}

	gen := s.generation
	s.timer = s.after(s.delay, func() {
		s.noticeElapsed(gen)
	})
}

func (s *Sequencer) noticeElapsed(gen uint64) {
	s.mu.Lock()
	if s.closed || gen != s.generation || s.state.Phase != PhaseNotice {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.logger.Debugw("Notice elapsed", "index", s.state.ActiveIndex)
	s.enterLocked(s.state.ActiveIndex + 1)
	t := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(t)
}

// cancelTimerLocked stops the pending notice timer. Bumping the generation
// makes a timer that already fired a no-op.
func (s *Sequencer) cancelTimerLocked() {
	s.generation++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// ClipEnded advances past the active clip. At the last word the player stays put.
func (s *Sequencer) ClipEnded() {
	s.mu.Lock()
	if s.closed || s.state.Phase != PhaseClip {
		s.mu.Unlock()
		return
	}
	if s.state.ActiveIndex >= len(s.words)-1 {
		s.state.Finished = true
	} else {
		s.enterLocked(s.state.ActiveIndex + 1)
	}
	t := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(t)
}

// Next moves to the following word. It returns false at the last word.
func (s *Sequencer) Next() bool {
	return s.step(1)
}

// Previous moves to the preceding word. It returns false at the first word.
func (s *Sequencer) Previous() bool {
	return s.step(-1)
}

func (s *Sequencer) step(delta int) bool {
	s.mu.Lock()
	target := s.state.ActiveIndex + delta
	if s.closed || len(s.words) == 0 || target < 0 || target >= len(s.words) {
		s.mu.Unlock()
		return false
	}
	s.enterLocked(target)
	t := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(t)
	return true
}

// TogglePlayPause flips the playing flag while a clip is shown
func (s *Sequencer) TogglePlayPause() {
	s.mu.Lock()
	if s.closed || s.state.Phase != PhaseClip {
		s.mu.Unlock()
		return
	}
	s.state.Playing = !s.state.Playing
	t := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(t)
}

// State returns the current snapshot
func (s *Sequencer) State() PlaybackState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Current returns the active word
func (s *Sequencer) Current() (gloss.Word, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.words) == 0 {
		return gloss.Word{}, false
	}
	return s.words[s.state.ActiveIndex], true
}

// Words returns a copy of the loaded word list
func (s *Sequencer) Words() []gloss.Word {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]gloss.Word(nil), s.words...)
}

// CanPrevious reports whether Previous would move
func (s *Sequencer) CanPrevious() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.words) > 0 && s.state.ActiveIndex > 0
}

// CanNext reports whether Next would move
func (s *Sequencer) CanNext() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.ActiveIndex < len(s.words)-1
}

// Close cancels any pending timer. The sequencer ignores all calls afterwards.
func (s *Sequencer) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelTimerLocked()
	s.closed = true
}

// snapshotLocked captures the state with its word and a new version
func (s *Sequencer) snapshotLocked() transition {
	s.version++
	t := transition{state: s.state, version: s.version}
	if len(s.words) > 0 {
		t.word = s.words[s.state.ActiveIndex]
	}
	return t
}

func (s *Sequencer) notify(t transition) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	if t.version <= s.delivered {
		s.logger.Debugw("Dropping stale transition", "index", t.state.ActiveIndex, "version", t.version)
		return
	}
	s.delivered = t.version

	if s.onChange != nil {
		s.onChange(t.state)
	}
	if s.onTransition != nil {
		s.onTransition(t.state, t.word)
	}
}
