package player

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"codeberg.org/snonux/signreel/internal/gloss"
	"codeberg.org/snonux/signreel/internal/logging"
)

// ErrAutoplayBlocked is returned by Media.Play when playback needs a user gesture
var ErrAutoplayBlocked = errors.New("autoplay not allowed")

// User-facing clip errors
const (
	MsgAutoplayBlocked = "Autoplay restricted. Click play to start the video."
	MsgPlayFailed      = "Could not play video. Try clicking the play button."
	MsgLoadFailed      = "Failed to load video"
)

// Media is a playable element for one clip. Implementations report progress
// back through the Clip.Handle* methods. Playback is always muted and never loops.
type Media interface {
	Load(src string) error
	Play(ctx context.Context) error
	Pause()
	Release()
}

// RateSetter is implemented by media that support a playback speed
type RateSetter interface {
	SetRate(rate float64)
}

// PlaybackSpeeds are the selectable speed multipliers
var PlaybackSpeeds = []float64{0.5, 0.75, 1, 1.25, 1.5, 2}

// ClipStatus is the visual state of a clip
type ClipStatus int

const (
	ClipEmpty ClipStatus = iota
	ClipLoading
	ClipError
	ClipPlaying
)

func (s ClipStatus) String() string {
	switch s {
	case ClipEmpty:
		return "Empty"
	case ClipLoading:
		return "Loading"
	case ClipError:
		return "Error"
	case ClipPlaying:
		return "Playing"
	default:
		return "Unknown"
	}
}

// ClipView is what a clip renders
type ClipView struct {
	Status   ClipStatus
	Word     string
	Error    string
	Elapsed  time.Duration
	Duration time.Duration
	// Progress is Elapsed/Duration, 0 while the duration is unknown
	Progress float64
}

// Clip binds the active word to a media element
type Clip struct {
	media      Media
	ctx        context.Context
	onComplete func()
	onUpdate   func(ClipView)
	logger     *zap.SugaredLogger

	mu        sync.Mutex
	word      *gloss.Word
	active    bool
	attempted bool
	loading   bool
	completed bool
	errMsg    string
	elapsed   time.Duration
	duration  time.Duration
	rate      float64
}

// ClipOption configures a Clip
type ClipOption func(*Clip)

// WithOnComplete sets the callback fired when a play-through ends
func WithOnComplete(fn func()) ClipOption {
	return func(c *Clip) {
		c.onComplete = fn
	}
}

// WithOnUpdate sets the callback fired whenever the view changes
func WithOnUpdate(fn func(ClipView)) ClipOption {
	return func(c *Clip) {
		c.onUpdate = fn
	}
}

// WithClipLogger sets the logger
func WithClipLogger(logger *zap.SugaredLogger) ClipOption {
	return func(c *Clip) {
		c.logger = logging.OrNop(logger)
	}
}

// WithContext sets the context passed to Media.Play
func WithContext(ctx context.Context) ClipOption {
	return func(c *Clip) {
		c.ctx = ctx
	}
}

// NewClip creates a clip renderer for media
func NewClip(media Media, opts ...ClipOption) *Clip {
	c := &Clip{
		media:  media,
		ctx:    context.Background(),
		logger: zap.NewNop().Sugar(),
		rate:   1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetWord adopts a new word. The previous source is released and the
// autoplay guard is reset. Words without a source clear the clip.
func (c *Clip) SetWord(w gloss.Word) {
	c.mu.Lock()
	hadWord := c.word != nil
	c.word = nil
	c.attempted = false
	c.completed = false
	c.errMsg = ""
	c.elapsed, c.duration = 0, 0
	c.loading = false

	if !w.Translatable || w.VideoSrc == "" {
		view := c.viewLocked()
		c.mu.Unlock()
		if hadWord {
			c.media.Release()
		}
		c.update(view)
		return
	}

	word := w
	c.word = &word
	c.loading = true
	rate := c.rate
	c.mu.Unlock()

	if hadWord {
		c.media.Release()
	}

	// Load runs unlocked so media may report events synchronously
	c.logger.Debugw("Loading video", "word", w.Text, "src", w.VideoSrc)
	err := c.media.Load(w.VideoSrc)

	c.mu.Lock()
	if err != nil {
		c.logger.Errorw("Video error", "word", w.Text, "error", err)
		c.loading = false
		c.errMsg = MsgLoadFailed
	}
	active := c.active
	view := c.viewLocked()
	c.mu.Unlock()

	if err == nil {
		if rs, ok := c.media.(RateSetter); ok {
			rs.SetRate(rate)
		}
	}
	c.update(view)
	if active && err == nil {
		c.activate()
	}
}

// Show adopts w with the given active flag, playing it right away when active
func (c *Clip) Show(w gloss.Word, active bool) {
	c.mu.Lock()
	c.active = active
	c.mu.Unlock()

	c.SetWord(w)
}

// SetActive starts or pauses playback. Repeating the current flag does nothing.
func (c *Clip) SetActive(active bool) {
	c.mu.Lock()
	if c.active == active {
		c.mu.Unlock()
		return
	}
	c.active = active
	hasWord := c.word != nil
	c.mu.Unlock()

	if !hasWord {
		return
	}
	if active {
		c.activate()
	} else {
		c.media.Pause()
	}
}

// activate plays the clip. The first attempt per word reports errors to the
// user; later attempts only log them.
func (c *Clip) activate() {
	c.mu.Lock()
	if c.word == nil || !c.active {
		c.mu.Unlock()
		return
	}
	first := !c.attempted
	c.attempted = true
	c.completed = false
	text := c.word.Text
	c.mu.Unlock()

	err := c.media.Play(c.ctx)
	if err == nil {
		return
	}

	if !first {
		c.logger.Warnw("Retry play error", "word", text, "error", err)
		return
	}

	c.logger.Errorw("Error playing video", "word", text, "error", err)
	c.mu.Lock()
	if errors.Is(err, ErrAutoplayBlocked) {
		c.errMsg = MsgAutoplayBlocked
	} else {
		c.errMsg = MsgPlayFailed
	}
	view := c.viewLocked()
	c.mu.Unlock()
	c.update(view)
}

// SetRate changes the playback speed when the media supports it
func (c *Clip) SetRate(rate float64) {
	c.mu.Lock()
	c.rate = rate
	c.mu.Unlock()

	if rs, ok := c.media.(RateSetter); ok {
		rs.SetRate(rate)
	}
}

// HandleLoadStart is called when the media starts loading its source
func (c *Clip) HandleLoadStart() {
	c.mu.Lock()
	c.loading = true
	c.errMsg = ""
	view := c.viewLocked()
	c.mu.Unlock()
	c.update(view)
}

// HandleLoaded is called once the first frame is available
func (c *Clip) HandleLoaded() {
	c.mu.Lock()
	c.loading = false
	view := c.viewLocked()
	retry := c.active && c.attempted
	c.mu.Unlock()

	c.update(view)
	if retry {
		c.activate()
	}
}

// HandleTimeUpdate reports the playback position
func (c *Clip) HandleTimeUpdate(elapsed time.Duration) {
	c.mu.Lock()
	c.elapsed = elapsed
	view := c.viewLocked()
	c.mu.Unlock()
	c.update(view)
}

// HandleDurationChange reports the clip length
func (c *Clip) HandleDurationChange(duration time.Duration) {
	c.mu.Lock()
	c.duration = duration
	view := c.viewLocked()
	c.mu.Unlock()
	c.update(view)
}

// HandleEnded is called when playback reaches the end of the clip
func (c *Clip) HandleEnded() {
	c.mu.Lock()
	if c.word == nil || c.completed {
		c.mu.Unlock()
		return
	}
	c.completed = true
	c.elapsed = c.duration
	view := c.viewLocked()
	c.mu.Unlock()

	c.update(view)
	if c.onComplete != nil {
		c.onComplete()
	}
}

// HandleError is called when the media cannot load or decode its source
func (c *Clip) HandleError(err error) {
	c.logger.Errorw("Video error", "error", err)

	c.mu.Lock()
	c.loading = false
	c.errMsg = MsgLoadFailed
	view := c.viewLocked()
	c.mu.Unlock()
	c.update(view)
}

// View returns the current visual state
func (c *Clip) View() ClipView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

func (c *Clip) viewLocked() ClipView {
	if c.word == nil {
		return ClipView{Status: ClipEmpty}
	}

	view := ClipView{
		Word:     c.word.Text,
		Elapsed:  c.elapsed,
		Duration: c.duration,
	}
	if c.duration > 0 {
		view.Progress = float64(c.elapsed) / float64(c.duration)
		if view.Progress > 1 {
			view.Progress = 1
		}
	}

	switch {
	case c.errMsg != "":
		view.Status = ClipError
		view.Error = c.errMsg
	case c.loading:
		view.Status = ClipLoading
	default:
		view.Status = ClipPlaying
	}
	return view
}

// Close pauses and releases the media source
func (c *Clip) Close() {
	c.mu.Lock()
	hadWord := c.word != nil
	c.word = nil
	c.active = false
	c.mu.Unlock()

	if hadWord {
		c.media.Pause()
		c.media.Release()
	}
}

func (c *Clip) update(view ClipView) {
	if c.onUpdate != nil {
		c.onUpdate(view)
	}
}

// FormatTime renders a position as m:ss
func FormatTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
