package player

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"codeberg.org/snonux/signreel/internal/gloss"
)

// eventSink is implemented by media that report events back to the clip
type eventSink interface {
	SetEvents(events MediaEvents)
}

// Controller keeps a Clip in step with a Sequencer: the active translatable
// word is shown in the clip and a finished clip advances the sequencer.
type Controller struct {
	seq     *Sequencer
	clip    *Clip
	onState func(PlaybackState, gloss.Word)

	mu    sync.Mutex
	loads int
	bound bindKey
}

type bindKey struct {
	load  int
	index int
}

var unbound = bindKey{index: -1}

// ControllerConfig configures a Controller
type ControllerConfig struct {
	Sequencer []SequencerOption
	Clip      []ClipOption
	// OnState is called after every transition with the active word
	OnState func(PlaybackState, gloss.Word)
	Logger  *zap.SugaredLogger
}

// NewController wires a sequencer and a clip around media
func NewController(media Media, cfg ControllerConfig) *Controller {
	c := &Controller{
		onState: cfg.OnState,
		bound:   unbound,
	}

	seqOpts := append([]SequencerOption{
		WithSequencerLogger(cfg.Logger),
	}, cfg.Sequencer...)
	seqOpts = append(seqOpts, withOnTransition(c.sync))
	c.seq = NewSequencer(seqOpts...)

	clipOpts := append([]ClipOption{
		WithClipLogger(cfg.Logger),
	}, cfg.Clip...)
	clipOpts = append(clipOpts, WithOnComplete(c.seq.ClipEnded))
	c.clip = NewClip(media, clipOpts...)

	if sink, ok := media.(eventSink); ok {
		sink.SetEvents(c.clip)
	}
	return c
}

// Load starts playing words from the beginning
func (c *Controller) Load(words []gloss.Word) {
	c.mu.Lock()
	c.loads++
	c.mu.Unlock()

	c.seq.Load(words)
}

// Sequencer returns the underlying sequencer for navigation
func (c *Controller) Sequencer() *Sequencer {
	return c.seq
}

// Clip returns the underlying clip renderer
func (c *Controller) Clip() *Clip {
	return c.clip
}

// Close stops the timer and releases the clip
func (c *Controller) Close() {
	c.seq.Close()
	c.clip.Close()
}

// sync renders one transition. The sequencer delivers transitions one at a
// time and in order, with the word captured alongside the state.
func (c *Controller) sync(state PlaybackState, word gloss.Word) {
	c.mu.Lock()
	key := bindKey{load: c.loads, index: state.ActiveIndex}
	wasBound := c.bound != unbound
	rebind := false
	if state.Phase == PhaseClip {
		rebind = c.bound != key
		c.bound = key
	} else {
		c.bound = unbound
	}
	c.mu.Unlock()

	switch {
	case state.Phase == PhaseClip && rebind:
		c.clip.Show(word, state.Playing)
	case state.Phase == PhaseClip:
		c.clip.SetActive(state.Playing)
	case wasBound:
		c.clip.Show(gloss.Word{}, false)
	}

	if c.onState != nil {
		c.onState(state, word)
	}
}

// PlayAll plays words from the beginning and blocks until the last word
// finished, a clip failed or ctx is done. It replaces any OnUpdate clip option.
func PlayAll(ctx context.Context, media Media, words []gloss.Word, cfg ControllerConfig) error {
	if len(words) == 0 {
		return nil
	}

	done := make(chan error, 1)
	finish := func(err error) {
		select {
		case done <- err:
		default:
		}
	}

	onState := cfg.OnState
	cfg.OnState = func(state PlaybackState, w gloss.Word) {
		if onState != nil {
			onState(state, w)
		}
		if state.Finished {
			finish(nil)
		}
	}
	cfg.Clip = append(append([]ClipOption(nil), cfg.Clip...), WithContext(ctx), WithOnUpdate(func(view ClipView) {
		if view.Status == ClipError {
			finish(errors.New(view.Error))
		}
	}))

	ctrl := NewController(media, cfg)
	defer ctrl.Close()
	ctrl.Load(words)

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
