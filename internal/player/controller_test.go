package player

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"codeberg.org/snonux/signreel/internal/gloss"
)

func nextPlayed(t *testing.T, media *fakeMedia) string {
	t.Helper()
	select {
	case src := <-media.played:
		return src
	case <-time.After(time.Second):
		t.Fatal("expected a clip to be played")
		return ""
	}
}

func TestController_PlaysSentenceBackToBack(t *testing.T) {
	media := newFakeMedia()
	timers := &fakeTimers{}
	var last PlaybackState
	ctrl := NewController(media, ControllerConfig{
		Sequencer: []SequencerOption{WithAfterFunc(timers.after)},
		OnState:   func(s PlaybackState, _ gloss.Word) { last = s },
	})
	defer ctrl.Close()

	ctrl.Load(gloss.DefaultVocabulary().Segment("I want water"))

	want := []string{"/sign-videos/i.mp4", "/sign-videos/want.mp4", "/sign-videos/water.mp4"}
	for i, src := range want {
		if got := nextPlayed(t, media); got != src {
			t.Fatalf("clip %d: got %q, want %q", i, got, src)
		}
		ctrl.Clip().HandleEnded()
	}

	if last.ActiveIndex != 2 || !last.Finished {
		t.Errorf("expected to finish at index 2, got %+v", last)
	}
	select {
	case src := <-media.played:
		t.Errorf("unexpected extra play of %q", src)
	default:
	}
}

func TestController_NoticeBetweenClips(t *testing.T) {
	media := newFakeMedia()
	timers := &fakeTimers{}
	var words []string
	ctrl := NewController(media, ControllerConfig{
		Sequencer: []SequencerOption{WithAfterFunc(timers.after)},
		OnState:   func(_ PlaybackState, w gloss.Word) { words = append(words, w.Text) },
	})
	defer ctrl.Close()

	ctrl.Load(gloss.DefaultVocabulary().Segment("want pizza water"))
	nextPlayed(t, media)
	ctrl.Clip().HandleEnded()

	if view := ctrl.Clip().View(); view.Status != ClipEmpty {
		t.Errorf("notice must clear the clip, got %+v", view)
	}
	timers.fire()

	if got := nextPlayed(t, media); got != "/sign-videos/water.mp4" {
		t.Errorf("expected water after the notice, got %q", got)
	}
	if len(words) != 3 || words[1] != "pizza" {
		t.Errorf("unexpected state sequence: %v", words)
	}
}

func TestController_PauseAndNavigate(t *testing.T) {
	media := newFakeMedia()
	ctrl := NewController(media, ControllerConfig{})
	defer ctrl.Close()

	ctrl.Load(gloss.DefaultVocabulary().Segment("hello bye"))
	nextPlayed(t, media)

	ctrl.Sequencer().TogglePlayPause()
	if _, pauses, _ := media.counts(); pauses != 1 {
		t.Errorf("expected the media to pause, got %d", pauses)
	}

	ctrl.Sequencer().Next()
	if got := nextPlayed(t, media); got != "/sign-videos/bye.mp4" {
		t.Errorf("expected bye, got %q", got)
	}

	ctrl.Sequencer().Previous()
	if got := nextPlayed(t, media); got != "/sign-videos/hello.mp4" {
		t.Errorf("expected hello, got %q", got)
	}
}

func TestController_ReloadSameSentenceReplays(t *testing.T) {
	media := newFakeMedia()
	ctrl := NewController(media, ControllerConfig{})
	defer ctrl.Close()

	words := gloss.DefaultVocabulary().Segment("water")
	ctrl.Load(words)
	nextPlayed(t, media)
	ctrl.Clip().HandleEnded()

	ctrl.Load(words)
	if got := nextPlayed(t, media); got != "/sign-videos/water.mp4" {
		t.Errorf("expected replay, got %q", got)
	}
}

func TestPlayAll(t *testing.T) {
	media := newFakeMedia()
	media.autoEnd = true

	var states []PlaybackState
	var mu sync.Mutex
	err := PlayAll(context.Background(), media, gloss.DefaultVocabulary().Segment("I want water"), ControllerConfig{
		OnState: func(s PlaybackState, _ gloss.Word) {
			mu.Lock()
			states = append(states, s)
			mu.Unlock()
		},
	})
	if err != nil {
		t.Fatalf("PlayAll failed: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	last := states[len(states)-1]
	if last.ActiveIndex != 2 || !last.Finished {
		t.Errorf("expected to finish at index 2, got %+v", last)
	}
	if plays, _, _ := media.counts(); plays != 3 {
		t.Errorf("expected 3 plays, got %d", plays)
	}
}

func TestPlayAll_ClipError(t *testing.T) {
	media := newFakeMedia()
	media.loadErr = errors.New("missing file")

	err := PlayAll(context.Background(), media, gloss.DefaultVocabulary().Segment("water"), ControllerConfig{})
	if err == nil || err.Error() != MsgLoadFailed {
		t.Errorf("expected %q, got %v", MsgLoadFailed, err)
	}
}

func TestPlayAll_Cancelled(t *testing.T) {
	media := newFakeMedia()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := PlayAll(ctx, media, gloss.DefaultVocabulary().Segment("hello bye"), ControllerConfig{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestPlayAll_Empty(t *testing.T) {
	if err := PlayAll(context.Background(), newFakeMedia(), nil, ControllerConfig{}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// gatedMedia holds Load of one source open until released
type gatedMedia struct {
	*fakeMedia
	src     string
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (m *gatedMedia) Load(src string) error {
	if src == m.src {
		m.once.Do(func() { close(m.entered) })
		<-m.release
	}
	return m.fakeMedia.Load(src)
}

func TestController_TransitionsRenderInOrder(t *testing.T) {
	media := &gatedMedia{
		fakeMedia: newFakeMedia(),
		src:       "/sign-videos/water.mp4",
		entered:   make(chan struct{}),
		release:   make(chan struct{}),
	}
	timers := &fakeTimers{}

	var mu sync.Mutex
	var lastState PlaybackState
	var lastWord gloss.Word
	ctrl := NewController(media, ControllerConfig{
		Sequencer: []SequencerOption{WithAfterFunc(timers.after)},
		OnState: func(s PlaybackState, w gloss.Word) {
			mu.Lock()
			defer mu.Unlock()
			lastState, lastWord = s, w
		},
	})
	defer ctrl.Close()

	ctrl.Load(gloss.DefaultVocabulary().Segment("want pizza water help"))
	nextPlayed(t, media.fakeMedia)
	ctrl.Clip().HandleEnded()

	// The notice timer advances to water and blocks while loading it.
	fired := make(chan struct{})
	go func() {
		defer close(fired)
		timers.fire()
	}()
	select {
	case <-media.entered:
	case <-time.After(time.Second):
		t.Fatal("expected the water clip to start loading")
	}

	// The user skips ahead while water is still loading.
	skipped := make(chan struct{})
	go func() {
		defer close(skipped)
		ctrl.Sequencer().Next()
	}()
	deadline := time.Now().Add(time.Second)
	for ctrl.Sequencer().State().ActiveIndex != 3 {
		if time.Now().After(deadline) {
			t.Fatal("expected the sequencer to move to help")
		}
		time.Sleep(time.Millisecond)
	}

	close(media.release)
	<-fired
	<-skipped

	mu.Lock()
	defer mu.Unlock()
	if lastState.ActiveIndex != 3 || lastWord.Text != "help" {
		t.Errorf("last rendered transition: got index %d word %q, want 3 \"help\"", lastState.ActiveIndex, lastWord.Text)
	}

	media.mu.Lock()
	defer media.mu.Unlock()
	if media.current != "/sign-videos/help.mp4" {
		t.Errorf("media left on %q, want help", media.current)
	}
}
