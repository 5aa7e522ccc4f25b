package gui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"go.uber.org/zap"

	"codeberg.org/snonux/signreel/internal/backend"
	"codeberg.org/snonux/signreel/internal/draft"
	"codeberg.org/snonux/signreel/internal/gloss"
	"codeberg.org/snonux/signreel/internal/player"
	"codeberg.org/snonux/signreel/internal/processor"
	"codeberg.org/snonux/signreel/internal/translation"
)

type fakeService struct {
	mu      sync.Mutex
	text    *processor.TextResult
	textErr error
	calls   []string
	// gate holds TextToISL until closed
	gate chan struct{}
}

func (s *fakeService) TextToISL(ctx context.Context, text, lang string) (*processor.TextResult, error) {
	s.mu.Lock()
	s.calls = append(s.calls, lang+": "+text)
	gate, result, err := s.gate, s.text, s.textErr
	s.mu.Unlock()

	if gate != nil {
		<-gate
	}
	return result, err
}

func (s *fakeService) VideoToText(ctx context.Context, path string, progress func(int)) (*processor.SignResult, error) {
	return nil, errors.New("not used")
}

func (s *fakeService) CheckConnection(ctx context.Context) error {
	return nil
}

func (s *fakeService) callList() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

type fakeMedia struct {
	loaded chan string
}

func (m *fakeMedia) Load(src string) error {
	m.loaded <- src
	return nil
}

func (m *fakeMedia) Play(ctx context.Context) error { return nil }
func (m *fakeMedia) Pause()                         {}
func (m *fakeMedia) Release()                       {}

func newTestApplication(t *testing.T, svc Service, media player.Media) *Application {
	t.Helper()
	fyneApp := test.NewApp()
	t.Cleanup(fyneApp.Quit)

	a := newApplication(fyneApp, &Config{
		Service:     svc,
		NoticeDelay: 10 * time.Millisecond,
		Media:       media,
		Draft:       draft.New(t.TempDir(), draft.WithDelay(time.Millisecond)),
		Logger:      zap.NewNop().Sugar(),
	})
	t.Cleanup(a.shutdown)
	return a
}

func TestSpeedFormatting(t *testing.T) {
	for _, rate := range player.PlaybackSpeeds {
		got, ok := parseSpeed(formatSpeed(rate))
		if !ok || got != rate {
			t.Errorf("speed %v did not survive formatting: %v %v", rate, got, ok)
		}
	}

	invalid := []string{"", "x", "fast", "0x", "-1x", "1.5"}
	for _, s := range invalid {
		if _, ok := parseSpeed(s); ok {
			t.Errorf("parseSpeed(%q) should fail", s)
		}
	}
}

func TestLanguageCode(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"English", translation.English},
		{"Kannada", translation.Kannada},
		{"", translation.English},
		{"Hindi", translation.English},
	}

	for _, tt := range tests {
		if got := languageCode(tt.label); got != tt.want {
			t.Errorf("languageCode(%q) = %q, want %q", tt.label, got, tt.want)
		}
	}
}

func TestTranslateErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"empty input", processor.ErrEmptyInput, "Please enter some text to translate"},
		{"no response", &backend.NoResponseError{Endpoint: "isl", Err: errors.New("refused")}, "No response from server. Is the server running?"},
		{"status", &backend.StatusError{Endpoint: "isl", StatusCode: 500}, "Server error: 500 Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := translateErrorMessage(tt.err); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClipPlayer_SetState(t *testing.T) {
	test.NewApp()
	p := NewClipPlayer()

	if !p.playButton.Disabled() || !p.prevButton.Disabled() || !p.nextButton.Disabled() {
		t.Error("controls should start disabled")
	}

	word := gloss.Word{Text: "want", Translatable: true}
	p.SetState(player.PlaybackState{ActiveIndex: 1, Playing: true, Phase: player.PhaseClip}, word, 3, true, true)

	if got := p.counter.Text; got != "Word 2 of 3" {
		t.Errorf("counter = %q", got)
	}
	if p.wordLabel.Text != "want" {
		t.Errorf("word label = %q", p.wordLabel.Text)
	}
	if p.playButton.Disabled() || p.prevButton.Disabled() || p.nextButton.Disabled() {
		t.Error("controls should be enabled in the middle of a clip")
	}
	if p.notice.Visible() {
		t.Error("notice should be hidden while a clip plays")
	}

	p.SetState(player.PlaybackState{ActiveIndex: 2, Playing: true, ShowNotice: true, Phase: player.PhaseNotice},
		gloss.Word{Text: "water"}, 3, true, false)
	if !p.notice.Visible() {
		t.Error("notice should be shown for an untranslatable word")
	}
	if !p.playButton.Disabled() {
		t.Error("play should be disabled during a notice")
	}
	if !p.nextButton.Disabled() {
		t.Error("next should be disabled at the last word")
	}

	p.SetState(player.PlaybackState{}, gloss.Word{}, 0, false, false)
	if p.counter.Text != "" || !p.replayButton.Disabled() {
		t.Error("an empty word list should clear the player")
	}
}

func TestClipPlayer_SetView(t *testing.T) {
	test.NewApp()
	p := NewClipPlayer()

	p.SetView(player.ClipView{Status: player.ClipError, Word: "want", Error: player.MsgAutoplayBlocked})
	if p.statusLabel.Text != player.MsgAutoplayBlocked {
		t.Errorf("status = %q", p.statusLabel.Text)
	}

	p.SetView(player.ClipView{
		Status:   player.ClipPlaying,
		Word:     "want",
		Elapsed:  1500 * time.Millisecond,
		Duration: 3 * time.Second,
		Progress: 0.5,
	})
	if p.progress.Value != 0.5 {
		t.Errorf("progress = %v", p.progress.Value)
	}
	if p.timeLabel.Text != "0:01 / 0:03" {
		t.Errorf("time = %q", p.timeLabel.Text)
	}
}

func TestClipPlayer_Callbacks(t *testing.T) {
	test.NewApp()
	p := NewClipPlayer()

	var got []string
	p.OnNext = func() { got = append(got, "next") }
	p.OnRate = func(rate float64) { got = append(got, formatSpeed(rate)) }

	p.SetState(player.PlaybackState{Phase: player.PhaseClip, Playing: true}, gloss.Word{Text: "i"}, 2, false, true)
	test.Tap(p.nextButton)
	p.speedSelect.SetSelected("1.5x")

	if strings.Join(got, ",") != "next,1.5x" {
		t.Errorf("callbacks = %v", got)
	}
}

func TestInputEntry_Shortcuts(t *testing.T) {
	test.NewApp()
	e := NewInputEntry()

	submitted, escaped := 0, 0
	e.SetOnSubmit(func() { submitted++ })
	e.SetOnEscape(func() { escaped++ })

	e.TypedShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyReturn, Modifier: fyne.KeyModifierShortcutDefault})
	e.TypedKey(&fyne.KeyEvent{Name: fyne.KeyEscape})

	if submitted != 1 || escaped != 1 {
		t.Errorf("submitted=%d escaped=%d", submitted, escaped)
	}
}

func TestLogViewer(t *testing.T) {
	test.NewApp()
	v := NewLogViewer()
	v.maxMessages = 2

	logger := v.Attach(zap.NewNop().Sugar())
	logger.Debugw("hidden")
	logger.Infow("first")
	logger.Warnw("second", "word", "want")
	logger.Errorw("third")

	msgs := v.Messages()
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %v", msgs)
	}
	if !strings.Contains(msgs[0], "third") || !strings.Contains(msgs[1], "second") {
		t.Errorf("messages not newest first: %v", msgs)
	}
	if !strings.Contains(msgs[1], "want") {
		t.Errorf("fields missing: %q", msgs[1])
	}
}

func TestApplication_Translate(t *testing.T) {
	svc := &fakeService{
		text: &processor.TextResult{
			Sentence: "I want water",
			Gloss:    "I WANT WATER",
			Words: []gloss.Word{
				{Text: "i", Translatable: true, VideoSrc: "/tmp/i.mp4"},
				{Text: "want", Translatable: true, VideoSrc: "/tmp/want.mp4"},
			},
		},
	}
	media := &fakeMedia{loaded: make(chan string, 8)}
	a := newTestApplication(t, svc, media)

	a.languageGroup.SetSelected("Kannada")
	a.textInput.SetText("ನನಗೆ ನೀರು ಬೇಕು")
	a.onTranslate()

	select {
	case src := <-media.loaded:
		if src != "/tmp/i.mp4" {
			t.Errorf("first clip = %q", src)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("first clip was never loaded")
	}

	calls := svc.callList()
	if len(calls) != 1 || calls[0] != "kn: ನನಗೆ ನೀರು ಬೇಕು" {
		t.Errorf("calls = %v", calls)
	}

	a.onNext()
	select {
	case src := <-media.loaded:
		if src != "/tmp/want.mp4" {
			t.Errorf("second clip = %q", src)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("next did not load the second clip")
	}
}

func TestApplication_TranslateEmpty(t *testing.T) {
	svc := &fakeService{}
	a := newTestApplication(t, svc, &fakeMedia{loaded: make(chan string, 1)})

	a.textInput.SetText("   ")
	a.onTranslate()

	if len(svc.callList()) != 0 {
		t.Error("blank input must not reach the service")
	}
	if a.statusLabel.Text != "Please enter some text to translate" {
		t.Errorf("status = %q", a.statusLabel.Text)
	}
}

func TestApplication_TranslateWhileBusy(t *testing.T) {
	svc := &fakeService{
		text: &processor.TextResult{Sentence: "Hello", Gloss: "HELLO"},
		gate: make(chan struct{}),
	}
	a := newTestApplication(t, svc, &fakeMedia{loaded: make(chan string, 1)})

	a.textInput.SetText("hello")
	a.onTranslate()
	// Ctrl+Enter reaches onTranslate even while the button is disabled
	a.textInput.TypedShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyReturn, Modifier: fyne.KeyModifierShortcutDefault})

	close(svc.gate)
	waitIdle(t, a)
	if calls := svc.callList(); len(calls) != 1 {
		t.Fatalf("expected one request while busy, got %v", calls)
	}

	a.onTranslate()
	waitIdle(t, a)
	if calls := svc.callList(); len(calls) != 2 {
		t.Errorf("expected a new request once idle, got %v", calls)
	}
}

func (a *Application) isTranslating() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.translating
}

func waitIdle(t *testing.T, a *Application) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for a.isTranslating() {
		if time.Now().After(deadline) {
			t.Fatal("translation never finished")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestApplication_DraftRestored(t *testing.T) {
	dir := t.TempDir()
	store := draft.New(dir)
	store.Set("hello there")
	store.Close()

	fyneApp := test.NewApp()
	defer fyneApp.Quit()
	a := newApplication(fyneApp, &Config{
		Service: &fakeService{},
		Media:   &fakeMedia{loaded: make(chan string, 1)},
		Draft:   draft.New(dir),
	})
	defer a.shutdown()

	if a.textInput.Text != "hello there" {
		t.Errorf("draft not restored: %q", a.textInput.Text)
	}
}
