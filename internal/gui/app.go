package gui

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	fynetooltip "github.com/dweymouth/fyne-tooltip"
	"go.uber.org/zap"

	"codeberg.org/snonux/signreel/internal"
	"codeberg.org/snonux/signreel/internal/draft"
	"codeberg.org/snonux/signreel/internal/gloss"
	"codeberg.org/snonux/signreel/internal/logging"
	"codeberg.org/snonux/signreel/internal/player"
	"codeberg.org/snonux/signreel/internal/processor"
	"codeberg.org/snonux/signreel/internal/translation"
)

// Service is the translation work the GUI drives
type Service interface {
	TextToISL(ctx context.Context, text, lang string) (*processor.TextResult, error)
	VideoToText(ctx context.Context, path string, progress func(percent int)) (*processor.SignResult, error)
	CheckConnection(ctx context.Context) error
}

// Application represents the main GUI application
type Application struct {
	// Fyne components
	app    fyne.App
	window fyne.Window
	tabs   *container.AppTabs

	// Text → ISL tab
	languageGroup *widget.RadioGroup
	textInput     *InputEntry
	translateBtn  *widget.Button
	sentenceLabel *widget.Label
	glossLabel    *widget.Label
	clipPlayer    *ClipPlayer

	// ISL → Text tab
	videoTab *VideoTab

	statusLabel *widget.Label
	logViewer   *LogViewer

	// State management
	language    string
	translating bool

	config     *Config
	controller *player.Controller
	draft      *draft.Store
	logger     *zap.SugaredLogger

	// Background processing
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// Config holds GUI application configuration
type Config struct {
	Service       Service
	Language      string
	NoticeDelay   time.Duration
	PlayerCommand string
	// Media overrides the external player, mainly for tests
	Media  player.Media
	Draft  *draft.Store
	Logger *zap.SugaredLogger
}

// New creates a new GUI application
func New(config *Config) *Application {
	return newApplication(app.NewWithID("org.codeberg.snonux.signreel"), config)
}

func newApplication(fyneApp fyne.App, config *Config) *Application {
	if config.Language == "" {
		config.Language = translation.English
	}
	if config.NoticeDelay <= 0 {
		config.NoticeDelay = player.DefaultNoticeDelay
	}

	ctx, cancel := context.WithCancel(context.Background())
	a := &Application{
		app:       fyneApp,
		config:    config,
		language:  config.Language,
		logViewer: NewLogViewer(),
		ctx:       ctx,
		cancel:    cancel,
	}
	a.logger = a.logViewer.Attach(logging.OrNop(config.Logger))

	a.draft = config.Draft
	if a.draft == nil {
		a.draft = draft.New(draft.DefaultDir(), draft.WithLogger(a.logger))
	}

	media := config.Media
	if media == nil {
		media = player.NewProcessMedia(config.PlayerCommand, a.logger)
	}

	a.setupUI()

	a.controller = player.NewController(media, player.ControllerConfig{
		Sequencer: []player.SequencerOption{player.WithNoticeDelay(config.NoticeDelay)},
		Clip: []player.ClipOption{
			player.WithContext(ctx),
			player.WithOnUpdate(func(view player.ClipView) {
				fyne.Do(func() { a.clipPlayer.SetView(view) })
			}),
		},
		OnState: a.onPlaybackState,
		Logger:  a.logger,
	})

	return a
}

// setupUI creates the main user interface
func (a *Application) setupUI() {
	a.window = a.app.NewWindow(fmt.Sprintf("SignReel v%s - Indian Sign Language Translator", internal.Version))
	a.window.SetIcon(theme.MediaVideoIcon())
	a.window.Resize(fyne.NewSize(900, 720))

	a.statusLabel = widget.NewLabel("Ready")
	a.videoTab = newVideoTab(a)

	a.tabs = container.NewAppTabs(
		container.NewTabItemWithIcon("Text → ISL", theme.DocumentIcon(), a.createTextTab()),
		container.NewTabItemWithIcon("ISL → Text", theme.MediaVideoIcon(), a.videoTab.content),
		container.NewTabItemWithIcon("Log", theme.ListIcon(), a.logViewer),
	)

	content := container.NewBorder(
		nil,
		container.NewVBox(widget.NewSeparator(), a.statusLabel),
		nil, nil,
		a.tabs,
	)

	// Add the tooltip layer to enable tooltips
	a.window.SetContent(fynetooltip.AddWindowToolTipLayer(content, a.window.Canvas()))
	a.setupTooltips()

	a.window.SetOnClosed(a.shutdown)
	a.setupKeyboardShortcuts()
}

// Run starts the GUI application
func (a *Application) Run() {
	a.window.ShowAndRun()
}

// shutdown stops playback and background work when the window goes away
func (a *Application) shutdown() {
	a.cancel()
	a.controller.Close()
	a.wg.Wait()
	a.draft.Close()
}

// goBackground runs fn off the UI thread and tracks it for shutdown
func (a *Application) goBackground(fn func()) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		fn()
	}()
}

// onPlaybackState renders a sequencer transition
func (a *Application) onPlaybackState(state player.PlaybackState, w gloss.Word) {
	seq := a.controller.Sequencer()
	total := len(seq.Words())
	canPrev, canNext := seq.CanPrevious(), seq.CanNext()

	fyne.Do(func() {
		a.clipPlayer.SetState(state, w, total, canPrev, canNext)
	})
}

// setupTooltips sets up all tooltips after the tooltip layer has been created
func (a *Application) setupTooltips() {
	a.clipPlayer.SetToolTips()
	a.videoTab.setToolTips()
}

func (a *Application) updateStatus(message string) {
	a.statusLabel.SetText(message)
}

func (a *Application) showError(message string) {
	dialog.ShowError(fmt.Errorf("%s", message), a.window)
	a.updateStatus(message)
}

// setupKeyboardShortcuts sets up the player hotkeys. The canvas only sees
// keys that no focused widget consumed.
func (a *Application) setupKeyboardShortcuts() {
	a.window.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if a.tabs.SelectedIndex() != 0 {
			return
		}

		switch ev.Name {
		case fyne.KeyLeft:
			a.onPrevious()
		case fyne.KeyRight:
			a.onNext()
		case fyne.KeySpace:
			a.onTogglePlay()
		case fyne.KeyR:
			a.onReplay()
		case fyne.KeyT:
			a.window.Canvas().Focus(a.textInput)
		}
	})
}
