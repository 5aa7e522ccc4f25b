package gui

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"codeberg.org/snonux/signreel/internal/gloss"
	"codeberg.org/snonux/signreel/internal/player"
)

// noticeText is shown while an untranslatable word is skipped
const noticeText = "Translation not available, skipping..."

// ClipPlayer renders the sign player: the active word, the clip state and
// the navigation controls. It only displays state; the callbacks drive the
// sequencer.
type ClipPlayer struct {
	widget.BaseWidget

	container   *fyne.Container
	wordLabel   *widget.Label
	counter     *widget.Label
	notice      *widget.Label
	statusLabel *widget.Label
	timeLabel   *widget.Label
	progress    *widget.ProgressBar

	prevButton   *ttwidget.Button
	playButton   *ttwidget.Button
	nextButton   *ttwidget.Button
	replayButton *ttwidget.Button
	speedSelect  *widget.Select

	OnPrevious func()
	OnToggle   func()
	OnNext     func()
	OnReplay   func()
	OnRate     func(rate float64)
}

// NewClipPlayer creates a new clip player widget
func NewClipPlayer() *ClipPlayer {
	p := &ClipPlayer{}

	p.wordLabel = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	p.counter = widget.NewLabel("")
	p.notice = widget.NewLabelWithStyle(noticeText, fyne.TextAlignCenter, fyne.TextStyle{Italic: true})
	p.notice.Importance = widget.WarningImportance
	p.notice.Hide()
	p.statusLabel = widget.NewLabel("No clip loaded")
	p.statusLabel.Wrapping = fyne.TextWrapWord
	p.timeLabel = widget.NewLabel(fmt.Sprintf("%s / %s", player.FormatTime(0), player.FormatTime(0)))
	p.progress = widget.NewProgressBar()
	p.progress.TextFormatter = func() string { return "" }

	// Create controls with tooltips
	p.prevButton = ttwidget.NewButtonWithIcon("", theme.MediaSkipPreviousIcon(), func() { call(p.OnPrevious) })
	p.playButton = ttwidget.NewButtonWithIcon("", theme.MediaPauseIcon(), func() { call(p.OnToggle) })
	p.nextButton = ttwidget.NewButtonWithIcon("", theme.MediaSkipNextIcon(), func() { call(p.OnNext) })
	p.replayButton = ttwidget.NewButtonWithIcon("", theme.MediaReplayIcon(), func() { call(p.OnReplay) })

	speeds := make([]string, len(player.PlaybackSpeeds))
	for i, s := range player.PlaybackSpeeds {
		speeds[i] = formatSpeed(s)
	}
	p.speedSelect = widget.NewSelect(speeds, func(selected string) {
		if rate, ok := parseSpeed(selected); ok && p.OnRate != nil {
			p.OnRate(rate)
		}
	})
	p.speedSelect.SetSelected(formatSpeed(1))

	controls := container.NewHBox(
		p.prevButton,
		p.playButton,
		p.nextButton,
		p.replayButton,
		widget.NewSeparator(),
		widget.NewLabel("Speed:"),
		p.speedSelect,
		layout.NewSpacer(),
		p.counter,
	)

	p.container = container.NewVBox(
		p.wordLabel,
		p.notice,
		p.statusLabel,
		container.NewBorder(nil, nil, nil, p.timeLabel, p.progress),
		controls,
	)

	p.Clear()
	p.ExtendBaseWidget(p)
	return p
}

// CreateRenderer implements fyne.Widget
func (p *ClipPlayer) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(p.container)
}

// SetToolTips sets the control tooltips. Call after the tooltip layer exists.
func (p *ClipPlayer) SetToolTips() {
	p.prevButton.SetToolTip("Previous word (←)")
	p.playButton.SetToolTip("Play/pause (space)")
	p.nextButton.SetToolTip("Next word (→)")
	p.replayButton.SetToolTip("Replay from the first word (r)")
}

// SetState renders a sequencer snapshot
func (p *ClipPlayer) SetState(state player.PlaybackState, w gloss.Word, total int, canPrev, canNext bool) {
	if total == 0 {
		p.Clear()
		return
	}

	p.counter.SetText(fmt.Sprintf("Word %d of %d", state.ActiveIndex+1, total))
	p.wordLabel.SetText(w.Text)
	if state.ShowNotice {
		p.notice.Show()
	} else {
		p.notice.Hide()
	}
	if state.Finished {
		p.statusLabel.SetText("Finished")
	}

	if state.Playing {
		p.playButton.SetIcon(theme.MediaPauseIcon())
	} else {
		p.playButton.SetIcon(theme.MediaPlayIcon())
	}
	setEnabled(p.playButton, state.Phase == player.PhaseClip)
	setEnabled(p.prevButton, canPrev)
	setEnabled(p.nextButton, canNext)
	p.replayButton.Enable()
}

// SetView renders the clip state
func (p *ClipPlayer) SetView(view player.ClipView) {
	switch view.Status {
	case player.ClipEmpty:
		p.statusLabel.SetText("")
	case player.ClipLoading:
		p.statusLabel.SetText("Loading...")
	case player.ClipError:
		p.statusLabel.SetText(view.Error)
	case player.ClipPlaying:
		p.statusLabel.SetText(fmt.Sprintf("Playing: %s", view.Word))
	}
	p.progress.SetValue(view.Progress)
	p.timeLabel.SetText(fmt.Sprintf("%s / %s", player.FormatTime(view.Elapsed), player.FormatTime(view.Duration)))
}

// Clear resets the player to its empty state
func (p *ClipPlayer) Clear() {
	p.wordLabel.SetText("")
	p.counter.SetText("")
	p.notice.Hide()
	p.statusLabel.SetText("No clip loaded")
	p.progress.SetValue(0)
	p.timeLabel.SetText(fmt.Sprintf("%s / %s", player.FormatTime(0), player.FormatTime(0)))
	p.playButton.SetIcon(theme.MediaPlayIcon())
	p.prevButton.Disable()
	p.playButton.Disable()
	p.nextButton.Disable()
	p.replayButton.Disable()
}

func formatSpeed(rate float64) string {
	return strconv.FormatFloat(rate, 'g', -1, 64) + "x"
}

func parseSpeed(s string) (float64, bool) {
	if len(s) < 2 || s[len(s)-1] != 'x' {
		return 0, false
	}
	rate, err := strconv.ParseFloat(s[:len(s)-1], 64)
	if err != nil || rate <= 0 {
		return 0, false
	}
	return rate, true
}

func setEnabled(w fyne.Disableable, enabled bool) {
	if enabled {
		w.Enable()
	} else {
		w.Disable()
	}
}

func call(fn func()) {
	if fn != nil {
		fn()
	}
}
