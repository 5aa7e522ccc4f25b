package gui

import (
	"errors"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"codeberg.org/snonux/signreel/internal/backend"
	"codeberg.org/snonux/signreel/internal/processor"
	"codeberg.org/snonux/signreel/internal/translation"
)

var languageLabels = map[string]string{
	translation.English: "English",
	translation.Kannada: "Kannada",
}

func languageCode(label string) string {
	for code, l := range languageLabels {
		if l == label {
			return code
		}
	}
	return translation.English
}

func placeholder(lang string) string {
	if lang == translation.Kannada {
		return "ಕನ್ನಡದಲ್ಲಿ ಟೈಪ್ ಮಾಡಿ... (Ctrl+Enter to translate)"
	}
	return "Type English text... (Ctrl+Enter to translate)"
}

// createTextTab builds the Text → ISL tab
func (a *Application) createTextTab() fyne.CanvasObject {
	a.languageGroup = widget.NewRadioGroup(
		[]string{languageLabels[translation.English], languageLabels[translation.Kannada]},
		func(selected string) {
			a.mu.Lock()
			a.language = languageCode(selected)
			lang := a.language
			a.mu.Unlock()
			a.textInput.SetPlaceHolder(placeholder(lang))
		},
	)
	a.languageGroup.Horizontal = true
	a.languageGroup.Required = true

	a.textInput = NewInputEntry()
	a.textInput.SetMinRowsVisible(4)
	a.textInput.SetPlaceHolder(placeholder(a.language))
	a.textInput.SetText(a.draft.Load())
	a.textInput.OnChanged = a.draft.Set
	a.textInput.SetOnSubmit(a.onTranslate)
	a.textInput.SetOnEscape(func() { a.window.Canvas().Unfocus() })

	a.languageGroup.SetSelected(languageLabels[a.language])

	a.translateBtn = widget.NewButtonWithIcon("Translate", theme.ConfirmIcon(), a.onTranslate)
	a.translateBtn.Importance = widget.HighImportance

	a.sentenceLabel = widget.NewLabel("")
	a.sentenceLabel.Wrapping = fyne.TextWrapWord
	a.glossLabel = widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Monospace: true})
	a.glossLabel.Wrapping = fyne.TextWrapWord

	a.clipPlayer = NewClipPlayer()
	a.clipPlayer.OnPrevious = a.onPrevious
	a.clipPlayer.OnNext = a.onNext
	a.clipPlayer.OnToggle = a.onTogglePlay
	a.clipPlayer.OnReplay = a.onReplay
	a.clipPlayer.OnRate = func(rate float64) {
		a.controller.Clip().SetRate(rate)
	}

	input := container.NewVBox(
		container.NewHBox(widget.NewLabel("Input language:"), a.languageGroup),
		a.textInput,
		container.NewHBox(a.translateBtn),
	)

	output := widget.NewForm(
		widget.NewFormItem("Sentence", a.sentenceLabel),
		widget.NewFormItem("ISL gloss", a.glossLabel),
	)

	return container.NewBorder(
		container.NewVBox(input, widget.NewSeparator(), output, widget.NewSeparator()),
		nil, nil, nil,
		container.NewVScroll(a.clipPlayer),
	)
}

// onTranslate sends the typed text for translation and starts playback
func (a *Application) onTranslate() {
	text := a.textInput.Text
	if strings.TrimSpace(text) == "" {
		a.updateStatus("Please enter some text to translate")
		return
	}

	// Ctrl+Enter reaches here even while the button is disabled
	a.mu.Lock()
	if a.translating {
		a.mu.Unlock()
		return
	}
	a.translating = true
	lang := a.language
	a.mu.Unlock()

	a.draft.Flush()
	a.translateBtn.Disable()
	a.updateStatus("Translating...")

	a.goBackground(func() {
		defer a.endTranslate()

		result, err := a.config.Service.TextToISL(a.ctx, text, lang)
		if err != nil {
			a.logger.Errorw("Translation failed", "text", text, "error", err)
			fyne.Do(func() {
				a.translateBtn.Enable()
				a.showError(translateErrorMessage(err))
			})
			return
		}

		fyne.Do(func() {
			a.translateBtn.Enable()
			a.sentenceLabel.SetText(result.Sentence)
			a.glossLabel.SetText(result.Gloss)
			if len(result.Words) == 0 {
				a.clipPlayer.Clear()
				a.updateStatus("No words to sign")
				return
			}
			a.updateStatus("Translation complete")
		})
		if len(result.Words) > 0 {
			a.controller.Load(result.Words)
		}
	})
}

func (a *Application) endTranslate() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.translating = false
}

func translateErrorMessage(err error) string {
	if errors.Is(err, processor.ErrEmptyInput) {
		return "Please enter some text to translate"
	}
	return backend.UserMessage(err)
}

// Player controls run off the UI thread: a transition can start the
// external player process.

func (a *Application) onPrevious() {
	a.goBackground(func() { a.controller.Sequencer().Previous() })
}

func (a *Application) onNext() {
	a.goBackground(func() { a.controller.Sequencer().Next() })
}

func (a *Application) onTogglePlay() {
	a.goBackground(a.controller.Sequencer().TogglePlayPause)
}

func (a *Application) onReplay() {
	a.goBackground(func() {
		if words := a.controller.Sequencer().Words(); len(words) > 0 {
			a.controller.Load(words)
		}
	})
}
