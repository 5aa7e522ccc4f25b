package gui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"codeberg.org/snonux/signreel/internal/backend"
	"codeberg.org/snonux/signreel/internal/gloss"
	"codeberg.org/snonux/signreel/internal/processor"
)

// VideoTab is the ISL → Text tab: upload a recording and read back the
// detected signs as English and Kannada text
type VideoTab struct {
	app     *Application
	content fyne.CanvasObject

	fileLabel    *widget.Label
	chooseBtn    *ttwidget.Button
	translateBtn *ttwidget.Button
	resetBtn     *ttwidget.Button
	copyBtn      *ttwidget.Button
	connectBtn   *ttwidget.Button
	progress     *widget.ProgressBar
	messageLabel *widget.Label
	signsLabel   *widget.Label
	englishEntry *widget.Entry
	kannadaEntry *widget.Entry

	path   string
	result *processor.SignResult
}

func newVideoTab(a *Application) *VideoTab {
	t := &VideoTab{app: a}

	t.fileLabel = widget.NewLabel("No video selected")
	t.chooseBtn = ttwidget.NewButtonWithIcon("Choose Video", theme.FolderOpenIcon(), t.onChoose)
	t.translateBtn = ttwidget.NewButtonWithIcon("Translate", theme.UploadIcon(), t.onTranslate)
	t.translateBtn.Importance = widget.HighImportance
	t.resetBtn = ttwidget.NewButtonWithIcon("", theme.ContentClearIcon(), t.Reset)
	t.copyBtn = ttwidget.NewButtonWithIcon("", theme.ContentCopyIcon(), t.onCopy)
	t.connectBtn = ttwidget.NewButtonWithIcon("Test Connection", theme.ComputerIcon(), t.onTestConnection)

	t.progress = widget.NewProgressBar()
	t.progress.Max = 100
	t.progress.Hide()

	t.messageLabel = widget.NewLabel("")
	t.messageLabel.Wrapping = fyne.TextWrapWord
	t.signsLabel = widget.NewLabel("")
	t.signsLabel.Wrapping = fyne.TextWrapWord

	t.englishEntry = widget.NewMultiLineEntry()
	t.englishEntry.Wrapping = fyne.TextWrapWord
	t.englishEntry.SetMinRowsVisible(2)
	t.kannadaEntry = widget.NewMultiLineEntry()
	t.kannadaEntry.Wrapping = fyne.TextWrapWord
	t.kannadaEntry.SetMinRowsVisible(2)

	upload := container.NewVBox(
		container.NewBorder(nil, nil, t.chooseBtn, nil, t.fileLabel),
		container.NewHBox(t.translateBtn, t.resetBtn, t.copyBtn, t.connectBtn),
		t.progress,
		t.messageLabel,
	)

	results := widget.NewForm(
		widget.NewFormItem("Detected signs", t.signsLabel),
		widget.NewFormItem("English", t.englishEntry),
		widget.NewFormItem("Kannada", t.kannadaEntry),
	)

	t.content = container.NewBorder(
		container.NewVBox(upload, widget.NewSeparator(), results, widget.NewSeparator()),
		nil, nil, nil,
		createReference(),
	)

	t.Reset()
	return t
}

func (t *VideoTab) setToolTips() {
	t.chooseBtn.SetToolTip("MP4, MOV, WebM or AVI, up to 100MB")
	t.translateBtn.SetToolTip("Upload and recognise signs")
	t.resetBtn.SetToolTip("Clear the selection and results")
	t.copyBtn.SetToolTip("Copy results to the clipboard")
	t.connectBtn.SetToolTip("Check that the recognition server is running")
}

// createReference lists the signs the recogniser knows and sample orders
func createReference() fyne.CanvasObject {
	signs := widget.NewLabel(strings.Join(gloss.RecognizedSigns(), ", "))
	signs.Wrapping = fyne.TextWrapWord

	examples := gloss.ExampleSentences()
	list := widget.NewList(
		func() int { return len(examples) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.ListItemID, o fyne.CanvasObject) {
			e := examples[id]
			o.(*widget.Label).SetText(fmt.Sprintf("%s → %s", e.Gloss, e.English))
		},
	)

	return container.NewBorder(
		container.NewVBox(
			widget.NewLabelWithStyle("Recognised signs", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			signs,
			widget.NewLabelWithStyle("Example sentences", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		),
		nil, nil, nil,
		list,
	)
}

func (t *VideoTab) onChoose() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			t.app.showError(err.Error())
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()
		t.SetFile(reader.URI().Path())
	}, t.app.window)
	d.SetFilter(storage.NewExtensionFileFilter(backend.UploadExtensions()))
	d.Show()
}

// SetFile selects path for upload and clears earlier results
func (t *VideoTab) SetFile(path string) {
	t.clearResults()
	t.path = path
	t.fileLabel.SetText(filepath.Base(path))
	t.translateBtn.Enable()
}

func (t *VideoTab) onTranslate() {
	path := t.path
	if path == "" {
		t.messageLabel.SetText("Please select a video first")
		return
	}

	t.clearResults()
	t.setBusy(true)
	t.progress.SetValue(0)
	t.progress.Show()
	t.messageLabel.SetText("Uploading...")
	t.app.updateStatus("Processing video...")

	t.app.goBackground(func() {
		result, err := t.app.config.Service.VideoToText(t.app.ctx, path, func(percent int) {
			fyne.Do(func() {
				t.progress.SetValue(float64(percent))
				if percent >= 100 {
					t.messageLabel.SetText("Processing...")
				}
			})
		})
		if err != nil {
			t.app.logger.Errorw("Video translation failed", "file", path, "error", err)
		}

		fyne.Do(func() {
			t.setBusy(false)
			t.progress.Hide()
			t.showResult(result, err)
		})
	})
}

func (t *VideoTab) showResult(result *processor.SignResult, err error) {
	switch {
	case errors.Is(err, processor.ErrNoSignsDetected):
		t.messageLabel.SetText("No signs were detected in the video. Please try again with a clearer video.")
		t.app.updateStatus("No signs detected")
		return
	case errors.Is(err, backend.ErrFileTooLarge), errors.Is(err, backend.ErrUnsupportedType):
		t.messageLabel.SetText(err.Error())
		t.app.updateStatus("Invalid file")
		return
	case err != nil && result == nil:
		t.messageLabel.SetText(backend.UserMessage(err))
		t.app.updateStatus("Upload failed")
		return
	}

	t.result = result
	t.signsLabel.SetText(signsText(result))
	t.copyBtn.Enable()
	if err != nil {
		t.messageLabel.SetText(backend.Detail(err, backend.UserMessage(err)))
		t.app.updateStatus("Sentence generation failed")
		return
	}

	t.englishEntry.SetText(result.English)
	t.kannadaEntry.SetText(result.Kannada)
	if result.KannadaErr != nil {
		t.messageLabel.SetText("Kannada translation failed: " + result.KannadaErr.Error())
	} else {
		t.messageLabel.SetText("")
	}
	t.app.updateStatus("Video processed")
}

func signsText(r *processor.SignResult) string {
	signs := r.Signs()
	parts := make([]string, len(signs))
	for i, s := range signs {
		parts[i] = fmt.Sprintf("%s ×%d", s, r.DetectedSigns[s])
	}
	return fmt.Sprintf("%s\n(%d total, %d unique)", strings.Join(parts, ", "), r.TotalSigns, r.UniqueSigns)
}

func (t *VideoTab) onCopy() {
	if t.result == nil {
		return
	}
	t.app.app.Clipboard().SetContent(t.result.Summary())
	t.app.updateStatus("Copied to clipboard")
}

func (t *VideoTab) onTestConnection() {
	t.connectBtn.Disable()
	t.app.updateStatus("Testing connection...")

	t.app.goBackground(func() {
		err := t.app.config.Service.CheckConnection(t.app.ctx)
		fyne.Do(func() {
			t.connectBtn.Enable()
			if err != nil {
				t.app.showError(backend.UserMessage(err))
				return
			}
			t.app.updateStatus("Connected to server")
			dialog.ShowInformation("Connection", "Server connection successful!", t.app.window)
		})
	})
}

// Reset clears the selected file and all results
func (t *VideoTab) Reset() {
	t.path = ""
	t.fileLabel.SetText("No video selected")
	t.translateBtn.Disable()
	t.progress.Hide()
	t.clearResults()
}

func (t *VideoTab) clearResults() {
	t.result = nil
	t.messageLabel.SetText("")
	t.signsLabel.SetText("")
	t.englishEntry.SetText("")
	t.kannadaEntry.SetText("")
	t.copyBtn.Disable()
}

func (t *VideoTab) setBusy(busy bool) {
	setEnabled(t.chooseBtn, !busy)
	setEnabled(t.translateBtn, !busy && t.path != "")
	setEnabled(t.resetBtn, !busy)
}
