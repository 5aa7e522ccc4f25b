package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// InputEntry is the multi-line text box of the Text → ISL tab. Ctrl+Enter
// submits and Escape leaves the field.
type InputEntry struct {
	widget.Entry
	onSubmit func()
	onEscape func()
}

// NewInputEntry creates a new input entry
func NewInputEntry() *InputEntry {
	entry := &InputEntry{}
	entry.MultiLine = true
	entry.Wrapping = fyne.TextWrapWord
	entry.ExtendBaseWidget(entry)
	return entry
}

// TypedKey handles key events
func (e *InputEntry) TypedKey(key *fyne.KeyEvent) {
	if key.Name == fyne.KeyEscape && e.onEscape != nil {
		e.onEscape()
		return
	}
	e.Entry.TypedKey(key)
}

// TypedShortcut handles Ctrl+Enter and passes everything else on
func (e *InputEntry) TypedShortcut(s fyne.Shortcut) {
	if cs, ok := s.(*desktop.CustomShortcut); ok && isSubmit(cs) && e.onSubmit != nil {
		e.onSubmit()
		return
	}
	e.Entry.TypedShortcut(s)
}

func isSubmit(cs *desktop.CustomShortcut) bool {
	return cs.Modifier == fyne.KeyModifierShortcutDefault &&
		(cs.KeyName == fyne.KeyReturn || cs.KeyName == fyne.KeyEnter)
}

// SetOnSubmit sets the callback for Ctrl+Enter
func (e *InputEntry) SetOnSubmit(f func()) {
	e.onSubmit = f
}

// SetOnEscape sets the callback for when Escape is pressed
func (e *InputEntry) SetOnEscape(f func()) {
	e.onEscape = f
}
