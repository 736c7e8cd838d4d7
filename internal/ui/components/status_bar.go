package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// StatusBar shows the outcome of the last action on the peer.
type StatusBar struct {
	widget.BaseWidget

	container *fyne.Container
	icon      *widget.Icon
	message   *widget.Label
}

// NewStatusBar creates a status bar showing msg.
func NewStatusBar(msg string) *StatusBar {
	s := &StatusBar{
		icon:    widget.NewIcon(theme.InfoIcon()),
		message: widget.NewLabel(msg),
	}

	s.container = container.NewHBox(s.icon, s.message)
	s.ExtendBaseWidget(s)
	return s
}

// SetError shows err, or clears the error state when err is nil.
func (s *StatusBar) SetError(err error) {
	if err == nil {
		s.SetInfo("Ready")
		return
	}
	s.icon.SetResource(theme.ErrorIcon())
	s.message.SetText(err.Error())
	s.Refresh()
}

// SetSaved reports a successful write.
func (s *StatusBar) SetSaved(path string) {
	s.icon.SetResource(theme.ConfirmIcon())
	s.message.SetText("Saved " + path)
	s.Refresh()
}

// SetInfo sets an informational message.
func (s *StatusBar) SetInfo(msg string) {
	s.icon.SetResource(theme.InfoIcon())
	s.message.SetText(msg)
	s.Refresh()
}

// Text returns the message currently shown.
func (s *StatusBar) Text() string {
	return s.message.Text
}

// CreateRenderer implements fyne.Widget
func (s *StatusBar) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(s.container)
}
