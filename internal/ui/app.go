package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"wgpeer/internal/ui/components"
	"wgpeer/internal/ui/views"
	"wgpeer/internal/wireguard"
)

// App is the desktop peer editor.
type App struct {
	fyneApp fyne.App
	window  fyne.Window
	logger  zerolog.Logger
}

// NewApp creates a new application instance
func NewApp(logger zerolog.Logger) *App {
	a := app.NewWithID("com.wgpeer.editor")

	w := a.NewWindow("WireGuard Peer")
	w.Resize(fyne.NewSize(560, 620))

	return &App{
		fyneApp: a,
		window:  w,
		logger:  logger.With().Str("component", "ui").Logger(),
	}
}

// Run shows an editor for peer and writes it to path on every successful save.
// It blocks until the window is closed.
func (a *App) Run(path string, peer *wireguard.Peer, numSiblings int, dnsServers string) {
	status := components.NewStatusBar(path)

	form := views.NewPeerForm(peer, numSiblings, dnsServers, func(p *wireguard.Peer) error {
		if err := wireguard.WritePeerFile(path, p); err != nil {
			return err
		}
		a.logger.Info().Str("path", path).Msg("peer saved")
		return nil
	})

	save := widget.NewButton("Save", func() {
		if err := form.Save(); err != nil {
			a.logger.Warn().Err(err).Msg("save rejected")
			status.SetError(err)
			dialog.ShowError(err, a.window)
			return
		}
		status.SetSaved(path)
	})
	save.Importance = widget.HighImportance

	a.window.SetContent(container.NewBorder(nil, container.NewVBox(save, status), nil, nil,
		container.NewVScroll(form.Build())))
	a.window.ShowAndRun()
}
