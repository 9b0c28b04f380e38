package ui

import (
	"log"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// pulseInterval drives the pending-overlay oscillation and cursor redraw.
const pulseInterval = 150 * time.Millisecond

// App is the assembled board window.
type App struct {
	fyneApp fyne.App
	window  fyne.Window
	board   *BoardWidget
	status  *widget.Label

	// ExportPDF renders the current board to the chosen file. Optional.
	ExportPDF func(fyne.URIWriteCloser) error
}

// NewApp builds the main window around a board widget.
func NewApp(title string, board *BoardWidget) *App {
	fyneApp := app.New()
	window := fyneApp.NewWindow(title)
	window.Resize(fyne.NewSize(1100, 800))

	a := &App{
		fyneApp: fyneApp,
		window:  window,
		board:   board,
		status:  widget.NewLabel("Ready"),
	}
	board.OnStatus = a.SetStatus

	eng := board.Engine()
	toolbar := NewToolbar(board,
		func() { eng.Commit(); board.Refresh() },
		func() { eng.ClearSelection(); board.Refresh() },
	)

	fileRow := container.NewHBox(
		widget.NewButton("Save Draft", a.saveDraft),
		widget.NewButton("Load Draft", a.loadDraft),
		widget.NewButton("Export PDF", a.exportPDF),
	)

	bottom := container.NewBorder(nil, nil, nil, fileRow, a.status)
	window.SetContent(container.NewBorder(toolbar, bottom, nil, nil, board))
	return a
}

// SetStatus updates the status bar. Safe only on the UI thread; background
// goroutines go through SetStatusAsync.
func (a *App) SetStatus(msg string) {
	a.status.SetText(msg)
}

// SetStatusAsync updates the status bar from any goroutine.
func (a *App) SetStatusAsync(msg string) {
	fyne.Do(func() { a.status.SetText(msg) })
}

// RefreshBoard redraws the board from any goroutine.
func (a *App) RefreshBoard() {
	fyne.Do(a.board.Refresh)
}

// Run shows the window and blocks until it closes. The pulse ticker stops
// with the window.
func (a *App) Run() {
	stop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(pulseInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				fyne.Do(func() { a.board.AdvancePulse(0.35) })
			}
		}
	}()
	a.window.SetOnClosed(func() { close(stop) })
	a.window.ShowAndRun()
}

func (a *App) saveDraft() {
	dialog.ShowFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		a.board.SaveDraft(writer)
	}, a.window)
}

func (a *App) loadDraft() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		a.board.LoadDraft(reader)
	}, a.window)
}

func (a *App) exportPDF() {
	if a.ExportPDF == nil {
		a.SetStatus("Export is not available")
		return
	}
	dialog.ShowFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		if err := a.ExportPDF(writer); err != nil {
			log.Printf("[UI] Export PDF: %v", err)
			a.SetStatus("Export failed")
			return
		}
		a.SetStatus("Exported board to PDF")
	}, a.window)
}
