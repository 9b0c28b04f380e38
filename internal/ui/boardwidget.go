package ui

import (
	"encoding/json"
	"fmt"
	"image"
	"io"
	"log"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	board "github.com/anchor-btc/anchor-os-sub000/internal/canvas"
	"github.com/anchor-btc/anchor-os-sub000/internal/state"
)

// BoardWidget shows one pixel board and feeds pointer/wheel input into its
// engine. All rendering happens through the engine's renderer into the
// raster; the widget itself holds no pixel state.
type BoardWidget struct {
	widget.BaseWidget

	engine   *board.Engine
	renderer *board.Renderer
	raster   *fynecanvas.Raster

	pulsePhase float64
	fitted     bool

	// OnStatus reports user-visible notices (save/load results and the like).
	OnStatus func(string)
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)
var _ desktop.Hoverable = (*BoardWidget)(nil)
var _ fyne.Scrollable = (*BoardWidget)(nil)

// NewBoardWidget wires a widget over an engine.
func NewBoardWidget(engine *board.Engine) *BoardWidget {
	b := &BoardWidget{
		engine:   engine,
		renderer: board.NewRenderer(engine.Background()),
	}
	b.raster = fynecanvas.NewRaster(b.drawFrame)
	b.ExtendBaseWidget(b)
	return b
}

// Engine returns the widget's interaction engine.
func (b *BoardWidget) Engine() *board.Engine {
	return b.engine
}

func (b *BoardWidget) drawFrame(w, h int) image.Image {
	if !b.fitted && w > 0 && h > 0 {
		bounds := b.engine.BoardBounds()
		b.engine.View().FitTo(float64(w), float64(h), bounds.W, bounds.H, 0.9)
		b.fitted = true
	}
	return b.renderer.Draw(b.engine, w, h, b.pulsePhase)
}

// AdvancePulse moves the pending-overlay pulse forward one tick and redraws.
// Called on the UI thread by the app's frame ticker.
func (b *BoardWidget) AdvancePulse(step float64) {
	b.pulsePhase += step
	b.Refresh()
}

// FitView re-centers the whole board in the widget.
func (b *BoardWidget) FitView() {
	size := b.Size()
	bounds := b.engine.BoardBounds()
	b.engine.View().FitTo(float64(size.Width), float64(size.Height), bounds.W, bounds.H, 0.9)
	b.Refresh()
}

func (b *BoardWidget) MouseDown(ev *desktop.MouseEvent) {
	btn, ok := mapButton(ev.Button)
	if !ok {
		return
	}
	panMod := ev.Modifier&fyne.KeyModifierControl != 0
	b.engine.PointerDown(float64(ev.Position.X), float64(ev.Position.Y), btn, panMod)
	b.Refresh()
}

func (b *BoardWidget) MouseUp(*desktop.MouseEvent) {
	b.engine.PointerUp()
	b.Refresh()
}

func (b *BoardWidget) Dragged(ev *fyne.DragEvent) {
	b.engine.PointerMove(float64(ev.Position.X), float64(ev.Position.Y))
	b.Refresh()
}

func (b *BoardWidget) DragEnd() {
	b.engine.PointerUp()
	b.Refresh()
}

func (b *BoardWidget) MouseIn(ev *desktop.MouseEvent) {
	b.engine.PointerMove(float64(ev.Position.X), float64(ev.Position.Y))
}

func (b *BoardWidget) MouseMoved(ev *desktop.MouseEvent) {
	b.engine.PointerMove(float64(ev.Position.X), float64(ev.Position.Y))
	b.Refresh()
}

func (b *BoardWidget) MouseOut() {
	b.engine.PointerLeave()
	b.Refresh()
}

func (b *BoardWidget) Scrolled(ev *fyne.ScrollEvent) {
	b.engine.Wheel(float64(ev.Position.X), float64(ev.Position.Y), float64(ev.Scrolled.DY))
	b.Refresh()
}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(b.raster)
}

func (b *BoardWidget) MinSize() fyne.Size {
	return fyne.NewSize(300, 300)
}

// SaveDraft writes the current selection to the writer as JSON, so a work in
// progress survives a restart.
func (b *BoardWidget) SaveDraft(writer fyne.URIWriteCloser) {
	defer func() {
		if err := writer.Close(); err != nil {
			log.Printf("[UI] Close draft writer: %v", err)
		}
	}()

	pixels := b.engine.Store().SelectedPixels()
	data, err := json.MarshalIndent(pixels, "", "  ")
	if err != nil {
		b.status("Error saving draft")
		return
	}
	if _, err := writer.Write(data); err != nil {
		log.Printf("[UI] Write draft: %v", err)
		b.status("Error writing draft file")
		return
	}
	b.status(fmt.Sprintf("Saved draft with %d pixel(s)", len(pixels)))
}

// LoadDraft reads a JSON draft back into the selection.
func (b *BoardWidget) LoadDraft(reader fyne.URIReadCloser) {
	defer func() {
		if err := reader.Close(); err != nil {
			log.Printf("[UI] Close draft reader: %v", err)
		}
	}()

	data, err := io.ReadAll(reader)
	if err != nil {
		log.Printf("[UI] Read draft: %v", err)
		b.status("Error reading draft file")
		return
	}
	var pixels []state.Pixel
	if err := json.Unmarshal(data, &pixels); err != nil {
		log.Printf("[UI] Parse draft: %v", err)
		b.status("Draft file is not valid")
		return
	}

	added := b.engine.Store().AddSelected(pixels)
	b.Refresh()
	b.status(fmt.Sprintf("Loaded draft, %d pixel(s) added", added))
}

func (b *BoardWidget) status(msg string) {
	if b.OnStatus != nil {
		b.OnStatus(msg)
	}
}

func mapButton(btn desktop.MouseButton) (board.Button, bool) {
	switch btn {
	case desktop.MouseButtonPrimary:
		return board.ButtonPrimary, true
	case desktop.MouseButtonTertiary:
		return board.ButtonMiddle, true
	case desktop.MouseButtonSecondary:
		return board.ButtonSecondary, true
	default:
		return 0, false
	}
}
