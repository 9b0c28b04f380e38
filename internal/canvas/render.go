package canvas

import (
	"image"
	"image/color"
	"math"

	"github.com/anchor-btc/anchor-os-sub000/internal/state"
)

// Renderer composites one board frame into an RGBA image. The layer order is
// fixed: backdrop, board background, grid, indexed, selected, pending, image
// preview, shape draft, cursor. Every pass culls to the visible board cells,
// so frame cost tracks the window size rather than the pixel count.
type Renderer struct {
	Backdrop   color.NRGBA // around the board
	BoardColor color.NRGBA // empty board cells
	GridColor  color.NRGBA

	// Grid lines and selection outlines only appear once cells are big
	// enough to tell apart.
	GridZoomThreshold    float64
	OutlineZoomThreshold float64

	SelectedAlpha uint8
	PreviewAlpha  uint8
}

// NewRenderer returns a renderer with the board's stock palette.
func NewRenderer(background state.RGB) *Renderer {
	return &Renderer{
		Backdrop:             color.NRGBA{R: 38, G: 38, B: 42, A: 255},
		BoardColor:           color.NRGBA{R: background.R, G: background.G, B: background.B, A: 255},
		GridColor:            color.NRGBA{R: 0, G: 0, B: 0, A: 40},
		GridZoomThreshold:    6,
		OutlineZoomThreshold: 8,
		SelectedAlpha:        170,
		PreviewAlpha:         140,
	}
}

// PulseAlpha maps a phase counter to the pending overlay's opacity. The
// oscillation is a visual cue only; reconciliation does not depend on it.
func PulseAlpha(phase float64) uint8 {
	return uint8(150 + 90*math.Sin(phase))
}

// Draw renders the engine's current state into a fresh width x height frame.
func (r *Renderer) Draw(e *Engine, width, height int, phase float64) *image.RGBA {
	frame := image.NewRGBA(image.Rect(0, 0, width, height))
	if width <= 0 || height <= 0 {
		return frame
	}

	view := e.View()
	bounds := e.BoardBounds()
	fw, fh := float64(width), float64(height)

	fillRect(frame, 0, 0, width, height, r.Backdrop)

	// Board background rectangle.
	bx0, by0 := view.CanvasToScreen(0, 0)
	bx1, by1 := view.CanvasToScreen(bounds.W, bounds.H)
	fillRect(frame, int(bx0), int(by0), int(bx1), int(by1), r.BoardColor)

	x0, y0, x1, y1 := view.VisibleCells(fw, fh, bounds.W, bounds.H)

	if view.Zoom >= r.GridZoomThreshold {
		r.drawGrid(frame, view, x0, y0, x1, y1)
	}

	outline := view.Zoom >= r.OutlineZoomThreshold

	e.Store().ForEachIndexed(func(p state.Pixel) {
		if p.X < x0 || p.X >= x1 || p.Y < y0 || p.Y >= y1 {
			return
		}
		r.fillCell(frame, view, p.X, p.Y, color.NRGBA{R: p.R, G: p.G, B: p.B, A: 255})
	})

	e.Store().ForEachSelected(func(p state.Pixel) {
		if p.X < x0 || p.X >= x1 || p.Y < y0 || p.Y >= y1 {
			return
		}
		r.fillCell(frame, view, p.X, p.Y, color.NRGBA{R: p.R, G: p.G, B: p.B, A: r.SelectedAlpha})
		if outline {
			r.outlineCell(frame, view, p.X, p.Y, color.NRGBA{A: 200})
		}
	})

	pulse := PulseAlpha(phase)
	e.Store().ForEachPending(func(p state.Pixel) {
		if p.X < x0 || p.X >= x1 || p.Y < y0 || p.Y >= y1 {
			return
		}
		r.fillCell(frame, view, p.X, p.Y, color.NRGBA{R: p.R, G: p.G, B: p.B, A: pulse})
	})

	previewActive := false
	if preview := e.Preview(); preview != nil {
		previewActive = true
		for _, p := range preview.Placed() {
			if p.X < x0 || p.X >= x1 || p.Y < y0 || p.Y >= y1 {
				continue
			}
			r.fillCell(frame, view, p.X, p.Y, color.NRGBA{R: p.R, G: p.G, B: p.B, A: r.PreviewAlpha})
		}
		r.dashedBox(frame, view, preview.OffsetX, preview.OffsetY,
			preview.OffsetX+preview.Width, preview.OffsetY+preview.Height)
	}

	shapeActive := e.Drag() == DragShaping
	if shapeActive {
		for _, p := range e.DraftPixels() {
			if p.X < x0 || p.X >= x1 || p.Y < y0 || p.Y >= y1 {
				continue
			}
			r.fillCell(frame, view, p.X, p.Y, color.NRGBA{R: p.R, G: p.G, B: p.B, A: r.SelectedAlpha})
		}
	}

	if !previewActive && !shapeActive {
		r.drawCursor(frame, e)
	}

	return frame
}

// drawCursor shows the tool footprint at the hover cell: the brush mask for
// paint/erase, a single cell marker otherwise.
func (r *Renderer) drawCursor(frame *image.RGBA, e *Engine) {
	hx, hy, ok := e.Hover()
	if !ok || !e.BoardBounds().Contains(hx, hy) {
		return
	}
	view := e.View()
	cursor := color.NRGBA{R: 255, G: 255, B: 255, A: 110}

	switch e.Tool() {
	case ToolPaint, ToolErase:
		for _, p := range Brush(hx, hy, e.BrushRadius(), state.RGB{}, e.BoardBounds()) {
			r.outlineCell(frame, view, p.X, p.Y, cursor)
		}
	case ToolFill, ToolEyedropper, ToolSelect:
		r.outlineCell(frame, view, hx, hy, cursor)
	}
}

func (r *Renderer) drawGrid(frame *image.RGBA, view *Viewport, x0, y0, x1, y1 int) {
	if x1 <= x0 || y1 <= y0 {
		return
	}
	sx0, sy0 := view.CanvasToScreen(x0, y0)
	sx1, sy1 := view.CanvasToScreen(x1, y1)
	for x := x0; x <= x1; x++ {
		sx, _ := view.CanvasToScreen(x, 0)
		vLine(frame, int(sx), int(sy0), int(sy1), r.GridColor)
	}
	for y := y0; y <= y1; y++ {
		_, sy := view.CanvasToScreen(0, y)
		hLine(frame, int(sx0), int(sx1), int(sy), r.GridColor)
	}
}

// cellRect returns the screen rectangle of board cell (x, y).
func cellRect(view *Viewport, x, y int) (image.Point, image.Point) {
	sx0, sy0 := view.CanvasToScreen(x, y)
	sx1, sy1 := view.CanvasToScreen(x+1, y+1)
	return image.Pt(int(sx0), int(sy0)), image.Pt(int(sx1), int(sy1))
}

func (r *Renderer) fillCell(frame *image.RGBA, view *Viewport, x, y int, c color.NRGBA) {
	p0, p1 := cellRect(view, x, y)
	fillRect(frame, p0.X, p0.Y, p1.X, p1.Y, c)
}

func (r *Renderer) outlineCell(frame *image.RGBA, view *Viewport, x, y int, c color.NRGBA) {
	p0, p1 := cellRect(view, x, y)
	hLine(frame, p0.X, p1.X, p0.Y, c)
	hLine(frame, p0.X, p1.X, p1.Y-1, c)
	vLine(frame, p0.X, p0.Y, p1.Y, c)
	vLine(frame, p1.X-1, p0.Y, p1.Y, c)
}

// dashedBox draws the preview's bounding box with a 4px dash pattern.
func (r *Renderer) dashedBox(frame *image.RGBA, view *Viewport, x0, y0, x1, y1 int) {
	c := color.NRGBA{R: 255, G: 255, B: 255, A: 220}
	sx0, sy0 := view.CanvasToScreen(x0, y0)
	sx1, sy1 := view.CanvasToScreen(x1, y1)

	dashedHLine(frame, int(sx0), int(sx1), int(sy0), c)
	dashedHLine(frame, int(sx0), int(sx1), int(sy1)-1, c)
	dashedVLine(frame, int(sx0), int(sy0), int(sy1), c)
	dashedVLine(frame, int(sx1)-1, int(sy0), int(sy1), c)
}

// fillRect blends an axis-aligned rectangle onto the frame, clipped to it.
func fillRect(frame *image.RGBA, x0, y0, x1, y1 int, c color.NRGBA) {
	b := frame.Bounds()
	x0 = maxInt(x0, b.Min.X)
	y0 = maxInt(y0, b.Min.Y)
	x1 = minInt(x1, b.Max.X)
	y1 = minInt(y1, b.Max.Y)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			blendPixel(frame, x, y, c)
		}
	}
}

func hLine(frame *image.RGBA, x0, x1, y int, c color.NRGBA) {
	fillRect(frame, x0, y, x1, y+1, c)
}

func vLine(frame *image.RGBA, x, y0, y1 int, c color.NRGBA) {
	fillRect(frame, x, y0, x+1, y1, c)
}

func dashedHLine(frame *image.RGBA, x0, x1, y int, c color.NRGBA) {
	for x := x0; x < x1; x++ {
		if (x/4)%2 == 0 {
			blendClipped(frame, x, y, c)
		}
	}
}

func dashedVLine(frame *image.RGBA, x, y0, y1 int, c color.NRGBA) {
	for y := y0; y < y1; y++ {
		if (y/4)%2 == 0 {
			blendClipped(frame, x, y, c)
		}
	}
}

func blendClipped(frame *image.RGBA, x, y int, c color.NRGBA) {
	if !image.Pt(x, y).In(frame.Bounds()) {
		return
	}
	blendPixel(frame, x, y, c)
}

// blendPixel does source-over compositing of c onto the frame pixel.
func blendPixel(frame *image.RGBA, x, y int, c color.NRGBA) {
	if c.A == 255 {
		frame.SetRGBA(x, y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 255})
		return
	}
	dst := frame.RGBAAt(x, y)
	a := uint32(c.A)
	inv := 255 - a
	frame.SetRGBA(x, y, color.RGBA{
		R: uint8((uint32(c.R)*a + uint32(dst.R)*inv) / 255),
		G: uint8((uint32(c.G)*a + uint32(dst.G)*inv) / 255),
		B: uint8((uint32(c.B)*a + uint32(dst.B)*inv) / 255),
		A: 255,
	})
}
