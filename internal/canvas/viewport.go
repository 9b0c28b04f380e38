package canvas

import "math"

// Default zoom limits and wheel step, matching the board UI.
const (
	DefaultMinZoom = 0.5
	DefaultMaxZoom = 40.0
	ZoomStep       = 1.25
)

// Viewport maps board coordinates to screen coordinates. A board cell (x, y)
// covers the screen rectangle [x*Zoom+OffsetX, (x+1)*Zoom+OffsetX) and the
// same for y.
type Viewport struct {
	Zoom    float64
	OffsetX float64
	OffsetY float64

	MinZoom float64
	MaxZoom float64
}

// NewViewport creates a viewport at zoom 1 with the given zoom limits.
func NewViewport(minZoom, maxZoom float64) *Viewport {
	if minZoom <= 0 {
		minZoom = DefaultMinZoom
	}
	if maxZoom < minZoom {
		maxZoom = minZoom
	}
	return &Viewport{Zoom: 1, MinZoom: minZoom, MaxZoom: maxZoom}
}

// ScreenToCanvas converts a screen position to the board cell underneath it.
// No bounds check; callers decide what to do with off-board cells.
func (v *Viewport) ScreenToCanvas(sx, sy float64) (int, int) {
	x := int(math.Floor((sx - v.OffsetX) / v.Zoom))
	y := int(math.Floor((sy - v.OffsetY) / v.Zoom))
	return x, y
}

// CanvasToScreen returns the screen position of the top-left corner of cell
// (x, y).
func (v *Viewport) CanvasToScreen(x, y int) (float64, float64) {
	return float64(x)*v.Zoom + v.OffsetX, float64(y)*v.Zoom + v.OffsetY
}

// Pan shifts the view by a screen-space delta.
func (v *Viewport) Pan(dx, dy float64) {
	v.OffsetX += dx
	v.OffsetY += dy
}

// ZoomAt multiplies the zoom by factor, clamped to [MinZoom, MaxZoom], while
// keeping the board point under the screen pivot stationary.
func (v *Viewport) ZoomAt(pivotX, pivotY, factor float64) {
	newZoom := clamp(v.Zoom*factor, v.MinZoom, v.MaxZoom)
	if newZoom == v.Zoom {
		return
	}
	scale := newZoom / v.Zoom
	v.OffsetX = pivotX - (pivotX-v.OffsetX)*scale
	v.OffsetY = pivotY - (pivotY-v.OffsetY)*scale
	v.Zoom = newZoom
}

// ZoomWheel applies one wheel notch at the pivot. Only the sign of delta
// matters; magnitude is normalized to a single multiplicative step.
func (v *Viewport) ZoomWheel(pivotX, pivotY, delta float64) {
	if delta > 0 {
		v.ZoomAt(pivotX, pivotY, ZoomStep)
	} else if delta < 0 {
		v.ZoomAt(pivotX, pivotY, 1/ZoomStep)
	}
}

// FitTo sets zoom and offset so the whole board is visible and centered in a
// viewWidth x viewHeight window, shrunk by marginFactor (e.g. 0.9 leaves a 5%
// border on each side).
func (v *Viewport) FitTo(viewWidth, viewHeight float64, boardWidth, boardHeight int, marginFactor float64) {
	if boardWidth <= 0 || boardHeight <= 0 || viewWidth <= 0 || viewHeight <= 0 {
		return
	}
	zoom := math.Min(viewWidth/float64(boardWidth), viewHeight/float64(boardHeight)) * marginFactor
	v.Zoom = clamp(zoom, v.MinZoom, v.MaxZoom)
	v.OffsetX = (viewWidth - float64(boardWidth)*v.Zoom) / 2
	v.OffsetY = (viewHeight - float64(boardHeight)*v.Zoom) / 2
}

// VisibleCells returns the half-open board-cell rectangle [x0,x1) x [y0,y1)
// covered by a viewWidth x viewHeight window, clipped to the board. Render
// passes iterate only these cells so the frame cost is bounded by the window,
// not the board.
func (v *Viewport) VisibleCells(viewWidth, viewHeight float64, boardWidth, boardHeight int) (x0, y0, x1, y1 int) {
	x0, y0 = v.ScreenToCanvas(0, 0)
	x1, y1 = v.ScreenToCanvas(viewWidth, viewHeight)
	x1++
	y1++
	x0 = maxInt(x0, 0)
	y0 = maxInt(y0, 0)
	x1 = minInt(x1, boardWidth)
	y1 = minInt(y1, boardHeight)
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	return x0, y0, x1, y1
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
