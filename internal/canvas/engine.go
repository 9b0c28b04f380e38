package canvas

import (
	"log"

	"github.com/anchor-btc/anchor-os-sub000/internal/state"
)

// Capabilities switches optional tool groups on or off, so one engine serves
// every board variant instead of maintaining drifted copies.
type Capabilities struct {
	ShapeTools   bool
	ImagePreview bool
	ColorPicker  bool
}

// AllCapabilities enables everything.
func AllCapabilities() Capabilities {
	return Capabilities{ShapeTools: true, ImagePreview: true, ColorPicker: true}
}

// Engine turns pointer and wheel events into store mutations. It owns the
// (store, viewport, tool state) triple of one board; hosting several boards
// means one engine each.
//
// The caller hears about outcomes through the On* callbacks; the engine has
// no other side effects.
type Engine struct {
	store  *state.PixelStore
	view   *Viewport
	bounds Bounds
	caps   Capabilities

	tool        Tool
	drag        DragState
	draft       *ShapeDraft
	preview     *ImagePreview
	color       state.RGB
	background  state.RGB
	brushRadius int
	fillLimit   int

	lastScreenX float64
	lastScreenY float64
	hoverX      int
	hoverY      int
	hasHover    bool

	// One press handler per tool; adding a tool is a single registration.
	press map[Tool]func(x, y int)

	// OnSelectionChanged reports the pixel sets an action added to or removed
	// from the selection. Either slice may be nil.
	OnSelectionChanged func(added, removed []state.Pixel)
	OnColorPicked      func(state.RGB)
	OnCommit           func(state.CommitBatch)
	OnStatus           func(string)
}

// NewEngine wires an engine over a store and viewport. The background color
// is what flood fill and the eyedropper see on empty cells.
func NewEngine(store *state.PixelStore, view *Viewport, caps Capabilities, background state.RGB) *Engine {
	w, h := store.Size()
	e := &Engine{
		store:      store,
		view:       view,
		bounds:     Bounds{W: w, H: h},
		caps:       caps,
		tool:       ToolPaint,
		color:      state.RGB{},
		background: background,
		fillLimit:  DefaultFillLimit,
	}

	e.press = map[Tool]func(x, y int){
		ToolSelect: e.pressSelect,
		ToolPaint:  e.pressPaint,
		ToolErase:  e.pressErase,
		ToolFill:   e.pressFill,
	}
	if caps.ShapeTools {
		e.press[ToolLine] = e.pressShape
		e.press[ToolRect] = e.pressShape
		e.press[ToolCircle] = e.pressShape
	}
	if caps.ColorPicker {
		e.press[ToolEyedropper] = e.pressEyedropper
	}
	return e
}

// Store returns the engine's pixel store.
func (e *Engine) Store() *state.PixelStore { return e.store }

// View returns the engine's viewport.
func (e *Engine) View() *Viewport { return e.view }

// BoardBounds returns the fixed board rectangle.
func (e *Engine) BoardBounds() Bounds { return e.bounds }

// Background returns the empty-cell color.
func (e *Engine) Background() state.RGB { return e.background }

// Tool returns the active tool.
func (e *Engine) Tool() Tool { return e.tool }

// SetTool switches tools, cancelling any in-progress drag.
func (e *Engine) SetTool(t Tool) {
	if t.IsShape() && !e.caps.ShapeTools {
		return
	}
	if t == ToolEyedropper && !e.caps.ColorPicker {
		return
	}
	e.cancelDrag()
	e.tool = t
}

// Color returns the active paint color.
func (e *Engine) Color() state.RGB { return e.color }

// SetColor sets the active paint color.
func (e *Engine) SetColor(c state.RGB) { e.color = c }

// BrushRadius returns the brush radius in cells.
func (e *Engine) BrushRadius() int { return e.brushRadius }

// SetBrushRadius sets the brush radius; negative values clamp to 0.
func (e *Engine) SetBrushRadius(r int) {
	if r < 0 {
		r = 0
	}
	e.brushRadius = r
}

// SetFillLimit overrides the flood-fill visit cap.
func (e *Engine) SetFillLimit(limit int) {
	if limit > 0 {
		e.fillLimit = limit
	}
}

// Drag returns the current drag state.
func (e *Engine) Drag() DragState { return e.drag }

// Draft returns the in-progress shape, or nil.
func (e *Engine) Draft() *ShapeDraft { return e.draft }

// Preview returns the floating image preview, or nil.
func (e *Engine) Preview() *ImagePreview { return e.preview }

// Hover returns the last hovered board cell.
func (e *Engine) Hover() (x, y int, ok bool) {
	return e.hoverX, e.hoverY, e.hasHover
}

// ColorAt resolves the visible color of a cell the way flood fill and the
// eyedropper see it: selected first, then indexed, else background.
func (e *Engine) ColorAt(x, y int) state.RGB {
	if p, ok := e.store.SelectedAt(x, y); ok {
		return p.Color()
	}
	if p, ok := e.store.IndexedAt(x, y); ok {
		return p.Color()
	}
	return e.background
}

// PointerDown starts a drag or fires a single-shot tool action.
func (e *Engine) PointerDown(sx, sy float64, btn Button, panModifier bool) {
	e.trackPointer(sx, sy)
	x, y := e.view.ScreenToCanvas(sx, sy)

	if e.caps.ImagePreview && e.preview != nil {
		if btn == ButtonPrimary && e.preview.Contains(x, y) {
			e.drag = DragPreview
			return
		}
	}

	if btn == ButtonMiddle || (btn == ButtonPrimary && (panModifier || e.tool == ToolPan)) {
		e.drag = DragPanning
		return
	}
	if btn != ButtonPrimary {
		return
	}

	if handler, ok := e.press[e.tool]; ok {
		handler(x, y)
	}
}

// PointerMove advances whatever drag is active and updates the hover cell.
func (e *Engine) PointerMove(sx, sy float64) {
	dxs := sx - e.lastScreenX
	dys := sy - e.lastScreenY
	prevX, prevY := e.view.ScreenToCanvas(e.lastScreenX, e.lastScreenY)
	e.trackPointer(sx, sy)
	x, y := e.view.ScreenToCanvas(sx, sy)

	switch e.drag {
	case DragPanning:
		e.view.Pan(dxs, dys)
	case DragPainting:
		// The brush lands only on reported samples; fast drags are not
		// back-filled with line segments.
		e.applyBrush(x, y)
	case DragShaping:
		if e.draft != nil {
			e.draft.EndX = clampInt(x, 0, e.bounds.W-1)
			e.draft.EndY = clampInt(y, 0, e.bounds.H-1)
		}
	case DragPreview:
		if e.preview != nil {
			e.preview.MoveBy(x-prevX, y-prevY, e.bounds)
		}
	}
}

// PointerUp finishes the active drag. A shape drag commits its rasterized
// pixels into the selection.
func (e *Engine) PointerUp() {
	if e.drag == DragShaping && e.draft != nil {
		d := e.draft
		pixels := e.rasterizeDraft(d)
		if e.store.AddSelected(pixels) > 0 {
			e.selectionChanged(pixels, nil)
		}
	}
	e.drag = DragIdle
	e.draft = nil
}

// PointerLeave cancels any drag without committing shape pixels.
func (e *Engine) PointerLeave() {
	e.cancelDrag()
	e.hasHover = false
}

// Wheel zooms at the pointer. Only the delta sign matters.
func (e *Engine) Wheel(sx, sy, delta float64) {
	e.view.ZoomWheel(sx, sy, delta)
}

// Commit moves the selection into pending and reports the batch.
func (e *Engine) Commit() {
	batch := e.store.Commit()
	if batch == nil {
		e.status("Nothing to commit")
		return
	}
	e.selectionChanged(nil, batch.Pixels)
	if e.OnCommit != nil {
		e.OnCommit(*batch)
	}
}

// ClearSelection drops all uncommitted edits.
func (e *Engine) ClearSelection() {
	dropped := e.store.SelectedPixels()
	e.store.ClearSelected()
	e.selectionChanged(nil, dropped)
}

// SetPreview places a floating image preview, centered on the board. Ignored
// when the preview capability is off or the preview does not fit the board.
func (e *Engine) SetPreview(p *ImagePreview) {
	if !e.caps.ImagePreview || p == nil {
		return
	}
	if p.Width > e.bounds.W || p.Height > e.bounds.H {
		e.status("Preview larger than the board")
		return
	}
	p.OffsetX = (e.bounds.W - p.Width) / 2
	p.OffsetY = (e.bounds.H - p.Height) / 2
	e.preview = p
}

// ConfirmPreview merges the preview's pixels into the selection and removes
// the preview.
func (e *Engine) ConfirmPreview() {
	if e.preview == nil {
		return
	}
	placed := e.preview.Placed()
	e.preview = nil
	if e.drag == DragPreview {
		e.drag = DragIdle
	}
	if e.store.AddSelected(placed) > 0 {
		e.selectionChanged(placed, nil)
	}
}

// CancelPreview discards the preview as a unit.
func (e *Engine) CancelPreview() {
	e.preview = nil
	if e.drag == DragPreview {
		e.drag = DragIdle
	}
}

// DraftPixels rasterizes the in-progress shape for the frame being drawn.
func (e *Engine) DraftPixels() []state.Pixel {
	if e.draft == nil {
		return nil
	}
	return e.rasterizeDraft(e.draft)
}

func (e *Engine) rasterizeDraft(d *ShapeDraft) []state.Pixel {
	switch d.Tool {
	case ToolLine:
		return Line(d.StartX, d.StartY, d.EndX, d.EndY, e.brushRadius, e.color, e.bounds)
	case ToolRect:
		return Rect(d.StartX, d.StartY, d.EndX, d.EndY, maxInt(1, e.brushRadius), e.color, e.bounds)
	case ToolCircle:
		return Circle(d.StartX, d.StartY, d.EndX, d.EndY, e.brushRadius, e.color, e.bounds)
	default:
		return nil
	}
}

func (e *Engine) pressPaint(x, y int) {
	e.drag = DragPainting
	e.applyBrush(x, y)
}

func (e *Engine) pressErase(x, y int) {
	e.drag = DragPainting
	e.applyBrush(x, y)
}

func (e *Engine) pressShape(x, y int) {
	cx := clampInt(x, 0, e.bounds.W-1)
	cy := clampInt(y, 0, e.bounds.H-1)
	e.drag = DragShaping
	e.draft = &ShapeDraft{Tool: e.tool, StartX: cx, StartY: cy, EndX: cx, EndY: cy}
}

func (e *Engine) pressSelect(x, y int) {
	if !e.bounds.Contains(x, y) {
		return
	}
	px := state.NewPixel(x, y, e.color)
	if e.store.ToggleSelected(px) {
		e.selectionChanged([]state.Pixel{px}, nil)
	} else {
		e.selectionChanged(nil, []state.Pixel{px})
	}
}

func (e *Engine) pressFill(x, y int) {
	pixels := FloodFill(x, y, e.color, e.ColorAt, e.fillLimit, e.bounds)
	if len(pixels) == 0 {
		return
	}
	if e.store.AddSelected(pixels) > 0 {
		log.Printf("[ENGINE] Flood fill selected %d pixel(s) from (%d,%d)", len(pixels), x, y)
		e.selectionChanged(pixels, nil)
	}
}

func (e *Engine) pressEyedropper(x, y int) {
	if !e.bounds.Contains(x, y) {
		return
	}
	picked := e.ColorAt(x, y)
	e.color = picked
	if e.OnColorPicked != nil {
		e.OnColorPicked(picked)
	}
}

func (e *Engine) applyBrush(x, y int) {
	mask := Brush(x, y, e.brushRadius, e.color, e.bounds)
	if e.tool == ToolErase {
		if e.store.RemoveSelected(mask) > 0 {
			e.selectionChanged(nil, mask)
		}
		return
	}
	if e.store.AddSelected(mask) > 0 {
		e.selectionChanged(mask, nil)
	}
}

func (e *Engine) trackPointer(sx, sy float64) {
	e.lastScreenX = sx
	e.lastScreenY = sy
	e.hoverX, e.hoverY = e.view.ScreenToCanvas(sx, sy)
	e.hasHover = true
}

func (e *Engine) cancelDrag() {
	e.drag = DragIdle
	e.draft = nil
}

func (e *Engine) selectionChanged(added, removed []state.Pixel) {
	if e.OnSelectionChanged != nil {
		e.OnSelectionChanged(added, removed)
	}
}

func (e *Engine) status(msg string) {
	if e.OnStatus != nil {
		e.OnStatus(msg)
	}
}
