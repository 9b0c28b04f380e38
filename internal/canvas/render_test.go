package canvas

import (
	"image/color"
	"testing"

	"github.com/anchor-btc/anchor-os-sub000/internal/state"
)

func renderEngine() *Engine {
	store := state.NewPixelStore(16, 16)
	view := NewViewport(0.5, 40)
	view.Zoom = 10 // one cell = 10x10 screen pixels, no offset
	return NewEngine(store, view, AllCapabilities(), state.RGB{R: 240, G: 240, B: 240})
}

func TestDrawIsDeterministic(t *testing.T) {
	e := renderEngine()
	e.Store().ApplySnapshot(map[string]state.Pixel{
		"1,1": state.NewPixel(1, 1, state.RGB{R: 255}),
		"2,3": state.NewPixel(2, 3, state.RGB{G: 255}),
	})
	e.Store().AddSelected([]state.Pixel{state.NewPixel(4, 4, state.RGB{B: 255})})

	r := NewRenderer(e.Background())
	a := r.Draw(e, 160, 160, 0.5)
	b := r.Draw(e, 160, 160, 0.5)

	if len(a.Pix) != len(b.Pix) {
		t.Fatal("frame sizes differ")
	}
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			t.Fatalf("frames differ at byte %d for identical state and phase", i)
		}
	}
}

func TestDrawIndexedPixelOpaque(t *testing.T) {
	e := renderEngine()
	e.Store().ApplySnapshot(map[string]state.Pixel{
		"1,1": state.NewPixel(1, 1, state.RGB{R: 255}),
	})

	r := NewRenderer(e.Background())
	frame := r.Draw(e, 160, 160, 0)

	// Center of cell (1,1) is screen (15,15).
	got := frame.RGBAAt(15, 15)
	if got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("indexed cell rendered %+v, want opaque red", got)
	}
	// An empty board cell shows the board color.
	if got := frame.RGBAAt(55, 55); got != (color.RGBA{R: 240, G: 240, B: 240, A: 255}) {
		// Grid lines may darken edges; (55,55) is a cell center so it must
		// be clean board color at zoom 10 with grid on.
		t.Errorf("empty cell rendered %+v, want board background", got)
	}
	// Outside the board (16 cells * zoom 10 = 160): backdrop.
	wide := r.Draw(e, 200, 200, 0)
	if got := wide.RGBAAt(190, 190); (got == color.RGBA{R: 240, G: 240, B: 240, A: 255}) {
		t.Error("backdrop area rendered as board background")
	}
}

func TestDrawSelectedIsTranslucent(t *testing.T) {
	e := renderEngine()
	e.Store().AddSelected([]state.Pixel{state.NewPixel(2, 2, state.RGB{})})

	r := NewRenderer(e.Background())
	frame := r.Draw(e, 160, 160, 0)

	got := frame.RGBAAt(25, 25)
	if got.R == 0 && got.G == 0 && got.B == 0 {
		t.Error("selected overlay rendered opaque; board background should show through")
	}
	if got.R == 240 {
		t.Error("selected overlay not visible at all")
	}
}

func TestPendingPulsesWithPhase(t *testing.T) {
	e := renderEngine()
	e.Store().AddSelected([]state.Pixel{state.NewPixel(3, 3, state.RGB{B: 255})})
	e.Store().Commit()

	r := NewRenderer(e.Background())
	dim := r.Draw(e, 160, 160, -1.5) // sin ~ -1
	bright := r.Draw(e, 160, 160, 1.5)

	a := dim.RGBAAt(35, 35)
	b := bright.RGBAAt(35, 35)
	if a == b {
		t.Error("pending overlay does not change with the pulse phase")
	}
	if b.B <= a.B {
		t.Errorf("pulse peak (B=%d) not brighter than trough (B=%d)", b.B, a.B)
	}
}

func TestPulseAlphaStaysInRange(t *testing.T) {
	for phase := -10.0; phase <= 10.0; phase += 0.1 {
		a := PulseAlpha(phase)
		if a < 60 || a > 240 {
			t.Fatalf("pulse alpha %d at phase %v out of the visible range", a, phase)
		}
	}
}

func TestCursorSuppressedWhilePreviewActive(t *testing.T) {
	e := renderEngine()
	e.SetTool(ToolPaint)
	r := NewRenderer(e.Background())

	plain := r.Draw(renderEngine(), 160, 160, 0)

	// Hover over cell (2,2); the brush cursor outlines its top-left corner.
	e.PointerMove(25, 25)
	withCursor := r.Draw(e, 160, 160, 0)
	if withCursor.RGBAAt(20, 20) == plain.RGBAAt(20, 20) {
		t.Fatal("hover cursor not drawn")
	}

	// A floating preview suppresses the cursor highlight entirely.
	e.SetPreview(NewImagePreview([]state.Pixel{state.NewPixel(0, 0, state.RGB{R: 9})}, 2, 2))
	suppressed := r.Draw(e, 160, 160, 0)
	if suppressed.RGBAAt(20, 20) != plain.RGBAAt(20, 20) {
		t.Error("cursor still drawn while an image preview is active")
	}
}

func TestTinyFrameDoesNotPanic(t *testing.T) {
	e := renderEngine()
	r := NewRenderer(e.Background())
	for _, size := range [][2]int{{0, 0}, {1, 1}, {3, 200}} {
		frame := r.Draw(e, size[0], size[1], 0)
		if frame == nil {
			t.Fatalf("nil frame for size %v", size)
		}
	}
}
