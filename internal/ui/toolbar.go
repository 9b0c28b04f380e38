package ui

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	board "github.com/anchor-btc/anchor-os-sub000/internal/canvas"
	"github.com/anchor-btc/anchor-os-sub000/internal/state"
)

// colorSwatch is a tappable color square for the palette row.
type colorSwatch struct {
	widget.BaseWidget
	Color    state.RGB
	OnTapped func(state.RGB)
}

func newColorSwatch(c state.RGB, tapped func(state.RGB)) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := fynecanvas.NewRectangle(color.NRGBA{R: s.Color.R, G: s.Color.G, B: s.Color.B, A: 255})
	rect.SetMinSize(fyne.NewSize(26, 26))

	border := fynecanvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Color)
	}
}

// defaultPalette is the board's stock color row.
var defaultPalette = []state.RGB{
	{R: 0, G: 0, B: 0},
	{R: 255, G: 255, B: 255},
	{R: 229, G: 0, B: 0},
	{R: 255, G: 167, B: 27},
	{R: 229, G: 217, B: 0},
	{R: 2, G: 190, B: 1},
	{R: 0, G: 131, B: 199},
	{R: 130, G: 0, B: 128},
	{R: 136, G: 136, B: 136},
	{R: 129, G: 30, B: 159},
}

// NewToolbar builds the tool row for a board widget: tool buttons, color
// swatches, brush size, and the commit/clear actions.
func NewToolbar(b *BoardWidget, onCommit, onClear func()) fyne.CanvasObject {
	eng := b.Engine()

	tools := []struct {
		label string
		tool  board.Tool
	}{
		{"Select", board.ToolSelect},
		{"Paint", board.ToolPaint},
		{"Erase", board.ToolErase},
		{"Pan", board.ToolPan},
		{"Line", board.ToolLine},
		{"Rect", board.ToolRect},
		{"Circle", board.ToolCircle},
		{"Fill", board.ToolFill},
		{"Pick", board.ToolEyedropper},
	}

	toolRow := container.NewHBox()
	var toolButtons []*widget.Button
	for _, entry := range tools {
		tool := entry.tool
		btn := widget.NewButton(entry.label, nil)
		btn.OnTapped = func() {
			eng.SetTool(tool)
			for i, other := range toolButtons {
				if tools[i].tool == eng.Tool() {
					other.Importance = widget.HighImportance
				} else {
					other.Importance = widget.MediumImportance
				}
				other.Refresh()
			}
			b.Refresh()
		}
		if tool == eng.Tool() {
			btn.Importance = widget.HighImportance
		}
		toolButtons = append(toolButtons, btn)
		toolRow.Add(btn)
	}

	swatchRow := container.NewHBox()
	for _, c := range defaultPalette {
		swatchRow.Add(newColorSwatch(c, func(picked state.RGB) {
			eng.SetColor(picked)
		}))
	}

	sizeSlider := widget.NewSlider(0, 10)
	sizeSlider.SetValue(float64(eng.BrushRadius()))
	sizeSlider.OnChanged = func(v float64) {
		eng.SetBrushRadius(int(v))
	}
	sliderBox := container.New(layout.NewGridWrapLayout(fyne.NewSize(120, 35)), sizeSlider)

	commitBtn := widget.NewButton("Commit", onCommit)
	commitBtn.Importance = widget.HighImportance
	clearBtn := widget.NewButton("Clear", onClear)
	fitBtn := widget.NewButton("Fit", b.FitView)

	return container.NewHBox(
		toolRow,
		widget.NewSeparator(),
		swatchRow,
		widget.NewSeparator(),
		widget.NewLabel("Size:"),
		sliderBox,
		layout.NewSpacer(),
		fitBtn,
		clearBtn,
		commitBtn,
	)
}

// SelectionSummary is the status-bar text for the current layer counts.
func SelectionSummary(eng *board.Engine) string {
	indexed, selected, pending := eng.Store().Counts()
	return fmt.Sprintf("%d placed | %d selected | %d pending", indexed, selected, pending)
}
