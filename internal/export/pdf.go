// Package export renders a board to a PDF page.
package export

import (
	"fmt"
	"io"
	"sort"

	"github.com/jung-kurt/gofpdf"

	"github.com/anchor-btc/anchor-os-sub000/internal/state"
)

// A4 drawable area in millimetres, inside a 10mm margin.
const (
	pageWidth  = 190.0
	pageHeight = 277.0
	margin     = 10.0
)

// WritePDF draws the given pixels as filled squares scaled to fit one A4
// page. Pixels are sorted row-major first so the output bytes are stable for
// a given board.
func WritePDF(w io.Writer, pixels []state.Pixel, boardWidth, boardHeight int) error {
	if boardWidth <= 0 || boardHeight <= 0 {
		return fmt.Errorf("export: bad board size %dx%d", boardWidth, boardHeight)
	}

	sorted := make([]state.Pixel, len(pixels))
	copy(sorted, pixels)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y < sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	cell := pageWidth / float64(boardWidth)
	if h := pageHeight / float64(boardHeight); h < cell {
		cell = h
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// Board outline so an empty board still exports something visible.
	pdf.SetDrawColor(120, 120, 120)
	pdf.SetLineWidth(0.2)
	pdf.Rect(margin, margin, cell*float64(boardWidth), cell*float64(boardHeight), "D")

	for _, p := range sorted {
		pdf.SetFillColor(int(p.R), int(p.G), int(p.B))
		pdf.Rect(margin+float64(p.X)*cell, margin+float64(p.Y)*cell, cell, cell, "F")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}
