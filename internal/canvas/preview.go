package canvas

import "github.com/anchor-btc/anchor-os-sub000/internal/state"

// ImagePreview is a floating block of already-decoded pixels (a pasted or
// imported image) that the user can drag around before confirming it into the
// selection or discarding it. Pixel coordinates are relative to the preview's
// own origin; OffsetX/OffsetY place that origin on the board.
type ImagePreview struct {
	Pixels  []state.Pixel
	OffsetX int
	OffsetY int
	Width   int
	Height  int
}

// NewImagePreview builds a preview from relative pixels. Pixels outside the
// declared width/height are dropped.
func NewImagePreview(pixels []state.Pixel, width, height int) *ImagePreview {
	if width <= 0 || height <= 0 {
		return nil
	}
	kept := make([]state.Pixel, 0, len(pixels))
	for _, p := range pixels {
		if p.X < 0 || p.X >= width || p.Y < 0 || p.Y >= height {
			continue
		}
		kept = append(kept, p)
	}
	return &ImagePreview{Pixels: kept, Width: width, Height: height}
}

// Contains reports whether the board cell (x, y) lies inside the preview's
// bounding box.
func (ip *ImagePreview) Contains(x, y int) bool {
	return x >= ip.OffsetX && x < ip.OffsetX+ip.Width &&
		y >= ip.OffsetY && y < ip.OffsetY+ip.Height
}

// MoveBy translates the preview, clamped so its bounding box stays on the
// board.
func (ip *ImagePreview) MoveBy(dx, dy int, b Bounds) {
	ip.OffsetX = clampInt(ip.OffsetX+dx, 0, b.W-ip.Width)
	ip.OffsetY = clampInt(ip.OffsetY+dy, 0, b.H-ip.Height)
}

// Placed returns the preview's pixels in board coordinates.
func (ip *ImagePreview) Placed() []state.Pixel {
	out := make([]state.Pixel, 0, len(ip.Pixels))
	for _, p := range ip.Pixels {
		out = append(out, state.NewPixel(p.X+ip.OffsetX, p.Y+ip.OffsetY, p.Color()))
	}
	return out
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
