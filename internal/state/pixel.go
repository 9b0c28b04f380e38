package state

import "fmt"

// RGB is a pixel color. The board has no alpha channel; transparency only
// exists in the renderer's overlay compositing.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Pixel is one cell on the board.
type Pixel struct {
	X int   `json:"x"`
	Y int   `json:"y"`
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Key returns the canonical "x,y" index key for a coordinate.
func Key(x, y int) string {
	return fmt.Sprintf("%d,%d", x, y)
}

// Key returns the pixel's canonical index key.
func (p Pixel) Key() string {
	return Key(p.X, p.Y)
}

// Color returns the pixel's color.
func (p Pixel) Color() RGB {
	return RGB{R: p.R, G: p.G, B: p.B}
}

// NewPixel builds a pixel at (x, y) with color c.
func NewPixel(x, y int, c RGB) Pixel {
	return Pixel{X: x, Y: y, R: c.R, G: c.G, B: c.B}
}

// SameColor reports whether two pixels carry the same color, ignoring position.
func SameColor(a, b Pixel) bool {
	return a.R == b.R && a.G == b.G && a.B == b.B
}
