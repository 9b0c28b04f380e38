package canvas

import (
	"math"
	"sort"

	"github.com/anchor-btc/anchor-os-sub000/internal/state"
)

// DefaultFillLimit caps how many cells a single flood fill may visit. The
// truncation is silent and deterministic; it exists to bound worst-case
// latency on a uniform board, not to signal an error.
const DefaultFillLimit = 50000

// Bounds is the fixed board rectangle every rasterizer call clips against.
type Bounds struct {
	W int
	H int
}

// Contains reports whether (x, y) lies on the board.
func (b Bounds) Contains(x, y int) bool {
	return x >= 0 && x < b.W && y >= 0 && y < b.H
}

// pixelSet accumulates rasterizer output, one pixel per coordinate.
type pixelSet struct {
	pixels map[string]state.Pixel
}

func newPixelSet() *pixelSet {
	return &pixelSet{pixels: make(map[string]state.Pixel)}
}

func (ps *pixelSet) add(x, y int, c state.RGB, b Bounds) {
	if !b.Contains(x, y) {
		return
	}
	ps.pixels[state.Key(x, y)] = state.NewPixel(x, y, c)
}

// slice returns the set sorted row-major, so identical sets compare equal
// regardless of how they were traversed.
func (ps *pixelSet) slice() []state.Pixel {
	out := make([]state.Pixel, 0, len(ps.pixels))
	for _, p := range ps.pixels {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

// Brush returns the circular brush mask of the given radius centered on
// (cx, cy), clipped to the board. Radius 0 (or negative) is the single center
// cell.
func Brush(cx, cy, radius int, c state.RGB, b Bounds) []state.Pixel {
	ps := newPixelSet()
	stampBrush(ps, cx, cy, radius, c, b)
	return ps.slice()
}

func stampBrush(ps *pixelSet, cx, cy, radius int, c state.RGB, b Bounds) {
	if radius <= 0 {
		ps.add(cx, cy, c, b)
		return
	}
	// Include every offset within radius+0.5 of the center, which keeps the
	// mask visually round at small radii.
	limit := (float64(radius) + 0.5) * (float64(radius) + 0.5)
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if float64(dx*dx+dy*dy) <= limit {
				ps.add(cx+dx, cy+dy, c, b)
			}
		}
	}
}

// Line rasterizes the segment from (x0, y0) to (x1, y1) with Bresenham
// stepping, stamping the brush at every cell along the way. Swapping the
// endpoints yields the same pixel set.
func Line(x0, y0, x1, y1, radius int, c state.RGB, b Bounds) []state.Pixel {
	ps := newPixelSet()

	dx := absInt(x1 - x0)
	dy := -absInt(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	x, y := x0, y0
	for {
		stampBrush(ps, x, y, radius, c, b)
		if x == x1 && y == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
	return ps.slice()
}

// Rect rasterizes the border of the rectangle spanned by the two corners.
// A cell is included when it lies within thickness cells of any edge; the
// interior stays empty. Thickness below 1 is treated as 1.
func Rect(x0, y0, x1, y1, thickness int, c state.RGB, b Bounds) []state.Pixel {
	if thickness < 1 {
		thickness = 1
	}
	minX, maxX := minInt(x0, x1), maxInt(x0, x1)
	minY, maxY := minInt(y0, y1), maxInt(y0, y1)

	ps := newPixelSet()
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			onBorder := x-minX < thickness || maxX-x < thickness ||
				y-minY < thickness || maxY-y < thickness
			if onBorder {
				ps.add(x, y, c, b)
			}
		}
	}
	return ps.slice()
}

// Circle rasterizes a circle centered on (cx, cy) whose radius is the rounded
// distance to the edge point, using the midpoint algorithm with 8-way
// symmetry. The stroke is thickened by stamping the brush at each arc cell.
// Radius 0 degrades to the single center cell.
func Circle(cx, cy, edgeX, edgeY, stroke int, c state.RGB, b Bounds) []state.Pixel {
	dx := float64(edgeX - cx)
	dy := float64(edgeY - cy)
	radius := int(math.Round(math.Sqrt(dx*dx + dy*dy)))

	ps := newPixelSet()
	if radius == 0 {
		stampBrush(ps, cx, cy, stroke, c, b)
		return ps.slice()
	}

	x, y := radius, 0
	err := 1 - radius
	for x >= y {
		stampBrush(ps, cx+x, cy+y, stroke, c, b)
		stampBrush(ps, cx+y, cy+x, stroke, c, b)
		stampBrush(ps, cx-y, cy+x, stroke, c, b)
		stampBrush(ps, cx-x, cy+y, stroke, c, b)
		stampBrush(ps, cx-x, cy-y, stroke, c, b)
		stampBrush(ps, cx-y, cy-x, stroke, c, b)
		stampBrush(ps, cx+y, cy-x, stroke, c, b)
		stampBrush(ps, cx+x, cy-y, stroke, c, b)
		y++
		if err < 0 {
			err += 2*y + 1
		} else {
			x--
			err += 2*(y-x) + 1
		}
	}
	return ps.slice()
}

// FloodFill grows a 4-connected region from (startX, startY) over cells whose
// color (as reported by colorAt) matches the start cell, recoloring them to c.
// It returns an empty set when the start cell already has the target color.
// Growth visits neighbors in +x, -x, +y, -y order and stops silently once
// limit cells have been visited (limit <= 0 uses DefaultFillLimit).
func FloodFill(startX, startY int, c state.RGB, colorAt func(x, y int) state.RGB, limit int, b Bounds) []state.Pixel {
	if !b.Contains(startX, startY) {
		return nil
	}
	if limit <= 0 {
		limit = DefaultFillLimit
	}

	target := colorAt(startX, startY)
	if target == c {
		return nil
	}

	ps := newPixelSet()
	visited := map[string]bool{state.Key(startX, startY): true}
	queue := [][2]int{{startX, startY}}

	for len(queue) > 0 && len(ps.pixels) < limit {
		cell := queue[0]
		queue = queue[1:]
		x, y := cell[0], cell[1]
		ps.add(x, y, c, b)

		for _, n := range [4][2]int{{x + 1, y}, {x - 1, y}, {x, y + 1}, {x, y - 1}} {
			nx, ny := n[0], n[1]
			if !b.Contains(nx, ny) {
				continue
			}
			k := state.Key(nx, ny)
			if visited[k] {
				continue
			}
			if colorAt(nx, ny) != target {
				continue
			}
			visited[k] = true
			queue = append(queue, n)
		}
	}
	return ps.slice()
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
