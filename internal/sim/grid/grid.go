// Package grid holds the square walkable/blocked occupancy map the colony is
// built on, plus the fixed affine transform between world and grid space.
package grid

import "math"

// Point is a continuous world-space position.
type Point struct {
	X float64
	Y float64
}

func (p Point) Dist(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// Cell is an integer grid coordinate.
type Cell struct {
	X int
	Y int
}

// Rect is a footprint in grid space: top-left cell plus size in cells.
type Rect struct {
	X, Y int
	W, H int
}

func (r Rect) Contains(c Cell) bool {
	return c.X >= r.X && c.X < r.X+r.W && c.Y >= r.Y && c.Y < r.Y+r.H
}

const (
	walkable uint8 = 0
	blocked  uint8 = 1
)

type Grid struct {
	size     int
	cellSize float64
	cells    []uint8 // row-major, size*size
}

func New(size int, cellSize float64) *Grid {
	if size < 0 {
		size = 0
	}
	return &Grid{
		size:     size,
		cellSize: cellSize,
		cells:    make([]uint8, size*size),
	}
}

func (g *Grid) Size() int          { return g.size }
func (g *Grid) CellSize() float64  { return g.cellSize }
func (g *Grid) WorldSize() float64 { return float64(g.size) * g.cellSize }

func (g *Grid) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.size && y < g.size
}

// IsAreaFree reports whether every cell of the rectangle is inside the grid
// and walkable.
func (g *Grid) IsAreaFree(x, y, w, h int) bool {
	if w <= 0 || h <= 0 {
		return false
	}
	if x < 0 || y < 0 || x+w > g.size || y+h > g.size {
		return false
	}
	for cy := y; cy < y+h; cy++ {
		row := cy * g.size
		for cx := x; cx < x+w; cx++ {
			if g.cells[row+cx] != walkable {
				return false
			}
		}
	}
	return true
}

func (g *Grid) OccupyArea(x, y, w, h int) { g.fill(x, y, w, h, blocked) }
func (g *Grid) FreeArea(x, y, w, h int)   { g.fill(x, y, w, h, walkable) }

// fill flips the rectangle unconditionally; cells outside the grid are skipped.
func (g *Grid) fill(x, y, w, h int, v uint8) {
	x0, y0 := max(x, 0), max(y, 0)
	x1, y1 := min(x+w, g.size), min(y+h, g.size)
	for cy := y0; cy < y1; cy++ {
		row := cy * g.size
		for cx := x0; cx < x1; cx++ {
			g.cells[row+cx] = v
		}
	}
}

func (g *Grid) IsWalkable(x, y int) bool {
	if !g.inBounds(x, y) {
		return false
	}
	return g.cells[y*g.size+x] == walkable
}

func (g *Grid) WorldToGrid(p Point) Cell {
	return Cell{
		X: int(math.Floor(p.X / g.cellSize)),
		Y: int(math.Floor(p.Y / g.cellSize)),
	}
}

// GridToWorld returns the world-space center of the cell.
func (g *Grid) GridToWorld(c Cell) Point {
	return Point{
		X: float64(c.X)*g.cellSize + g.cellSize/2,
		Y: float64(c.Y)*g.cellSize + g.cellSize/2,
	}
}

// Clamp pulls c onto the nearest in-bounds cell.
func (g *Grid) Clamp(c Cell) Cell {
	if g.size == 0 {
		return Cell{}
	}
	return Cell{X: clampInt(c.X, 0, g.size-1), Y: clampInt(c.Y, 0, g.size-1)}
}

// BlockedCount is the number of BLOCKED cells.
func (g *Grid) BlockedCount() int {
	n := 0
	for _, v := range g.cells {
		if v == blocked {
			n++
		}
	}
	return n
}

// Cells returns a row-major copy of the occupancy, one byte per cell
// (0 walkable, 1 blocked).
func (g *Grid) Cells() []uint8 {
	out := make([]uint8, len(g.cells))
	copy(out, g.cells)
	return out
}

// Snapshot copies the current occupancy into an immutable view.
func (g *Grid) Snapshot() *Snapshot {
	cells := make([]uint8, len(g.cells))
	copy(cells, g.cells)
	return &Snapshot{size: g.size, cellSize: g.cellSize, cells: cells}
}

// Snapshot is a read-only copy of a Grid taken at a point in time.
type Snapshot struct {
	size     int
	cellSize float64
	cells    []uint8
}

func (s *Snapshot) Size() int { return s.size }

func (s *Snapshot) IsWalkable(x, y int) bool {
	if x < 0 || y < 0 || x >= s.size || y >= s.size {
		return false
	}
	return s.cells[y*s.size+x] == walkable
}

func (s *Snapshot) WorldToGrid(p Point) Cell {
	return Cell{
		X: int(math.Floor(p.X / s.cellSize)),
		Y: int(math.Floor(p.Y / s.cellSize)),
	}
}

func (s *Snapshot) GridToWorld(c Cell) Point {
	return Point{
		X: float64(c.X)*s.cellSize + s.cellSize/2,
		Y: float64(c.Y)*s.cellSize + s.cellSize/2,
	}
}

func (s *Snapshot) Clamp(c Cell) Cell {
	if s.size == 0 {
		return Cell{}
	}
	return Cell{X: clampInt(c.X, 0, s.size-1), Y: clampInt(c.Y, 0, s.size-1)}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
