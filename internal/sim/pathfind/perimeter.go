package pathfind

import "colonysim.ai/internal/sim/grid"

type walkable interface {
	IsWalkable(x, y int) bool
}

// PerimeterCell returns the first walkable cell in the ring one cell outside
// the footprint. Scan order is fixed: top edge left to right, bottom edge
// left to right (both including the corners), then left edge top to bottom
// and right edge top to bottom. First hit wins, not the nearest.
func PerimeterCell(g walkable, r grid.Rect) (grid.Cell, bool) {
	for _, c := range PerimeterCells(r) {
		if g.IsWalkable(c.X, c.Y) {
			return c, true
		}
	}
	return grid.Cell{}, false
}

// PerimeterCells lists the ring around r in scan order.
func PerimeterCells(r grid.Rect) []grid.Cell {
	out := make([]grid.Cell, 0, 2*(r.W+2)+2*r.H)
	for x := r.X - 1; x <= r.X+r.W; x++ {
		out = append(out, grid.Cell{X: x, Y: r.Y - 1})
	}
	for x := r.X - 1; x <= r.X+r.W; x++ {
		out = append(out, grid.Cell{X: x, Y: r.Y + r.H})
	}
	for y := r.Y; y < r.Y+r.H; y++ {
		out = append(out, grid.Cell{X: r.X - 1, Y: y})
	}
	for y := r.Y; y < r.Y+r.H; y++ {
		out = append(out, grid.Cell{X: r.X + r.W, Y: y})
	}
	return out
}
