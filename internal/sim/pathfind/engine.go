// Package pathfind resolves travel requests over a snapshot of the occupancy
// grid. Requests are queued and answered later through callbacks by
// Calculate, which the world calls once per tick on its own goroutine.
//
// A result reflects the snapshot taken by the Refresh that preceded the
// request, not the grid at delivery time: a path may cross a cell that was
// occupied in between, or detour around one that has since been freed.
package pathfind

import (
	"colonysim.ai/internal/sim/grid"
	"colonysim.ai/internal/sim/world/logic/movement"
)

// Path is an ordered list of world-space waypoints (cell centers).
type Path []grid.Point

// Callback receives the resolved path, or ok=false when no route exists.
type Callback func(p Path, ok bool)

// Target is anything with a grid footprint that can be walked up to.
type Target interface {
	Footprint() grid.Rect
}

type Config struct {
	// MaxSearchesPerTick caps the requests resolved by one Calculate call;
	// 0 drains the queue.
	MaxSearchesPerTick int
}

type Stats struct {
	Issued   uint64
	Resolved uint64
	NoPath   uint64
	Pending  int
}

type request struct {
	id    uint64
	snap  *grid.Snapshot
	start grid.Point
	end   grid.Point
	// unreachable short-circuits the search (no walkable perimeter cell).
	unreachable bool
	cb          Callback
}

type Engine struct {
	cfg  Config
	src  *grid.Grid
	snap *grid.Snapshot

	queue  []*request
	nextID uint64

	resolved uint64
	noPath   uint64
}

func NewEngine(g *grid.Grid, cfg Config) *Engine {
	e := &Engine{cfg: cfg, src: g}
	e.Refresh()
	return e
}

// Refresh resynchronizes the engine with the live grid. It must run after
// every placement or removal and before the next request.
func (e *Engine) Refresh() {
	e.snap = e.src.Snapshot()
}

// FindPath queues a search between two world points and returns its id.
func (e *Engine) FindPath(start, end grid.Point, cb Callback) uint64 {
	return e.enqueue(&request{snap: e.snap, start: start, end: end, cb: cb})
}

// FindPathToBuilding routes to the first walkable perimeter cell of the
// target. A fully enclosed target resolves to no path; the footprint itself
// is never used as a destination.
func (e *Engine) FindPathToBuilding(start grid.Point, t Target, cb Callback) uint64 {
	c, ok := PerimeterCell(e.snap, t.Footprint())
	if !ok {
		return e.enqueue(&request{snap: e.snap, start: start, unreachable: true, cb: cb})
	}
	return e.enqueue(&request{snap: e.snap, start: start, end: e.snap.GridToWorld(c), cb: cb})
}

// PerimeterCell uses the engine's current snapshot.
func (e *Engine) PerimeterCell(t Target) (grid.Cell, bool) {
	return PerimeterCell(e.snap, t.Footprint())
}

func (e *Engine) enqueue(r *request) uint64 {
	e.nextID++
	r.id = e.nextID
	e.queue = append(e.queue, r)
	return r.id
}

// Calculate resolves queued requests in issue order and fires their
// callbacks. Callbacks may queue new requests; those wait for the next call.
func (e *Engine) Calculate() int {
	n := len(e.queue)
	if e.cfg.MaxSearchesPerTick > 0 && n > e.cfg.MaxSearchesPerTick {
		n = e.cfg.MaxSearchesPerTick
	}
	if n == 0 {
		return 0
	}
	batch := make([]*request, n)
	copy(batch, e.queue[:n])
	e.queue = append(e.queue[:0], e.queue[n:]...)

	for _, r := range batch {
		p, ok := e.solve(r)
		e.resolved++
		if !ok {
			e.noPath++
		}
		if r.cb != nil {
			r.cb(p, ok)
		}
	}
	return n
}

func (e *Engine) solve(r *request) (Path, bool) {
	if r.unreachable {
		return nil, false
	}
	s := r.snap
	// Start is clamped so a worker nudged past the edge can still route;
	// the destination is not.
	from := s.Clamp(s.WorldToGrid(r.start))
	to := s.WorldToGrid(r.end)
	cells, ok := movement.FindPath(s, movement.Pos{X: from.X, Y: from.Y}, movement.Pos{X: to.X, Y: to.Y},
		movement.Options{Diagonals: true, CornerCutting: true})
	if !ok {
		return nil, false
	}
	out := make(Path, len(cells))
	for i, c := range cells {
		out[i] = s.GridToWorld(grid.Cell{X: c.X, Y: c.Y})
	}
	return out, true
}

func (e *Engine) Pending() int { return len(e.queue) }

func (e *Engine) Stats() Stats {
	return Stats{
		Issued:   e.nextID,
		Resolved: e.resolved,
		NoPath:   e.noPath,
		Pending:  len(e.queue),
	}
}
