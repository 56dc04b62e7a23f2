package worker

import (
	"fmt"
	"math"

	"colonysim.ai/internal/sim/grid"
)

// Orchestrator owns the worker roster. Iteration order is spawn order.
type Orchestrator struct {
	cfg Config
	env Env

	workers []*Worker
	byID    map[string]*Worker
	nextNum int

	// Buildings that asked for a worker while none was idle. They are not
	// retried; the list only feeds metrics and the observer.
	unattended []string
}

func NewOrchestrator(cfg Config, env Env) *Orchestrator {
	return &Orchestrator{
		cfg:  cfg,
		env:  env,
		byID: map[string]*Worker{},
	}
}

func (o *Orchestrator) Spawn(pos grid.Point) *Worker {
	o.nextNum++
	w := New(fmt.Sprintf("W%d", o.nextNum), pos, o.cfg, o.env)
	o.workers = append(o.workers, w)
	o.byID[w.ID] = w
	return w
}

// SpawnRing places count workers evenly on a circle around center.
func (o *Orchestrator) SpawnRing(count int, center grid.Point, radius float64) []*Worker {
	out := make([]*Worker, 0, max(count, 0))
	for i := 0; i < count; i++ {
		angle := float64(i) / float64(count) * 2 * math.Pi
		out = append(out, o.Spawn(grid.Point{
			X: center.X + math.Cos(angle)*radius,
			Y: center.Y + math.Sin(angle)*radius,
		}))
	}
	return out
}

// FreeWorker returns the first idle worker in roster order, or nil.
func (o *Orchestrator) FreeWorker() *Worker {
	for _, w := range o.workers {
		if w.IsIdle() {
			return w
		}
	}
	return nil
}

func (o *Orchestrator) FreeCount() int {
	n := 0
	for _, w := range o.workers {
		if w.IsIdle() {
			n++
		}
	}
	return n
}

// Assign hands site to the first idle worker. With none available the site
// is recorded as unattended and stays without a worker.
func (o *Orchestrator) Assign(site ProductionSite) (*Worker, bool) {
	w := o.FreeWorker()
	if w == nil {
		o.unattended = append(o.unattended, site.BuildingID())
		return nil, false
	}
	if !w.Assign(site) {
		return nil, false
	}
	return w, true
}

func (o *Orchestrator) Update(deltaMs float64) {
	for _, w := range o.workers {
		w.Update(deltaMs)
	}
}

// Reroute re-issues travel requests for every moving worker and returns how
// many were re-issued.
func (o *Orchestrator) Reroute() int {
	n := 0
	for _, w := range o.workers {
		if w.Reroute() {
			n++
		}
	}
	return n
}

func (o *Orchestrator) Workers() []*Worker {
	out := make([]*Worker, len(o.workers))
	copy(out, o.workers)
	return out
}

func (o *Orchestrator) Get(id string) (*Worker, bool) {
	w, ok := o.byID[id]
	return w, ok
}

func (o *Orchestrator) Len() int { return len(o.workers) }

func (o *Orchestrator) Unattended() []string {
	out := make([]string, len(o.unattended))
	copy(out, o.unattended)
	return out
}

// CountByState returns the number of workers in each occupied state.
func (o *Orchestrator) CountByState() map[State]int {
	out := map[State]int{}
	for _, w := range o.workers {
		out[w.State()]++
	}
	return out
}

// States lists every state in lifecycle order.
func States() []State {
	return []State{StateIdle, StateReturningToBuilding, StateProducing, StateCarryingToStorage, StateWaitingForStorage}
}

func (o *Orchestrator) StalePathsDropped() uint64 {
	var n uint64
	for _, w := range o.workers {
		n += w.StalePathsDropped()
	}
	return n
}
