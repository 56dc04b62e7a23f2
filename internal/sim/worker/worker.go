// Package worker implements the colony worker: a lifecycle state machine,
// a constant-speed path follower, and the roster that hands idle workers to
// new production buildings.
package worker

import (
	"colonysim.ai/internal/sim/grid"
	"colonysim.ai/internal/sim/ledger"
	"colonysim.ai/internal/sim/pathfind"
)

// ProductionSite is what a worker needs from the building it serves.
type ProductionSite interface {
	pathfind.Target
	BuildingID() string
	StartProduction()
	HasResourceReady() bool
	CollectResource() (ledger.Resource, bool)
	AssignWorker(id string)
}

// removable is implemented by sites that can leave the colony while a worker
// still serves them.
type removable interface {
	IsRemoved() bool
}

// StorageSite is what a worker needs from the colony storage.
type StorageSite interface {
	pathfind.Target
	BuildingID() string
	HasSpace() bool
	ReceiveResource(r ledger.Resource) bool
}

type Router interface {
	FindPathToBuilding(start grid.Point, t pathfind.Target, cb pathfind.Callback) uint64
}

type Config struct {
	Speed             float64 // world units per second
	ArrivalThreshold  float64
	DiscardStalePaths bool
}

type NoticeKind string

const (
	NoticeStateChanged NoticeKind = "STATE_CHANGED"
	NoticeDelivered    NoticeKind = "DELIVERED"
	NoticeNoPath       NoticeKind = "NO_PATH"
	NoticeStalePath    NoticeKind = "STALE_PATH"
	NoticeSiteRemoved  NoticeKind = "SITE_REMOVED"
)

type Notice struct {
	Kind       NoticeKind
	WorkerID   string
	From       State
	State      State
	BuildingID string
	Resource   ledger.Resource
}

// Env wires a worker to the rest of the world. Storage reports false when
// the colony has no storage building.
type Env struct {
	Router  Router
	Storage func() (StorageSite, bool)
	Notify  func(Notice)
}

type travelState int

const (
	travelNone travelState = iota
	travelPending
	travelReady
	travelUnreachable
)

func (t travelState) String() string {
	switch t {
	case travelPending:
		return "PENDING"
	case travelReady:
		return "READY"
	case travelUnreachable:
		return "UNREACHABLE"
	default:
		return "NONE"
	}
}

type Worker struct {
	ID string

	cfg Config
	env Env

	pos     grid.Point
	machine *Machine
	site    ProductionSite
	carried ledger.Resource

	path      pathfind.Path
	pathIndex int
	travel    travelState
	// travelGen numbers travel requests; a callback carrying an older number
	// belongs to an abandoned intent.
	travelGen uint64

	staleDropped uint64
	// siteLost latches once the assigned site is reported removed.
	siteLost bool
}

func New(id string, pos grid.Point, cfg Config, env Env) *Worker {
	w := &Worker{ID: id, cfg: cfg, env: env, pos: pos}
	w.machine = NewMachine(Actions{
		GoToBuilding:          w.goToBuilding,
		StartProduction:       w.startProduction,
		CollectAndGoToStorage: w.collectAndGoToStorage,
		DeliverResource:       w.deliverResource,
		StorageHasSpace:       w.storageHasSpace,
	})
	return w
}

func (w *Worker) Pos() grid.Point           { return w.pos }
func (w *Worker) State() State              { return w.machine.State() }
func (w *Worker) Site() ProductionSite      { return w.site }
func (w *Worker) IsIdle() bool              { return w.machine.State() == StateIdle }
func (w *Worker) TravelStatus() string      { return w.travel.String() }
func (w *Worker) StalePathsDropped() uint64 { return w.staleDropped }
func (w *Worker) SiteLost() bool            { return w.siteLost }

// Carried returns the resource in hand, if any.
func (w *Worker) Carried() (ledger.Resource, bool) {
	return w.carried, w.carried != ""
}

// RemainingPath returns the waypoints not yet reached.
func (w *Worker) RemainingPath() pathfind.Path {
	if w.travel != travelReady || w.pathIndex >= len(w.path) {
		return nil
	}
	out := make(pathfind.Path, len(w.path)-w.pathIndex)
	copy(out, w.path[w.pathIndex:])
	return out
}

// Assign binds the worker to site and starts its loop. Only an idle worker
// can be assigned.
func (w *Worker) Assign(site ProductionSite) bool {
	if !w.IsIdle() || site == nil {
		return false
	}
	w.site = site
	site.AssignWorker(w.ID)
	return w.send(EventAssign)
}

// Reroute re-issues the travel request of a moving worker so the new path is
// computed against the current grid. Any request still in flight becomes
// stale. Workers that are not travelling are left alone.
func (w *Worker) Reroute() bool {
	switch w.machine.State() {
	case StateReturningToBuilding:
		if w.site == nil {
			return false
		}
		w.requestPath(w.site)
		return true
	case StateCarryingToStorage:
		st, ok := w.storage()
		if !ok {
			return false
		}
		w.requestPath(st)
		return true
	}
	return false
}

// Update advances the worker by one tick. Waiting states poll their
// condition and feed at most one derived event.
func (w *Worker) Update(deltaMs float64) {
	if !w.siteLost {
		if r, ok := w.site.(removable); ok && r.IsRemoved() {
			// The worker keeps its loop; it is reported once.
			w.siteLost = true
			w.notify(Notice{Kind: NoticeSiteRemoved, State: w.machine.State()})
		}
	}
	switch w.machine.State() {
	case StateProducing:
		if w.site != nil && w.site.HasResourceReady() {
			w.send(EventResourceReady)
		}
	case StateReturningToBuilding, StateCarryingToStorage:
		w.followPath(deltaMs)
	case StateWaitingForStorage:
		if st, ok := w.storage(); ok && st.HasSpace() {
			w.send(EventStorageSpace)
		}
	}
}

func (w *Worker) send(ev Event) bool {
	from := w.machine.State()
	handled := w.machine.Send(ev)
	if handled && w.machine.State() != from {
		w.notify(Notice{Kind: NoticeStateChanged, From: from, State: w.machine.State()})
	}
	return handled
}

func (w *Worker) followPath(deltaMs float64) {
	// Never synthesize an arrival while the request is in flight or failed.
	if w.travel != travelReady {
		return
	}
	if len(w.path) == 0 {
		w.arrive()
		return
	}

	target := w.path[w.pathIndex]
	dist := w.pos.Dist(target)
	if dist < w.cfg.ArrivalThreshold {
		w.pathIndex++
		if w.pathIndex >= len(w.path) {
			w.arrive()
		}
		return
	}

	step := w.cfg.Speed * (deltaMs / 1000)
	if step <= 0 {
		return
	}
	if step >= dist {
		w.pos = target
		return
	}
	ratio := step / dist
	w.pos.X += (target.X - w.pos.X) * ratio
	w.pos.Y += (target.Y - w.pos.Y) * ratio
}

func (w *Worker) arrive() {
	w.clearPath()
	w.send(EventArrived)
}

func (w *Worker) clearPath() {
	w.path = nil
	w.pathIndex = 0
	w.travel = travelNone
}

func (w *Worker) requestPath(t pathfind.Target) {
	w.travelGen++
	gen := w.travelGen
	w.clearPath()
	w.travel = travelPending
	w.env.Router.FindPathToBuilding(w.pos, t, func(p pathfind.Path, ok bool) {
		w.onPath(gen, p, ok)
	})
}

func (w *Worker) onPath(gen uint64, p pathfind.Path, ok bool) {
	if gen != w.travelGen {
		if w.cfg.DiscardStalePaths {
			w.staleDropped++
			w.notify(Notice{Kind: NoticeStalePath, State: w.machine.State()})
			return
		}
		// Overwrite mode: a late success replaces whatever the worker holds.
		if !ok {
			return
		}
	}
	if !ok {
		w.clearPath()
		w.travel = travelUnreachable
		w.notify(Notice{Kind: NoticeNoPath, State: w.machine.State()})
		return
	}
	w.path = p
	w.pathIndex = 0
	w.travel = travelReady
}

func (w *Worker) storage() (StorageSite, bool) {
	if w.env.Storage == nil {
		return nil, false
	}
	return w.env.Storage()
}

func (w *Worker) notify(n Notice) {
	if w.env.Notify == nil {
		return
	}
	n.WorkerID = w.ID
	if n.BuildingID == "" && w.site != nil {
		n.BuildingID = w.site.BuildingID()
	}
	w.env.Notify(n)
}

// Machine actions.

func (w *Worker) goToBuilding() {
	if w.site == nil {
		w.clearPath()
		return
	}
	w.requestPath(w.site)
}

func (w *Worker) startProduction() {
	w.clearPath()
	if w.site != nil {
		w.site.StartProduction()
	}
}

func (w *Worker) collectAndGoToStorage() {
	if w.site != nil {
		if r, ok := w.site.CollectResource(); ok {
			w.carried = r
		}
	}
	st, ok := w.storage()
	if !ok {
		// No storage in the colony: the worker holds its unit and parks.
		w.clearPath()
		return
	}
	w.requestPath(st)
}

func (w *Worker) deliverResource() {
	st, ok := w.storage()
	if !ok || w.carried == "" {
		return
	}
	r := w.carried
	if st.ReceiveResource(r) {
		w.carried = ""
		w.notify(Notice{Kind: NoticeDelivered, State: w.machine.State(), BuildingID: st.BuildingID(), Resource: r})
	}
}

func (w *Worker) storageHasSpace() bool {
	st, ok := w.storage()
	return ok && st.HasSpace()
}
