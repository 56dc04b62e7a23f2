// Package world is the colony runtime: it owns the grid, the pathfinding
// engine, the building registry, the ledger and the worker roster, and
// advances them together one tick at a time.
package world

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"colonysim.ai/internal/sim/building"
	"colonysim.ai/internal/sim/catalogs"
	"colonysim.ai/internal/sim/grid"
	"colonysim.ai/internal/sim/ledger"
	"colonysim.ai/internal/sim/pathfind"
	"colonysim.ai/internal/sim/tuning"
	"colonysim.ai/internal/sim/worker"
)

type WorldConfig struct {
	// RunID identifies this run in logs and on the observer bootstrap. A
	// random id is generated when empty.
	RunID  string
	Tuning tuning.Tuning
}

// World is a single-threaded authoritative simulation.
// All state must be accessed only from the world loop goroutine.
type World struct {
	cfg      WorldConfig
	tn       tuning.Tuning
	catalogs *catalogs.Catalogs
	logger   *log.Logger

	tick  atomic.Uint64
	game  *GameMachine
	speed float64

	grid      *grid.Grid
	paths     *pathfind.Engine
	ledger    *ledger.Ledger
	buildings *building.Registry
	workers   *worker.Orchestrator

	inbox         chan CommandEnvelope
	observerJoin  chan ObserverJoinRequest
	observerSub   chan ObserverSubscribeRequest
	observerLeave chan string
	stop          chan struct{}
	stopOnce      sync.Once

	observers map[string]*observerClient

	// Optional loggers (may be nil). Implemented in internal/persistence/*.
	tickLogger  TickLogger
	auditLogger AuditLogger

	// Per-tick buffers, reset at the start of each step.
	audits        []AuditEntry
	ledgerChanges map[string]int
	gridVersion   uint64

	bootErr error

	deliveredTotal uint64
	noPathTotal    uint64
	siteLostTotal  uint64

	metrics atomic.Value
}

func New(cfg WorldConfig, cats *catalogs.Catalogs) (*World, error) {
	if cats == nil {
		return nil, fmt.Errorf("world: nil catalogs")
	}
	if err := cfg.Tuning.Validate(); err != nil {
		return nil, fmt.Errorf("world: %w", err)
	}
	if cfg.RunID == "" {
		cfg.RunID = uuid.NewString()
	}
	tn := cfg.Tuning

	known := make([]ledger.Resource, 0, len(cats.Resources.Palette))
	for _, r := range cats.Resources.Palette {
		known = append(known, ledger.Resource(r))
	}

	g := grid.New(tn.GridSize, tn.CellSize)
	w := &World{
		cfg:           cfg,
		tn:            tn,
		catalogs:      cats,
		speed:         tn.GameSpeeds[0],
		grid:          g,
		paths:         pathfind.NewEngine(g, pathfind.Config{MaxSearchesPerTick: tn.Pathfinding.MaxSearchesPerTick}),
		ledger:        ledger.New(known...),
		buildings:     building.NewRegistry(),
		inbox:         make(chan CommandEnvelope, 1024),
		observerJoin:  make(chan ObserverJoinRequest, 64),
		observerSub:   make(chan ObserverSubscribeRequest, 64),
		observerLeave: make(chan string, 64),
		stop:          make(chan struct{}),
		observers:     map[string]*observerClient{},
		ledgerChanges: map[string]int{},
	}
	w.workers = worker.NewOrchestrator(worker.Config{
		Speed:             tn.Worker.Speed,
		ArrivalThreshold:  tn.Worker.ArrivalThreshold,
		DiscardStalePaths: tn.Worker.DiscardStalePaths,
	}, worker.Env{
		Router:  w.paths,
		Storage: w.storageSite,
		Notify:  w.onWorkerNotice,
	})
	w.ledger.OnChange(func(r ledger.Resource, total int) {
		w.ledgerChanges[string(r)] = total
	})
	w.game = NewGameMachine(GameHooks{
		OnLoading: func() { w.bootErr = w.bootstrap() },
	})
	w.metrics.Store(WorldMetrics{})
	return w, nil
}

// Start takes the game from MENU through LOADING (which lays out the
// colony) to PLAYING.
func (w *World) Start() error {
	if !w.game.Send(GameStart) {
		return fmt.Errorf("world: start from phase %s", w.game.Phase())
	}
	if w.bootErr != nil {
		return fmt.Errorf("world: bootstrap: %w", w.bootErr)
	}
	w.game.Send(GameLoaded)
	w.logf("run %s started: %d buildings, %d workers", w.cfg.RunID, w.buildings.Len(), w.workers.Len())
	w.publishMetrics(w.tick.Load(), 0)
	return nil
}

func (w *World) SetLogger(l *log.Logger)      { w.logger = l }
func (w *World) SetTickLogger(l TickLogger)   { w.tickLogger = l }
func (w *World) SetAuditLogger(l AuditLogger) { w.auditLogger = l }

func (w *World) RunID() string { return w.cfg.RunID }

func (w *World) Tuning() tuning.Tuning { return w.tn }

func (w *World) Catalogs() *catalogs.Catalogs { return w.catalogs }

func (w *World) CurrentTick() uint64 { return w.tick.Load() }

func (w *World) Phase() Phase { return w.game.Phase() }

func (w *World) Speed() float64 { return w.speed }

// Grid, Buildings, Workers and Ledger expose live state for tests and the
// replay tool; use them only from the world goroutine.
func (w *World) Grid() *grid.Grid              { return w.grid }
func (w *World) Buildings() *building.Registry { return w.buildings }
func (w *World) Workers() *worker.Orchestrator { return w.workers }
func (w *World) Ledger() *ledger.Ledger        { return w.ledger }
func (w *World) PathStats() pathfind.Stats     { return w.paths.Stats() }

func (w *World) storageSite() (worker.StorageSite, bool) {
	b := w.buildings.Storage()
	if b == nil {
		return nil, false
	}
	return b, true
}

func (w *World) onWorkerNotice(n worker.Notice) {
	switch n.Kind {
	case worker.NoticeDelivered:
		w.deliveredTotal++
		w.audit(AuditEntry{Actor: n.WorkerID, Action: AuditDeliver, BuildingID: n.BuildingID, Resource: string(n.Resource), Count: 1})
	case worker.NoticeNoPath:
		w.noPathTotal++
		w.audit(AuditEntry{Actor: n.WorkerID, Action: AuditNoPath, BuildingID: n.BuildingID, Reason: string(n.State)})
		w.logf("worker %s: no path while %s (building %s)", n.WorkerID, n.State, n.BuildingID)
	case worker.NoticeSiteRemoved:
		w.siteLostTotal++
		w.audit(AuditEntry{Actor: n.WorkerID, Action: AuditSiteLost, BuildingID: n.BuildingID, Reason: string(n.State)})
		w.logf("worker %s: building %s was removed while %s", n.WorkerID, n.BuildingID, n.State)
	case worker.NoticeStalePath:
		w.logf("worker %s: dropped stale path while %s", n.WorkerID, n.State)
	}
}

func (w *World) audit(e AuditEntry) {
	e.Tick = w.tick.Load()
	w.audits = append(w.audits, e)
	if w.auditLogger != nil {
		_ = w.auditLogger.WriteAudit(e)
	}
}

func (w *World) logf(format string, args ...any) {
	if w.logger != nil {
		w.logger.Printf(format, args...)
	}
}
