package world

import "colonysim.ai/internal/sim/worker"

// WorldMetrics is a thread-safe read-only view of key world runtime signals.
// It is updated from the world loop goroutine and read from HTTP handlers/tests.
type WorldMetrics struct {
	Tick  uint64  `json:"tick"`
	Phase string  `json:"phase"`
	Speed float64 `json:"speed"`

	Buildings      int            `json:"buildings"`
	Workers        int            `json:"workers"`
	WorkersByState map[string]int `json:"workers_by_state"`
	Unattended     int            `json:"unattended"`
	Observers      int            `json:"observers"`

	// STATE frames skipped because an observer's buffer was full.
	ObserverStatesSkipped uint64 `json:"observer_states_skipped"`

	StorageAmount   int            `json:"storage_amount"`
	StorageCapacity int            `json:"storage_capacity"`
	Ledger          map[string]int `json:"ledger"`
	DeliveredTotal  uint64         `json:"delivered_total"`

	PathsIssued       uint64 `json:"paths_issued"`
	PathsNoPath       uint64 `json:"paths_no_path"`
	PathsPending      int    `json:"paths_pending"`
	StalePathsDropped uint64 `json:"stale_paths_dropped"`
	WorkersNoPath     uint64 `json:"workers_no_path"`
	WorkersSiteLost   uint64 `json:"workers_site_lost"`

	QueueDepths QueueDepths `json:"queue_depths"`

	StepMS float64 `json:"step_ms"`
}

type QueueDepths struct {
	Inbox         int `json:"inbox"`
	ObserverJoin  int `json:"observer_join"`
	ObserverLeave int `json:"observer_leave"`
}

func (w *World) Metrics() WorldMetrics {
	if w == nil {
		return WorldMetrics{}
	}
	v := w.metrics.Load()
	if v == nil {
		return WorldMetrics{}
	}
	m, ok := v.(WorldMetrics)
	if !ok {
		return WorldMetrics{}
	}
	return m
}

func (w *World) publishMetrics(tick uint64, stepMS float64) {
	byState := map[string]int{}
	for _, s := range worker.States() {
		byState[string(s)] = 0
	}
	for s, n := range w.workers.CountByState() {
		byState[string(s)] = n
	}
	ledger := map[string]int{}
	for r, n := range w.ledger.All() {
		ledger[string(r)] = n
	}

	m := WorldMetrics{
		Tick:              tick,
		Phase:             string(w.game.Phase()),
		Speed:             w.speed,
		Buildings:         w.buildings.Len(),
		Workers:           w.workers.Len(),
		WorkersByState:    byState,
		Unattended:        len(w.workers.Unattended()),
		Observers:         len(w.observers),
		Ledger:            ledger,
		DeliveredTotal:    w.deliveredTotal,
		StalePathsDropped: w.workers.StalePathsDropped(),
		WorkersNoPath:     w.noPathTotal,
		WorkersSiteLost:   w.siteLostTotal,
		QueueDepths: QueueDepths{
			Inbox:         len(w.inbox),
			ObserverJoin:  len(w.observerJoin),
			ObserverLeave: len(w.observerLeave),
		},
		StepMS: stepMS,
	}
	m.ObserverStatesSkipped = w.observerStatesSkipped()
	if st := w.buildings.Storage(); st != nil && st.Storage != nil {
		m.StorageAmount = st.Storage.CurrentAmount()
		m.StorageCapacity = st.Storage.MaxCapacity
	}
	ps := w.paths.Stats()
	m.PathsIssued = ps.Issued
	m.PathsNoPath = ps.NoPath
	m.PathsPending = ps.Pending
	w.metrics.Store(m)
}
