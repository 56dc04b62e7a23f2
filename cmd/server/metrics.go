package main

import (
	"fmt"
	"io"
	"sort"

	"colonysim.ai/internal/sim/worker"
	"colonysim.ai/internal/sim/world"
)

// serverStats are the counters owned by main rather than the world loop.
type serverStats struct {
	Sessions      int
	JournalTicks  uint64
	JournalAudits uint64
}

// writeMetrics renders the Prometheus text exposition format.
func writeMetrics(out io.Writer, runID string, m world.WorldMetrics, srv serverStats, idx *indexStats) {
	gauge := func(name, help string) {
		fmt.Fprintf(out, "# HELP %s %s\n", name, help)
		fmt.Fprintf(out, "# TYPE %s gauge\n", name)
	}
	counter := func(name, help string) {
		fmt.Fprintf(out, "# HELP %s %s\n", name, help)
		fmt.Fprintf(out, "# TYPE %s counter\n", name)
	}

	gauge("colonysim_tick", "Current simulation tick.")
	fmt.Fprintf(out, "colonysim_tick{run=%q} %d\n", runID, m.Tick)

	gauge("colonysim_phase", "1 for the current game phase.")
	fmt.Fprintf(out, "colonysim_phase{run=%q,phase=%q} 1\n", runID, m.Phase)

	gauge("colonysim_speed", "Current game speed multiplier.")
	fmt.Fprintf(out, "colonysim_speed{run=%q} %g\n", runID, m.Speed)

	gauge("colonysim_buildings", "Placed buildings.")
	fmt.Fprintf(out, "colonysim_buildings{run=%q} %d\n", runID, m.Buildings)

	gauge("colonysim_workers", "Workers per lifecycle state.")
	for _, s := range worker.States() {
		fmt.Fprintf(out, "colonysim_workers{run=%q,state=%q} %d\n", runID, s, m.WorkersByState[string(s)])
	}

	gauge("colonysim_unattended_buildings", "Production buildings placed with no free worker.")
	fmt.Fprintf(out, "colonysim_unattended_buildings{run=%q} %d\n", runID, m.Unattended)

	gauge("colonysim_storage_amount", "Units held in colony storage.")
	fmt.Fprintf(out, "colonysim_storage_amount{run=%q} %d\n", runID, m.StorageAmount)
	gauge("colonysim_storage_capacity", "Colony storage capacity.")
	fmt.Fprintf(out, "colonysim_storage_capacity{run=%q} %d\n", runID, m.StorageCapacity)

	gauge("colonysim_ledger", "Delivered units per resource.")
	resources := make([]string, 0, len(m.Ledger))
	for r := range m.Ledger {
		resources = append(resources, r)
	}
	sort.Strings(resources)
	for _, r := range resources {
		fmt.Fprintf(out, "colonysim_ledger{run=%q,resource=%q} %d\n", runID, r, m.Ledger[r])
	}

	counter("colonysim_delivered_total", "Deliveries into storage.")
	fmt.Fprintf(out, "colonysim_delivered_total{run=%q} %d\n", runID, m.DeliveredTotal)

	counter("colonysim_paths_issued_total", "Path requests issued.")
	fmt.Fprintf(out, "colonysim_paths_issued_total{run=%q} %d\n", runID, m.PathsIssued)
	counter("colonysim_paths_no_path_total", "Path requests with no route.")
	fmt.Fprintf(out, "colonysim_paths_no_path_total{run=%q} %d\n", runID, m.PathsNoPath)
	gauge("colonysim_paths_pending", "Path requests waiting for resolution.")
	fmt.Fprintf(out, "colonysim_paths_pending{run=%q} %d\n", runID, m.PathsPending)
	counter("colonysim_stale_paths_dropped_total", "Path results discarded as superseded.")
	fmt.Fprintf(out, "colonysim_stale_paths_dropped_total{run=%q} %d\n", runID, m.StalePathsDropped)
	counter("colonysim_workers_no_path_total", "Worker travel requests that found no route.")
	fmt.Fprintf(out, "colonysim_workers_no_path_total{run=%q} %d\n", runID, m.WorkersNoPath)
	counter("colonysim_workers_site_lost_total", "Workers whose production building was removed under them.")
	fmt.Fprintf(out, "colonysim_workers_site_lost_total{run=%q} %d\n", runID, m.WorkersSiteLost)

	gauge("colonysim_observers", "Observer sessions attached to the world loop.")
	fmt.Fprintf(out, "colonysim_observers{run=%q} %d\n", runID, m.Observers)
	gauge("colonysim_observer_states_skipped", "STATE frames skipped for attached observers with a full buffer.")
	fmt.Fprintf(out, "colonysim_observer_states_skipped{run=%q} %d\n", runID, m.ObserverStatesSkipped)
	gauge("colonysim_ws_sessions", "Open observer websocket connections.")
	fmt.Fprintf(out, "colonysim_ws_sessions{run=%q} %d\n", runID, srv.Sessions)

	counter("colonysim_journal_entries_total", "Entries appended to the run journal.")
	fmt.Fprintf(out, "colonysim_journal_entries_total{run=%q,stream=%q} %d\n", runID, "ticks", srv.JournalTicks)
	fmt.Fprintf(out, "colonysim_journal_entries_total{run=%q,stream=%q} %d\n", runID, "audit", srv.JournalAudits)

	gauge("colonysim_queue_depth", "Channel backlog depth.")
	fmt.Fprintf(out, "colonysim_queue_depth{run=%q,queue=%q} %d\n", runID, "inbox", m.QueueDepths.Inbox)
	fmt.Fprintf(out, "colonysim_queue_depth{run=%q,queue=%q} %d\n", runID, "observer_join", m.QueueDepths.ObserverJoin)
	fmt.Fprintf(out, "colonysim_queue_depth{run=%q,queue=%q} %d\n", runID, "observer_leave", m.QueueDepths.ObserverLeave)

	gauge("colonysim_step_ms", "Last tick step duration in milliseconds.")
	fmt.Fprintf(out, "colonysim_step_ms{run=%q} %.3f\n", runID, m.StepMS)

	if idx == nil {
		return
	}
	gauge("colonysim_index_queue_depth", "SQLite index writer backlog.")
	fmt.Fprintf(out, "colonysim_index_queue_depth{run=%q} %d\n", runID, idx.QueueDepth)
	gauge("colonysim_index_queue_capacity", "SQLite index writer queue capacity.")
	fmt.Fprintf(out, "colonysim_index_queue_capacity{run=%q} %d\n", runID, idx.QueueCapacity)
	counter("colonysim_index_dropped_total", "Index entries dropped because the writer fell behind.")
	fmt.Fprintf(out, "colonysim_index_dropped_total{run=%q,kind=%q} %d\n", runID, "tick", idx.DropTickTotal)
	fmt.Fprintf(out, "colonysim_index_dropped_total{run=%q,kind=%q} %d\n", runID, "audit", idx.DropAuditTotal)
	counter("colonysim_index_write_errors_total", "Failed index transactions.")
	fmt.Fprintf(out, "colonysim_index_write_errors_total{run=%q} %d\n", runID, idx.WriteErrTotal)
}
