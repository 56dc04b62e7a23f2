package main

import (
	"strings"
	"testing"

	"colonysim.ai/internal/sim/world"
)

func TestWriteMetrics(t *testing.T) {
	m := world.WorldMetrics{
		Tick:           42,
		Phase:          "PLAYING",
		Speed:          2,
		Buildings:      4,
		WorkersByState: map[string]int{"IDLE": 3, "PRODUCING": 1},
		Ledger:         map[string]int{"TOMATO": 5, "CARROT": 2},
		StepMS:         0.5,

		ObserverStatesSkipped: 4,
		WorkersSiteLost:       1,
	}
	var b strings.Builder
	writeMetrics(&b, "r1", m, serverStats{Sessions: 2, JournalTicks: 42, JournalAudits: 7}, &indexStats{QueueCapacity: 10, DropAuditTotal: 3})
	out := b.String()

	for _, want := range []string{
		`colonysim_tick{run="r1"} 42`,
		`colonysim_phase{run="r1",phase="PLAYING"} 1`,
		`colonysim_speed{run="r1"} 2`,
		`colonysim_workers{run="r1",state="IDLE"} 3`,
		`colonysim_workers{run="r1",state="WAITING_FOR_STORAGE"} 0`,
		`colonysim_ledger{run="r1",resource="TOMATO"} 5`,
		`colonysim_ws_sessions{run="r1"} 2`,
		`colonysim_observer_states_skipped{run="r1"} 4`,
		`colonysim_workers_site_lost_total{run="r1"} 1`,
		`colonysim_journal_entries_total{run="r1",stream="audit"} 7`,
		`colonysim_index_dropped_total{run="r1",kind="audit"} 3`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Index(out, `resource="CARROT"`) > strings.Index(out, `resource="TOMATO"`) {
		t.Fatalf("ledger lines not sorted")
	}
}

func TestWriteMetrics_NoIndex(t *testing.T) {
	var b strings.Builder
	writeMetrics(&b, "r1", world.WorldMetrics{}, serverStats{}, nil)
	if strings.Contains(b.String(), "colonysim_index_") {
		t.Fatalf("index metrics written without an index")
	}
}

func TestEnvBool(t *testing.T) {
	t.Setenv("COLONY_TEST_FLAG", "off")
	if envBool("COLONY_TEST_FLAG", true) {
		t.Fatalf("off should be false")
	}
	t.Setenv("COLONY_TEST_FLAG", "")
	if !envBool("COLONY_TEST_FLAG", true) {
		t.Fatalf("empty should use default")
	}
}
