package world

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"colonysim.ai/internal/protocol"
	"colonysim.ai/internal/sim/catalogs"
	"colonysim.ai/internal/sim/tuning"
	"colonysim.ai/internal/sim/worker"
)

func repoCatalogs(t *testing.T) *catalogs.Catalogs {
	t.Helper()
	cats, err := catalogs.Load(filepath.Join("..", "..", "..", "configs"))
	require.NoError(t, err)
	return cats
}

// smallStorageCatalogs mirrors the repo catalog with a two-unit storage.
func smallStorageCatalogs(t *testing.T) *catalogs.Catalogs {
	t.Helper()
	cats, err := catalogs.Parse([]byte(`{
	  "resources": ["TOMATO", "CARROT"],
	  "buildings": [
	    {"type": "CASTLE", "name": "Castle", "width": 3, "height": 3},
	    {"type": "STORAGE", "name": "Storage", "width": 2, "height": 2, "storage_capacity": 2},
	    {"type": "CAMPFIRE", "name": "Campfire", "width": 1, "height": 1},
	    {"type": "GREENHOUSE", "name": "Greenhouse", "width": 3, "height": 1, "placeable": true,
	     "production": {"time_ms": 2000, "resource": "TOMATO"}},
	    {"type": "GARDEN_BED", "name": "Garden bed", "width": 2, "height": 2, "placeable": true,
	     "production": {"time_ms": 3000, "resource": "CARROT"}}
	  ]
	}`))
	require.NoError(t, err)
	return cats
}

func newWorld(t *testing.T, cats *catalogs.Catalogs, mut func(*tuning.Tuning)) *World {
	t.Helper()
	tn := tuning.Defaults()
	if mut != nil {
		mut(&tn)
	}
	w, err := New(WorldConfig{RunID: "test-run", Tuning: tn}, cats)
	require.NoError(t, err)
	return w
}

func startedWorld(t *testing.T, cats *catalogs.Catalogs, mut func(*tuning.Tuning)) *World {
	t.Helper()
	w := newWorld(t, cats, mut)
	require.NoError(t, w.Start())
	return w
}

func cmd(kind string) protocol.Command {
	return protocol.Command{Type: protocol.TypeCmd, Kind: kind}
}

func placeCmd(typ string, x, y int) protocol.Command {
	c := cmd(protocol.CmdPlaceBuilding)
	c.Building, c.X, c.Y = typ, x, y
	return c
}

func speedCmd(m float64) protocol.Command {
	c := cmd(protocol.CmdSetSpeed)
	c.Multiplier = m
	return c
}

func withdrawCmd(r string, n int) protocol.Command {
	c := cmd(protocol.CmdWithdraw)
	c.Resource, c.Count = r, n
	return c
}

func stepN(w *World, n int) {
	for i := 0; i < n; i++ {
		w.StepOnce(nil)
	}
}

// runUntil steps until cond holds and fails the test after maxTicks.
func runUntil(t *testing.T, w *World, maxTicks int, cond func() bool) {
	t.Helper()
	for i := 0; i < maxTicks; i++ {
		if cond() {
			return
		}
		w.StepOnce(nil)
	}
	require.True(t, cond(), "condition not met after %d ticks", maxTicks)
}

func requireCarriedOnlyWhileHauling(t *testing.T, w *World) {
	t.Helper()
	for _, wk := range w.Workers().Workers() {
		_, carrying := wk.Carried()
		st := wk.State()
		hauling := st == worker.StateCarryingToStorage || st == worker.StateWaitingForStorage
		require.Equal(t, hauling, carrying, "worker %s in %s", wk.ID, st)
	}
}

type tickRecorder struct{ entries []TickLogEntry }

func (r *tickRecorder) WriteTick(e TickLogEntry) error {
	r.entries = append(r.entries, e)
	return nil
}

type auditRecorder struct{ entries []AuditEntry }

func (r *auditRecorder) WriteAudit(e AuditEntry) error {
	r.entries = append(r.entries, e)
	return nil
}

func (r *auditRecorder) actions(action string) []AuditEntry {
	var out []AuditEntry
	for _, e := range r.entries {
		if e.Action == action {
			out = append(out, e)
		}
	}
	return out
}
