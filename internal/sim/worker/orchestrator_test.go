package worker

import (
	"testing"

	"github.com/stretchr/testify/require"

	"colonysim.ai/internal/sim/grid"
)

func newTestOrchestrator(router *fakeRouter) *Orchestrator {
	store := &fakeStorage{capacity: 10}
	return NewOrchestrator(testConfig, Env{
		Router:  router,
		Storage: func() (StorageSite, bool) { return store, true },
	})
}

func TestOrchestrator_SpawnRing(t *testing.T) {
	o := newTestOrchestrator(&fakeRouter{})
	center := grid.Point{X: 100, Y: 200}
	ws := o.SpawnRing(4, center, 15)

	require.Len(t, ws, 4)
	require.Equal(t, []string{"W1", "W2", "W3", "W4"}, []string{ws[0].ID, ws[1].ID, ws[2].ID, ws[3].ID})
	for _, w := range ws {
		require.InDelta(t, 15, w.Pos().Dist(center), 1e-9)
		require.Equal(t, StateIdle, w.State())
	}
	require.InDelta(t, 115, ws[0].Pos().X, 1e-9)
	require.InDelta(t, 215, ws[1].Pos().Y, 1e-9)
	require.Equal(t, 4, o.FreeCount())
}

func TestOrchestrator_AssignsFirstIdleInRosterOrder(t *testing.T) {
	router := &fakeRouter{}
	o := newTestOrchestrator(router)
	o.SpawnRing(2, grid.Point{}, 10)

	a := &fakeSite{id: "B1"}
	w, ok := o.Assign(a)
	require.True(t, ok)
	require.Equal(t, "W1", w.ID)
	require.Equal(t, "W1", a.worker)

	b := &fakeSite{id: "B2"}
	w, ok = o.Assign(b)
	require.True(t, ok)
	require.Equal(t, "W2", w.ID)
	require.Zero(t, o.FreeCount())
	require.Nil(t, o.FreeWorker())
}

func TestOrchestrator_NoFreeWorkerLeavesBuildingUnattended(t *testing.T) {
	router := &fakeRouter{}
	o := newTestOrchestrator(router)
	o.Spawn(grid.Point{})
	o.Assign(&fakeSite{id: "B1"})

	late := &fakeSite{id: "B2"}
	w, ok := o.Assign(late)
	require.False(t, ok)
	require.Nil(t, w)
	require.Empty(t, late.worker)
	require.Equal(t, []string{"B2"}, o.Unattended())

	// Nothing retries the assignment on later ticks.
	for i := 0; i < 20; i++ {
		o.Update(16)
	}
	require.Empty(t, late.worker)
}

func TestOrchestrator_UpdateDrivesEveryWorker(t *testing.T) {
	router := &fakeRouter{}
	o := newTestOrchestrator(router)
	o.SpawnRing(3, grid.Point{}, 10)
	o.Assign(&fakeSite{id: "B1"})
	o.Assign(&fakeSite{id: "B2"})

	for i := range router.reqs {
		router.resolve(i, nil, true)
	}
	o.Update(16)

	counts := o.CountByState()
	require.Equal(t, 2, counts[StateProducing])
	require.Equal(t, 1, counts[StateIdle])

	w, ok := o.Get("W3")
	require.True(t, ok)
	require.True(t, w.IsIdle())
	_, ok = o.Get("W9")
	require.False(t, ok)
}

func TestOrchestrator_RerouteCountsMovingWorkers(t *testing.T) {
	router := &fakeRouter{}
	o := newTestOrchestrator(router)
	o.SpawnRing(3, grid.Point{}, 10)
	o.Assign(&fakeSite{id: "B1"})
	o.Assign(&fakeSite{id: "B2"})

	require.Equal(t, 2, o.Reroute())
	require.Len(t, router.reqs, 4)

	router.resolve(0, nil, true) // superseded
	require.EqualValues(t, 1, o.StalePathsDropped())
}
