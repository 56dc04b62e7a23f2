package world

import (
	"testing"

	"github.com/stretchr/testify/require"

	"colonysim.ai/internal/sim/building"
	"colonysim.ai/internal/sim/grid"
	"colonysim.ai/internal/sim/tuning"
)

func TestStart_BootstrapLayout(t *testing.T) {
	w := startedWorld(t, repoCatalogs(t), nil)

	require.Equal(t, PhasePlaying, w.Phase())
	reg := w.Buildings()
	require.Equal(t, 3, reg.Len())

	castle, storage, campfire := reg.Castle(), reg.Storage(), reg.Campfire()
	require.NotNil(t, castle)
	require.NotNil(t, storage)
	require.NotNil(t, campfire)
	require.Equal(t, grid.Rect{X: 19, Y: 19, W: 3, H: 3}, castle.Footprint())
	require.Equal(t, grid.Rect{X: 24, Y: 19, W: 2, H: 2}, storage.Footprint())
	require.Equal(t, grid.Rect{X: 16, Y: 19, W: 1, H: 1}, campfire.Footprint())
	require.Equal(t, 9+4+1, w.Grid().BlockedCount())

	center := w.Grid().GridToWorld(campfire.Center())
	ws := w.Workers().Workers()
	require.Len(t, ws, 5)
	for _, wk := range ws {
		require.True(t, wk.IsIdle())
		require.InDelta(t, 15, wk.Pos().Dist(center), 1e-9)
	}
}

func TestStart_Twice(t *testing.T) {
	w := startedWorld(t, repoCatalogs(t), nil)
	require.Error(t, w.Start())
}

func TestStart_GridTooSmall(t *testing.T) {
	w := newWorld(t, repoCatalogs(t), func(tn *tuning.Tuning) { tn.GridSize = 4 })
	require.ErrorIs(t, w.Start(), ErrAreaBlocked)
}

func TestPlaceBuilding_Errors(t *testing.T) {
	w := startedWorld(t, repoCatalogs(t), nil)
	blocked := w.Grid().BlockedCount()

	_, err := w.PlaceBuilding("WINDMILL", 0, 0)
	require.ErrorIs(t, err, ErrUnknownBuildingType)

	_, err = w.PlaceBuilding("CASTLE", 0, 0)
	require.ErrorIs(t, err, ErrNotPlaceable)

	// Overlaps the castle's top-left cell.
	_, err = w.PlaceBuilding("GREENHOUSE", 17, 19)
	require.ErrorIs(t, err, ErrAreaBlocked)

	_, err = w.PlaceBuilding("GREENHOUSE", 38, 0)
	require.ErrorIs(t, err, ErrAreaBlocked)
	_, err = w.PlaceBuilding("GREENHOUSE", -1, 0)
	require.ErrorIs(t, err, ErrAreaBlocked)

	require.Equal(t, blocked, w.Grid().BlockedCount())
	require.Equal(t, 3, w.Buildings().Len())
}

func TestGrid_BlockedExactlyInsideFootprints(t *testing.T) {
	w := startedWorld(t, repoCatalogs(t), nil)

	gh, err := w.PlaceBuilding("GREENHOUSE", 2, 2)
	require.NoError(t, err)
	_, err = w.PlaceBuilding("GARDEN_BED", 30, 30)
	require.NoError(t, err)
	_, err = w.PlaceBuilding("GREENHOUSE", 5, 2)
	require.NoError(t, err, "adjacent placement is allowed")
	require.NoError(t, w.RemoveBuilding(gh.ID))
	_, err = w.PlaceBuilding("GARDEN_BED", 2, 1)
	require.NoError(t, err, "freed cells can be reused")

	g := w.Grid()
	for y := 0; y < g.Size(); y++ {
		for x := 0; x < g.Size(); x++ {
			inside := false
			for _, b := range w.Buildings().All() {
				if b.Footprint().Contains(grid.Cell{X: x, Y: y}) {
					inside = true
				}
			}
			require.Equal(t, inside, !g.IsWalkable(x, y), "cell %d,%d", x, y)
		}
	}
}

func TestPlaceBuilding_AssignsFirstIdleWorker(t *testing.T) {
	w := startedWorld(t, repoCatalogs(t), nil)

	b, err := w.PlaceBuilding("GREENHOUSE", 24, 23)
	require.NoError(t, err)
	require.Equal(t, "W1", b.Production.AssignedWorker())

	wk, ok := w.Workers().Get("W1")
	require.True(t, ok)
	require.Same(t, b, wk.Site().(*building.Building))
	require.Equal(t, 4, w.Workers().FreeCount())
}

func TestPlaceBuilding_UnattendedWhenNoIdleWorker(t *testing.T) {
	audits := &auditRecorder{}
	w := newWorld(t, repoCatalogs(t), nil)
	w.SetAuditLogger(audits)
	require.NoError(t, w.Start())

	var last *building.Building
	for i := 0; i < 6; i++ {
		b, err := w.PlaceBuilding("GREENHOUSE", i*4, 2)
		require.NoError(t, err)
		last = b
	}
	require.Empty(t, last.Production.AssignedWorker())
	require.Equal(t, []string{last.ID}, w.Workers().Unattended())
	require.Len(t, audits.actions(AuditAssign), 5)
	require.Len(t, audits.actions(AuditUnattended), 1)

	// No retry: the building stays unattended.
	stepN(w, 60)
	require.Empty(t, last.Production.AssignedWorker())
	require.Equal(t, 1, w.Metrics().Unattended)
}

func TestRemoveBuilding(t *testing.T) {
	w := startedWorld(t, repoCatalogs(t), nil)
	b, err := w.PlaceBuilding("GREENHOUSE", 24, 23)
	require.NoError(t, err)
	wk, _ := w.Workers().Get("W1")

	require.NoError(t, w.RemoveBuilding(b.ID))
	require.True(t, b.Removed)
	require.Nil(t, w.Buildings().Get(b.ID))
	require.True(t, w.Grid().IsAreaFree(24, 23, 3, 1))
	// The worker keeps serving the removed building and is reported once.
	require.Equal(t, b.ID, wk.Site().BuildingID())
	stepN(w, 3)
	require.True(t, wk.SiteLost())
	require.EqualValues(t, 1, w.Metrics().WorkersSiteLost)

	require.ErrorIs(t, w.RemoveBuilding(b.ID), ErrUnknownBuilding)
}

func TestRemoveStorage_ClearsSingleton(t *testing.T) {
	w := startedWorld(t, repoCatalogs(t), nil)
	id := w.Buildings().Storage().ID
	require.NoError(t, w.RemoveBuilding(id))
	require.Nil(t, w.Buildings().Storage())

	_, err := w.Withdraw("TOMATO", 1)
	require.ErrorIs(t, err, ErrNoStorage)
}
