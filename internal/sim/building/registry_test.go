package building

import (
	"testing"

	"github.com/stretchr/testify/require"

	"colonysim.ai/internal/sim/catalogs"
	"colonysim.ai/internal/sim/grid"
	"colonysim.ai/internal/sim/ledger"
)

func TestFromDef_Components(t *testing.T) {
	cats, err := catalogs.Load("../../../configs")
	require.NoError(t, err)
	l := ledger.New()

	gh := FromDef("B1", cats.Buildings.ByType["GREENHOUSE"], 4, 5, l)
	require.NotNil(t, gh.Production)
	require.Nil(t, gh.Storage)
	require.Equal(t, grid.Rect{X: 4, Y: 5, W: 3, H: 1}, gh.Footprint())
	require.Equal(t, grid.Cell{X: 5, Y: 5}, gh.Center())

	st := FromDef("B2", cats.Buildings.ByType["STORAGE"], 0, 0, l)
	require.NotNil(t, st.Storage)
	require.Nil(t, st.Production)
	require.True(t, st.HasSpace())
	require.True(t, st.ReceiveResource("TOMATO"))
	require.Equal(t, 1, l.Get("TOMATO"))

	castle := FromDef("B3", cats.Buildings.ByType["CASTLE"], 0, 0, l)
	require.False(t, castle.HasResourceReady())
	require.False(t, castle.HasSpace())
	require.False(t, castle.ReceiveResource("TOMATO"))
	castle.StartProduction() // no production component: ignored
}

func TestRegistry_TracksSingletonsAndRemoval(t *testing.T) {
	r := NewRegistry()
	castle := &Building{ID: r.NewID(), Type: TypeCastle}
	storage := &Building{ID: r.NewID(), Type: TypeStorage, Storage: NewStorage(1, nil)}
	gh := &Building{ID: r.NewID(), Type: TypeGreenhouse, Production: NewProduction(10, "TOMATO")}
	r.Add(castle)
	r.Add(storage)
	r.Add(gh)

	require.Equal(t, []string{"B1", "B2", "B3"}, []string{castle.ID, storage.ID, gh.ID})
	require.Same(t, storage, r.Storage())
	require.Same(t, castle, r.Castle())
	require.Nil(t, r.Campfire())
	require.Equal(t, 3, r.Len())

	gh.StartProduction()
	r.Update(10)
	require.True(t, gh.HasResourceReady())

	got, ok := r.Remove("B2")
	require.True(t, ok)
	require.Same(t, storage, got)
	require.True(t, storage.Removed)
	require.Nil(t, r.Storage())
	require.Nil(t, r.Get("B2"))
	require.Equal(t, []*Building{castle, gh}, r.All())

	_, ok = r.Remove("B2")
	require.False(t, ok)
}
