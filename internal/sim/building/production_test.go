package building

import (
	"testing"

	"github.com/stretchr/testify/require"

	"colonysim.ai/internal/sim/ledger"
)

func TestProduction_ReadyAfterConfiguredTime(t *testing.T) {
	p := NewProduction(2000, "TOMATO")
	p.StartProduction()

	p.Update(999)
	p.Update(999)
	require.False(t, p.HasResourceReady())
	require.InDelta(t, 1998.0/2000.0, p.Progress(), 1e-9)

	p.Update(10)
	require.True(t, p.HasResourceReady())
	require.False(t, p.IsProducing())
	require.Zero(t, p.ElapsedMs())

	r, ok := p.CollectResource()
	require.True(t, ok)
	require.Equal(t, ledger.Resource("TOMATO"), r)
	require.False(t, p.HasResourceReady())
}

func TestProduction_StartIsIdempotent(t *testing.T) {
	once := NewProduction(100, "TOMATO")
	once.StartProduction()
	once.Update(60)

	twice := NewProduction(100, "TOMATO")
	twice.StartProduction()
	twice.Update(60)
	twice.StartProduction() // must not reset elapsed time

	require.Equal(t, once.ElapsedMs(), twice.ElapsedMs())
	require.Equal(t, once.IsProducing(), twice.IsProducing())
}

func TestProduction_StartDoesNotDiscardReadyUnit(t *testing.T) {
	p := NewProduction(100, "TOMATO")
	p.StartProduction()
	p.Update(100)
	require.True(t, p.HasResourceReady())

	p.StartProduction()
	require.True(t, p.HasResourceReady())
	require.False(t, p.IsProducing())
}

func TestProduction_CollectWithoutReady(t *testing.T) {
	p := NewProduction(100, "TOMATO")
	r, ok := p.CollectResource()
	require.False(t, ok)
	require.Empty(t, r)
}

func TestProduction_UpdateIgnoredWhileIdle(t *testing.T) {
	p := NewProduction(100, "TOMATO")
	p.Update(500)
	require.False(t, p.HasResourceReady())
	require.Zero(t, p.ElapsedMs())
	require.Zero(t, p.Progress())
}

func TestProduction_NeverProducingAndReady(t *testing.T) {
	p := NewProduction(250, "TOMATO")
	steps := []float64{16, 16, 100, 33, 200, 7, 500, 1, 1, 90}
	for i := 0; i < 50; i++ {
		switch i % 4 {
		case 0:
			p.StartProduction()
		case 3:
			if p.HasResourceReady() {
				_, _ = p.CollectResource()
			}
		}
		before := p.ElapsedMs()
		wasProducing := p.IsProducing()
		p.Update(steps[i%len(steps)])

		require.False(t, p.IsProducing() && p.HasResourceReady())
		if wasProducing && p.IsProducing() {
			require.GreaterOrEqual(t, p.ElapsedMs(), before)
		}
		if wasProducing && !p.IsProducing() {
			require.Zero(t, p.ElapsedMs())
		}
	}
}
