package building

import (
	"testing"

	"github.com/stretchr/testify/require"

	"colonysim.ai/internal/sim/ledger"
)

func TestStorage_RefusesWhenFull(t *testing.T) {
	l := ledger.New("TOMATO")
	s := NewStorage(2, l)

	require.True(t, s.ReceiveResource("TOMATO"))
	require.True(t, s.ReceiveResource("TOMATO"))
	require.False(t, s.HasSpace())
	require.False(t, s.ReceiveResource("TOMATO"))

	require.Equal(t, 2, s.CurrentAmount())
	require.Equal(t, 2, l.Get("TOMATO"), "refused delivery must not touch the ledger")
}

func TestStorage_WithdrawFreesCapacity(t *testing.T) {
	l := ledger.New("TOMATO", "CARROT")
	s := NewStorage(3, l)
	require.True(t, s.ReceiveResource("TOMATO"))
	require.True(t, s.ReceiveResource("CARROT"))
	require.True(t, s.ReceiveResource("TOMATO"))
	require.False(t, s.HasSpace())

	require.Equal(t, 2, s.Withdraw("TOMATO", 5))
	require.Equal(t, 1, s.CurrentAmount())
	require.True(t, s.HasSpace())
	require.Equal(t, map[ledger.Resource]int{"CARROT": 1}, s.Contents())
	require.Zero(t, s.Withdraw("TOMATO", 1))
	require.Zero(t, s.Withdraw("CARROT", 0))

	// Ledger counts deliveries, not stock.
	require.Equal(t, 2, l.Get("TOMATO"))
}

func TestStorage_AmountStaysInBounds(t *testing.T) {
	s := NewStorage(4, nil)
	for i := 0; i < 40; i++ {
		if i%3 == 0 {
			s.Withdraw("TOMATO", 2)
		} else {
			s.ReceiveResource("TOMATO")
		}
		require.GreaterOrEqual(t, s.CurrentAmount(), 0)
		require.LessOrEqual(t, s.CurrentAmount(), s.MaxCapacity)
	}
}
