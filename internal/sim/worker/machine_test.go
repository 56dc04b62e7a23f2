package worker

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type recorder struct {
	calls    []string
	hasSpace bool
}

func (r *recorder) actions() Actions {
	return Actions{
		GoToBuilding:          func() { r.calls = append(r.calls, "go") },
		StartProduction:       func() { r.calls = append(r.calls, "start") },
		CollectAndGoToStorage: func() { r.calls = append(r.calls, "collect") },
		DeliverResource:       func() { r.calls = append(r.calls, "deliver") },
		StorageHasSpace:       func() bool { return r.hasSpace },
	}
}

func (r *recorder) count(name string) int {
	n := 0
	for _, c := range r.calls {
		if c == name {
			n++
		}
	}
	return n
}

func carrying(t *testing.T, r *recorder) *Machine {
	t.Helper()
	m := NewMachine(r.actions())
	require.True(t, m.Send(EventAssign))
	require.True(t, m.Send(EventArrived))
	require.True(t, m.Send(EventResourceReady))
	require.Equal(t, StateCarryingToStorage, m.State())
	return m
}

func TestMachine_HappyLoop(t *testing.T) {
	r := &recorder{hasSpace: true}
	m := NewMachine(r.actions())
	require.Equal(t, StateIdle, m.State())

	require.True(t, m.Send(EventAssign))
	require.Equal(t, StateReturningToBuilding, m.State())
	require.True(t, m.Send(EventArrived))
	require.Equal(t, StateProducing, m.State())
	require.True(t, m.Send(EventResourceReady))
	require.Equal(t, StateCarryingToStorage, m.State())
	require.True(t, m.Send(EventArrived))
	require.Equal(t, StateReturningToBuilding, m.State())

	require.Equal(t, []string{"go", "start", "collect", "deliver", "go"}, r.calls)
}

func TestMachine_DeliverWhenStorageHasSpace(t *testing.T) {
	r := &recorder{hasSpace: true}
	m := carrying(t, r)

	require.True(t, m.Send(EventArrived))
	require.Equal(t, StateReturningToBuilding, m.State())
	require.Equal(t, 1, r.count("deliver"))
	// Delivery happens before the trip back is requested.
	require.Equal(t, []string{"deliver", "go"}, r.calls[len(r.calls)-2:])
}

func TestMachine_WaitForStorage(t *testing.T) {
	r := &recorder{hasSpace: false}
	m := carrying(t, r)

	require.True(t, m.Send(EventArrived))
	require.Equal(t, StateWaitingForStorage, m.State())
	require.Zero(t, r.count("deliver"))

	r.hasSpace = true
	require.True(t, m.Send(EventStorageSpace))
	require.Equal(t, StateReturningToBuilding, m.State())
	require.Equal(t, 1, r.count("deliver"))
}

func TestMachine_UnhandledEventsAreDropped(t *testing.T) {
	r := &recorder{}
	m := NewMachine(r.actions())

	for _, ev := range []Event{EventArrived, EventResourceReady, EventStorageSpace} {
		require.False(t, m.Send(ev), "event %s in IDLE", ev)
		require.Equal(t, StateIdle, m.State())
	}
	require.Empty(t, r.calls)

	require.True(t, m.Send(EventAssign))
	require.False(t, m.Send(EventAssign), "ASSIGN is only accepted once")
	require.False(t, m.Send(EventStorageSpace))
	require.Equal(t, StateReturningToBuilding, m.State())
}

func TestMachine_NilActionsAreSkipped(t *testing.T) {
	m := NewMachine(Actions{})
	require.True(t, m.Send(EventAssign))
	require.True(t, m.Send(EventArrived))
	require.True(t, m.Send(EventResourceReady))
	// A missing guard counts as "no space".
	require.True(t, m.Send(EventArrived))
	require.Equal(t, StateWaitingForStorage, m.State())
}
