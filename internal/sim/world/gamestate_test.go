package world

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGameMachine_Lifecycle(t *testing.T) {
	var calls []string
	m := NewGameMachine(GameHooks{
		OnLoading: func() { calls = append(calls, "loading") },
		OnPlaying: func() { calls = append(calls, "playing") },
		OnPaused:  func() { calls = append(calls, "paused") },
	})
	require.Equal(t, PhaseMenu, m.Phase())

	require.False(t, m.Send(GamePause))
	require.False(t, m.Send(GameLoaded))
	require.True(t, m.Send(GameStart))
	require.Equal(t, PhaseLoading, m.Phase())
	require.True(t, m.Send(GameLoaded))
	require.Equal(t, PhasePlaying, m.Phase())

	require.False(t, m.Send(GameResume))
	require.True(t, m.Send(GamePause))
	require.Equal(t, PhasePaused, m.Phase())
	require.False(t, m.Send(GamePause))
	require.True(t, m.Send(GameResume))
	require.Equal(t, PhasePlaying, m.Phase())
	require.False(t, m.Send(GameStart))

	require.Equal(t, []string{"loading", "playing", "paused", "playing"}, calls)
}

func TestGameMachine_NilHooks(t *testing.T) {
	m := NewGameMachine(GameHooks{})
	require.True(t, m.Send(GameStart))
	require.True(t, m.Send(GameLoaded))
	require.Equal(t, PhasePlaying, m.Phase())
}
