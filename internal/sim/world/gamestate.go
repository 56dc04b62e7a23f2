package world

// Phase is the top-level game lifecycle.
type Phase string

const (
	PhaseMenu    Phase = "MENU"
	PhaseLoading Phase = "LOADING"
	PhasePlaying Phase = "PLAYING"
	PhasePaused  Phase = "PAUSED"
)

type GameEvent string

const (
	GameStart  GameEvent = "START"
	GameLoaded GameEvent = "LOADED"
	GamePause  GameEvent = "PAUSE"
	GameResume GameEvent = "RESUME"
)

// GameHooks run on entry to the named phase. Any may be nil.
type GameHooks struct {
	OnLoading func()
	OnPlaying func()
	OnPaused  func()
}

var gameTransitions = map[Phase]map[GameEvent]Phase{
	PhaseMenu:    {GameStart: PhaseLoading},
	PhaseLoading: {GameLoaded: PhasePlaying},
	PhasePlaying: {GamePause: PhasePaused},
	PhasePaused:  {GameResume: PhasePlaying},
}

type GameMachine struct {
	phase Phase
	hooks GameHooks
}

func NewGameMachine(h GameHooks) *GameMachine {
	return &GameMachine{phase: PhaseMenu, hooks: h}
}

func (m *GameMachine) Phase() Phase { return m.phase }

// Send applies ev and reports whether the current phase accepted it.
func (m *GameMachine) Send(ev GameEvent) bool {
	next, ok := gameTransitions[m.phase][ev]
	if !ok {
		return false
	}
	m.phase = next
	var hook func()
	switch next {
	case PhaseLoading:
		hook = m.hooks.OnLoading
	case PhasePlaying:
		hook = m.hooks.OnPlaying
	case PhasePaused:
		hook = m.hooks.OnPaused
	}
	if hook != nil {
		hook()
	}
	return true
}
