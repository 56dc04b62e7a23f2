package tuning

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	GridSize   int     `yaml:"grid_size"`
	CellSize   float64 `yaml:"cell_size"`
	TickRateHz int     `yaml:"tick_rate_hz"`

	InitialWorkers    int     `yaml:"initial_workers"`
	WorkerSpawnRadius float64 `yaml:"worker_spawn_radius"`

	// Multipliers offered to SET_SPEED. The first entry is the startup speed.
	GameSpeeds []float64 `yaml:"game_speeds"`

	Worker      Worker      `yaml:"worker"`
	Pathfinding Pathfinding `yaml:"pathfinding"`
	Observer    Observer    `yaml:"observer"`
	Journal     Journal     `yaml:"journal"`
}

type Worker struct {
	Speed            float64 `yaml:"speed"` // world units per second
	ArrivalThreshold float64 `yaml:"arrival_threshold"`

	// When false, a late path callback overwrites whatever travel intent the
	// worker has at delivery time.
	DiscardStalePaths bool `yaml:"discard_stale_paths"`

	// Re-issue travel requests of moving workers after the grid changes. Off
	// by default: an unreachable worker is otherwise never retried.
	RerouteOnGridChange bool `yaml:"reroute_on_grid_change"`
}

type Pathfinding struct {
	// Requests resolved per Calculate call; 0 resolves the whole queue.
	MaxSearchesPerTick int `yaml:"max_searches_per_tick"`
}

type Observer struct {
	StateEveryTicks int `yaml:"state_every_ticks"`
	MaxSessions     int `yaml:"max_sessions"`

	// At most CmdMax commands per session within CmdWindowTicks; 0 disables.
	CmdWindowTicks int `yaml:"cmd_window_ticks"`
	CmdMax         int `yaml:"cmd_max"`
}

type Journal struct {
	// Rotation period of the tick and audit streams: "hour" (default) or "day".
	Rotate string `yaml:"rotate"`
}

func Defaults() Tuning {
	return Tuning{
		GridSize:          40,
		CellSize:          25,
		TickRateHz:        30,
		InitialWorkers:    5,
		WorkerSpawnRadius: 15,
		GameSpeeds:        []float64{1, 2, 3, 5, 7},
		Worker: Worker{
			Speed:               50,
			ArrivalThreshold:    2,
			DiscardStalePaths:   true,
			RerouteOnGridChange: false,
		},
		Observer: Observer{
			StateEveryTicks: 3,
			MaxSessions:     64,
			CmdWindowTicks:  30,
			CmdMax:          20,
		},
		Journal: Journal{Rotate: "hour"},
	}
}

func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

func (t Tuning) Validate() error {
	switch {
	case t.GridSize <= 0:
		return errors.New("grid_size must be > 0")
	case t.CellSize <= 0:
		return errors.New("cell_size must be > 0")
	case t.TickRateHz <= 0:
		return errors.New("tick_rate_hz must be > 0")
	case t.InitialWorkers < 0:
		return errors.New("initial_workers must be >= 0")
	case t.Worker.Speed <= 0:
		return errors.New("worker.speed must be > 0")
	case t.Worker.ArrivalThreshold <= 0:
		return errors.New("worker.arrival_threshold must be > 0")
	case len(t.GameSpeeds) == 0:
		return errors.New("game_speeds must not be empty")
	case t.Observer.CmdWindowTicks < 0 || t.Observer.CmdMax < 0:
		return errors.New("observer.cmd_window_ticks and observer.cmd_max must be >= 0")
	case t.Journal.Rotate != "" && t.Journal.Rotate != "hour" && t.Journal.Rotate != "day":
		return fmt.Errorf("journal.rotate: %q must be hour or day", t.Journal.Rotate)
	}
	for _, s := range t.GameSpeeds {
		if s <= 0 {
			return fmt.Errorf("game_speeds: %v must be > 0", s)
		}
	}
	return nil
}

// AllowsSpeed reports whether m is one of the configured multipliers.
func (t Tuning) AllowsSpeed(m float64) bool {
	for _, s := range t.GameSpeeds {
		if s == m {
			return true
		}
	}
	return false
}
