package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	persistlog "colonysim.ai/internal/persistence/log"
	"colonysim.ai/internal/protocol"
	"colonysim.ai/internal/sim/catalogs"
	"colonysim.ai/internal/sim/world"
)

func main() {
	var (
		runDir    = flag.String("run", "", "run directory containing run.json and ticks/")
		configDir = flag.String("configs", "./configs", "config directory")
		fromTick  = flag.Uint64("from_tick", 0, "start verifying from tick (inclusive, optional)")
		toTick    = flag.Uint64("to_tick", 0, "stop at tick (inclusive, optional)")
	)
	flag.Parse()

	if *runDir == "" {
		fmt.Fprintln(os.Stderr, "missing -run")
		os.Exit(2)
	}
	checked, err := replay(os.Stdout, options{
		RunDir:    *runDir,
		ConfigDir: *configDir,
		FromTick:  *fromTick,
		ToTick:    *toTick,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "replay:", err)
		os.Exit(1)
	}
	fmt.Printf("replay ok: checked=%d ticks\n", checked)
}

type options struct {
	RunDir    string
	ConfigDir string
	FromTick  uint64
	ToTick    uint64
}

var errStop = errors.New("stop")

// replay rebuilds the run's starting world and re-applies every journaled
// command, comparing the state digest of each tick.
func replay(out io.Writer, opts options) (uint64, error) {
	m, err := persistlog.ReadManifest(opts.RunDir)
	if err != nil {
		return 0, fmt.Errorf("read manifest: %w", err)
	}
	cats, err := catalogs.Load(opts.ConfigDir)
	if err != nil {
		return 0, fmt.Errorf("load catalogs: %w", err)
	}
	if m.CatalogDigest != "" && m.CatalogDigest != cats.Buildings.Digest {
		return 0, fmt.Errorf("catalog digest mismatch: run=%s configs=%s", m.CatalogDigest, cats.Buildings.Digest)
	}

	w, err := world.New(world.WorldConfig{RunID: m.RunID, Tuning: m.Tuning}, cats)
	if err != nil {
		return 0, fmt.Errorf("world: %w", err)
	}
	if err := w.Start(); err != nil {
		return 0, fmt.Errorf("start: %w", err)
	}
	fmt.Fprintf(out, "run=%s grid=%d tick_rate=%d buildings=%d workers=%d\n",
		m.RunID, m.Tuning.GridSize, m.Tuning.TickRateHz, w.Buildings().Len(), w.Workers().Len())

	var checked uint64
	err = persistlog.ReadTicks(opts.RunDir, func(entry world.TickLogEntry) error {
		if opts.ToTick != 0 && entry.Tick > opts.ToTick {
			return errStop
		}
		if entry.Tick != w.CurrentTick() {
			return fmt.Errorf("tick gap: want=%d got=%d", w.CurrentTick(), entry.Tick)
		}
		cmds := make([]protocol.Command, 0, len(entry.Commands))
		for _, rc := range entry.Commands {
			cmds = append(cmds, rc.Cmd)
		}
		tick, digest, results := w.StepOnce(cmds)
		if tick != entry.Tick {
			return fmt.Errorf("internal tick mismatch: stepped=%d entry=%d", tick, entry.Tick)
		}
		for i, r := range results {
			if r.OK != entry.Commands[i].OK || r.Code != entry.Commands[i].Code {
				return fmt.Errorf("tick %d command %d (%s): got ok=%v code=%s want ok=%v code=%s",
					tick, i, cmds[i].Kind, r.OK, r.Code, entry.Commands[i].OK, entry.Commands[i].Code)
			}
		}
		if tick >= opts.FromTick {
			checked++
			if digest != entry.Digest {
				return fmt.Errorf("digest mismatch at tick %d: got=%s want=%s", tick, digest, entry.Digest)
			}
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStop) {
		return checked, err
	}
	return checked, nil
}
