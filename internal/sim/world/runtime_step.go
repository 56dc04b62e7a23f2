package world

import (
	"time"

	"colonysim.ai/internal/protocol"
)

// Update advances the simulation by deltaMs of wall time and returns the
// scaled delta actually simulated. Buildings tick before workers so a
// resource that becomes ready this tick is seen by its worker in the same
// tick; path requests issued during the tick resolve at its end.
func (w *World) Update(deltaMs float64) float64 {
	scaled := w.scaledDelta(deltaMs)
	if scaled <= 0 {
		return 0
	}
	w.buildings.Update(scaled)
	w.workers.Update(scaled)
	w.paths.Calculate()
	return scaled
}

func (w *World) scaledDelta(deltaMs float64) float64 {
	if w.game.Phase() != PhasePlaying || deltaMs <= 0 {
		return 0
	}
	return deltaMs * w.speed
}

func (w *World) tickMs() float64 {
	return 1000 / float64(w.tn.TickRateHz)
}

func (w *World) step(cmds []CommandEnvelope) ([]protocol.CommandResult, string) {
	stepStart := time.Now()
	nowTick := w.tick.Load()

	w.audits = w.audits[:0]
	clear(w.ledgerChanges)

	// Commands apply at the tick boundary in inbox order.
	results := make([]protocol.CommandResult, 0, len(cmds))
	recorded := make([]RecordedCommand, 0, len(cmds))
	for _, env := range cmds {
		res := w.ApplyCommand(env.Cmd)
		results = append(results, res)
		recorded = append(recorded, RecordedCommand{Cmd: env.Cmd, OK: res.OK, Code: res.Code})
		if env.Resp != nil {
			select {
			case env.Resp <- res:
			default:
			}
		}
	}

	scaled := w.Update(w.tickMs())

	w.stepObservers(nowTick)

	digest := w.stateDigest(nowTick)
	if w.tickLogger != nil {
		var changes map[string]int
		if len(w.ledgerChanges) > 0 {
			changes = make(map[string]int, len(w.ledgerChanges))
			for k, v := range w.ledgerChanges {
				changes[k] = v
			}
		}
		_ = w.tickLogger.WriteTick(TickLogEntry{
			Tick:     nowTick,
			Phase:    w.game.Phase(),
			Speed:    w.speed,
			DeltaMs:  scaled,
			Commands: recorded,
			Ledger:   changes,
			Digest:   digest,
		})
	}

	stepMS := float64(time.Since(stepStart).Microseconds()) / 1000.0
	nextTick := w.tick.Add(1)
	w.publishMetrics(nextTick, stepMS)
	return results, digest
}
