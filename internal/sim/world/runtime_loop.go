package world

import (
	"context"
	"errors"
	"time"

	"colonysim.ai/internal/protocol"
)

var (
	ErrWorldBusy    = errors.New("world inbox full")
	ErrWorldStopped = errors.New("world stopped")
)

func (w *World) Run(ctx context.Context) error {
	interval := time.Second / time.Duration(w.tn.TickRateHz)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var pending []CommandEnvelope

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stop:
			return nil
		case req := <-w.observerJoin:
			w.handleObserverJoin(req)
		case req := <-w.observerSub:
			w.handleObserverSubscribe(req)
		case id := <-w.observerLeave:
			w.handleObserverLeave(id)
		case env := <-w.inbox:
			pending = append(pending, env)
		case <-ticker.C:
			w.step(pending)
			pending = pending[:0]
		}
	}
}

func (w *World) Stop() { w.stopOnce.Do(func() { close(w.stop) }) }

func (w *World) Inbox() chan<- CommandEnvelope                      { return w.inbox }
func (w *World) ObserverJoin() chan<- ObserverJoinRequest           { return w.observerJoin }
func (w *World) ObserverSubscribe() chan<- ObserverSubscribeRequest { return w.observerSub }
func (w *World) ObserverLeave() chan<- string                       { return w.observerLeave }

// Submit queues cmd for the next tick and waits for its result.
func (w *World) Submit(ctx context.Context, cmd protocol.Command) (protocol.CommandResult, error) {
	resp := make(chan protocol.CommandResult, 1)
	select {
	case w.inbox <- CommandEnvelope{Cmd: cmd, Resp: resp}:
	default:
		return protocol.CommandResult{}, ErrWorldBusy
	}
	select {
	case r := <-resp:
		return r, nil
	case <-ctx.Done():
		return protocol.CommandResult{}, ctx.Err()
	case <-w.stop:
		return protocol.CommandResult{}, ErrWorldStopped
	}
}

// StepOnce advances the world by a single tick using the same ordering semantics as the server.
// It is primarily intended for deterministic replays/tests.
func (w *World) StepOnce(cmds []protocol.Command) (tick uint64, digest string, results []protocol.CommandResult) {
	envs := make([]CommandEnvelope, 0, len(cmds))
	for _, c := range cmds {
		envs = append(envs, CommandEnvelope{Cmd: c})
	}
	tick = w.tick.Load()
	results, digest = w.step(envs)
	return tick, digest, results
}

func trySend(ch chan []byte, b []byte) bool {
	select {
	case ch <- b:
		return true
	default:
		return false
	}
}
