package world

import (
	"errors"
	"fmt"

	"colonysim.ai/internal/protocol"
	"colonysim.ai/internal/sim/ledger"
)

// ApplyCommand executes one control command against the world. Failures are
// reported in the result, never as panics.
func (w *World) ApplyCommand(cmd protocol.Command) protocol.CommandResult {
	res := protocol.CommandResult{
		Type:            protocol.TypeCmdResult,
		ProtocolVersion: protocol.Version,
		CmdID:           cmd.CmdID,
		Tick:            w.tick.Load(),
	}
	fail := func(err error) protocol.CommandResult {
		res.Code = errorCode(err)
		res.Message = err.Error()
		return res
	}

	switch cmd.Kind {
	case protocol.CmdPause:
		if !w.game.Send(GamePause) {
			return fail(fmt.Errorf("%w: pause from %s", ErrNotPlaying, w.game.Phase()))
		}
	case protocol.CmdResume:
		if !w.game.Send(GameResume) {
			return fail(fmt.Errorf("%w: resume from %s", ErrNotPlaying, w.game.Phase()))
		}
	case protocol.CmdSetSpeed:
		if !w.tn.AllowsSpeed(cmd.Multiplier) {
			return fail(fmt.Errorf("%w: %v", ErrSpeedNotAllowed, cmd.Multiplier))
		}
		w.speed = cmd.Multiplier
	case protocol.CmdPlaceBuilding:
		if err := w.requireRunning(); err != nil {
			return fail(err)
		}
		b, err := w.PlaceBuilding(cmd.Building, cmd.X, cmd.Y)
		if err != nil {
			return fail(err)
		}
		res.BuildingID = b.ID
		if b.Production != nil {
			res.WorkerID = b.Production.AssignedWorker()
		}
	case protocol.CmdRemoveBuilding:
		if err := w.requireRunning(); err != nil {
			return fail(err)
		}
		if err := w.RemoveBuilding(cmd.BuildingID); err != nil {
			return fail(err)
		}
		res.BuildingID = cmd.BuildingID
	case protocol.CmdWithdraw:
		if err := w.requireRunning(); err != nil {
			return fail(err)
		}
		n, err := w.Withdraw(cmd.Resource, cmd.Count)
		if err != nil {
			return fail(err)
		}
		res.Count = n
	default:
		res.Code = protocol.ErrBadRequest
		res.Message = fmt.Sprintf("unknown command kind %q", cmd.Kind)
		return res
	}
	res.OK = true
	return res
}

// Withdraw takes up to count units of resource out of the colony storage and
// returns how many were removed. The ledger keeps counting deliveries.
func (w *World) Withdraw(resource string, count int) (int, error) {
	if _, ok := w.catalogs.Resources.Index[resource]; !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownResource, resource)
	}
	st := w.buildings.Storage()
	if st == nil || st.Storage == nil {
		return 0, ErrNoStorage
	}
	n := st.Storage.Withdraw(ledger.Resource(resource), count)
	if n == 0 {
		return 0, fmt.Errorf("%w: %s", ErrNothingStored, resource)
	}
	w.audit(AuditEntry{Actor: "PLAYER", Action: AuditWithdraw, BuildingID: st.ID, Resource: resource, Count: n})
	return n, nil
}

func (w *World) requireRunning() error {
	switch p := w.game.Phase(); p {
	case PhasePlaying, PhasePaused:
		return nil
	default:
		return fmt.Errorf("%w: phase %s", ErrNotPlaying, p)
	}
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, ErrUnknownBuildingType):
		return protocol.ErrUnknownType
	case errors.Is(err, ErrNotPlaceable):
		return protocol.ErrNotPlaceable
	case errors.Is(err, ErrAreaBlocked):
		return protocol.ErrBlocked
	case errors.Is(err, ErrUnknownBuilding), errors.Is(err, ErrNoStorage):
		return protocol.ErrInvalidTarget
	case errors.Is(err, ErrNothingStored):
		return protocol.ErrNoResource
	case errors.Is(err, ErrNotPlaying):
		return protocol.ErrNotPlaying
	case errors.Is(err, ErrUnknownResource), errors.Is(err, ErrSpeedNotAllowed):
		return protocol.ErrBadRequest
	default:
		return protocol.ErrInternal
	}
}
