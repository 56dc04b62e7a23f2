package world

import (
	"errors"
	"fmt"

	"colonysim.ai/internal/sim/building"
	"colonysim.ai/internal/sim/catalogs"
)

var (
	ErrUnknownBuildingType = errors.New("unknown building type")
	ErrNotPlaceable        = errors.New("building type is not placeable")
	ErrAreaBlocked         = errors.New("area is blocked")
	ErrUnknownBuilding     = errors.New("unknown building")
	ErrNotPlaying          = errors.New("game is not running")
	ErrUnknownResource     = errors.New("unknown resource")
	ErrNoStorage           = errors.New("colony has no storage")
	ErrNothingStored       = errors.New("nothing stored")
	ErrSpeedNotAllowed     = errors.New("speed multiplier not allowed")
)

// PlaceBuilding builds a placeable building with its top-left cell at (x, y).
// Production buildings are handed to the first idle worker.
func (w *World) PlaceBuilding(typ string, x, y int) (*building.Building, error) {
	def, ok := w.catalogs.Building(typ)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBuildingType, typ)
	}
	if !def.Placeable {
		return nil, fmt.Errorf("%w: %s", ErrNotPlaceable, typ)
	}
	return w.place(def, x, y, "PLAYER")
}

func (w *World) place(def catalogs.BuildingDef, x, y int, actor string) (*building.Building, error) {
	if !w.grid.IsAreaFree(x, y, def.Width, def.Height) {
		return nil, fmt.Errorf("%w: %s %dx%d at (%d,%d)", ErrAreaBlocked, def.Type, def.Width, def.Height, x, y)
	}
	b := building.FromDef(w.buildings.NewID(), def, x, y, w.ledger)
	w.grid.OccupyArea(x, y, b.Width, b.Height)
	w.buildings.Add(b)
	w.gridChanged()
	w.audit(AuditEntry{Actor: actor, Action: AuditPlace, BuildingID: b.ID, Building: string(b.Type), Pos: [2]int{x, y}})

	if b.Production != nil {
		if wk, ok := w.workers.Assign(b); ok {
			w.audit(AuditEntry{Actor: wk.ID, Action: AuditAssign, BuildingID: b.ID, Building: string(b.Type), Pos: [2]int{x, y}})
		} else {
			w.audit(AuditEntry{Actor: actor, Action: AuditUnattended, BuildingID: b.ID, Building: string(b.Type), Pos: [2]int{x, y}, Reason: "no idle worker"})
			w.logf("building %s (%s) placed without a worker", b.ID, b.Type)
		}
	}
	return b, nil
}

// RemoveBuilding frees the footprint of id. A worker assigned to it keeps
// serving the removed building.
func (w *World) RemoveBuilding(id string) error {
	b, ok := w.buildings.Remove(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownBuilding, id)
	}
	r := b.Footprint()
	w.grid.FreeArea(r.X, r.Y, r.W, r.H)
	w.gridChanged()
	w.audit(AuditEntry{Actor: "PLAYER", Action: AuditRemove, BuildingID: b.ID, Building: string(b.Type), Pos: [2]int{r.X, r.Y}})
	return nil
}

// gridChanged must follow every occupancy mutation so later path requests
// see it.
func (w *World) gridChanged() {
	w.paths.Refresh()
	w.gridVersion++
	if w.tn.Worker.RerouteOnGridChange {
		w.workers.Reroute()
	}
}
