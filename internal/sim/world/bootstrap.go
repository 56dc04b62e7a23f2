package world

import (
	"fmt"

	"colonysim.ai/internal/sim/building"
	"colonysim.ai/internal/sim/catalogs"
)

// bootstrap lays out the starting colony: the castle centered on the grid,
// the storage two cells to its right, the campfire two cells to its left,
// and the initial workers on a ring around the campfire.
func (w *World) bootstrap() error {
	castleDef, err := w.requireDef(building.TypeCastle)
	if err != nil {
		return err
	}
	storageDef, err := w.requireDef(building.TypeStorage)
	if err != nil {
		return err
	}
	campfireDef, err := w.requireDef(building.TypeCampfire)
	if err != nil {
		return err
	}

	mid := w.grid.Size() / 2
	castleX := mid - castleDef.Width/2
	castleY := mid - castleDef.Height/2

	if _, err := w.place(castleDef, castleX, castleY, "SYSTEM"); err != nil {
		return err
	}
	if _, err := w.place(storageDef, castleX+castleDef.Width+2, castleY, "SYSTEM"); err != nil {
		return err
	}
	campfire, err := w.place(campfireDef, castleX-campfireDef.Width-2, castleY, "SYSTEM")
	if err != nil {
		return err
	}

	center := w.grid.GridToWorld(campfire.Center())
	w.workers.SpawnRing(w.tn.InitialWorkers, center, w.tn.WorkerSpawnRadius)
	return nil
}

func (w *World) requireDef(t building.Type) (catalogs.BuildingDef, error) {
	def, ok := w.catalogs.Building(string(t))
	if !ok {
		return catalogs.BuildingDef{}, fmt.Errorf("catalog has no %s", t)
	}
	return def, nil
}
