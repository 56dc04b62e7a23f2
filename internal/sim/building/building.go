// Package building models placed structures. A Building is plain data plus
// optional components: Production for resource generators and Storage for
// the colony sink.
package building

import (
	"colonysim.ai/internal/sim/catalogs"
	"colonysim.ai/internal/sim/grid"
	"colonysim.ai/internal/sim/ledger"
)

type Type string

const (
	TypeCastle     Type = "CASTLE"
	TypeStorage    Type = "STORAGE"
	TypeCampfire   Type = "CAMPFIRE"
	TypeGreenhouse Type = "GREENHOUSE"
	TypeGardenBed  Type = "GARDEN_BED"
)

type Building struct {
	ID     string
	Type   Type
	GridX  int
	GridY  int
	Width  int
	Height int

	Production *Production
	Storage    *Storage

	// Removed is set once the building left the registry. Workers may still
	// hold a reference to it.
	Removed bool
}

func (b *Building) IsRemoved() bool { return b.Removed }

// FromDef builds an unplaced building from its catalog definition.
func FromDef(id string, def catalogs.BuildingDef, x, y int, l Ledger) *Building {
	b := &Building{
		ID:     id,
		Type:   Type(def.Type),
		GridX:  x,
		GridY:  y,
		Width:  def.Width,
		Height: def.Height,
	}
	if p := def.Production; p != nil {
		b.Production = NewProduction(p.TimeMs, ledger.Resource(p.Resource))
	}
	if def.StorageCapacity > 0 {
		b.Storage = NewStorage(def.StorageCapacity, l)
	}
	return b
}

func (b *Building) BuildingID() string { return b.ID }

func (b *Building) Footprint() grid.Rect {
	return grid.Rect{X: b.GridX, Y: b.GridY, W: b.Width, H: b.Height}
}

// Center is the cell nearest the middle of the footprint.
func (b *Building) Center() grid.Cell {
	return grid.Cell{X: b.GridX + b.Width/2, Y: b.GridY + b.Height/2}
}

func (b *Building) Update(deltaMs float64) {
	if b.Production != nil {
		b.Production.Update(deltaMs)
	}
}

func (b *Building) StartProduction() {
	if b.Production != nil {
		b.Production.StartProduction()
	}
}

func (b *Building) HasResourceReady() bool {
	return b.Production != nil && b.Production.HasResourceReady()
}

func (b *Building) CollectResource() (ledger.Resource, bool) {
	if b.Production == nil {
		return "", false
	}
	return b.Production.CollectResource()
}

func (b *Building) AssignWorker(id string) {
	if b.Production != nil {
		b.Production.AssignWorker(id)
	}
}

func (b *Building) HasSpace() bool {
	return b.Storage != nil && b.Storage.HasSpace()
}

func (b *Building) ReceiveResource(r ledger.Resource) bool {
	if b.Storage == nil {
		return false
	}
	return b.Storage.ReceiveResource(r)
}
