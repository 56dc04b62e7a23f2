package main

import (
	"fmt"
	"math/rand"

	"colonysim.ai/internal/observerproto"
	"colonysim.ai/internal/protocol"
	"colonysim.ai/internal/sim/encoding"
)

// planner picks free footprints for placeable buildings from the last GRID.
type planner struct {
	rng   *rand.Rand
	defs  []observerproto.BuildingDef
	size  int
	cells []byte
	seq   int
}

func newPlanner(boot observerproto.BootstrapResponse, rng *rand.Rand) *planner {
	p := &planner{rng: rng, size: boot.WorldParams.GridSize}
	for _, d := range boot.Buildings {
		if d.Placeable {
			p.defs = append(p.defs, d)
		}
	}
	return p
}

func (p *planner) updateGrid(g observerproto.GridMsg) error {
	b, err := encoding.DecodeGrid(g.Encoding, g.Data, g.Size*g.Size)
	if err != nil {
		return err
	}
	p.size, p.cells = g.Size, b
	return nil
}

func (p *planner) free(x, y, w, h int) bool {
	if x < 0 || y < 0 || x+w > p.size || y+h > p.size {
		return false
	}
	for cy := y; cy < y+h; cy++ {
		for cx := x; cx < x+w; cx++ {
			if p.cells[cy*p.size+cx] != 0 {
				return false
			}
		}
	}
	return true
}

// next proposes a PLACE_BUILDING that fits the known grid with a one-cell
// margin, so workers keep a way around it.
func (p *planner) next(tick uint64) (protocol.Command, bool) {
	if len(p.defs) == 0 || p.cells == nil {
		return protocol.Command{}, false
	}
	def := p.defs[p.rng.Intn(len(p.defs))]
	w, h := def.Size[0], def.Size[1]
	xs, ys := max(p.size-w+1, 1), max(p.size-h+1, 1)
	start := p.rng.Intn(xs * ys)
	for i := 0; i < xs*ys; i++ {
		k := (start + i) % (xs * ys)
		x, y := k%xs, k/xs
		if !p.free(x-1, y-1, w+2, h+2) {
			continue
		}
		p.seq++
		return protocol.Command{
			Type:            protocol.TypeCmd,
			ProtocolVersion: protocol.Version,
			CmdID:           fmt.Sprintf("bot-%d-%d", tick, p.seq),
			Kind:            protocol.CmdPlaceBuilding,
			Building:        def.Type,
			X:               x,
			Y:               y,
		}, true
	}
	return protocol.Command{}, false
}
