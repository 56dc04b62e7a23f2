package catalogs

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

type Catalogs struct {
	Buildings BuildingCatalog
	Resources ResourceCatalog
}

type BuildingCatalog struct {
	ByType map[string]BuildingDef
	Types  []string // sorted
	Digest string
}

type BuildingDef struct {
	Type   string `json:"type"`
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`

	// Placeable buildings can be requested through PLACE_BUILDING; the rest
	// only appear during bootstrap.
	Placeable bool `json:"placeable,omitempty"`

	StorageCapacity int            `json:"storage_capacity,omitempty"`
	Production      *ProductionDef `json:"production,omitempty"`
}

type ProductionDef struct {
	TimeMs   float64 `json:"time_ms"`
	Resource string  `json:"resource"`
}

type ResourceCatalog struct {
	Palette []string
	Index   map[string]int
}

type buildingsFile struct {
	Resources []string      `json:"resources"`
	Buildings []BuildingDef `json:"buildings"`
}

func Load(configDir string) (*Catalogs, error) {
	raw, err := os.ReadFile(filepath.Join(configDir, "buildings.json"))
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

// Parse builds catalogs from the contents of a buildings.json file.
func Parse(raw []byte) (*Catalogs, error) {
	var f buildingsFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("buildings.json: %w", err)
	}

	var c Catalogs
	c.Resources.Index = make(map[string]int, len(f.Resources))
	for _, r := range f.Resources {
		if r == "" {
			return nil, fmt.Errorf("buildings.json: empty resource id")
		}
		if _, dup := c.Resources.Index[r]; dup {
			return nil, fmt.Errorf("buildings.json: duplicate resource %s", r)
		}
		c.Resources.Index[r] = len(c.Resources.Palette)
		c.Resources.Palette = append(c.Resources.Palette, r)
	}

	c.Buildings.ByType = make(map[string]BuildingDef, len(f.Buildings))
	for _, d := range f.Buildings {
		if d.Type == "" {
			return nil, fmt.Errorf("buildings.json: empty type")
		}
		if d.Width <= 0 || d.Height <= 0 {
			return nil, fmt.Errorf("buildings.json: %s: footprint must be positive", d.Type)
		}
		if p := d.Production; p != nil {
			if p.TimeMs <= 0 {
				return nil, fmt.Errorf("buildings.json: %s: production time_ms must be > 0", d.Type)
			}
			if _, ok := c.Resources.Index[p.Resource]; !ok {
				return nil, fmt.Errorf("buildings.json: %s: unknown resource %s", d.Type, p.Resource)
			}
		}
		if d.StorageCapacity < 0 {
			return nil, fmt.Errorf("buildings.json: %s: negative storage_capacity", d.Type)
		}
		c.Buildings.ByType[d.Type] = d
		c.Buildings.Types = append(c.Buildings.Types, d.Type)
	}
	sort.Strings(c.Buildings.Types)
	c.Buildings.Digest = sha256Hex(raw)
	return &c, nil
}

func (c *Catalogs) Building(typ string) (BuildingDef, bool) {
	d, ok := c.Buildings.ByType[typ]
	return d, ok
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
