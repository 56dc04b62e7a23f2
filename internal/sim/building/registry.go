package building

import "fmt"

// Registry tracks placed buildings in placement order and remembers the
// singleton castle, storage and campfire.
type Registry struct {
	buildings []*Building
	byID      map[string]*Building

	castle   *Building
	storage  *Building
	campfire *Building

	nextNum uint64
}

func NewRegistry() *Registry {
	return &Registry{byID: map[string]*Building{}}
}

// NewID returns the next building id ("B1", "B2", ...).
func (r *Registry) NewID() string {
	r.nextNum++
	return fmt.Sprintf("B%d", r.nextNum)
}

func (r *Registry) Add(b *Building) {
	r.buildings = append(r.buildings, b)
	r.byID[b.ID] = b
	switch b.Type {
	case TypeCastle:
		r.castle = b
	case TypeStorage:
		r.storage = b
	case TypeCampfire:
		r.campfire = b
	}
}

// Remove drops the building and marks it Removed. Grid cells are the
// caller's to free.
func (r *Registry) Remove(id string) (*Building, bool) {
	b, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	delete(r.byID, id)
	for i, x := range r.buildings {
		if x == b {
			r.buildings = append(r.buildings[:i], r.buildings[i+1:]...)
			break
		}
	}
	switch b {
	case r.castle:
		r.castle = nil
	case r.storage:
		r.storage = nil
	case r.campfire:
		r.campfire = nil
	}
	b.Removed = true
	return b, true
}

func (r *Registry) Get(id string) *Building { return r.byID[id] }

// All returns the buildings in placement order. The slice is shared.
func (r *Registry) All() []*Building { return r.buildings }

func (r *Registry) Len() int { return len(r.buildings) }

func (r *Registry) Storage() *Building  { return r.storage }
func (r *Registry) Castle() *Building   { return r.castle }
func (r *Registry) Campfire() *Building { return r.campfire }

// Update advances every production timer.
func (r *Registry) Update(deltaMs float64) {
	for _, b := range r.buildings {
		b.Update(deltaMs)
	}
}
