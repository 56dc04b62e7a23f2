// Package ledger keeps the colony-wide per-resource totals shown to
// observers. It is display-only: no simulation decision reads it.
package ledger

import "sort"

// Resource names a resource type, e.g. "TOMATO".
type Resource string

type Ledger struct {
	totals    map[Resource]int
	listeners []func(Resource, int)
}

// New seeds every known resource with zero so observers see stable keys.
func New(known ...Resource) *Ledger {
	l := &Ledger{totals: make(map[Resource]int, len(known))}
	for _, r := range known {
		l.totals[r] = 0
	}
	return l
}

// AddResource adjusts the total for r and notifies listeners.
func (l *Ledger) AddResource(r Resource, amount int) {
	if r == "" || amount == 0 {
		return
	}
	l.totals[r] += amount
	for _, fn := range l.listeners {
		fn(r, l.totals[r])
	}
}

func (l *Ledger) Get(r Resource) int { return l.totals[r] }

// All returns a copy of the totals.
func (l *Ledger) All() map[Resource]int {
	out := make(map[Resource]int, len(l.totals))
	for k, v := range l.totals {
		out[k] = v
	}
	return out
}

// Keys returns the tracked resources in sorted order.
func (l *Ledger) Keys() []Resource {
	keys := make([]Resource, 0, len(l.totals))
	for k := range l.totals {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// OnChange registers fn to run after every change with the new total.
func (l *Ledger) OnChange(fn func(r Resource, total int)) {
	l.listeners = append(l.listeners, fn)
}
