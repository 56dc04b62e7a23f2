package building

import "colonysim.ai/internal/sim/ledger"

// Production is the timer that turns worker time into one unit of resource.
// It is never producing and ready at once, and the elapsed time resets
// whenever either flag flips.
type Production struct {
	TimeMs   float64
	Resource ledger.Resource

	elapsedMs float64
	producing bool
	ready     bool
	worker    string
}

func NewProduction(timeMs float64, r ledger.Resource) *Production {
	return &Production{TimeMs: timeMs, Resource: r}
}

// StartProduction is a no-op while producing or holding a ready unit.
func (p *Production) StartProduction() {
	if p.producing || p.ready {
		return
	}
	p.producing = true
	p.elapsedMs = 0
}

func (p *Production) Update(deltaMs float64) {
	if !p.producing || deltaMs <= 0 {
		return
	}
	p.elapsedMs += deltaMs
	if p.elapsedMs >= p.TimeMs {
		p.producing = false
		p.ready = true
		p.elapsedMs = 0
	}
}

func (p *Production) HasResourceReady() bool { return p.ready }
func (p *Production) IsProducing() bool      { return p.producing }
func (p *Production) ElapsedMs() float64     { return p.elapsedMs }

// CollectResource hands over the ready unit. Calling it without a ready unit
// is a caller bug and yields ("", false).
func (p *Production) CollectResource() (ledger.Resource, bool) {
	if !p.ready {
		return "", false
	}
	p.ready = false
	p.elapsedMs = 0
	return p.Resource, true
}

// Progress is the completed fraction of the current cycle, 0 when idle.
func (p *Production) Progress() float64 {
	if !p.producing || p.TimeMs <= 0 {
		return 0
	}
	return p.elapsedMs / p.TimeMs
}

func (p *Production) AssignWorker(id string) { p.worker = id }
func (p *Production) AssignedWorker() string { return p.worker }
