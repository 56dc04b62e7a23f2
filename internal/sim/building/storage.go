package building

import "colonysim.ai/internal/sim/ledger"

// Ledger receives one increment per accepted delivery.
type Ledger interface {
	AddResource(r ledger.Resource, amount int)
}

// Storage is a bounded sink. ReceiveResource's boolean is the only
// backpressure signal: no queueing, no partial delivery, no reservation.
type Storage struct {
	MaxCapacity int

	amount   int
	contents map[ledger.Resource]int
	ledger   Ledger
}

func NewStorage(capacity int, l Ledger) *Storage {
	return &Storage{
		MaxCapacity: capacity,
		contents:    map[ledger.Resource]int{},
		ledger:      l,
	}
}

func (s *Storage) HasSpace() bool { return s.amount < s.MaxCapacity }

// ReceiveResource stores one unit of r if there is space.
func (s *Storage) ReceiveResource(r ledger.Resource) bool {
	if !s.HasSpace() {
		return false
	}
	s.amount++
	s.contents[r]++
	if s.ledger != nil {
		s.ledger.AddResource(r, 1)
	}
	return true
}

// Withdraw removes up to n units of r and returns how many were taken.
// The ledger keeps counting deliveries; only the stock drops.
func (s *Storage) Withdraw(r ledger.Resource, n int) int {
	if n <= 0 {
		return 0
	}
	have := s.contents[r]
	if n > have {
		n = have
	}
	if n == 0 {
		return 0
	}
	s.contents[r] = have - n
	if s.contents[r] == 0 {
		delete(s.contents, r)
	}
	s.amount -= n
	return n
}

func (s *Storage) CurrentAmount() int { return s.amount }

func (s *Storage) Contents() map[ledger.Resource]int {
	out := make(map[ledger.Resource]int, len(s.contents))
	for k, v := range s.contents {
		out[k] = v
	}
	return out
}
