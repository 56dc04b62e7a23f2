package indexdb

import (
	"testing"

	"colonysim.ai/internal/sim/world"
)

func TestSQLiteIndex_QueueDropStats(t *testing.T) {
	s := &SQLiteIndex{ch: make(chan req, 1)}
	s.ch <- req{kind: reqTick, tick: world.TickLogEntry{Tick: 1}}

	_ = s.WriteTick(world.TickLogEntry{Tick: 2})
	_ = s.WriteAudit(world.AuditEntry{Tick: 2})
	_ = s.WriteAudit(world.AuditEntry{Tick: 3})

	st := s.Stats()
	if st.DropTickTotal != 1 {
		t.Fatalf("DropTickTotal=%d want=1", st.DropTickTotal)
	}
	if st.DropAuditTotal != 2 {
		t.Fatalf("DropAuditTotal=%d want=2", st.DropAuditTotal)
	}
	if st.QueueDepth != 1 || st.QueueCapacity != 1 {
		t.Fatalf("queue=%d/%d want=1/1", st.QueueDepth, st.QueueCapacity)
	}
}

func TestSQLiteIndex_NilIsNoop(t *testing.T) {
	var s *SQLiteIndex
	if err := s.WriteTick(world.TickLogEntry{Tick: 1}); err != nil {
		t.Fatalf("WriteTick: %v", err)
	}
	if err := s.WriteAudit(world.AuditEntry{Tick: 1}); err != nil {
		t.Fatalf("WriteAudit: %v", err)
	}
	if st := s.Stats(); st != (Stats{}) {
		t.Fatalf("stats=%+v", st)
	}
}
