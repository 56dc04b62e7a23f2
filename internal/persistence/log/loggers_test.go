package log

import (
	"path/filepath"
	"testing"
	"time"

	"colonysim.ai/internal/protocol"
	"colonysim.ai/internal/sim/world"
)

func fixedClock(j *Journal, t *time.Time) {
	now := func() time.Time { return *t }
	j.ticks.now = now
	j.audits.now = now
}

func TestJournal_HourlyRotationReadsBack(t *testing.T) {
	dir := t.TempDir()
	j := NewJournal(dir, RotateHour)
	clock := time.Date(2026, 3, 1, 10, 59, 0, 0, time.UTC)
	fixedClock(j, &clock)

	for i := uint64(0); i < 3; i++ {
		if err := j.WriteTick(world.TickLogEntry{Tick: i, Phase: world.PhasePlaying, Digest: "d"}); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	clock = clock.Add(2 * time.Minute)
	place := protocol.Command{Type: protocol.TypeCmd, Kind: protocol.CmdPlaceBuilding, Building: "GREENHOUSE", X: 3, Y: 4}
	if err := j.WriteTick(world.TickLogEntry{Tick: 3, Commands: []world.RecordedCommand{{Cmd: place, OK: true}}}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := j.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	files, err := Files(dir, "ticks")
	if err != nil {
		t.Fatalf("files: %v", err)
	}
	if len(files) != 2 || filepath.Base(files[1]) != "ticks-2026-03-01-11.jsonl.zst" {
		t.Fatalf("expected 2 hourly files, got %v", files)
	}

	var got []world.TickLogEntry
	if err := ReadTicks(dir, func(e world.TickLogEntry) error {
		got = append(got, e)
		return nil
	}); err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(got))
	}
	for i, e := range got {
		if e.Tick != uint64(i) {
			t.Fatalf("entry %d has tick %d", i, e.Tick)
		}
	}
	if c := got[3].Commands; len(c) != 1 || c[0].Cmd.Building != "GREENHOUSE" || c[0].Cmd.Y != 4 {
		t.Fatalf("command not preserved: %+v", c)
	}
}

func TestJournal_DailyRotationKeepsOneFile(t *testing.T) {
	dir := t.TempDir()
	j := NewJournal(dir, RotateDay)
	clock := time.Date(2026, 3, 1, 1, 0, 0, 0, time.UTC)
	fixedClock(j, &clock)

	for i := uint64(0); i < 4; i++ {
		if err := j.WriteAudit(world.AuditEntry{Tick: i, Action: world.AuditDeliver, Resource: "TOMATO", Count: 1}); err != nil {
			t.Fatalf("write: %v", err)
		}
		clock = clock.Add(5 * time.Hour)
	}
	if err := j.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	files, _ := Files(dir, "audit")
	if len(files) != 1 || filepath.Base(files[0]) != "audit-2026-03-01.jsonl.zst" {
		t.Fatalf("expected one daily file, got %v", files)
	}
}

func TestJournal_ReopenAppendsFrame(t *testing.T) {
	dir := t.TempDir()
	clock := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	for round := 0; round < 2; round++ {
		j := NewJournal(dir, RotateHour)
		fixedClock(j, &clock)
		if err := j.WriteAudit(world.AuditEntry{Tick: uint64(round), Action: world.AuditPlace, BuildingID: "B1"}); err != nil {
			t.Fatalf("write: %v", err)
		}
		if err := j.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
	}

	var ticks []uint64
	if err := ReadAudits(dir, func(e world.AuditEntry) error {
		ticks = append(ticks, e.Tick)
		return nil
	}); err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(ticks) != 2 || ticks[0] != 0 || ticks[1] != 1 {
		t.Fatalf("unexpected audits: %v", ticks)
	}
}

func TestJournal_CountsAndFlush(t *testing.T) {
	j := NewJournal(t.TempDir(), "")
	if err := j.Flush(); err != nil {
		t.Fatalf("flush before write: %v", err)
	}
	_ = j.WriteTick(world.TickLogEntry{Tick: 1})
	_ = j.WriteTick(world.TickLogEntry{Tick: 2})
	_ = j.WriteAudit(world.AuditEntry{Tick: 2, Action: world.AuditPlace})
	if err := j.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if ticks, audits := j.Counts(); ticks != 2 || audits != 1 {
		t.Fatalf("counts = %d, %d", ticks, audits)
	}
	if err := j.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := j.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}
