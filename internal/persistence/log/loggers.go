// Package log persists the colony journal: one compressed JSONL stream of
// tick entries and one of audit entries, each rotated on a fixed period.
package log

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/klauspost/compress/zstd"

	"colonysim.ai/internal/sim/world"
)

// Rotation picks the period after which a stream starts a new file.
type Rotation string

const (
	RotateHour Rotation = "hour"
	RotateDay  Rotation = "day"
)

// Layouts sort lexically in time order, so Files can sort by name.
func (r Rotation) layout() string {
	if r == RotateDay {
		return "2006-01-02"
	}
	return "2006-01-02-15"
}

// segmentWriter appends JSON lines to the current period's file, closing
// and reopening when the period changes. Reopening an existing file appends
// a new zstd frame, which readers decode transparently.
type segmentWriter struct {
	dir    string
	stream string
	layout string
	now    func() time.Time

	mu      sync.Mutex
	segment string
	f       *os.File
	enc     *zstd.Encoder
	buf     *bufio.Writer
	entries atomic.Uint64
}

func newSegmentWriter(runDir, stream string, rot Rotation) *segmentWriter {
	return &segmentWriter{
		dir:    filepath.Join(runDir, stream),
		stream: stream,
		layout: rot.layout(),
		now:    time.Now,
	}
}

func (w *segmentWriter) append(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	seg := w.now().UTC().Format(w.layout)
	if seg != w.segment {
		if err := w.open(seg); err != nil {
			return fmt.Errorf("%s journal: %w", w.stream, err)
		}
	}
	if _, err := w.buf.Write(b); err != nil {
		return err
	}
	if err := w.buf.WriteByte('\n'); err != nil {
		return err
	}
	w.entries.Add(1)
	return nil
}

func (w *segmentWriter) open(seg string) error {
	if err := w.closeSegment(); err != nil {
		return err
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(w.dir, fmt.Sprintf("%s-%s.jsonl.zst", w.stream, seg))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	w.f, w.enc, w.buf, w.segment = f, enc, bufio.NewWriterSize(enc, 128*1024), seg
	return nil
}

// flush pushes buffered lines through the compressor without ending the
// current frame.
func (w *segmentWriter) flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.buf == nil {
		return nil
	}
	if err := w.buf.Flush(); err != nil {
		return err
	}
	return w.enc.Flush()
}

func (w *segmentWriter) close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closeSegment()
}

func (w *segmentWriter) closeSegment() error {
	if w.f == nil {
		return nil
	}
	errs := []error{w.buf.Flush(), w.enc.Close(), w.f.Close()}
	w.f, w.enc, w.buf, w.segment = nil, nil, nil, ""
	return errors.Join(errs...)
}

// Journal records the tick and audit streams of one run. It satisfies both
// world.TickLogger and world.AuditLogger.
type Journal struct {
	ticks  *segmentWriter
	audits *segmentWriter
}

func NewJournal(runDir string, rot Rotation) *Journal {
	return &Journal{
		ticks:  newSegmentWriter(runDir, "ticks", rot),
		audits: newSegmentWriter(runDir, "audit", rot),
	}
}

func (j *Journal) WriteTick(e world.TickLogEntry) error { return j.ticks.append(e) }
func (j *Journal) WriteAudit(e world.AuditEntry) error  { return j.audits.append(e) }

// Counts reports how many tick and audit entries were appended since the
// journal was opened.
func (j *Journal) Counts() (ticks, audits uint64) {
	return j.ticks.entries.Load(), j.audits.entries.Load()
}

func (j *Journal) Flush() error {
	return errors.Join(j.ticks.flush(), j.audits.flush())
}

func (j *Journal) Close() error {
	return errors.Join(j.ticks.close(), j.audits.close())
}
