package log

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/klauspost/compress/zstd"

	"colonysim.ai/internal/sim/world"
)

const maxLineBytes = 4 << 20

// Files lists the journal files of one stream ("ticks" or "audit") under
// runDir in chronological order.
func Files(runDir, stream string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(runDir, stream, stream+"-*.jsonl.zst"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// ReadJSONL decodes every line of a compressed JSONL file and hands the raw
// bytes to fn. fn must not retain the slice.
func ReadJSONL(path string, fn func(line []byte) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return err
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	line := 0
	for sc.Scan() {
		line++
		if len(sc.Bytes()) == 0 {
			continue
		}
		if err := fn(sc.Bytes()); err != nil {
			return fmt.Errorf("%s:%d: %w", filepath.Base(path), line, err)
		}
	}
	return sc.Err()
}

// ReadTicks replays every tick entry recorded under runDir.
func ReadTicks(runDir string, fn func(world.TickLogEntry) error) error {
	files, err := Files(runDir, "ticks")
	if err != nil {
		return err
	}
	for _, p := range files {
		err := ReadJSONL(p, func(b []byte) error {
			var e world.TickLogEntry
			if err := json.Unmarshal(b, &e); err != nil {
				return err
			}
			return fn(e)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// ReadAudits replays every audit entry recorded under runDir.
func ReadAudits(runDir string, fn func(world.AuditEntry) error) error {
	files, err := Files(runDir, "audit")
	if err != nil {
		return err
	}
	for _, p := range files {
		err := ReadJSONL(p, func(b []byte) error {
			var e world.AuditEntry
			if err := json.Unmarshal(b, &e); err != nil {
				return err
			}
			return fn(e)
		})
		if err != nil {
			return err
		}
	}
	return nil
}
