package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"colonysim.ai/internal/persistence/indexdb"
)

type indexStats = indexdb.Stats

// openRuntimeIndex returns nil when indexing is disabled by flag or by
// COLONY_INDEX_BACKEND=none.
func openRuntimeIndex(runDir string, disableDB bool) (*indexdb.SQLiteIndex, error) {
	if disableDB {
		return nil, nil
	}

	backend := strings.ToLower(strings.TrimSpace(os.Getenv("COLONY_INDEX_BACKEND")))
	if backend == "" {
		backend = "sqlite"
	}

	switch backend {
	case "none", "off", "disabled":
		return nil, nil
	case "sqlite":
		return indexdb.OpenSQLite(filepath.Join(runDir, "index", "run.sqlite"))
	default:
		return nil, fmt.Errorf("unsupported COLONY_INDEX_BACKEND: %s", backend)
	}
}
