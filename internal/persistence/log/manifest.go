package log

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"colonysim.ai/internal/sim/tuning"
)

const manifestName = "run.json"

// RunManifest records what a replay needs to rebuild the starting world.
type RunManifest struct {
	RunID         string        `json:"run_id"`
	StartedAt     time.Time     `json:"started_at"`
	CatalogDigest string        `json:"catalog_digest"`
	Tuning        tuning.Tuning `json:"tuning"`
}

func WriteManifest(runDir string, m RunManifest) error {
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	tmp := filepath.Join(runDir, manifestName+".tmp")
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, filepath.Join(runDir, manifestName))
}

func ReadManifest(runDir string) (RunManifest, error) {
	var m RunManifest
	b, err := os.ReadFile(filepath.Join(runDir, manifestName))
	if err != nil {
		return m, err
	}
	if err := json.Unmarshal(b, &m); err != nil {
		return m, fmt.Errorf("%s: %w", manifestName, err)
	}
	return m, nil
}
