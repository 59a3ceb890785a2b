package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleYAML = `
window:
  start_hour: "2026-01-01T00:00:00Z"
  end_hour:   "2026-01-02T23:00:00Z"
trial_size: 1000
seed: 42
elcc:
  metric: eue
  precision: 0.01
  max_iters: 20
`

func writeSample(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))
	return path
}

func TestLoad_Valid(t *testing.T) {
	path := writeSample(t)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 1000, cfg.TrialSize)
	require.Equal(t, int64(42), cfg.Seed)

	kind, err := cfg.MetricKind()
	require.NoError(t, err)
	require.Equal(t, "eue", kind.String())
}

func TestLoad_InvalidWindow(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	bad := `
window:
  start_hour: "2026-01-02T00:00:00Z"
  end_hour:   "2026-01-01T00:00:00Z"
trial_size: 10
`
	require.NoError(t, os.WriteFile(path, []byte(bad), 0o644))
	_, err := Load(path)
	require.Error(t, err)
}
