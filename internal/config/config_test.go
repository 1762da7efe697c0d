package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chTempDir(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	chTempDir(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "leadscan.db", cfg.Store.DatabaseURL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.InDelta(t, 0.62, cfg.Dedupe.Threshold, 0.001)
	assert.InDelta(t, 0.45, cfg.Dedupe.NameGate, 0.001)
	assert.InDelta(t, 0.7, cfg.Dedupe.NameWeight, 0.001)
	assert.InDelta(t, 0.3, cfg.Dedupe.AddressWeight, 0.001)
	assert.InDelta(t, 25, cfg.Scoring.RatingQualityWeight, 0.001)
	assert.InDelta(t, 15, cfg.Scoring.ReviewVolumeWeight, 0.001)
	assert.InDelta(t, 15, cfg.Scoring.CompletenessWeight, 0.001)
	assert.InDelta(t, 20, cfg.Scoring.CategoryFitWeight, 0.001)
	assert.InDelta(t, 15, cfg.Scoring.MarketOpportunityWeight, 0.001)
	assert.InDelta(t, 10, cfg.Scoring.GrowthSignalWeight, 0.001)
	assert.InDelta(t, 8.0, cfg.Scoring.TopCutoff, 0.001)
	assert.InDelta(t, 6.0, cfg.Scoring.HighCutoff, 0.001)
	assert.InDelta(t, 4.0, cfg.Scoring.MediumCutoff, 0.001)
	assert.InDelta(t, 1.0, cfg.Scoring.MaxAdjust, 0.001)
	assert.Equal(t, 3, cfg.Market.NoveltyThreshold)
	assert.Equal(t, 10, cfg.Market.SaturationCount)
	assert.Equal(t, 5, cfg.Market.TopAreas)
	assert.Equal(t, 2, cfg.Market.MinAreaSampleCount)
	assert.Equal(t, 8, cfg.Pipeline.Workers)
	assert.Equal(t, 5, cfg.Recommend.LeadsPerSegment)
}

func TestLoadFromYAML(t *testing.T) {
	chTempDir(t)

	yaml := `
store:
  driver: postgres
  database_url: postgres://localhost/leadscan
log:
  level: debug
  format: console
dedupe:
  threshold: 0.8
pipeline:
  workers: 2
`
	dir, _ := os.Getwd()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/leadscan", cfg.Store.DatabaseURL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.InDelta(t, 0.8, cfg.Dedupe.Threshold, 0.001)
	assert.Equal(t, 2, cfg.Pipeline.Workers)
	// Defaults still apply for unset values
	assert.InDelta(t, 0.45, cfg.Dedupe.NameGate, 0.001)
	assert.Equal(t, 5, cfg.Recommend.LeadsPerSegment)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	chTempDir(t)

	yaml := `
store:
  driver: postgres
log:
  level: debug
`
	dir, _ := os.Getwd()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("LEADSCAN_STORE_DRIVER", "sqlite")
	t.Setenv("LEADSCAN_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chTempDir(t)

	t.Setenv("LEADSCAN_PIPELINE_WORKERS", "3")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Pipeline.Workers)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}
