package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.worldbank.org/v2", cfg.Sources.WorldBankURL)
	assert.Equal(t, "https://overpass-api.de/api/interpreter", cfg.Sources.OverpassURL)
	assert.InDelta(t, 1.0, cfg.Sources.OverpassRPS, 0.001)
	assert.Equal(t, 24, cfg.Cache.IndicatorTTLHours)
	assert.Equal(t, 60, cfg.Cache.GeospatialTTLMins)
	assert.Equal(t, 10, cfg.Query.RadiusKM)
	assert.Equal(t, 150, cfg.Query.MaxPoints)
	assert.Equal(t, []string{"neighbourhood", "suburb", "quarter", "district"}, cfg.Query.ZoneTypes)
	assert.Equal(t, 8, cfg.Query.BestCandidates)
	assert.InDelta(t, 1.2, cfg.Weights.Population, 0.001)
	assert.InDelta(t, 1.0, cfg.Weights.GDPPerCapita, 0.001)
	assert.InDelta(t, 0.8, cfg.Weights.Growth, 0.001)
	assert.InDelta(t, 0.6, cfg.Weights.Risk, 0.001)
	assert.InDelta(t, 10.0, cfg.Alerts.InflationAbove, 0.001)
	assert.InDelta(t, 12.0, cfg.Alerts.UnemploymentAbove, 0.001)
	assert.InDelta(t, -0.5, cfg.Alerts.RiskBelow, 0.001)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "radar.db", cfg.Store.DSN)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
sources:
  overpass_rps: 0.5
query:
  radius_km: 25
store:
  driver: postgres
  dsn: postgres://localhost/radar
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.InDelta(t, 0.5, cfg.Sources.OverpassRPS, 0.001)
	assert.Equal(t, 25, cfg.Query.RadiusKM)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Defaults still apply for unset values
	assert.Equal(t, 150, cfg.Query.MaxPoints)
	assert.Equal(t, 24, cfg.Cache.IndicatorTTLHours)
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	t.Setenv("RADAR_SERVER_PORT", "9191")
	t.Setenv("RADAR_CACHE_INDICATOR_TTL_HOURS", "48")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, 48, cfg.Cache.IndicatorTTLHours)
}

func TestCacheTTLs(t *testing.T) {
	cfg := CacheConfig{IndicatorTTLHours: 24, GeospatialTTLMins: 60}
	assert.Equal(t, 24*time.Hour, cfg.IndicatorTTL())
	assert.Equal(t, time.Hour, cfg.GeospatialTTL())
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
	assert.NotNil(t, zap.L())

	assert.Error(t, InitLogger(LogConfig{Level: "shouty", Format: "json"}))
}
