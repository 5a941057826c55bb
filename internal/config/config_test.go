package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(origDir) })
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "nyc", cfg.City.Name)
	assert.InDelta(t, 40.7128, cfg.City.CenterLat, 0.0001)
	assert.InDelta(t, -74.0060, cfg.City.CenterLon, 0.0001)

	assert.InDelta(t, 50.0, cfg.Dedupe.DistanceThresholdM, 0.001)
	assert.InDelta(t, 80.0, cfg.Dedupe.NameSimilarity, 0.001)

	assert.Equal(t, 30, cfg.Clustering.Restaurants.MinClusterSize)
	assert.Equal(t, 10, cfg.Clustering.Restaurants.MinSamples)
	assert.InDelta(t, 200.0, cfg.Clustering.Restaurants.SelectionEpsilon, 0.001)
	assert.Equal(t, "eom", cfg.Clustering.Restaurants.SelectionMethod)
	assert.Equal(t, 50, cfg.Clustering.Taxi.MinClusterSize)
	assert.Equal(t, 15, cfg.Clustering.Taxi.MinSamples)
	assert.InDelta(t, 250.0, cfg.Clustering.Taxi.SelectionEpsilon, 0.001)
	assert.InDelta(t, 100.0, cfg.Clustering.DiningZoneBuffer, 0.001)
	assert.InDelta(t, 150.0, cfg.Clustering.TaxiBuffer, 0.001)
	assert.Equal(t, 10000, cfg.Clustering.ValidationSample)

	assert.InDelta(t, 10000.0, cfg.Intersection.MinAreaSqm, 0.001)
	assert.InDelta(t, 0.15, cfg.Intersection.MinOverlapRatio, 0.001)

	assert.InDelta(t, 1.5, cfg.Temporal.Weights.WeekendDinner, 0.001)
	assert.InDelta(t, 1.0, cfg.Temporal.Weights.WeekdayDinner, 0.001)
	assert.InDelta(t, 0.8, cfg.Temporal.Weights.WeekdayLunch, 0.001)
	assert.InDelta(t, 0.5, cfg.Temporal.Weights.Breakfast, 0.001)
	assert.InDelta(t, 0.7, cfg.Temporal.Weights.LateNightWeekend, 0.001)
	assert.InDelta(t, 0.4, cfg.Temporal.Weights.LateNightWeekday, 0.001)
	assert.InDelta(t, 0.3, cfg.Temporal.Weights.OffPeak, 0.001)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "hotspot.db", cfg.Store.Path)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	chdirTemp(t)

	yaml := `
city:
  name: chicago
  center_lat: 41.8781
  center_lon: -87.6298
dedupe:
  distance_threshold_m: 75
clustering:
  restaurants:
    min_cluster_size: 20
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile("config.yaml", []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "chicago", cfg.City.Name)
	assert.InDelta(t, 41.8781, cfg.City.CenterLat, 0.0001)
	assert.InDelta(t, 75.0, cfg.Dedupe.DistanceThresholdM, 0.001)
	assert.Equal(t, 20, cfg.Clustering.Restaurants.MinClusterSize)
	assert.Equal(t, "debug", cfg.Log.Level)

	// Untouched keys keep their defaults.
	assert.Equal(t, 10, cfg.Clustering.Restaurants.MinSamples)
	assert.InDelta(t, 0.15, cfg.Intersection.MinOverlapRatio, 0.001)
}

func TestLoadEnvOverrides(t *testing.T) {
	chdirTemp(t)
	t.Setenv("HOTSPOT_STORE_DRIVER", "postgres")
	t.Setenv("HOTSPOT_LOG_LEVEL", "warn")
	t.Setenv("HOTSPOT_SERVER_PORT", "3000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
	require.Error(t, InitLogger(LogConfig{Level: "nope", Format: "json"}))
}
