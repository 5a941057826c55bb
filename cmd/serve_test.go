package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wheretodine/hotspot-cli/internal/config"
	"github.com/wheretodine/hotspot-cli/internal/pipeline"
	"github.com/wheretodine/hotspot-cli/internal/store"
)

func newTestRouter(t *testing.T) (http.Handler, *config.Config, store.Store) {
	t.Helper()
	dir := t.TempDir()
	c := &config.Config{
		City: config.CityConfig{Name: "nyc", CenterLat: 40.7128, CenterLon: -74.0060},
		Data: config.DataConfig{OutputDir: filepath.Join(dir, "out")},
	}

	st, err := store.Open(context.Background(), config.StoreConfig{
		Driver: "sqlite",
		Path:   filepath.Join(dir, "runs.db"),
	})
	require.NoError(t, err)
	require.NoError(t, st.Migrate(context.Background()))
	t.Cleanup(func() { _ = st.Close() })

	p, err := pipeline.New(c)
	require.NoError(t, err)
	return newRouter(p, st), c, st
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestServe_Health(t *testing.T) {
	h, _, _ := newTestRouter(t)
	rec := get(t, h, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServe_ArtifactNotPublished(t *testing.T) {
	h, _, _ := newTestRouter(t)
	rec := get(t, h, "/api/hotspots")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "not published")
}

func TestServe_ArtifactPublished(t *testing.T) {
	h, c, _ := newTestRouter(t)
	require.NoError(t, os.MkdirAll(c.Data.OutputDir, 0o755))
	body := `{"type":"FeatureCollection","features":[]}`
	require.NoError(t, os.WriteFile(
		filepath.Join(c.Data.OutputDir, pipeline.FileFinalHotspots), []byte(body), 0o644))

	rec := get(t, h, "/api/hotspots")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, body, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestServe_ZoneRouting(t *testing.T) {
	h, c, _ := newTestRouter(t)
	require.NoError(t, os.MkdirAll(c.Data.OutputDir, 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(c.Data.OutputDir, pipeline.FileDiningZones), []byte(`{"dining":true}`), 0o644))
	require.NoError(t, os.WriteFile(
		filepath.Join(c.Data.OutputDir, pipeline.FileTaxiHotspots), []byte(`{"taxi":true}`), 0o644))

	assert.JSONEq(t, `{"dining":true}`, get(t, h, "/api/zones/dining").Body.String())
	assert.JSONEq(t, `{"taxi":true}`, get(t, h, "/api/zones/taxi").Body.String())
	assert.Equal(t, http.StatusNotFound, get(t, h, "/api/zones/bogus").Code)
}

func TestServe_MetricsRouting(t *testing.T) {
	h, c, _ := newTestRouter(t)
	require.NoError(t, os.MkdirAll(c.Data.OutputDir, 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(c.Data.OutputDir, pipeline.FileTaxiMetrics), []byte(`{"n_clusters":4}`), 0o644))

	assert.JSONEq(t, `{"n_clusters":4}`, get(t, h, "/api/metrics/taxi").Body.String())
	assert.Equal(t, http.StatusNotFound, get(t, h, "/api/metrics/unknown").Code)
}

func TestServe_Runs(t *testing.T) {
	h, _, st := newTestRouter(t)

	rec := get(t, h, "/api/runs")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	_, err := st.CreateRun(context.Background(), "nyc")
	require.NoError(t, err)

	rec = get(t, h, "/api/runs")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"nyc"`)
}
