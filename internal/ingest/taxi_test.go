package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ctessum/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wheretodine/hotspot-cli/internal/model"
)

const taxiHeader = "dropoff_datetime,dropoff_latitude,dropoff_longitude\n"

func writeTaxiDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestReadTaxiTrips_FiltersAndWeights(t *testing.T) {
	dir := writeTaxiDir(t, map[string]string{
		"2024-01.csv": taxiHeader +
			// Saturday dinner: weight 1.5.
			"2024-01-06 19:30:00,40.7200,-73.9900\n" +
			// Tuesday mid-afternoon: outside dining hours, dropped.
			"2024-01-02 15:30:00,40.7200,-73.9900\n" +
			// Tuesday lunch: weight 0.8.
			"2024-01-02 12:15:00,40.7300,-73.9800\n" +
			// Null island coordinates are dropped.
			"2024-01-02 12:15:00,0,0\n",
	})

	recs, err := ReadTaxiTrips(context.Background(), dir, TaxiOptions{Weights: testWeights})
	require.NoError(t, err)

	require.Len(t, recs, 2)
	assert.InDelta(t, 1.5, recs[0].Weight, 1e-9)
	assert.InDelta(t, 0.8, recs[1].Weight, 1e-9)
	for _, r := range recs {
		assert.Equal(t, model.SourceTaxi, r.Source)
		assert.NotEmpty(t, r.ID)
	}
}

func TestReadTaxiTrips_BadFileIsolated(t *testing.T) {
	dir := writeTaxiDir(t, map[string]string{
		"2024-01.csv": taxiHeader + "2024-01-06 19:30:00,40.7200,-73.9900\n",
		"2024-02.csv": "completely,unrelated,columns\n1,2,3\n",
	})

	recs, err := ReadTaxiTrips(context.Background(), dir, TaxiOptions{Weights: testWeights})
	require.NoError(t, err)

	assert.Len(t, recs, 1)
}

func TestReadTaxiTrips_AllFilesBadIsFatal(t *testing.T) {
	dir := writeTaxiDir(t, map[string]string{
		"2024-01.csv": "completely,unrelated,columns\n",
	})

	_, err := ReadTaxiTrips(context.Background(), dir, TaxiOptions{Weights: testWeights})
	assert.Error(t, err)
}

func TestReadTaxiTrips_EmptyDir(t *testing.T) {
	_, err := ReadTaxiTrips(context.Background(), t.TempDir(), TaxiOptions{Weights: testWeights})
	assert.Error(t, err)
}

func TestReadTaxiTrips_BoundaryFilter(t *testing.T) {
	boundary := NewBoundary([]geom.Polygon{{{
		{X: -74.00, Y: 40.70}, {X: -73.95, Y: 40.70},
		{X: -73.95, Y: 40.75}, {X: -74.00, Y: 40.75}, {X: -74.00, Y: 40.70},
	}}})
	dir := writeTaxiDir(t, map[string]string{
		"2024-01.csv": taxiHeader +
			"2024-01-06 19:30:00,40.7200,-73.9900\n" + // inside
			"2024-01-06 19:30:00,40.9000,-73.9900\n", // outside
	})

	recs, err := ReadTaxiTrips(context.Background(), dir, TaxiOptions{Weights: testWeights, Boundary: boundary})
	require.NoError(t, err)

	require.Len(t, recs, 1)
	assert.InDelta(t, 40.72, recs[0].Lat, 1e-9)
}

func TestBoundary_NilContainsEverything(t *testing.T) {
	var b *Boundary
	assert.True(t, b.Contains(-73.99, 40.72))
}

func TestBoundary_Contains(t *testing.T) {
	b := NewBoundary([]geom.Polygon{{{
		{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}, {X: 0, Y: 0},
	}}})

	assert.True(t, b.Contains(5, 5))
	assert.False(t, b.Contains(15, 5))
	assert.False(t, b.Contains(-1, -1))
}
