package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	ctgeom "github.com/ctessum/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wheretodine/hotspot-cli/internal/geometry"
	"github.com/wheretodine/hotspot-cli/internal/model"
)

func testProjector(t *testing.T) *geometry.Projector {
	t.Helper()
	p, err := geometry.NewProjector(40.7128, -74.0060)
	require.NoError(t, err)
	return p
}

func ptr(f float64) *float64 { return &f }

func TestWriteReadPoints_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "restaurants_merged.geojson")
	records := []model.PointRecord{
		{ID: "p1", Name: "Joe's Pizza", Lat: 40.72, Lon: -73.99, Rating: ptr(4.5), Weight: 1, Source: model.SourceGoogle},
		{ID: "p2", Lat: 40.73, Lon: -73.98, Weight: 1.5, Source: model.SourceTaxi},
	}

	require.NoError(t, WritePoints(path, records))

	got, err := ReadPoints(path)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "p1", got[0].ID)
	assert.Equal(t, "Joe's Pizza", got[0].Name)
	assert.InDelta(t, 40.72, got[0].Lat, 1e-9)
	assert.InDelta(t, -73.99, got[0].Lon, 1e-9)
	require.NotNil(t, got[0].Rating)
	assert.InDelta(t, 4.5, *got[0].Rating, 1e-9)
	assert.Equal(t, model.SourceGoogle, got[0].Source)

	assert.Nil(t, got[1].Rating)
	assert.InDelta(t, 1.5, got[1].Weight, 1e-9)
	assert.Equal(t, model.SourceTaxi, got[1].Source)
}

func TestWriteZones(t *testing.T) {
	proj := testProjector(t)
	path := filepath.Join(t.TempDir(), "dining_zones.geojson")
	zones := []model.Zone{
		{
			ClusterID: 0, Source: model.ZoneDining, Members: 12,
			AvgRating: ptr(4.2), TotalWeight: 12, AreaSqm: 40000,
			Geom: ctgeom.Polygon{{
				{X: 0, Y: 0}, {X: 200, Y: 0}, {X: 200, Y: 200}, {X: 0, Y: 200}, {X: 0, Y: 0},
			}},
		},
	}

	require.NoError(t, WriteZones(path, zones, proj))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	body := string(data)
	assert.Contains(t, body, `"FeatureCollection"`)
	assert.Contains(t, body, `"cluster_id": 0`)
	assert.Contains(t, body, `"avg_rating": 4.2`)
	assert.Contains(t, body, `"Polygon"`)
	// Coordinates are geographic, near the projection center.
	assert.Contains(t, body, "-74.00")
}

func TestWriteHotspots(t *testing.T) {
	proj := testProjector(t)
	path := filepath.Join(t.TempDir(), "final_hotspots.geojson")
	hotspots := []model.Hotspot{
		{
			Candidate: model.Candidate{
				DiningClusterID: 1, TaxiClusterID: 2,
				NRestaurants: 30, NTaxiDropoffs: 400, TaxiWeight: 450,
				IntersectionAreaSqm: 20000,
				AvgRating:           ptr(4.1),
				Geom: ctgeom.Polygon{{
					{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}, {X: 0, Y: 100}, {X: 0, Y: 0},
				}},
			},
			PopularityScore: 87.5,
			Rank:            1,
		},
	}

	require.NoError(t, WriteHotspots(path, hotspots, proj))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	body := string(data)
	assert.Contains(t, body, `"rank": 1`)
	assert.Contains(t, body, `"popularity_score": 87.5`)
	assert.Contains(t, body, `"n_restaurants": 30`)
	assert.Contains(t, body, `"taxi_hotspot_id": 2`)
}

func TestWriteJSON_ReadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "clustering_metrics.json")
	in := model.ClusteringMetrics{NClusters: 3, NNoise: 10, NTotal: 100, NoiseRatio: 0.1, PctClustered: 90}

	require.NoError(t, WriteJSON(path, in))

	var out model.ClusteringMetrics
	require.NoError(t, ReadJSON(path, &out))
	assert.Equal(t, in, out)

	// Absent scores serialize as null, not zero.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `"silhouette_score": null`))
}

func TestWriteJSON_NoPartialFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "summary.json")
	require.NoError(t, WriteJSON(path, map[string]int{"a": 1}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "summary.json", entries[0].Name())
}

func TestReadPoints_MissingFile(t *testing.T) {
	_, err := ReadPoints(filepath.Join(t.TempDir(), "nope.geojson"))
	assert.Error(t, err)
}
