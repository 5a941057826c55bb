package zone

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wheretodine/hotspot-cli/internal/cluster"
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

func TestBuild_TwoClustersAndNoise(t *testing.T) {
	proj := testProjector(t)
	records := []model.PointRecord{
		{ID: "a", Lat: 40.7200, Lon: -73.9900, Rating: ptr(4.0), Weight: 1, Source: model.SourceGoogle},
		{ID: "b", Lat: 40.7201, Lon: -73.9901, Rating: ptr(5.0), Weight: 1, Source: model.SourceGoogle},
		{ID: "c", Lat: 40.7202, Lon: -73.9899, Weight: 1, Source: model.SourceOSM},
		{ID: "d", Lat: 40.7400, Lon: -73.9700, Weight: 2.6, Source: model.SourceGoogle},
		{ID: "e", Lat: 40.7401, Lon: -73.9701, Weight: 0, Source: model.SourceGoogle},
		{ID: "f", Lat: 40.7600, Lon: -73.9500, Weight: 1, Source: model.SourceGoogle},
	}
	labels := []int{0, 0, 0, 1, 1, cluster.Noise}

	zones, err := Build(proj, records, labels, model.ZoneDining, 100)
	require.NoError(t, err)

	require.Len(t, zones, 2)
	assert.Equal(t, 0, zones[0].ClusterID)
	assert.Equal(t, 1, zones[1].ClusterID)
	assert.Equal(t, model.ZoneDining, zones[0].Source)

	assert.Equal(t, 3, zones[0].Members)
	require.NotNil(t, zones[0].AvgRating)
	assert.InDelta(t, 4.5, *zones[0].AvgRating, 1e-9)
	assert.InDelta(t, 3.0, zones[0].TotalWeight, 1e-9)

	assert.Equal(t, 2, zones[1].Members)
	assert.Nil(t, zones[1].AvgRating)
	// Zero weight counts as one.
	assert.InDelta(t, 3.6, zones[1].TotalWeight, 1e-9)
}

func TestBuild_SinglePointClusterIsDisk(t *testing.T) {
	proj := testProjector(t)
	records := []model.PointRecord{
		{ID: "a", Lat: 40.7200, Lon: -73.9900, Weight: 1, Source: model.SourceTaxi},
		{ID: "b", Lat: 40.7600, Lon: -73.9500, Weight: 1, Source: model.SourceTaxi},
		{ID: "c", Lat: 40.7601, Lon: -73.9501, Weight: 1, Source: model.SourceTaxi},
	}
	labels := []int{0, 1, 1}

	zones, err := Build(proj, records, labels, model.ZoneTaxi, 150)
	require.NoError(t, err)

	require.Len(t, zones, 2)
	want := math.Pi * 150 * 150
	assert.InDelta(t, want, zones[0].AreaSqm, 0.05*want)
}

func TestBuild_BufferExpandsArea(t *testing.T) {
	proj := testProjector(t)
	records := []model.PointRecord{
		{ID: "a", Lat: 40.7200, Lon: -73.9900, Weight: 1},
		{ID: "b", Lat: 40.7210, Lon: -73.9900, Weight: 1},
		{ID: "c", Lat: 40.7200, Lon: -73.9885, Weight: 1},
		{ID: "d", Lat: 40.7210, Lon: -73.9885, Weight: 1},
	}
	labels := []int{0, 0, 0, 0}

	small, err := Build(proj, records, labels, model.ZoneDining, 50)
	require.NoError(t, err)
	large, err := Build(proj, records, labels, model.ZoneDining, 100)
	require.NoError(t, err)

	require.Len(t, small, 1)
	require.Len(t, large, 1)
	assert.Greater(t, large[0].AreaSqm, small[0].AreaSqm)
	// The buffered zone covers at least the raw hull.
	assert.Greater(t, small[0].AreaSqm, 100.0*100)
}

func TestBuild_LabelMismatch(t *testing.T) {
	proj := testProjector(t)
	_, err := Build(proj, []model.PointRecord{{ID: "a"}}, []int{0, 1}, model.ZoneDining, 100)

	assert.Error(t, err)
}

func TestBuild_AllNoise(t *testing.T) {
	proj := testProjector(t)
	records := []model.PointRecord{{ID: "a", Lat: 40.72, Lon: -73.99, Weight: 1}}

	zones, err := Build(proj, records, []int{cluster.Noise}, model.ZoneDining, 100)
	require.NoError(t, err)

	assert.Empty(t, zones)
}
