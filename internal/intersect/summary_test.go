package intersect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wheretodine/hotspot-cli/internal/geometry"
	"github.com/wheretodine/hotspot-cli/internal/model"
)

func TestSummarize(t *testing.T) {
	proj, err := geometry.NewProjector(40.7128, -74.0060)
	require.NoError(t, err)

	dining := []model.Zone{
		zoneAt(0, model.ZoneDining, 40, 40, rect(0, 0, 1000, 1000)),
		zoneAt(1, model.ZoneDining, 20, 20, rect(3000, 0, 4000, 1000)),
	}
	taxi := []model.Zone{
		zoneAt(0, model.ZoneTaxi, 500, 620, rect(500, 0, 1500, 1000)),
	}

	hotspots := FilterAndScore(Candidates(dining, taxi, true), Config{MinAreaSqm: 10000, MinOverlapRatio: 0.15})
	require.Len(t, hotspots, 1)

	s, err := Summarize(dining, taxi, hotspots, proj)
	require.NoError(t, err)

	assert.Equal(t, 2, s.InputData.NDiningZones)
	assert.Equal(t, 1, s.InputData.NTaxiHotspots)
	assert.InDelta(t, 2.0, s.InputData.DiningTotalSqkm, 1e-6)
	assert.InDelta(t, 1.0, s.InputData.TaxiTotalSqkm, 1e-6)

	assert.Equal(t, 1, s.FinalHotspots.NHotspots)
	assert.InDelta(t, 0.5, s.FinalHotspots.TotalAreaSqkm, 1e-6)
	assert.InDelta(t, 500000, s.FinalHotspots.AvgAreaSqm, 1)
	assert.Equal(t, 40, s.FinalHotspots.TotalRestaurants)
	assert.Equal(t, 500, s.FinalHotspots.TotalTaxiDropoffs)

	require.Len(t, s.TopHotspots, 1)
	top := s.TopHotspots[0]
	assert.Equal(t, 1, top.Rank)
	assert.InDelta(t, 0.5, top.AreaSqkm, 1e-6)
	// Centroid of the overlap strip sits near the projection origin.
	assert.InDelta(t, 40.7128, top.CentroidLat, 0.05)
	assert.InDelta(t, -74.0060, top.CentroidLon, 0.05)
}

func TestSummarize_NoHotspots(t *testing.T) {
	proj, err := geometry.NewProjector(40.7128, -74.0060)
	require.NoError(t, err)

	s, err := Summarize(nil, nil, nil, proj)
	require.NoError(t, err)

	assert.Equal(t, 0, s.FinalHotspots.NHotspots)
	assert.Empty(t, s.TopHotspots)
	assert.InDelta(t, 0, s.FinalHotspots.AvgAreaSqm, 1e-9)
}
