package intersect

import (
	"github.com/rotisserie/eris"

	"github.com/wheretodine/hotspot-cli/internal/geometry"
	"github.com/wheretodine/hotspot-cli/internal/model"
)

// topHotspotCount bounds the highlight list in the analysis record.
const topHotspotCount = 10

// Summarize builds the analysis record for an intersection run. hotspots
// must already be sorted best first, as FilterAndScore returns them.
func Summarize(dining, taxi []model.Zone, hotspots []model.Hotspot, proj *geometry.Projector) (*model.IntersectionSummary, error) {
	s := &model.IntersectionSummary{
		TopHotspots: []model.TopHotspot{},
	}

	s.InputData.NDiningZones = len(dining)
	s.InputData.NTaxiHotspots = len(taxi)
	for _, z := range dining {
		s.InputData.DiningTotalSqkm += z.AreaSqkm()
	}
	for _, z := range taxi {
		s.InputData.TaxiTotalSqkm += z.AreaSqkm()
	}

	s.FinalHotspots.NHotspots = len(hotspots)
	for _, h := range hotspots {
		s.FinalHotspots.TotalAreaSqkm += h.IntersectionAreaSqm / 1e6
		s.FinalHotspots.TotalRestaurants += h.NRestaurants
		s.FinalHotspots.TotalTaxiDropoffs += h.NTaxiDropoffs
	}
	if len(hotspots) > 0 {
		s.FinalHotspots.AvgAreaSqm = s.FinalHotspots.TotalAreaSqkm * 1e6 / float64(len(hotspots))
	}

	for i, h := range hotspots {
		if i == topHotspotCount {
			break
		}
		c := h.Geom.Centroid()
		lon, lat, err := proj.Inverse(c.X, c.Y)
		if err != nil {
			return nil, eris.Wrapf(err, "intersect: unproject centroid of hotspot %d/%d",
				h.DiningClusterID, h.TaxiClusterID)
		}
		s.TopHotspots = append(s.TopHotspots, model.TopHotspot{
			Rank:            h.Rank,
			PopularityScore: h.PopularityScore,
			NRestaurants:    h.NRestaurants,
			NTaxiDropoffs:   h.NTaxiDropoffs,
			AreaSqkm:        h.IntersectionAreaSqm / 1e6,
			AvgRating:       h.AvgRating,
			CentroidLat:     lat,
			CentroidLon:     lon,
		})
	}
	return s, nil
}
