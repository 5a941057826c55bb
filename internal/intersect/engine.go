// Package intersect overlays dining zones with taxi hotspots and scores the
// overlapping regions into ranked final hotspots.
package intersect

import (
	"github.com/ctessum/geom"
	"go.uber.org/zap"

	"github.com/wheretodine/hotspot-cli/internal/model"
)

// Config holds the acceptance thresholds for candidate overlaps. Both
// conditions must hold for a candidate to survive: a candidate failing either
// one is discarded even when the other is excellent.
type Config struct {
	MinAreaSqm      float64
	MinOverlapRatio float64
	// BBoxPrefilter skips the exact intersection for pairs whose bounding
	// boxes are disjoint. It only ever skips work, never changes results.
	BBoxPrefilter bool
}

// Candidates intersects every dining zone with every taxi hotspot and
// returns the pairs whose intersection has positive area. Output order is
// deterministic: dining id major, taxi id minor.
func Candidates(dining, taxi []model.Zone, prefilter bool) []model.Candidate {
	log := zap.L().With(zap.String("component", "intersect"))

	var out []model.Candidate
	skipped := 0
	for _, d := range dining {
		db := d.Geom.Bounds()
		for _, t := range taxi {
			if prefilter && !boundsOverlap(db, t.Geom.Bounds()) {
				skipped++
				continue
			}
			inter := d.Geom.Intersection(t.Geom)
			if inter == nil {
				continue
			}
			area := inter.Area()
			if area <= 0 {
				continue
			}

			c := model.Candidate{
				DiningClusterID:     d.ClusterID,
				TaxiClusterID:       t.ClusterID,
				NRestaurants:        d.Members,
				NTaxiDropoffs:       t.Members,
				TaxiWeight:          t.TotalWeight,
				AvgRating:           d.AvgRating,
				DiningAreaSqm:       d.AreaSqm,
				TaxiAreaSqm:         t.AreaSqm,
				IntersectionAreaSqm: area,
				Geom:                inter,
			}
			if d.AreaSqm > 0 {
				c.OverlapRatioDining = area / d.AreaSqm
			}
			if t.AreaSqm > 0 {
				c.OverlapRatioTaxi = area / t.AreaSqm
			}
			c.MinOverlapRatio = c.OverlapRatioDining
			if c.OverlapRatioTaxi < c.MinOverlapRatio {
				c.MinOverlapRatio = c.OverlapRatioTaxi
			}
			out = append(out, c)
		}
	}

	log.Info("computed zone intersections",
		zap.Int("dining_zones", len(dining)),
		zap.Int("taxi_hotspots", len(taxi)),
		zap.Int("candidates", len(out)),
		zap.Int("prefiltered", skipped))
	return out
}

func boundsOverlap(a, b *geom.Bounds) bool {
	if a == nil || b == nil {
		return false
	}
	return a.Min.X <= b.Max.X && b.Min.X <= a.Max.X &&
		a.Min.Y <= b.Max.Y && b.Min.Y <= a.Max.Y
}
