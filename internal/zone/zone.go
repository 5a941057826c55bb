// Package zone turns cluster assignments into polygonal zones: the convex
// hull of each cluster's members, buffered outward by a configurable margin.
package zone

import (
	"sort"

	"github.com/ctessum/geom"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/wheretodine/hotspot-cli/internal/cluster"
	"github.com/wheretodine/hotspot-cli/internal/geometry"
	"github.com/wheretodine/hotspot-cli/internal/model"
)

// Build constructs one zone per non-noise cluster label. Zone geometries are
// in the projected plane, meters; conversion back to WGS84 happens at export
// time. A single-member cluster still yields a zone, a disk of the buffer
// radius around the point.
func Build(proj *geometry.Projector, records []model.PointRecord, labels []int, source model.ZoneSource, bufferMeters float64) ([]model.Zone, error) {
	if len(records) != len(labels) {
		return nil, eris.Errorf("zone: %d records but %d labels", len(records), len(labels))
	}
	log := zap.L().With(zap.String("component", "zone"))

	byLabel := make(map[int][]int)
	for i, l := range labels {
		if l != cluster.Noise {
			byLabel[l] = append(byLabel[l], i)
		}
	}

	ids := make([]int, 0, len(byLabel))
	for l := range byLabel {
		ids = append(ids, l)
	}
	sort.Ints(ids)

	zones := make([]model.Zone, 0, len(ids))
	for _, id := range ids {
		members := byLabel[id]
		pts := make([]geom.Point, len(members))
		for j, i := range members {
			x, y, err := proj.Forward(records[i].Lon, records[i].Lat)
			if err != nil {
				return nil, eris.Wrapf(err, "zone: project record %s", records[i].ID)
			}
			pts[j] = geom.Point{X: x, Y: y}
		}

		poly := geometry.Buffer(geometry.ConvexHull(pts), bufferMeters)

		z := model.Zone{
			ClusterID:   id,
			Source:      source,
			Members:     len(members),
			TotalWeight: totalWeight(records, members),
			AvgRating:   avgRating(records, members),
			AreaSqm:     poly.Area(),
			Geom:        poly,
		}
		zones = append(zones, z)
	}

	log.Info("built zones",
		zap.String("source", string(source)),
		zap.Int("clusters", len(zones)),
		zap.Float64("buffer_m", bufferMeters))
	return zones, nil
}

func totalWeight(records []model.PointRecord, members []int) float64 {
	total := 0.0
	for _, i := range members {
		total += records[i].EffectiveWeight()
	}
	return total
}

// avgRating averages the ratings that are present. Nil when no member has
// one.
func avgRating(records []model.PointRecord, members []int) *float64 {
	sum := 0.0
	n := 0
	for _, i := range members {
		if r := records[i].Rating; r != nil {
			sum += *r
			n++
		}
	}
	if n == 0 {
		return nil
	}
	avg := sum / float64(n)
	return &avg
}
