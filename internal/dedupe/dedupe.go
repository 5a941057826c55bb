package dedupe

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/wheretodine/hotspot-cli/internal/geometry"
	"github.com/wheretodine/hotspot-cli/internal/model"
	"github.com/wheretodine/hotspot-cli/internal/spatial"
)

// Config controls when a secondary record is considered a duplicate of a
// primary record. Both conditions must hold: the nearest primary must be
// strictly closer than DistanceMeters, and the normalized name similarity
// must be at least SimilarityThreshold (0-100).
type Config struct {
	DistanceMeters      float64
	SimilarityThreshold float64
}

// Result is the outcome of a merge. Merged holds every primary record
// followed by the secondary records that survived, in input order.
type Result struct {
	Merged  []model.PointRecord
	Dropped int
}

// Merge combines a primary and a secondary dataset. Primary records are
// always kept. Each secondary record is checked against its single nearest
// primary neighbor only; a second-nearest primary is never consulted even if
// it would match better on name.
func Merge(proj *geometry.Projector, primary, secondary []model.PointRecord, cfg Config) (*Result, error) {
	log := zap.L().With(zap.String("component", "dedupe"))

	merged := make([]model.PointRecord, 0, len(primary)+len(secondary))
	merged = append(merged, primary...)

	if len(primary) == 0 {
		merged = append(merged, secondary...)
		log.Info("no primary records, keeping all secondary",
			zap.Int("secondary", len(secondary)))
		return &Result{Merged: merged}, nil
	}

	pts := make([]spatial.Point, len(primary))
	for i, r := range primary {
		x, y, err := proj.Forward(r.Lon, r.Lat)
		if err != nil {
			return nil, eris.Wrapf(err, "dedupe: project primary record %s", r.ID)
		}
		pts[i] = spatial.Point{X: x, Y: y}
	}
	index := spatial.NewIndex(pts)

	dropped := 0
	for _, r := range secondary {
		x, y, err := proj.Forward(r.Lon, r.Lat)
		if err != nil {
			return nil, eris.Wrapf(err, "dedupe: project secondary record %s", r.ID)
		}
		nearest, dist := index.Nearest(spatial.Point{X: x, Y: y})
		if nearest >= 0 && dist < cfg.DistanceMeters &&
			NameSimilarity(primary[nearest].Name, r.Name) >= cfg.SimilarityThreshold {
			dropped++
			continue
		}
		merged = append(merged, r)
	}

	log.Info("merged point datasets",
		zap.Int("primary", len(primary)),
		zap.Int("secondary", len(secondary)),
		zap.Int("dropped", dropped),
		zap.Int("merged", len(merged)))

	return &Result{Merged: merged, Dropped: dropped}, nil
}
