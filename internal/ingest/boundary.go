package ingest

import (
	"github.com/ctessum/geom"
	shp "github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Boundary is the city outline in WGS84, used to discard drop-offs outside
// the study area before they reach clustering.
type Boundary struct {
	polys []geom.Polygon
}

// NewBoundary wraps pre-built polygons, mainly for tests.
func NewBoundary(polys []geom.Polygon) *Boundary {
	return &Boundary{polys: polys}
}

// LoadBoundary reads every polygon record from a shapefile. Coordinates are
// expected in WGS84 decimal degrees.
func LoadBoundary(path string) (*Boundary, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open boundary shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	var polys []geom.Polygon
	for reader.Next() {
		_, shape := reader.Shape()
		poly, ok := shape.(*shp.Polygon)
		if !ok || len(poly.Points) == 0 {
			continue
		}
		polys = append(polys, shpPolygon(poly))
	}
	if len(polys) == 0 {
		return nil, eris.Errorf("ingest: no polygons in boundary shapefile %s", path)
	}

	zap.L().With(zap.String("component", "ingest")).Info("loaded boundary",
		zap.String("path", path),
		zap.Int("polygons", len(polys)))
	return &Boundary{polys: polys}, nil
}

// Contains reports whether a WGS84 point lies inside the boundary. A nil
// boundary contains everything, so the filter is a no-op when no shapefile
// was configured.
func (b *Boundary) Contains(lon, lat float64) bool {
	if b == nil || len(b.polys) == 0 {
		return true
	}
	pt := geom.Point{X: lon, Y: lat}
	for _, p := range b.polys {
		if pt.Within(p) != geom.Outside {
			return true
		}
	}
	return false
}

// shpPolygon converts a shapefile polygon, part by part, into rings.
func shpPolygon(p *shp.Polygon) geom.Polygon {
	parts := append([]int32(nil), p.Parts...)
	parts = append(parts, int32(len(p.Points)))

	poly := make(geom.Polygon, 0, p.NumParts)
	for i := int32(0); i < p.NumParts; i++ {
		ring := make([]geom.Point, 0, parts[i+1]-parts[i])
		for _, pt := range p.Points[parts[i]:parts[i+1]] {
			ring = append(ring, geom.Point{X: pt.X, Y: pt.Y})
		}
		poly = append(poly, ring)
	}
	return poly
}
