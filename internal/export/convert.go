// Package export writes pipeline artifacts to disk: GeoJSON feature
// collections for points, zones and hotspots, plus plain JSON analysis
// records. All GeoJSON output is WGS84.
package export

import (
	ctgeom "github.com/ctessum/geom"
	"github.com/rotisserie/eris"
	twgeom "github.com/twpayne/go-geom"

	"github.com/wheretodine/hotspot-cli/internal/geometry"
)

// geoJSONPolygon unprojects a planar polygon ring by ring.
func geoJSONPolygon(p ctgeom.Polygon, proj *geometry.Projector) (*twgeom.Polygon, error) {
	coords := make([][]twgeom.Coord, 0, len(p))
	for _, ring := range p {
		r := make([]twgeom.Coord, 0, len(ring)+1)
		for _, pt := range ring {
			lon, lat, err := proj.Inverse(pt.X, pt.Y)
			if err != nil {
				return nil, eris.Wrap(err, "export: unproject ring vertex")
			}
			r = append(r, twgeom.Coord{lon, lat})
		}
		if len(r) > 0 && !r[0].Equal(twgeom.XY, r[len(r)-1]) {
			r = append(r, r[0])
		}
		coords = append(coords, r)
	}

	out := twgeom.NewPolygon(twgeom.XY)
	if _, err := out.SetCoords(coords); err != nil {
		return nil, eris.Wrap(err, "export: build polygon")
	}
	return out, nil
}

// geoJSONPolygonal unprojects a polygon or multipolygon.
func geoJSONPolygonal(g ctgeom.Polygonal, proj *geometry.Projector) (twgeom.T, error) {
	polys := g.Polygons()
	if len(polys) == 1 {
		return geoJSONPolygon(polys[0], proj)
	}

	coords := make([][][]twgeom.Coord, 0, len(polys))
	for _, p := range polys {
		tp, err := geoJSONPolygon(p, proj)
		if err != nil {
			return nil, err
		}
		coords = append(coords, tp.Coords())
	}
	out := twgeom.NewMultiPolygon(twgeom.XY)
	if _, err := out.SetCoords(coords); err != nil {
		return nil, eris.Wrap(err, "export: build multipolygon")
	}
	return out, nil
}
