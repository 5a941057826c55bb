// Package geometry provides the planar geometry capabilities the pipeline
// depends on: a WGS84 to local-plane projection, convex hulls, and outward
// buffering. All distances and areas downstream are in meters, so every
// operation here works in a projected coordinate system, never raw degrees.
package geometry

import (
	"fmt"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/proj"
	"github.com/rotisserie/eris"
)

// Projector converts between WGS84 geographic coordinates and a local
// transverse Mercator plane centered on the configured city. Units on the
// plane are meters, so distances and areas are directly comparable against
// the thresholds in configuration.
type Projector struct {
	fwd proj.Transformer
	inv proj.Transformer
}

// NewProjector builds a projector centered on the given WGS84 point.
func NewProjector(centerLat, centerLon float64) (*Projector, error) {
	wgs84, err := proj.Parse("+proj=longlat +datum=WGS84 +no_defs")
	if err != nil {
		return nil, eris.Wrap(err, "geometry: parse WGS84 definition")
	}
	local, err := proj.Parse(fmt.Sprintf(
		"+proj=tmerc +lat_0=%.6f +lon_0=%.6f +k=1 +x_0=0 +y_0=0 +datum=WGS84 +units=m +no_defs",
		centerLat, centerLon))
	if err != nil {
		return nil, eris.Wrap(err, "geometry: parse local projection")
	}

	fwd, err := wgs84.NewTransform(local)
	if err != nil {
		return nil, eris.Wrap(err, "geometry: build forward transform")
	}
	inv, err := local.NewTransform(wgs84)
	if err != nil {
		return nil, eris.Wrap(err, "geometry: build inverse transform")
	}

	return &Projector{fwd: fwd, inv: inv}, nil
}

// Forward projects a WGS84 lon/lat to local plane meters.
func (p *Projector) Forward(lon, lat float64) (x, y float64, err error) {
	x, y, err = p.fwd(lon, lat)
	if err != nil {
		return 0, 0, eris.Wrapf(err, "geometry: project point (%f, %f)", lon, lat)
	}
	return x, y, nil
}

// Inverse converts local plane meters back to WGS84 lon/lat.
func (p *Projector) Inverse(x, y float64) (lon, lat float64, err error) {
	lon, lat, err = p.inv(x, y)
	if err != nil {
		return 0, 0, eris.Wrapf(err, "geometry: unproject point (%f, %f)", x, y)
	}
	return lon, lat, nil
}

// ToWGS84 transforms a projected geometry back to geographic coordinates.
func (p *Projector) ToWGS84(g geom.Geom) (geom.Geom, error) {
	out, err := g.Transform(p.inv)
	if err != nil {
		return nil, eris.Wrap(err, "geometry: transform to WGS84")
	}
	return out, nil
}
