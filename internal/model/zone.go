package model

import "github.com/ctessum/geom"

// ZoneSource distinguishes the two zone sets fed into the intersection stage.
type ZoneSource string

// Zone sources.
const (
	ZoneDining ZoneSource = "dining"
	ZoneTaxi   ZoneSource = "taxi"
)

// Zone is one polygon built from a non-noise cluster: the buffered convex
// hull of its member points plus aggregate attributes. Geometry is planar, in
// the local distance-preserving projection (meters). Zones are created once
// per cluster per clustering run and never mutated afterwards.
type Zone struct {
	ClusterID   int        `json:"cluster_id"`
	Source      ZoneSource `json:"source"`
	Members     int        `json:"members"`
	AvgRating   *float64   `json:"avg_rating,omitempty"`
	TotalWeight float64    `json:"total_weight"`
	AreaSqm     float64    `json:"area_sqm"`

	// Geom is the projected zone polygon.
	Geom geom.Polygon `json:"-"`
}

// AreaSqkm returns the zone area in square kilometers.
func (z Zone) AreaSqkm() float64 {
	return z.AreaSqm / 1e6
}
