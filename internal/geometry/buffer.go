package geometry

import (
	"math"

	"github.com/ctessum/geom"
)

// defaultArcSegments is the number of segments used to approximate a full
// circle when rounding buffer corners.
const defaultArcSegments = 32

// Buffer expands the convex hull of a point set outward by dist meters and
// returns the resulting polygon. A single point becomes a disk, two points a
// capsule, and larger hulls get rounded corners. dist must be positive; a
// non-positive distance returns the hull itself as a (possibly degenerate)
// polygon.
func Buffer(hull []geom.Point, dist float64) geom.Polygon {
	return bufferSegments(hull, dist, defaultArcSegments)
}

func bufferSegments(hull []geom.Point, dist float64, arcSegments int) geom.Polygon {
	if len(hull) == 0 {
		return nil
	}
	if arcSegments < 8 {
		arcSegments = 8
	}
	if dist <= 0 {
		ring := make([]geom.Point, len(hull), len(hull)+1)
		copy(ring, hull)
		ring = append(ring, ring[0])
		return geom.Polygon{ring}
	}

	if len(hull) == 1 {
		return geom.Polygon{circleRing(hull[0], dist, arcSegments)}
	}

	// Walk the closed hull counter-clockwise. Each edge contributes its two
	// offset endpoints, each vertex a rounded arc between the adjacent edge
	// normals. A two-point hull degenerates into a capsule because the two
	// edges point in opposite directions.
	m := len(hull)
	ring := make([]geom.Point, 0, m*(arcSegments/4+2)+1)
	for i := 0; i < m; i++ {
		prev := hull[(i+m-1)%m]
		cur := hull[i]
		next := hull[(i+1)%m]

		nPrev := outwardNormal(prev, cur)
		nNext := outwardNormal(cur, next)

		ring = appendVertex(ring, geom.Point{X: cur.X + nPrev.X*dist, Y: cur.Y + nPrev.Y*dist})
		for _, p := range arcPoints(cur, dist, math.Atan2(nPrev.Y, nPrev.X), math.Atan2(nNext.Y, nNext.X), arcSegments) {
			ring = appendVertex(ring, p)
		}
		ring = appendVertex(ring, geom.Point{X: cur.X + nNext.X*dist, Y: cur.Y + nNext.Y*dist})
	}
	ring = append(ring, ring[0])
	return geom.Polygon{ring}
}

// appendVertex adds p to the ring unless it coincides with the last vertex,
// which happens at collinear hull vertices where the adjacent normals agree.
func appendVertex(ring []geom.Point, p geom.Point) []geom.Point {
	if n := len(ring); n > 0 {
		last := ring[n-1]
		if math.Abs(last.X-p.X) < 1e-9 && math.Abs(last.Y-p.Y) < 1e-9 {
			return ring
		}
	}
	return append(ring, p)
}

// outwardNormal returns the unit normal pointing right of the directed edge
// a->b, which is outward for a counter-clockwise ring.
func outwardNormal(a, b geom.Point) geom.Point {
	dx := b.X - a.X
	dy := b.Y - a.Y
	l := math.Hypot(dx, dy)
	if l == 0 {
		return geom.Point{X: 0, Y: 0}
	}
	return geom.Point{X: dy / l, Y: -dx / l}
}

// arcPoints returns intermediate points on a counter-clockwise arc around
// center from angle a0 to a1, endpoints excluded.
func arcPoints(center geom.Point, radius, a0, a1 float64, arcSegments int) []geom.Point {
	for a1 < a0 {
		a1 += 2 * math.Pi
	}
	span := a1 - a0
	steps := int(math.Ceil(span / (2 * math.Pi) * float64(arcSegments)))
	pts := make([]geom.Point, 0, steps)
	for s := 1; s < steps; s++ {
		a := a0 + span*float64(s)/float64(steps)
		pts = append(pts, geom.Point{
			X: center.X + radius*math.Cos(a),
			Y: center.Y + radius*math.Sin(a),
		})
	}
	return pts
}

func circleRing(center geom.Point, radius float64, arcSegments int) []geom.Point {
	ring := make([]geom.Point, 0, arcSegments+1)
	for s := 0; s < arcSegments; s++ {
		a := 2 * math.Pi * float64(s) / float64(arcSegments)
		ring = append(ring, geom.Point{
			X: center.X + radius*math.Cos(a),
			Y: center.Y + radius*math.Sin(a),
		})
	}
	ring = append(ring, ring[0])
	return ring
}
