package geometry

import (
	"sort"

	"github.com/ctessum/geom"
)

// ConvexHull computes the convex hull of the given points using the monotone
// chain algorithm. The result is in counter-clockwise order without a closing
// point. Degenerate inputs collapse naturally: a single point returns itself,
// and collinear inputs return the two extreme points.
func ConvexHull(pts []geom.Point) []geom.Point {
	if len(pts) <= 1 {
		out := make([]geom.Point, len(pts))
		copy(out, pts)
		return out
	}

	sorted := make([]geom.Point, len(pts))
	copy(sorted, pts)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].X != sorted[j].X {
			return sorted[i].X < sorted[j].X
		}
		return sorted[i].Y < sorted[j].Y
	})

	// Drop exact duplicates so the chain construction never stalls on them.
	uniq := sorted[:1]
	for _, p := range sorted[1:] {
		last := uniq[len(uniq)-1]
		if p.X != last.X || p.Y != last.Y {
			uniq = append(uniq, p)
		}
	}
	if len(uniq) == 1 {
		return uniq
	}
	if len(uniq) == 2 {
		return uniq
	}

	lower := make([]geom.Point, 0, len(uniq))
	for _, p := range uniq {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}

	upper := make([]geom.Point, 0, len(uniq))
	for i := len(uniq) - 1; i >= 0; i-- {
		p := uniq[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}

	hull := append(lower[:len(lower)-1], upper[:len(upper)-1]...)
	return hull
}

// cross returns the z component of (b-a) x (c-a). Positive means a left turn.
func cross(a, b, c geom.Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}
