package cluster

import (
	"math"
	"sort"

	"github.com/wheretodine/hotspot-cli/internal/spatial"
)

// coreDistances returns, for each point, the distance to its minSamples-th
// nearest neighbor. The query point itself is its own zero-distance nearest
// neighbor, so minSamples+1 neighbors are requested and the farthest one
// taken.
func coreDistances(index *spatial.Index, minSamples int) []float64 {
	n := index.Len()
	k := minSamples + 1
	if k > n {
		k = n
	}
	core := make([]float64, n)
	for i := 0; i < n; i++ {
		_, dists := index.KNN(index.At(i), k)
		core[i] = dists[len(dists)-1]
	}
	return core
}

type mstEdge struct {
	a, b int
	w    float64
}

// mutualReachabilityMST builds a minimum spanning tree over the points under
// the mutual reachability distance max(core[a], core[b], dist(a, b)), using
// Prim's algorithm on the implicit dense graph. Returns n-1 edges sorted by
// weight.
func mutualReachabilityMST(pts []spatial.Point, core []float64) []mstEdge {
	n := len(pts)
	inTree := make([]bool, n)
	minW := make([]float64, n)
	minSrc := make([]int, n)
	for i := range minW {
		minW[i] = math.Inf(1)
	}

	edges := make([]mstEdge, 0, n-1)
	cur := 0
	inTree[0] = true
	for len(edges) < n-1 {
		best := -1
		for v := 0; v < n; v++ {
			if inTree[v] {
				continue
			}
			d := pts[cur].Dist(pts[v])
			w := math.Max(d, math.Max(core[cur], core[v]))
			if w < minW[v] {
				minW[v] = w
				minSrc[v] = cur
			}
			if best < 0 || minW[v] < minW[best] {
				best = v
			}
		}
		edges = append(edges, mstEdge{a: minSrc[best], b: best, w: minW[best]})
		inTree[best] = true
		cur = best
	}

	sort.Slice(edges, func(i, j int) bool {
		if edges[i].w != edges[j].w {
			return edges[i].w < edges[j].w
		}
		if edges[i].a != edges[j].a {
			return edges[i].a < edges[j].a
		}
		return edges[i].b < edges[j].b
	})
	return edges
}
