// Package cluster implements density-based clustering over projected point
// sets. The algorithm follows HDBSCAN: mutual-reachability distances over a
// minimum spanning tree, a condensed cluster hierarchy, and stability-based
// cluster extraction.
package cluster

import (
	"math"

	"github.com/wheretodine/hotspot-cli/internal/spatial"
)

// Noise is the label assigned to points that belong to no cluster.
const Noise = -1

// Method picks how flat clusters are extracted from the condensed hierarchy.
type Method string

const (
	// MethodEOM selects clusters by excess of mass, preferring the most
	// stable clusters anywhere in the hierarchy.
	MethodEOM Method = "eom"
	// MethodLeaf selects the leaf clusters of the hierarchy, yielding more,
	// smaller clusters.
	MethodLeaf Method = "leaf"
)

// Params control a clustering run. Distances are in the same units as the
// input points, meters throughout this pipeline.
type Params struct {
	// MinClusterSize is the smallest point count a cluster may have.
	MinClusterSize int
	// MinSamples controls how conservative the density estimate is. Zero
	// means use MinClusterSize.
	MinSamples int
	// SelectionEpsilon, when positive, merges clusters that split below this
	// distance back together.
	SelectionEpsilon float64
	// SelectionMethod is eom or leaf. Empty means eom.
	SelectionMethod Method
}

func (p Params) withDefaults() Params {
	if p.MinClusterSize < 2 {
		p.MinClusterSize = 2
	}
	if p.MinSamples <= 0 {
		p.MinSamples = p.MinClusterSize
	}
	if p.SelectionMethod == "" {
		p.SelectionMethod = MethodEOM
	}
	return p
}

// Result is a flat clustering. Labels holds one entry per input point:
// either Noise or a cluster id in [0, NClusters), numbered consecutively.
type Result struct {
	Labels    []int
	NClusters int
}

// Fit clusters the given points. The input order is preserved: Labels[i] is
// the assignment for pts[i].
func Fit(pts []spatial.Point, params Params) *Result {
	p := params.withDefaults()
	n := len(pts)

	labels := make([]int, n)
	for i := range labels {
		labels[i] = Noise
	}
	if n < p.MinClusterSize || n < 2 {
		return &Result{Labels: labels}
	}

	index := spatial.NewIndex(pts)
	core := coreDistances(index, p.MinSamples)
	edges := mutualReachabilityMST(pts, core)
	merges := singleLinkage(edges, n)
	tree := condense(merges, n, p.MinClusterSize)
	if len(tree.edges) == 0 {
		return &Result{Labels: labels}
	}

	selected := selectClusters(tree, p)
	labels, k := assignLabels(tree, selected, n)
	return &Result{Labels: labels, NClusters: k}
}

// lambdaOf converts a merge distance to the density level 1/distance. Merges
// at distance zero happen with coincident points; clamping keeps the level
// finite so stability sums stay well defined.
func lambdaOf(dist float64) float64 {
	const minDist = 1e-12
	return 1 / math.Max(dist, minDist)
}
