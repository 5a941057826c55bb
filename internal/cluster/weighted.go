package cluster

import (
	"math"

	"github.com/wheretodine/hotspot-cli/internal/spatial"
)

// WeightedResult is a clustering of weighted points. Labels has one entry
// per input point; the expanded fields expose the duplicated dataset the
// algorithm actually ran on, which validation metrics are computed over.
type WeightedResult struct {
	Labels         []int
	NClusters      int
	Expanded       []spatial.Point
	ExpandedLabels []int
}

// Multiplicity converts a point weight to a duplication count. Weights at or
// below one still contribute a single copy.
func Multiplicity(w float64) int {
	return int(math.Round(math.Max(w, 1)))
}

// FitWeighted clusters points whose influence is scaled by a weight. Each
// point is duplicated round(max(weight, 1)) times before clustering, and its
// final label is the majority label among its duplicates.
func FitWeighted(pts []spatial.Point, weights []float64, params Params) *WeightedResult {
	expanded := make([]spatial.Point, 0, len(pts))
	starts := make([]int, len(pts)+1)
	for i, pt := range pts {
		starts[i] = len(expanded)
		m := Multiplicity(weights[i])
		for c := 0; c < m; c++ {
			expanded = append(expanded, pt)
		}
	}
	starts[len(pts)] = len(expanded)

	res := Fit(expanded, params)

	labels := make([]int, len(pts))
	for i := range pts {
		labels[i] = majorityLabel(res.Labels[starts[i]:starts[i+1]])
	}

	return &WeightedResult{
		Labels:         labels,
		NClusters:      res.NClusters,
		Expanded:       expanded,
		ExpandedLabels: res.Labels,
	}
}

// majorityLabel picks the most frequent label in a duplicate group. Ties go
// to the label encountered first in the group.
func majorityLabel(group []int) int {
	if len(group) == 0 {
		return Noise
	}
	counts := make(map[int]int, len(group))
	order := make([]int, 0, len(group))
	for _, l := range group {
		if _, seen := counts[l]; !seen {
			order = append(order, l)
		}
		counts[l]++
	}
	best := order[0]
	for _, l := range order[1:] {
		if counts[l] > counts[best] {
			best = l
		}
	}
	return best
}
