package cluster

import (
	"math"
	"math/rand"

	"github.com/wheretodine/hotspot-cli/internal/model"
	"github.com/wheretodine/hotspot-cli/internal/spatial"
)

// subsampleSeed keeps validation metrics reproducible across runs.
const subsampleSeed = 42

// Metrics summarizes a clustering and, when at least two real clusters
// exist, computes silhouette and Davies-Bouldin scores. With fewer than two
// clusters both scores are left nil: they are undefined, not zero.
// sampleCap bounds the number of points used for the quadratic silhouette
// computation; zero or negative means no cap.
func Metrics(pts []spatial.Point, labels []int, sampleCap int) model.ClusteringMetrics {
	n := len(labels)
	m := model.ClusteringMetrics{NTotal: n}
	if n == 0 {
		return m
	}

	clusterSet := make(map[int]bool)
	for _, l := range labels {
		if l == Noise {
			m.NNoise++
		} else {
			clusterSet[l] = true
		}
	}
	m.NClusters = len(clusterSet)
	m.NoiseRatio = float64(m.NNoise) / float64(n)
	m.PctClustered = 100 * float64(n-m.NNoise) / float64(n)

	if m.NClusters < 2 {
		return m
	}

	idx := make([]int, 0, n-m.NNoise)
	for i, l := range labels {
		if l != Noise {
			idx = append(idx, i)
		}
	}
	if sampleCap > 0 && len(idx) > sampleCap {
		rng := rand.New(rand.NewSource(subsampleSeed))
		rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
		idx = idx[:sampleCap]
	}

	sampled := make(map[int]bool)
	for _, i := range idx {
		sampled[labels[i]] = true
	}
	if len(sampled) < 2 {
		return m
	}

	sil := silhouette(pts, labels, idx)
	db := daviesBouldin(pts, labels, idx)
	m.Silhouette = &sil
	m.DaviesBouldin = &db
	return m
}

// silhouette computes the mean silhouette coefficient over the sampled
// points. Points in singleton clusters score zero.
func silhouette(pts []spatial.Point, labels []int, idx []int) float64 {
	byCluster := make(map[int][]int)
	for _, i := range idx {
		byCluster[labels[i]] = append(byCluster[labels[i]], i)
	}

	total := 0.0
	for _, i := range idx {
		own := byCluster[labels[i]]
		if len(own) < 2 {
			continue
		}

		a := 0.0
		for _, j := range own {
			if j != i {
				a += pts[i].Dist(pts[j])
			}
		}
		a /= float64(len(own) - 1)

		b := math.Inf(1)
		for l, members := range byCluster {
			if l == labels[i] {
				continue
			}
			sum := 0.0
			for _, j := range members {
				sum += pts[i].Dist(pts[j])
			}
			if mean := sum / float64(len(members)); mean < b {
				b = mean
			}
		}

		if d := math.Max(a, b); d > 0 {
			total += (b - a) / d
		}
	}
	return total / float64(len(idx))
}

// daviesBouldin computes the Davies-Bouldin index over the sampled points:
// the mean over clusters of the worst ratio of summed intra-cluster scatter
// to centroid separation. Lower is better.
func daviesBouldin(pts []spatial.Point, labels []int, idx []int) float64 {
	byCluster := make(map[int][]int)
	for _, i := range idx {
		byCluster[labels[i]] = append(byCluster[labels[i]], i)
	}

	clusterIDs := make([]int, 0, len(byCluster))
	for l := range byCluster {
		clusterIDs = append(clusterIDs, l)
	}

	centroids := make([]spatial.Point, len(clusterIDs))
	scatter := make([]float64, len(clusterIDs))
	for ci, l := range clusterIDs {
		members := byCluster[l]
		var cx, cy float64
		for _, j := range members {
			cx += pts[j].X
			cy += pts[j].Y
		}
		centroids[ci] = spatial.Point{X: cx / float64(len(members)), Y: cy / float64(len(members))}
		for _, j := range members {
			scatter[ci] += pts[j].Dist(centroids[ci])
		}
		scatter[ci] /= float64(len(members))
	}

	total := 0.0
	for i := range clusterIDs {
		worst := 0.0
		for j := range clusterIDs {
			if i == j {
				continue
			}
			sep := centroids[i].Dist(centroids[j])
			if sep == 0 {
				continue
			}
			if r := (scatter[i] + scatter[j]) / sep; r > worst {
				worst = r
			}
		}
		total += worst
	}
	return total / float64(len(clusterIDs))
}
