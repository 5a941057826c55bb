package intersect

import (
	"sort"

	"go.uber.org/zap"

	"github.com/wheretodine/hotspot-cli/internal/model"
)

// FilterAndScore drops candidates below the acceptance thresholds, computes
// density-normalized sub-scores and the composite popularity score, and
// assigns dense ranks. The result is sorted best first.
func FilterAndScore(cands []model.Candidate, cfg Config) []model.Hotspot {
	log := zap.L().With(zap.String("component", "intersect"))

	hotspots := make([]model.Hotspot, 0, len(cands))
	for _, c := range cands {
		if c.IntersectionAreaSqm < cfg.MinAreaSqm || c.MinOverlapRatio < cfg.MinOverlapRatio {
			continue
		}
		areaSqkm := c.IntersectionAreaSqm / 1e6
		hotspots = append(hotspots, model.Hotspot{
			Candidate:         c,
			RestaurantDensity: float64(c.NRestaurants) / areaSqkm,
			TaxiDensity:       c.TaxiWeight / areaSqkm,
		})
	}

	var maxRestaurant, maxTaxi float64
	for _, h := range hotspots {
		if h.RestaurantDensity > maxRestaurant {
			maxRestaurant = h.RestaurantDensity
		}
		if h.TaxiDensity > maxTaxi {
			maxTaxi = h.TaxiDensity
		}
	}
	for i := range hotspots {
		if maxRestaurant > 0 {
			hotspots[i].RestaurantScore = 100 * hotspots[i].RestaurantDensity / maxRestaurant
		}
		if maxTaxi > 0 {
			hotspots[i].TaxiScore = 100 * hotspots[i].TaxiDensity / maxTaxi
		}
		hotspots[i].PopularityScore = 0.5*hotspots[i].RestaurantScore + 0.5*hotspots[i].TaxiScore
	}

	rank(hotspots)

	sort.SliceStable(hotspots, func(i, j int) bool {
		return hotspots[i].PopularityScore > hotspots[j].PopularityScore
	})

	log.Info("filtered and scored hotspots",
		zap.Int("candidates", len(cands)),
		zap.Int("hotspots", len(hotspots)),
		zap.Float64("min_area_sqm", cfg.MinAreaSqm),
		zap.Float64("min_overlap_ratio", cfg.MinOverlapRatio))
	return hotspots
}

// rank assigns dense ranks by descending popularity: equal scores share a
// rank and the next distinct score gets the next integer, with no gaps.
func rank(hotspots []model.Hotspot) {
	scores := make([]float64, 0, len(hotspots))
	seen := make(map[float64]bool, len(hotspots))
	for _, h := range hotspots {
		if !seen[h.PopularityScore] {
			seen[h.PopularityScore] = true
			scores = append(scores, h.PopularityScore)
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(scores)))

	rankOf := make(map[float64]int, len(scores))
	for i, s := range scores {
		rankOf[s] = i + 1
	}
	for i := range hotspots {
		hotspots[i].Rank = rankOf[hotspots[i].PopularityScore]
	}
}
