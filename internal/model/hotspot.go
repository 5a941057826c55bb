package model

import "github.com/ctessum/geom"

// Candidate is a raw pairwise overlap between one dining zone and one taxi
// hotspot. Candidates exist only for intersections with a two-dimensional
// region; touching boundaries never produce one.
type Candidate struct {
	DiningClusterID int      `json:"dining_cluster_id"`
	TaxiClusterID   int      `json:"taxi_hotspot_id"`
	NRestaurants    int      `json:"n_restaurants"`
	NTaxiDropoffs   int      `json:"n_taxi_dropoffs"`
	TaxiWeight      float64  `json:"taxi_weight"`
	AvgRating       *float64 `json:"avg_rating,omitempty"`

	DiningAreaSqm       float64 `json:"dining_area_sqm"`
	TaxiAreaSqm         float64 `json:"taxi_area_sqm"`
	IntersectionAreaSqm float64 `json:"intersection_area_sqm"`
	OverlapRatioDining  float64 `json:"overlap_ratio_dining"`
	OverlapRatioTaxi    float64 `json:"overlap_ratio_taxi"`
	MinOverlapRatio     float64 `json:"min_overlap_ratio"`

	// Geom is the projected intersection geometry (polygon or multipolygon).
	Geom geom.Polygonal `json:"-"`
}

// Hotspot is a Candidate that survived filtering, augmented with
// density-normalized sub-scores, the composite popularity score and a dense
// rank (1 = best, ties share a rank).
type Hotspot struct {
	Candidate

	RestaurantDensity float64 `json:"restaurant_density"`
	TaxiDensity       float64 `json:"taxi_density"`
	RestaurantScore   float64 `json:"restaurant_score"`
	TaxiScore         float64 `json:"taxi_score"`
	PopularityScore   float64 `json:"popularity_score"`
	Rank              int     `json:"rank"`
}
