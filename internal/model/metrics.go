package model

// ClusteringMetrics is the validation record emitted for each clustering run.
// Silhouette and DaviesBouldin are nil (serialized as JSON null) when fewer
// than two non-noise clusters exist; absence is not an error.
type ClusteringMetrics struct {
	NClusters     int      `json:"n_clusters"`
	NNoise        int      `json:"n_noise"`
	NTotal        int      `json:"n_total"`
	NoiseRatio    float64  `json:"noise_ratio"`
	PctClustered  float64  `json:"pct_clustered"`
	Silhouette    *float64 `json:"silhouette_score"`
	DaviesBouldin *float64 `json:"davies_bouldin_index"`
}

// InputSummary describes the two zone sets fed into the intersection stage.
type InputSummary struct {
	NDiningZones    int     `json:"n_dining_zones"`
	NTaxiHotspots   int     `json:"n_taxi_hotspots"`
	DiningTotalSqkm float64 `json:"dining_total_area_sqkm"`
	TaxiTotalSqkm   float64 `json:"taxi_total_area_sqkm"`
}

// HotspotSummary aggregates the surviving final hotspots.
type HotspotSummary struct {
	NHotspots         int     `json:"n_hotspots"`
	TotalAreaSqkm     float64 `json:"total_area_sqkm"`
	AvgAreaSqm        float64 `json:"avg_area_sqm"`
	TotalRestaurants  int     `json:"total_restaurants"`
	TotalTaxiDropoffs int     `json:"total_taxi_dropoffs"`
}

// TopHotspot is one entry of the ranked highlight list in the analysis
// record, with its centroid in WGS84.
type TopHotspot struct {
	Rank            int      `json:"rank"`
	PopularityScore float64  `json:"popularity_score"`
	NRestaurants    int      `json:"n_restaurants"`
	NTaxiDropoffs   int      `json:"n_taxi_dropoffs"`
	AreaSqkm        float64  `json:"area_sqkm"`
	AvgRating       *float64 `json:"avg_rating"`
	CentroidLat     float64  `json:"centroid_lat"`
	CentroidLon     float64  `json:"centroid_lon"`
}

// IntersectionSummary is the per-run analysis record written next to the
// final hotspot feature collection.
type IntersectionSummary struct {
	InputData     InputSummary   `json:"input_data"`
	FinalHotspots HotspotSummary `json:"final_hotspots"`
	TopHotspots   []TopHotspot   `json:"top_hotspots"`
}
