// Package pipeline orchestrates the analysis stages: restaurant merge, taxi
// preprocessing, density clustering of both point sets, zone construction,
// and the zone intersection that produces ranked dining hotspots. Stages
// chain through GeoJSON and JSON artifacts in the output directory, so each
// one can also run standalone from the CLI.
package pipeline

import (
	"context"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/wheretodine/hotspot-cli/internal/cluster"
	"github.com/wheretodine/hotspot-cli/internal/config"
	"github.com/wheretodine/hotspot-cli/internal/dedupe"
	"github.com/wheretodine/hotspot-cli/internal/export"
	"github.com/wheretodine/hotspot-cli/internal/geometry"
	"github.com/wheretodine/hotspot-cli/internal/ingest"
	"github.com/wheretodine/hotspot-cli/internal/intersect"
	"github.com/wheretodine/hotspot-cli/internal/model"
	"github.com/wheretodine/hotspot-cli/internal/spatial"
	"github.com/wheretodine/hotspot-cli/internal/zone"
)

// Artifact file names, relative to data.output_dir.
const (
	FileMergedRestaurants    = "restaurants_merged.geojson"
	FileTaxiDropoffs         = "taxi_dropoffs.geojson"
	FileRestaurantsClustered = "restaurants_clustered.geojson"
	FileTaxiClustered        = "taxi_clustered.geojson"
	FileDiningZones          = "dining_zones.geojson"
	FileTaxiHotspots         = "taxi_hotspots.geojson"
	FileFinalHotspots        = "final_hotspots.geojson"
	FileIntersectionAnalysis = "intersection_analysis.json"
	FileRestaurantMetrics    = "clustering_metrics.json"
	FileTaxiMetrics          = "taxi_clustering_metrics.json"
)

// Pipeline runs analysis stages against one configuration.
type Pipeline struct {
	cfg  *config.Config
	proj *geometry.Projector
	log  *zap.Logger
}

// New builds a Pipeline, including the city-centered projection every
// stage's planar math runs in.
func New(cfg *config.Config) (*Pipeline, error) {
	proj, err := geometry.NewProjector(cfg.City.CenterLat, cfg.City.CenterLon)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: build projector")
	}
	return &Pipeline{
		cfg:  cfg,
		proj: proj,
		log:  zap.L().With(zap.String("component", "pipeline")),
	}, nil
}

// Projector exposes the city projection for consumers outside the pipeline,
// such as the HTTP server.
func (p *Pipeline) Projector() *geometry.Projector { return p.proj }

// OutPath returns the absolute location of a named artifact.
func (p *Pipeline) OutPath(name string) string {
	return filepath.Join(p.cfg.Data.OutputDir, name)
}

// MergeRestaurants loads the google and osm venue tables, deduplicates the
// osm records against their nearest google neighbor, and writes the merged
// point set.
func (p *Pipeline) MergeRestaurants(ctx context.Context) (map[string]any, error) {
	google, err := ingest.ReadRestaurants(p.cfg.Data.RestaurantsGoogle, model.SourceGoogle)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: load google restaurants")
	}
	osm, err := ingest.ReadRestaurants(p.cfg.Data.RestaurantsOSM, model.SourceOSM)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: load osm restaurants")
	}

	res, err := dedupe.Merge(p.proj, google, osm, dedupe.Config{
		DistanceMeters:      p.cfg.Dedupe.DistanceThresholdM,
		SimilarityThreshold: p.cfg.Dedupe.NameSimilarity,
	})
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: merge restaurants")
	}

	if err := export.WritePoints(p.OutPath(FileMergedRestaurants), res.Merged); err != nil {
		return nil, err
	}
	return map[string]any{
		"google":  len(google),
		"osm":     len(osm),
		"merged":  len(res.Merged),
		"dropped": res.Dropped,
	}, nil
}

// IngestTaxi reads the monthly trip extracts, keeps dining-hour drop-offs
// inside the boundary, assigns temporal weights, and writes the weighted
// drop-off points.
func (p *Pipeline) IngestTaxi(ctx context.Context) (map[string]any, error) {
	var boundary *ingest.Boundary
	if p.cfg.Data.Boundary != "" {
		b, err := ingest.LoadBoundary(p.cfg.Data.Boundary)
		if err != nil {
			return nil, eris.Wrap(err, "pipeline: load boundary")
		}
		boundary = b
	}

	dropoffs, err := ingest.ReadTaxiTrips(ctx, p.cfg.Data.TaxiDir, ingest.TaxiOptions{
		Weights:  p.cfg.Temporal.Weights,
		Boundary: boundary,
	})
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: ingest taxi trips")
	}

	if err := export.WritePoints(p.OutPath(FileTaxiDropoffs), dropoffs); err != nil {
		return nil, err
	}
	return map[string]any{"dropoffs": len(dropoffs)}, nil
}

// ClusterRestaurants clusters the merged restaurant points, builds buffered
// dining zones, and writes the labeled points, zone polygons, and validation
// metrics.
func (p *Pipeline) ClusterRestaurants(ctx context.Context) (map[string]any, error) {
	records, err := export.ReadPoints(p.OutPath(FileMergedRestaurants))
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: load merged restaurants")
	}
	pts, err := p.project(records)
	if err != nil {
		return nil, err
	}

	res := cluster.Fit(pts, hdbscanParams(p.cfg.Clustering.Restaurants))
	metrics := cluster.Metrics(pts, res.Labels, p.cfg.Clustering.ValidationSample)

	zones, err := zone.Build(p.proj, records, res.Labels, model.ZoneDining, p.cfg.Clustering.DiningZoneBuffer)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: build dining zones")
	}

	if err := export.WriteLabeledPoints(p.OutPath(FileRestaurantsClustered), records, res.Labels); err != nil {
		return nil, err
	}
	if err := export.WriteZones(p.OutPath(FileDiningZones), zones, p.proj); err != nil {
		return nil, err
	}
	if err := export.WriteJSON(p.OutPath(FileRestaurantMetrics), metrics); err != nil {
		return nil, err
	}
	return clusteringMetadata(metrics, len(zones)), nil
}

// ClusterTaxi clusters the weighted drop-off points and writes the labeled
// points, taxi hotspot polygons, and validation metrics. Weights scale each
// point's influence on the density estimate.
func (p *Pipeline) ClusterTaxi(ctx context.Context) (map[string]any, error) {
	records, err := export.ReadPoints(p.OutPath(FileTaxiDropoffs))
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: load taxi drop-offs")
	}
	pts, err := p.project(records)
	if err != nil {
		return nil, err
	}
	weights := make([]float64, len(records))
	for i, r := range records {
		weights[i] = r.EffectiveWeight()
	}

	res := cluster.FitWeighted(pts, weights, hdbscanParams(p.cfg.Clustering.Taxi))
	metrics := cluster.Metrics(res.Expanded, res.ExpandedLabels, p.cfg.Clustering.ValidationSample)

	zones, err := zone.Build(p.proj, records, res.Labels, model.ZoneTaxi, p.cfg.Clustering.TaxiBuffer)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: build taxi hotspots")
	}

	if err := export.WriteLabeledPoints(p.OutPath(FileTaxiClustered), records, res.Labels); err != nil {
		return nil, err
	}
	if err := export.WriteZones(p.OutPath(FileTaxiHotspots), zones, p.proj); err != nil {
		return nil, err
	}
	if err := export.WriteJSON(p.OutPath(FileTaxiMetrics), metrics); err != nil {
		return nil, err
	}
	return clusteringMetadata(metrics, len(zones)), nil
}

// Intersect rebuilds both zone sets from the labeled points, intersects
// them, filters and scores the overlaps, and writes the final hotspots plus
// the analysis summary.
func (p *Pipeline) Intersect(ctx context.Context) (map[string]any, error) {
	dining, err := p.rebuildZones(FileRestaurantsClustered, model.ZoneDining, p.cfg.Clustering.DiningZoneBuffer)
	if err != nil {
		return nil, err
	}
	taxi, err := p.rebuildZones(FileTaxiClustered, model.ZoneTaxi, p.cfg.Clustering.TaxiBuffer)
	if err != nil {
		return nil, err
	}

	cands := intersect.Candidates(dining, taxi, true)
	hotspots := intersect.FilterAndScore(cands, intersect.Config{
		MinAreaSqm:      p.cfg.Intersection.MinAreaSqm,
		MinOverlapRatio: p.cfg.Intersection.MinOverlapRatio,
	})
	summary, err := intersect.Summarize(dining, taxi, hotspots, p.proj)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: summarize hotspots")
	}

	if err := export.WriteHotspots(p.OutPath(FileFinalHotspots), hotspots, p.proj); err != nil {
		return nil, err
	}
	if err := export.WriteJSON(p.OutPath(FileIntersectionAnalysis), summary); err != nil {
		return nil, err
	}
	return map[string]any{
		"dining_zones":  len(dining),
		"taxi_hotspots": len(taxi),
		"candidates":    len(cands),
		"hotspots":      len(hotspots),
	}, nil
}

func (p *Pipeline) rebuildZones(file string, source model.ZoneSource, buffer float64) ([]model.Zone, error) {
	records, labels, err := export.ReadLabeledPoints(p.OutPath(file))
	if err != nil {
		return nil, eris.Wrapf(err, "pipeline: load %s", file)
	}
	zones, err := zone.Build(p.proj, records, labels, source, buffer)
	if err != nil {
		return nil, eris.Wrapf(err, "pipeline: rebuild %s zones", source)
	}
	return zones, nil
}

func (p *Pipeline) project(records []model.PointRecord) ([]spatial.Point, error) {
	pts := make([]spatial.Point, len(records))
	for i, r := range records {
		x, y, err := p.proj.Forward(r.Lon, r.Lat)
		if err != nil {
			return nil, eris.Wrapf(err, "pipeline: project point %s", r.ID)
		}
		pts[i] = spatial.Point{X: x, Y: y}
	}
	return pts, nil
}

func hdbscanParams(cfg config.HDBSCANConfig) cluster.Params {
	return cluster.Params{
		MinClusterSize:   cfg.MinClusterSize,
		MinSamples:       cfg.MinSamples,
		SelectionEpsilon: cfg.SelectionEpsilon,
		SelectionMethod:  cluster.Method(cfg.SelectionMethod),
	}
}

func clusteringMetadata(m model.ClusteringMetrics, nZones int) map[string]any {
	meta := map[string]any{
		"clusters":    m.NClusters,
		"noise":       m.NNoise,
		"total":       m.NTotal,
		"noise_ratio": m.NoiseRatio,
		"zones":       nZones,
	}
	if m.Silhouette != nil {
		meta["silhouette"] = *m.Silhouette
	}
	if m.DaviesBouldin != nil {
		meta["davies_bouldin"] = *m.DaviesBouldin
	}
	return meta
}
