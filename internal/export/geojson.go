package export

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	twgeom "github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/wheretodine/hotspot-cli/internal/geometry"
	"github.com/wheretodine/hotspot-cli/internal/model"
)

// WritePoints writes point records as a GeoJSON feature collection.
func WritePoints(path string, records []model.PointRecord) error {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(records))}
	for _, r := range records {
		props := map[string]any{
			"id":     r.ID,
			"source": string(r.Source),
			"weight": r.Weight,
		}
		if r.Name != "" {
			props["name"] = r.Name
		}
		if r.Rating != nil {
			props["rating"] = *r.Rating
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:         r.ID,
			Geometry:   twgeom.NewPointFlat(twgeom.XY, []float64{r.Lon, r.Lat}),
			Properties: props,
		})
	}
	return writeFeatureCollection(path, fc, "points", len(records))
}

// ReadPoints reads a feature collection previously written by WritePoints.
// Stages chain through these files instead of sharing memory.
func ReadPoints(path string) ([]model.PointRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "export: read %s", path)
	}
	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, eris.Wrapf(err, "export: parse %s", path)
	}

	records := make([]model.PointRecord, 0, len(fc.Features))
	for i, f := range fc.Features {
		pt, ok := f.Geometry.(*twgeom.Point)
		if !ok {
			return nil, eris.Errorf("export: feature %d in %s is not a point", i, path)
		}
		rec := model.PointRecord{
			ID:     stringProp(f.Properties, "id"),
			Name:   stringProp(f.Properties, "name"),
			Lon:    pt.X(),
			Lat:    pt.Y(),
			Weight: floatProp(f.Properties, "weight"),
			Source: model.PointSource(stringProp(f.Properties, "source")),
		}
		if r, ok := f.Properties["rating"].(float64); ok {
			rec.Rating = &r
		}
		if rec.ID == "" {
			rec.ID = fmt.Sprintf("%s-%d", path, i)
		}
		records = append(records, rec)
	}
	return records, nil
}

// WriteZones writes zones as WGS84 polygons with their aggregates.
func WriteZones(path string, zones []model.Zone, proj *geometry.Projector) error {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(zones))}
	for _, z := range zones {
		g, err := geoJSONPolygon(z.Geom, proj)
		if err != nil {
			return eris.Wrapf(err, "export: zone %d", z.ClusterID)
		}
		props := map[string]any{
			"cluster_id":   z.ClusterID,
			"source":       string(z.Source),
			"members":      z.Members,
			"total_weight": z.TotalWeight,
			"area_sqm":     z.AreaSqm,
		}
		if z.AvgRating != nil {
			props["avg_rating"] = *z.AvgRating
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:         fmt.Sprintf("%s-%d", z.Source, z.ClusterID),
			Geometry:   g,
			Properties: props,
		})
	}
	return writeFeatureCollection(path, fc, "zones", len(zones))
}

// WriteHotspots writes the final ranked hotspots.
func WriteHotspots(path string, hotspots []model.Hotspot, proj *geometry.Projector) error {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(hotspots))}
	for _, h := range hotspots {
		g, err := geoJSONPolygonal(h.Geom, proj)
		if err != nil {
			return eris.Wrapf(err, "export: hotspot %d/%d", h.DiningClusterID, h.TaxiClusterID)
		}
		props := map[string]any{
			"rank":                  h.Rank,
			"popularity_score":      h.PopularityScore,
			"restaurant_score":      h.RestaurantScore,
			"taxi_score":            h.TaxiScore,
			"restaurant_density":    h.RestaurantDensity,
			"taxi_density":          h.TaxiDensity,
			"n_restaurants":         h.NRestaurants,
			"n_taxi_dropoffs":       h.NTaxiDropoffs,
			"taxi_weight":           h.TaxiWeight,
			"dining_cluster_id":     h.DiningClusterID,
			"taxi_hotspot_id":       h.TaxiClusterID,
			"intersection_area_sqm": h.IntersectionAreaSqm,
			"overlap_ratio_dining":  h.OverlapRatioDining,
			"overlap_ratio_taxi":    h.OverlapRatioTaxi,
			"min_overlap_ratio":     h.MinOverlapRatio,
		}
		if h.AvgRating != nil {
			props["avg_rating"] = *h.AvgRating
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:         fmt.Sprintf("%d-%d", h.DiningClusterID, h.TaxiClusterID),
			Geometry:   g,
			Properties: props,
		})
	}
	return writeFeatureCollection(path, fc, "hotspots", len(hotspots))
}

func stringProp(props map[string]any, key string) string {
	s, _ := props[key].(string)
	return s
}

func floatProp(props map[string]any, key string) float64 {
	f, _ := props[key].(float64)
	return f
}

func writeFeatureCollection(path string, fc *geojson.FeatureCollection, kind string, count int) error {
	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return eris.Wrapf(err, "export: marshal %s", kind)
	}
	if err := writeAtomic(path, data); err != nil {
		return err
	}
	zap.L().With(zap.String("component", "export")).Info("wrote feature collection",
		zap.String("path", path),
		zap.String("kind", kind),
		zap.Int("features", count))
	return nil
}
