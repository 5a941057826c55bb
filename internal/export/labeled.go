package export

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	twgeom "github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/wheretodine/hotspot-cli/internal/model"
)

// WriteLabeledPoints writes point records together with their cluster
// assignment, so downstream stages can rebuild zones without re-clustering.
func WriteLabeledPoints(path string, records []model.PointRecord, labels []int) error {
	if len(records) != len(labels) {
		return eris.Errorf("export: %d records but %d labels", len(records), len(labels))
	}
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(records))}
	for i, r := range records {
		props := map[string]any{
			"id":      r.ID,
			"source":  string(r.Source),
			"weight":  r.Weight,
			"cluster": labels[i],
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
	return writeFeatureCollection(path, fc, "labeled points", len(records))
}

// ReadLabeledPoints reads a collection written by WriteLabeledPoints.
func ReadLabeledPoints(path string) ([]model.PointRecord, []int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "export: read %s", path)
	}
	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, nil, eris.Wrapf(err, "export: parse %s", path)
	}

	records := make([]model.PointRecord, 0, len(fc.Features))
	labels := make([]int, 0, len(fc.Features))
	for i, f := range fc.Features {
		pt, ok := f.Geometry.(*twgeom.Point)
		if !ok {
			return nil, nil, eris.Errorf("export: feature %d in %s is not a point", i, path)
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
		labels = append(labels, int(floatProp(f.Properties, "cluster")))
	}
	return records, labels, nil
}
