package ingest

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wheretodine/hotspot-cli/internal/config"
	"github.com/wheretodine/hotspot-cli/internal/model"
)

// TaxiOptions configures the drop-off ingest.
type TaxiOptions struct {
	Weights config.WeightConfig
	// Boundary, when non-nil, restricts drop-offs to the study area.
	Boundary *Boundary
	// Concurrency is the number of files parsed in parallel. Zero means 4.
	Concurrency int
}

var dropoffLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// ReadTaxiTrips reads every *.csv file under dir, one monthly extract each,
// and returns drop-offs within dining hours weighted by demand slot. A file
// that fails to parse is logged and skipped; the ingest only fails when no
// file could be processed at all.
func ReadTaxiTrips(ctx context.Context, dir string, opts TaxiOptions) ([]model.PointRecord, error) {
	log := zap.L().With(zap.String("component", "ingest"))

	files, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: list taxi files in %s", dir)
	}
	if len(files) == 0 {
		return nil, eris.Errorf("ingest: no taxi CSV files in %s", dir)
	}
	sort.Strings(files)

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	results := make([][]model.PointRecord, len(files))
	failed := make([]bool, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return eris.Wrap(err, "ingest: taxi read cancelled")
			}
			recs, err := readTaxiFile(file, opts)
			if err != nil {
				log.Warn("skipping taxi file",
					zap.String("file", file),
					zap.Error(err))
				failed[i] = true
				return nil
			}
			results[i] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []model.PointRecord
	succeeded := 0
	for i := range files {
		if !failed[i] {
			succeeded++
			out = append(out, results[i]...)
		}
	}
	if succeeded == 0 {
		return nil, eris.Errorf("ingest: all %d taxi files failed", len(files))
	}

	log.Info("read taxi drop-offs",
		zap.Int("files", len(files)),
		zap.Int("files_failed", len(files)-succeeded),
		zap.Int("dropoffs", len(out)))
	return out, nil
}

func readTaxiFile(path string, opts TaxiOptions) ([]model.PointRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "open %s", path)
	}
	defer f.Close() //nolint:errcheck

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, eris.Wrapf(err, "read header of %s", path)
	}
	timeCol, latCol, lonCol := -1, -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "dropoff_datetime", "tpep_dropoff_datetime":
			timeCol = i
		case "dropoff_latitude", "latitude", "lat":
			latCol = i
		case "dropoff_longitude", "longitude", "lon", "lng":
			lonCol = i
		}
	}
	if timeCol < 0 || latCol < 0 || lonCol < 0 {
		return nil, eris.Errorf("%s lacks drop-off time or coordinate columns", path)
	}

	var out []model.PointRecord
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(err, "parse %s", path)
		}
		if len(row) <= timeCol || len(row) <= latCol || len(row) <= lonCol {
			continue
		}

		ts, ok := parseDropoffTime(row[timeCol])
		if !ok || !InDiningHours(ts) {
			continue
		}
		lat, errLat := strconv.ParseFloat(strings.TrimSpace(row[latCol]), 64)
		lon, errLon := strconv.ParseFloat(strings.TrimSpace(row[lonCol]), 64)
		if errLat != nil || errLon != nil || (lat == 0 && lon == 0) {
			continue
		}
		if !opts.Boundary.Contains(lon, lat) {
			continue
		}

		out = append(out, model.PointRecord{
			ID:     uuid.NewString(),
			Lat:    lat,
			Lon:    lon,
			Weight: TemporalWeight(ts, opts.Weights),
			Source: model.SourceTaxi,
		})
	}
	return out, nil
}

func parseDropoffTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dropoffLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
