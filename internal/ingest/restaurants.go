// Package ingest reads the raw input datasets: restaurant listings from CSV
// or XLSX exports, taxi drop-offs from monthly CSV files, and the city
// boundary from a shapefile.
package ingest

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/wheretodine/hotspot-cli/internal/model"
)

// ReadRestaurants loads a restaurant dataset and tags every record with the
// given source. The format is picked by file extension: .xlsx is parsed as a
// spreadsheet, anything else as CSV with a header row. Rows without valid
// coordinates are skipped, not fatal.
func ReadRestaurants(path string, source model.PointSource) ([]model.PointRecord, error) {
	var (
		rows [][]string
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		rows, err = readXLSXRows(path)
	} else {
		rows, err = readCSVRows(path)
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, eris.Errorf("ingest: %s is empty", path)
	}

	cols := headerIndex(rows[0])
	if cols.lat < 0 || cols.lon < 0 {
		return nil, eris.Errorf("ingest: %s has no latitude/longitude columns", path)
	}

	log := zap.L().With(zap.String("component", "ingest"))
	records := make([]model.PointRecord, 0, len(rows)-1)
	skipped := 0
	for _, row := range rows[1:] {
		rec, ok := parseRestaurantRow(row, cols, source)
		if !ok {
			skipped++
			continue
		}
		records = append(records, rec)
	}

	log.Info("read restaurant dataset",
		zap.String("path", path),
		zap.String("source", string(source)),
		zap.Int("records", len(records)),
		zap.Int("skipped", skipped))
	return records, nil
}

// restaurantCols maps the columns of interest, -1 when absent.
type restaurantCols struct {
	id, name, lat, lon, rating int
}

func headerIndex(header []string) restaurantCols {
	cols := restaurantCols{id: -1, name: -1, lat: -1, lon: -1, rating: -1}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "id", "place_id", "osm_id":
			cols.id = i
		case "name":
			cols.name = i
		case "latitude", "lat":
			cols.lat = i
		case "longitude", "lon", "lng":
			cols.lon = i
		case "rating", "stars":
			cols.rating = i
		}
	}
	return cols
}

func parseRestaurantRow(row []string, cols restaurantCols, source model.PointSource) (model.PointRecord, bool) {
	field := func(i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	lat, err := strconv.ParseFloat(field(cols.lat), 64)
	if err != nil {
		return model.PointRecord{}, false
	}
	lon, err := strconv.ParseFloat(field(cols.lon), 64)
	if err != nil {
		return model.PointRecord{}, false
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return model.PointRecord{}, false
	}

	rec := model.PointRecord{
		ID:     field(cols.id),
		Name:   field(cols.name),
		Lat:    lat,
		Lon:    lon,
		Weight: 1,
		Source: source,
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if s := field(cols.rating); s != "" {
		if r, err := strconv.ParseFloat(s, 64); err == nil {
			rec.Rating = &r
		}
	}
	return rec, true
}

func readCSVRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: parse CSV %s", path)
	}
	return rows, nil
}

func readXLSXRows(path string) ([][]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open XLSX %s", path)
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("ingest: %s has no sheets", path)
	}

	sheet := f.Sheets[0]
	rows := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		rows = append(rows, cells)
	}
	return rows, nil
}
