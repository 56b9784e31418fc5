package ingest

import (
	"encoding/csv"
	"io"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/localeats/resolver/internal/model"
	"github.com/localeats/resolver/internal/normalize"
)

// Result reports how a batch read went.
type Result struct {
	Read    int
	Skipped int
}

// ReadRestaurants parses one catalog CSV batch. Rows without an identity
// are skipped; all other validation belongs to the normalizer.
func ReadRestaurants(r io.Reader, loadedAt time.Time) ([]normalize.RawRestaurant, Result, error) {
	reader := newReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, Result{}, eris.Wrap(err, "ingest: read restaurants header")
	}
	colIdx := mapColumns(header)

	var rows []normalize.RawRestaurant
	var res Result
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			res.Skipped++
			continue
		}

		id := getCol(record, colIdx, "restaurant_id", "business_id", "id")
		if id == "" {
			res.Skipped++
			continue
		}

		rows = append(rows, normalize.RawRestaurant{
			RestaurantID: id,
			Name:         getCol(record, colIdx, "name", "business_name"),
			Address:      getCol(record, colIdx, "address", "street_address"),
			City:         getCol(record, colIdx, "city"),
			State:        getCol(record, colIdx, "state"),
			PostalCode:   getCol(record, colIdx, "postal_code", "zip", "zip_code"),
			Latitude:     parseFloatPtr(getCol(record, colIdx, "latitude", "lat")),
			Longitude:    parseFloatPtr(getCol(record, colIdx, "longitude", "lon", "lng")),
			Categories:   getCol(record, colIdx, "categories", "cuisine"),
			Rating:       parseFloatOr(getCol(record, colIdx, "rating", "stars"), 0),
			ReviewCount:  parseIntOr(getCol(record, colIdx, "review_count", "reviews"), 0),
			Price:        getCol(record, colIdx, "price", "price_level"),
			Closed:       getCol(record, colIdx, "closed", "is_closed"),
			LoadedAt:     loadedAt,
			UpdatedAt:    parseTimeOr(getCol(record, colIdx, "updated_at"), loadedAt),
		})
		res.Read++
	}

	logBatch("restaurants", res)
	return rows, res, nil
}

// ReadInspections parses one registry CSV batch for a jurisdiction. Column
// aliases cover both registries' native headers, so files can be staged
// as published.
func ReadInspections(r io.Reader, jurisdiction model.Jurisdiction, loadedAt time.Time) ([]normalize.RawInspection, Result, error) {
	reader := newReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, Result{}, eris.Wrap(err, "ingest: read inspections header")
	}
	colIdx := mapColumns(header)

	var rows []normalize.RawInspection
	var res Result
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			res.Skipped++
			continue
		}

		id := getCol(record, colIdx, "inspection_id", "case_number", "record_id")
		if id == "" {
			res.Skipped++
			continue
		}

		rows = append(rows, normalize.RawInspection{
			InspectionID:  id,
			Jurisdiction:  jurisdiction,
			Establishment: getCol(record, colIdx, "establishment", "businessname", "establishment_name"),
			Address:       getCol(record, colIdx, "address"),
			City:          getCol(record, colIdx, "city"),
			PostalCode:    getCol(record, colIdx, "postal_code", "zip"),
			Latitude:      parseFloatPtr(getCol(record, colIdx, "latitude", "lat")),
			Longitude:     parseFloatPtr(getCol(record, colIdx, "longitude", "lon", "lng")),
			ViolationCode: getCol(record, colIdx, "violation_code", "violation", "code"),
			Severity:      getCol(record, colIdx, "severity", "viollevel"),
			Result:        getCol(record, colIdx, "result", "violstatus", "status"),
			InspectedAt:   parseTimePtr(getCol(record, colIdx, "inspected_at", "violdttm", "date_cited")),
			LoadedAt:      loadedAt,
			UpdatedAt:     parseTimeOr(getCol(record, colIdx, "updated_at"), loadedAt),
		})
		res.Read++
	}

	logBatch("inspections:"+string(jurisdiction), res)
	return rows, res, nil
}

// ReadStops parses one transit-stop CSV batch (GTFS stops vocabulary).
func ReadStops(r io.Reader) ([]normalize.RawStop, Result, error) {
	reader := newReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, Result{}, eris.Wrap(err, "ingest: read stops header")
	}
	colIdx := mapColumns(header)

	var rows []normalize.RawStop
	var res Result
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			res.Skipped++
			continue
		}

		id := getCol(record, colIdx, "stop_id")
		if id == "" {
			res.Skipped++
			continue
		}

		rows = append(rows, normalize.RawStop{
			StopID:     id,
			Name:       getCol(record, colIdx, "stop_name", "name"),
			Latitude:   parseFloatPtr(getCol(record, colIdx, "stop_lat", "latitude")),
			Longitude:  parseFloatPtr(getCol(record, colIdx, "stop_lon", "longitude")),
			Wheelchair: getCol(record, colIdx, "wheelchair_boarding", "wheelchair"),
		})
		res.Read++
	}

	logBatch("stops", res)
	return rows, res, nil
}

func newReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	return reader
}

func logBatch(source string, res Result) {
	zap.L().Info("ingest: batch read",
		zap.String("source", source),
		zap.Int("rows", res.Read),
		zap.Int("skipped", res.Skipped),
	)
}
