// Package ingest reads the raw order and geolocation CSV exports into the
// in-memory record model. Parsing is done once per analysis session; the
// aggregation pipeline only ever sees the already-typed records.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ecomlabs/orderlake/pkg/dataset"
)

// Column names as they appear in the joined order export.
const (
	colOrderID         = "order_id"
	colCustomerID      = "customer_unique_id"
	colCustomerState   = "customer_state"
	colApprovedAt      = "order_approved_at"
	colPaymentValue    = "payment_value"
	colPrice           = "price"
	colProductCategory = "product_category_name_english"
	colOrderStatus     = "order_status"
	colReviewScore     = "review_score"
)

// Column names as they appear in the geolocation export.
const (
	colZipPrefix = "geolocation_zip_code_prefix"
	colLatitude  = "geolocation_lat"
	colLongitude = "geolocation_lng"
)

// header maps column names to their position in the CSV header row. Column
// presence is checked once here, so downstream code can treat fields of
// records from absent columns as absent values rather than re-checking the
// schema per use.
type header map[string]int

func readHeader(row []string) header {
	h := make(header, len(row))
	for i, name := range row {
		h[strings.TrimSpace(name)] = i
	}
	return h
}

func (h header) cell(row []string, name string) string {
	i, ok := h[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// ReadOrders parses the joined order export. Malformed cells degrade to
// absent fields and missing columns leave the corresponding field absent on
// every record; only structural CSV failures are errors. An empty file
// yields an empty, non-nil slice.
func ReadOrders(r io.Reader) ([]dataset.OrderLine, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	headerRow, err := cr.Read()
	if err == io.EOF {
		return []dataset.OrderLine{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read orders header: %w", err)
	}
	h := readHeader(headerRow)

	records := []dataset.OrderLine{}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read orders row %d: %w", len(records)+2, err)
		}
		records = append(records, dataset.OrderLine{
			OrderID:         strings.TrimSpace(h.cell(row, colOrderID)),
			CustomerID:      strings.TrimSpace(h.cell(row, colCustomerID)),
			CustomerState:   strings.TrimSpace(h.cell(row, colCustomerState)),
			ApprovedAt:      dataset.ParseTimestamp(h.cell(row, colApprovedAt)),
			PaymentValue:    dataset.ParsePayment(h.cell(row, colPaymentValue)),
			Price:           dataset.ParseOptionalFloat(h.cell(row, colPrice)),
			ProductCategory: strings.TrimSpace(h.cell(row, colProductCategory)),
			Status:          strings.TrimSpace(h.cell(row, colOrderStatus)),
			ReviewScore:     dataset.ParseReviewScore(h.cell(row, colReviewScore)),
		})
	}
	return records, nil
}

// ReadGeolocation parses the geolocation export. Samples with a missing
// prefix or unparseable coordinates are skipped; a sample without usable
// coordinates cannot contribute to a centroid.
func ReadGeolocation(r io.Reader) ([]dataset.GeoPoint, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	headerRow, err := cr.Read()
	if err == io.EOF {
		return []dataset.GeoPoint{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read geolocation header: %w", err)
	}
	h := readHeader(headerRow)

	points := []dataset.GeoPoint{}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read geolocation row %d: %w", len(points)+2, err)
		}
		prefix := strings.TrimSpace(h.cell(row, colZipPrefix))
		if prefix == "" {
			continue
		}
		lat, latErr := strconv.ParseFloat(strings.TrimSpace(h.cell(row, colLatitude)), 64)
		lng, lngErr := strconv.ParseFloat(strings.TrimSpace(h.cell(row, colLongitude)), 64)
		if latErr != nil || lngErr != nil {
			continue
		}
		points = append(points, dataset.GeoPoint{
			ZipPrefix: prefix,
			Latitude:  lat,
			Longitude: lng,
		})
	}
	return points, nil
}

// LoadOrdersFile reads the joined order export from disk.
func LoadOrdersFile(path string) ([]dataset.OrderLine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open orders file: %w", err)
	}
	defer f.Close()
	return ReadOrders(f)
}

// LoadGeolocationFile reads the geolocation export from disk.
func LoadGeolocationFile(path string) ([]dataset.GeoPoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open geolocation file: %w", err)
	}
	defer f.Close()
	return ReadGeolocation(f)
}
