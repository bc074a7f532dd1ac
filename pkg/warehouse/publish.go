package warehouse

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ecomlabs/orderlake/pkg/analytics"
	"github.com/ecomlabs/orderlake/pkg/geo"
)

// tableSpec describes one published table. Columns are name:type pairs, e.g.
// "day:DATE".
type tableSpec struct {
	Name    string
	Columns []string
}

// Publish replaces every summary table and the geo mapping in the warehouse
// with the contents of the given summary. The whole publish runs in one
// transaction so readers never observe a half-replaced set of tables.
func (w *Warehouse) Publish(ctx context.Context, sum *analytics.Summary, geoPoints map[string]geo.Point) error {
	publishStart := time.Now()
	defer func() {
		w.log.Debug("warehouse publish completed",
			"filtered_records", sum.Filtered,
			"duration", time.Since(publishStart).String())
	}()

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			w.log.Error("failed to rollback publish transaction", "error", err)
		}
	}()

	daily := sum.DailyOrders
	if err := replaceTableViaCSV(ctx, tx, tableSpec{
		Name:    "daily_orders",
		Columns: []string{"day:DATE", "orders:BIGINT", "revenue:DOUBLE"},
	}, len(daily), func(cw *csv.Writer, i int) error {
		return cw.Write([]string{
			daily[i].Day.Format("2006-01-02"),
			strconv.Itoa(daily[i].Orders),
			formatFloat(daily[i].Revenue),
		})
	}); err != nil {
		return err
	}

	spend := sum.CustomerSpend
	if err := replaceTableViaCSV(ctx, tx, tableSpec{
		Name:    "customer_spend",
		Columns: []string{"customer_id:VARCHAR", "total:DOUBLE", "mean:DOUBLE", "orders:BIGINT"},
	}, len(spend), func(cw *csv.Writer, i int) error {
		return cw.Write([]string{
			spend[i].CustomerID,
			formatFloat(spend[i].Total),
			formatFloat(spend[i].Mean),
			strconv.Itoa(spend[i].Orders),
		})
	}); err != nil {
		return err
	}

	categories := sum.CategorySales
	if err := replaceTableViaCSV(ctx, tx, tableSpec{
		Name:    "category_sales",
		Columns: []string{"category:VARCHAR", "item_count:BIGINT"},
	}, len(categories), func(cw *csv.Writer, i int) error {
		return cw.Write([]string{
			categories[i].Category,
			strconv.Itoa(categories[i].Count),
		})
	}); err != nil {
		return err
	}

	scores := sum.ReviewScores
	if err := replaceTableViaCSV(ctx, tx, tableSpec{
		Name:    "review_scores",
		Columns: []string{"score:BIGINT", "review_count:BIGINT"},
	}, len(scores), func(cw *csv.Writer, i int) error {
		return cw.Write([]string{
			strconv.Itoa(scores[i].Score),
			strconv.Itoa(scores[i].Count),
		})
	}); err != nil {
		return err
	}

	states := sum.StateCustomers
	if err := replaceTableViaCSV(ctx, tx, tableSpec{
		Name:    "state_customers",
		Columns: []string{"state:VARCHAR", "customer_count:BIGINT"},
	}, len(states), func(cw *csv.Writer, i int) error {
		return cw.Write([]string{
			states[i].State,
			strconv.Itoa(states[i].Customers),
		})
	}); err != nil {
		return err
	}

	statuses := sum.StatusCounts
	if err := replaceTableViaCSV(ctx, tx, tableSpec{
		Name:    "status_counts",
		Columns: []string{"status:VARCHAR", "order_count:BIGINT"},
	}, len(statuses), func(cw *csv.Writer, i int) error {
		return cw.Write([]string{
			statuses[i].Status,
			strconv.Itoa(statuses[i].Count),
		})
	}); err != nil {
		return err
	}

	buckets := sum.RevenueByPrice
	if err := replaceTableViaCSV(ctx, tx, tableSpec{
		Name:    "revenue_by_price",
		Columns: []string{"bucket:VARCHAR", "revenue:DOUBLE", "item_count:BIGINT"},
	}, len(buckets), func(cw *csv.Writer, i int) error {
		return cw.Write([]string{
			string(buckets[i].Bucket),
			formatFloat(buckets[i].Revenue),
			strconv.Itoa(buckets[i].Items),
		})
	}); err != nil {
		return err
	}

	prefixes := make([]string, 0, len(geoPoints))
	for prefix := range geoPoints {
		prefixes = append(prefixes, prefix)
	}
	sort.Strings(prefixes)
	if err := replaceTableViaCSV(ctx, tx, tableSpec{
		Name:    "geo_points",
		Columns: []string{"zip_prefix:VARCHAR", "lat:DOUBLE", "lng:DOUBLE"},
	}, len(prefixes), func(cw *csv.Writer, i int) error {
		p := geoPoints[prefixes[i]]
		return cw.Write([]string{
			prefixes[i],
			formatFloat(p.Latitude),
			formatFloat(p.Longitude),
		})
	}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit publish transaction: %w", err)
	}
	return nil
}

// replaceTableViaCSV swaps a table's contents wholesale:
// - Recreates the table from the column definitions
// - Writes the rows to a temp CSV file
// - Loads the CSV with COPY FROM
func replaceTableViaCSV(
	ctx context.Context,
	tx *sql.Tx,
	spec tableSpec,
	count int,
	writeCSVFn func(*csv.Writer, int) error,
) error {
	colDefs := make([]string, 0, len(spec.Columns))
	for _, col := range spec.Columns {
		parts := strings.SplitN(col, ":", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid column definition %q: expected format 'name:type'", col)
		}
		colDefs = append(colDefs, fmt.Sprintf("%s %s", strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])))
	}

	createSQL := fmt.Sprintf("CREATE OR REPLACE TABLE %s (%s)", spec.Name, strings.Join(colDefs, ", "))
	if _, err := tx.ExecContext(ctx, createSQL); err != nil {
		return fmt.Errorf("failed to create table %s: %w", spec.Name, err)
	}

	if count == 0 {
		return nil
	}

	tmpFile, err := os.CreateTemp("", fmt.Sprintf("%s_*.csv", spec.Name))
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name())
	defer tmpFile.Close()

	cw := csv.NewWriter(tmpFile)
	for i := range count {
		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled during CSV writing: %w", ctx.Err())
		default:
		}
		if err := writeCSVFn(cw, i); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	copySQL := fmt.Sprintf("COPY %s FROM '%s' (FORMAT CSV, HEADER false)", spec.Name, tmpFile.Name())
	if _, err := tx.ExecContext(ctx, copySQL); err != nil {
		return fmt.Errorf("failed to COPY FROM CSV into %s: %w", spec.Name, err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
