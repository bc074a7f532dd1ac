package warehouse

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ecomlabs/orderlake/pkg/analytics"
	"github.com/ecomlabs/orderlake/pkg/geo"
)

func mustDay(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return parsed.UTC()
}

func testWarehouse(t *testing.T) *Warehouse {
	t.Helper()
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	w, err := Open(context.Background(), log, "")
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })
	return w
}

func TestPublish(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("creates_and_fills_tables", func(t *testing.T) {
		t.Parallel()

		w := testWarehouse(t)

		sum := &analytics.Summary{
			DailyOrders: []analytics.DailyOrders{
				{Day: mustDay(t, "2018-01-01"), Orders: 2, Revenue: 30.5},
				{Day: mustDay(t, "2018-01-02"), Orders: 1, Revenue: 10},
			},
			CustomerSpend: []analytics.CustomerSpend{
				{CustomerID: "c1", Total: 40.5, Mean: 20.25, Orders: 2},
			},
			CategorySales: []analytics.CategoryCount{
				{Category: "toys", Count: 3},
			},
			ReviewScores: []analytics.ScoreCount{
				{Score: 5, Count: 2},
			},
			StateCustomers: []analytics.StateCustomers{
				{State: "SP", Customers: 1},
			},
			StatusCounts: []analytics.StatusCount{
				{Status: "delivered", Count: 3},
			},
			RevenueByPrice: []analytics.BucketRevenue{
				{Bucket: analytics.PriceCheap, Revenue: 40.5, Items: 3},
			},
		}
		geoPoints := map[string]geo.Point{
			"01310": {Latitude: -23.55, Longitude: -46.65},
		}

		require.NoError(t, w.Publish(ctx, sum, geoPoints))

		var orders int
		var revenue float64
		err := w.QueryRowContext(ctx, "SELECT orders, revenue FROM daily_orders WHERE day = DATE '2018-01-01'").Scan(&orders, &revenue)
		require.NoError(t, err)
		require.Equal(t, 2, orders)
		require.InDelta(t, 30.5, revenue, 1e-9)

		var total float64
		err = w.QueryRowContext(ctx, "SELECT total FROM customer_spend WHERE customer_id = 'c1'").Scan(&total)
		require.NoError(t, err)
		require.InDelta(t, 40.5, total, 1e-9)

		var lat float64
		err = w.QueryRowContext(ctx, "SELECT lat FROM geo_points WHERE zip_prefix = '01310'").Scan(&lat)
		require.NoError(t, err)
		require.InDelta(t, -23.55, lat, 1e-9)
	})

	t.Run("republish_replaces_contents", func(t *testing.T) {
		t.Parallel()

		w := testWarehouse(t)

		first := &analytics.Summary{
			StatusCounts: []analytics.StatusCount{
				{Status: "delivered", Count: 3},
				{Status: "shipped", Count: 1},
			},
		}
		require.NoError(t, w.Publish(ctx, first, nil))

		second := &analytics.Summary{
			StatusCounts: []analytics.StatusCount{
				{Status: "delivered", Count: 1},
			},
		}
		require.NoError(t, w.Publish(ctx, second, nil))

		var count int
		err := w.QueryRowContext(ctx, "SELECT COUNT(*) FROM status_counts").Scan(&count)
		require.NoError(t, err)
		require.Equal(t, 1, count)
	})

	t.Run("empty_summary_produces_empty_tables", func(t *testing.T) {
		t.Parallel()

		w := testWarehouse(t)
		require.NoError(t, w.Publish(ctx, &analytics.Summary{}, nil))

		var count int
		err := w.QueryRowContext(ctx, "SELECT COUNT(*) FROM daily_orders").Scan(&count)
		require.NoError(t, err)
		require.Zero(t, count)

		err = w.QueryRowContext(ctx, "SELECT COUNT(*) FROM geo_points").Scan(&count)
		require.NoError(t, err)
		require.Zero(t, count)
	})
}
