package warehouse

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/ecomlabs/orderlake/pkg/dataset"
)

func TestPublisher(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	approved := func(s string) *time.Time {
		parsed, err := time.Parse("2006-01-02 15:04:05", s)
		require.NoError(t, err)
		parsed = parsed.UTC()
		return &parsed
	}

	records := []dataset.OrderLine{
		{OrderID: "o1", CustomerID: "c1", CustomerState: "SP", ApprovedAt: approved("2018-01-01 10:00:00"), PaymentValue: 10, Status: "delivered"},
		{OrderID: "o2", CustomerID: "c2", CustomerState: "RJ", ApprovedAt: approved("2018-01-02 10:00:00"), PaymentValue: 20, Status: "shipped"},
	}
	geoPoints := []dataset.GeoPoint{
		{ZipPrefix: "01310", Latitude: -23.55, Longitude: -46.65},
	}

	t.Run("refresh_publishes_full_span_summary", func(t *testing.T) {
		t.Parallel()

		w := testWarehouse(t)
		p, err := NewPublisher(PublisherConfig{
			Logger:          log,
			Clock:           clockwork.NewFakeClock(),
			Warehouse:       w,
			Records:         records,
			GeoPoints:       geoPoints,
			RefreshInterval: time.Minute,
		})
		require.NoError(t, err)
		require.False(t, p.Ready())

		require.NoError(t, p.Refresh(context.Background()))
		require.True(t, p.Ready())

		var count int
		err = w.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM daily_orders").Scan(&count)
		require.NoError(t, err)
		require.Equal(t, 2, count)

		err = w.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM geo_points").Scan(&count)
		require.NoError(t, err)
		require.Equal(t, 1, count)
	})

	t.Run("start_becomes_ready", func(t *testing.T) {
		t.Parallel()

		w := testWarehouse(t)
		p, err := NewPublisher(PublisherConfig{
			Logger:          log,
			Warehouse:       w,
			Records:         records,
			GeoPoints:       geoPoints,
			RefreshInterval: time.Hour,
		})
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		p.Start(ctx)
		require.NoError(t, p.WaitReady(ctx))
	})

	t.Run("config_requires_warehouse_and_interval", func(t *testing.T) {
		t.Parallel()

		_, err := NewPublisher(PublisherConfig{Logger: log, RefreshInterval: time.Minute})
		require.Error(t, err)

		_, err = NewPublisher(PublisherConfig{Logger: log, Warehouse: testWarehouse(t)})
		require.Error(t, err)
	})
}
