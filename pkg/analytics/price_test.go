package analytics

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ecomlabs/orderlake/pkg/dataset"
)

func TestRevenueByPriceBucket(t *testing.T) {
	t.Parallel()

	t.Run("bin_edges", func(t *testing.T) {
		t.Parallel()

		records := []dataset.OrderLine{
			{Price: fptr(49.99), PaymentValue: 1},
			{Price: fptr(50.00), PaymentValue: 2},
			{Price: fptr(99.99), PaymentValue: 4},
			{Price: fptr(100.00), PaymentValue: 8},
			{Price: fptr(350.00), PaymentValue: 16},
		}
		got := RevenueByPriceBucket(records)
		require.Equal(t, []BucketRevenue{
			{Bucket: PriceCheap, Revenue: 1, Items: 1},
			{Bucket: PriceMid, Revenue: 6, Items: 2},
			{Bucket: PriceExpensive, Revenue: 24, Items: 2},
		}, got)
	})

	t.Run("absent_price_gets_no_bucket", func(t *testing.T) {
		t.Parallel()

		records := []dataset.OrderLine{
			{Price: nil, PaymentValue: 100},
			{Price: fptr(10), PaymentValue: 1},
		}
		got := RevenueByPriceBucket(records)
		require.Len(t, got, 1)
		require.Equal(t, PriceCheap, got[0].Bucket)
		require.Equal(t, 1.0, got[0].Revenue)
	})

	t.Run("empty_buckets_omitted", func(t *testing.T) {
		t.Parallel()

		records := []dataset.OrderLine{
			{Price: fptr(10), PaymentValue: 1},
			{Price: fptr(200), PaymentValue: 2},
		}
		got := RevenueByPriceBucket(records)
		require.Equal(t, []BucketRevenue{
			{Bucket: PriceCheap, Revenue: 1, Items: 1},
			{Bucket: PriceExpensive, Revenue: 2, Items: 1},
		}, got)
	})

	t.Run("empty_input", func(t *testing.T) {
		t.Parallel()

		require.Empty(t, RevenueByPriceBucket(nil))
	})
}
