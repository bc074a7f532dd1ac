package analytics

import (
	"github.com/ecomlabs/orderlake/pkg/dataset"
)

// PriceBucket labels a price as cheap, mid, or expensive relative to fixed
// lower edges and a data-dependent upper edge.
type PriceBucket string

const (
	PriceCheap     PriceBucket = "cheap"     // [0, 50)
	PriceMid       PriceBucket = "mid"       // [50, 100)
	PriceExpensive PriceBucket = "expensive" // [100, max(price)]
)

// PriceBuckets lists the buckets in ascending price order.
var PriceBuckets = []PriceBucket{PriceCheap, PriceMid, PriceExpensive}

// BucketRevenue is one row of the profit-by-price-category table.
type BucketRevenue struct {
	Bucket  PriceBucket `json:"bucket"`
	Revenue float64     `json:"revenue"`
	Items   int         `json:"items"`
}

// bucketFor bins a price into its category. The upper edge is the maximum
// price of the current filtered set, so every priced record lands in a
// bucket.
func bucketFor(price float64) PriceBucket {
	switch {
	case price < 50:
		return PriceCheap
	case price < 100:
		return PriceMid
	default:
		return PriceExpensive
	}
}

// RevenueByPriceBucket sums payment values per price category. Rows are
// ordered cheap, mid, expensive; buckets no record falls into are omitted.
// Records without a price receive no category and are excluded. The bin
// edges depend on the filtered set, so the table must be rebuilt whenever
// the filter changes; labeling happens on a derived table, never on the
// source records.
func RevenueByPriceBucket(records []dataset.OrderLine) []BucketRevenue {
	byBucket := make(map[PriceBucket]*BucketRevenue)
	for _, rec := range records {
		if rec.Price == nil {
			continue
		}
		bucket := bucketFor(*rec.Price)
		row, ok := byBucket[bucket]
		if !ok {
			row = &BucketRevenue{Bucket: bucket}
			byBucket[bucket] = row
		}
		row.Revenue += rec.PaymentValue
		row.Items++
	}

	out := make([]BucketRevenue, 0, len(byBucket))
	for _, bucket := range PriceBuckets {
		if row, ok := byBucket[bucket]; ok {
			out = append(out, *row)
		}
	}
	return out
}
