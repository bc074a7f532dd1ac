package analytics

import (
	"sort"

	"github.com/ecomlabs/orderlake/pkg/dataset"
)

// TopN is the row cap for the most-sold / fewest-sold category views.
const TopN = 5

// CategoryCount is one row of the order-item count table.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// CategorySalesTable counts line items per product category. Rows are
// ordered by count descending; ties keep the order in which categories first
// appear in the input. Records without a category are excluded.
func CategorySalesTable(records []dataset.OrderLine) []CategoryCount {
	counts := make(map[string]int)
	var order []string
	for _, rec := range records {
		if rec.ProductCategory == "" {
			continue
		}
		if _, seen := counts[rec.ProductCategory]; !seen {
			order = append(order, rec.ProductCategory)
		}
		counts[rec.ProductCategory]++
	}

	out := make([]CategoryCount, 0, len(order))
	for _, cat := range order {
		out = append(out, CategoryCount{Category: cat, Count: counts[cat]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// TopCategories returns the n most sold categories from a category table.
func TopCategories(table []CategoryCount, n int) []CategoryCount {
	out := make([]CategoryCount, len(table))
	copy(out, table)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// BottomCategories returns the n least sold categories from a category table.
func BottomCategories(table []CategoryCount, n int) []CategoryCount {
	out := make([]CategoryCount, len(table))
	copy(out, table)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count < out[j].Count
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
