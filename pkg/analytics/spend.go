package analytics

import (
	"sort"

	"github.com/ecomlabs/orderlake/pkg/dataset"
)

// CustomerSpend is one row of the per-customer spend table.
type CustomerSpend struct {
	CustomerID string  `json:"customer_id"`
	Total      float64 `json:"total"`
	Mean       float64 `json:"mean"`
	Orders     int     `json:"orders"`
}

// CustomerSpendTable sums, averages, and counts payment values per distinct
// customer. Rows are ordered by customer ID ascending. Records without a
// customer ID are excluded.
func CustomerSpendTable(records []dataset.OrderLine) []CustomerSpend {
	byCustomer := make(map[string]*CustomerSpend)
	for _, rec := range records {
		if rec.CustomerID == "" {
			continue
		}
		row, ok := byCustomer[rec.CustomerID]
		if !ok {
			row = &CustomerSpend{CustomerID: rec.CustomerID}
			byCustomer[rec.CustomerID] = row
		}
		row.Total += rec.PaymentValue
		row.Orders++
	}

	out := make([]CustomerSpend, 0, len(byCustomer))
	for _, row := range byCustomer {
		row.Mean = row.Total / float64(row.Orders)
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CustomerID < out[j].CustomerID
	})
	return out
}

// AverageCustomerSpend is the top-line spend metric: the arithmetic mean of
// each customer's summed payment values. This is deliberately not the mean of
// payment values across line items, which differs whenever a customer has
// more than one order. The second return is false when no customer exists.
func AverageCustomerSpend(records []dataset.OrderLine) (float64, bool) {
	totals := make(map[string]float64)
	for _, rec := range records {
		if rec.CustomerID == "" {
			continue
		}
		totals[rec.CustomerID] += rec.PaymentValue
	}
	if len(totals) == 0 {
		return 0, false
	}
	var sum float64
	for _, t := range totals {
		sum += t
	}
	return sum / float64(len(totals)), true
}
