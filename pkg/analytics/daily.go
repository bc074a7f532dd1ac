package analytics

import (
	"sort"
	"time"

	"github.com/ecomlabs/orderlake/pkg/dataset"
)

// DailyOrders is one row of the daily orders table: the number of orders
// approved on a calendar day and the payment revenue they carried.
type DailyOrders struct {
	Day     time.Time `json:"day"`
	Orders  int       `json:"orders"`
	Revenue float64   `json:"revenue"`
}

// DailyOrdersTable groups the records by the calendar date (UTC) of their
// approval timestamp. Rows are ordered by day ascending. An order spanning
// several line records counts once per day; revenue sums every record's
// payment value. Records without an approval timestamp are excluded, and
// records without an order ID are excluded from the order count.
func DailyOrdersTable(records []dataset.OrderLine) []DailyOrders {
	byDay := make(map[time.Time]*DailyOrders)
	orders := make(map[time.Time]map[string]struct{})
	for _, rec := range records {
		if !rec.Approved() {
			continue
		}
		y, m, d := rec.ApprovedAt.UTC().Date()
		day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		row, ok := byDay[day]
		if !ok {
			row = &DailyOrders{Day: day}
			byDay[day] = row
			orders[day] = make(map[string]struct{})
		}
		row.Revenue += rec.PaymentValue
		if rec.OrderID == "" {
			continue
		}
		if _, seen := orders[day][rec.OrderID]; !seen {
			orders[day][rec.OrderID] = struct{}{}
			row.Orders++
		}
	}

	out := make([]DailyOrders, 0, len(byDay))
	for _, row := range byDay {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Day.Before(out[j].Day)
	})
	return out
}
