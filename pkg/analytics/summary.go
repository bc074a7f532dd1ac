package analytics

import (
	"github.com/ecomlabs/orderlake/pkg/dataset"
)

// Summary holds every derived table plus the associated scalars for one
// filtered snapshot of the order dataset. Nil scalar pointers mean the
// filtered set had no data to compute them from.
type Summary struct {
	Range    DateRange `json:"range"`
	Records  int       `json:"records"`
	Filtered int       `json:"filtered"`

	DailyOrders   []DailyOrders   `json:"daily_orders"`
	CustomerSpend []CustomerSpend `json:"customer_spend"`
	AverageSpend  *float64        `json:"average_spend"`

	CategorySales    []CategoryCount `json:"category_sales"`
	TopCategories    []CategoryCount `json:"top_categories"`
	BottomCategories []CategoryCount `json:"bottom_categories"`

	ReviewScores    []ScoreCount `json:"review_scores"`
	MostCommonScore *int         `json:"most_common_score"`

	StateCustomers  []StateCustomers `json:"state_customers"`
	MostCommonState *string          `json:"most_common_state"`

	StatusCounts     []StatusCount `json:"status_counts"`
	MostCommonStatus *string       `json:"most_common_status"`

	RevenueByPrice []BucketRevenue `json:"revenue_by_price"`
}

// Summarize filters the record set to the given range and recomputes every
// derived table from scratch. Nothing is cached between calls and the source
// records are never mutated, so repeated calls with the same input return the
// same result. Empty input yields empty tables and nil scalars, never an
// error.
func Summarize(records []dataset.OrderLine, r DateRange) *Summary {
	r = r.Normalize()
	filtered := FilterByApproval(records, r)

	s := &Summary{
		Range:    r,
		Records:  len(records),
		Filtered: len(filtered),

		DailyOrders:   DailyOrdersTable(filtered),
		CustomerSpend: CustomerSpendTable(filtered),

		ReviewScores:   ReviewScoreTable(filtered),
		StateCustomers: StateCustomerTable(filtered),
		StatusCounts:   StatusTable(filtered),

		RevenueByPrice: RevenueByPriceBucket(filtered),
	}

	s.CategorySales = CategorySalesTable(filtered)
	s.TopCategories = TopCategories(s.CategorySales, TopN)
	s.BottomCategories = BottomCategories(s.CategorySales, TopN)

	if avg, ok := AverageCustomerSpend(filtered); ok {
		s.AverageSpend = &avg
	}
	if score, ok := MostCommonScore(s.ReviewScores); ok {
		s.MostCommonScore = &score
	}
	if state, ok := MostCommonState(s.StateCustomers); ok {
		s.MostCommonState = &state
	}
	if status, ok := MostCommonStatus(s.StatusCounts); ok {
		s.MostCommonStatus = &status
	}

	return s
}

// Span returns the inclusive range covering every approved record, for use as
// the default filter. The second return is false when no record carries an
// approval timestamp.
func Span(records []dataset.OrderLine) (DateRange, bool) {
	var r DateRange
	found := false
	for _, rec := range records {
		if !rec.Approved() {
			continue
		}
		t := *rec.ApprovedAt
		if !found {
			r = DateRange{Start: t, End: t}
			found = true
			continue
		}
		if t.Before(r.Start) {
			r.Start = t
		}
		if t.After(r.End) {
			r.End = t
		}
	}
	return r, found
}
