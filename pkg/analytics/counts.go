package analytics

import (
	"sort"

	"github.com/ecomlabs/orderlake/pkg/dataset"
)

// ScoreCount is one row of the review-score distribution.
type ScoreCount struct {
	Score int `json:"score"`
	Count int `json:"count"`
}

// ReviewScoreTable counts reviews per score. Rows are ordered by score
// ascending; records without a review score are excluded.
func ReviewScoreTable(records []dataset.OrderLine) []ScoreCount {
	counts := make(map[int]int)
	for _, rec := range records {
		if rec.ReviewScore == nil {
			continue
		}
		counts[*rec.ReviewScore]++
	}

	out := make([]ScoreCount, 0, len(counts))
	for score, count := range counts {
		out = append(out, ScoreCount{Score: score, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Score < out[j].Score
	})
	return out
}

// MostCommonScore returns the review score with the highest count in the
// distribution table, ties broken by the lower score.
func MostCommonScore(table []ScoreCount) (int, bool) {
	return mostCommon(table,
		func(r ScoreCount) int { return r.Score },
		func(r ScoreCount) int { return r.Count })
}

// StateCustomers is one row of the customers-by-state table.
type StateCustomers struct {
	State     string `json:"state"`
	Customers int    `json:"customers"`
}

// StateCustomerTable counts distinct customers per state. Rows are ordered by
// customer count descending; ties keep the order in which states first appear
// in the input. Records without a state or customer ID are excluded.
func StateCustomerTable(records []dataset.OrderLine) []StateCustomers {
	seen := make(map[string]map[string]struct{})
	var order []string
	for _, rec := range records {
		if rec.CustomerState == "" || rec.CustomerID == "" {
			continue
		}
		customers, ok := seen[rec.CustomerState]
		if !ok {
			customers = make(map[string]struct{})
			seen[rec.CustomerState] = customers
			order = append(order, rec.CustomerState)
		}
		customers[rec.CustomerID] = struct{}{}
	}

	out := make([]StateCustomers, 0, len(order))
	for _, state := range order {
		out = append(out, StateCustomers{State: state, Customers: len(seen[state])})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Customers > out[j].Customers
	})
	return out
}

// MostCommonState returns the state with the most distinct customers, ties
// broken by the lexically smaller state code.
func MostCommonState(table []StateCustomers) (string, bool) {
	return mostCommon(table,
		func(r StateCustomers) string { return r.State },
		func(r StateCustomers) int { return r.Customers })
}

// StatusCount is one row of the order-status count table.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// StatusTable counts distinct orders per status, so an order spanning several
// line records counts once. Rows are ordered by count descending; ties keep
// the order in which statuses first appear in the input. Records without a
// status or order ID are excluded.
func StatusTable(records []dataset.OrderLine) []StatusCount {
	seen := make(map[string]map[string]struct{})
	var order []string
	for _, rec := range records {
		if rec.Status == "" || rec.OrderID == "" {
			continue
		}
		ids, ok := seen[rec.Status]
		if !ok {
			ids = make(map[string]struct{})
			seen[rec.Status] = ids
			order = append(order, rec.Status)
		}
		ids[rec.OrderID] = struct{}{}
	}

	out := make([]StatusCount, 0, len(order))
	for _, status := range order {
		out = append(out, StatusCount{Status: status, Count: len(seen[status])})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// MostCommonStatus returns the status with the highest order count, ties
// broken by the lexically smaller status label.
func MostCommonStatus(table []StatusCount) (string, bool) {
	return mostCommon(table,
		func(r StatusCount) string { return r.Status },
		func(r StatusCount) int { return r.Count })
}
