package analytics

import (
	"testing"
	"time"

	"github.com/ecomlabs/orderlake/pkg/dataset"
)

// ts parses a test timestamp and returns a pointer for the optional field.
func ts(t *testing.T, s string) *time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02 15:04:05", s)
	if err != nil {
		t.Fatalf("bad test timestamp %q: %v", s, err)
	}
	parsed = parsed.UTC()
	return &parsed
}

func day(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return parsed.UTC()
}

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

// order builds a minimal approved order line for aggregation tests.
func order(t *testing.T, customer, approvedAt string, payment float64) dataset.OrderLine {
	t.Helper()
	return dataset.OrderLine{
		OrderID:      "o-" + customer,
		CustomerID:   customer,
		ApprovedAt:   ts(t, approvedAt),
		PaymentValue: payment,
	}
}
