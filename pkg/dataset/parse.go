package dataset

import (
	"strconv"
	"strings"
	"time"
)

// Timestamp layouts seen in the order exports, most specific first.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// ParseTimestamp parses an approval timestamp cell. Empty or malformed cells
// return nil rather than an error; the record stays usable for aggregations
// that do not depend on the timestamp.
func ParseTimestamp(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

// ParsePayment parses a payment_value cell. Missing, malformed, and negative
// values all normalize to 0 so the record is never dropped.
func ParsePayment(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// ParseOptionalFloat parses a decimal cell, returning nil for empty or
// malformed input.
func ParseOptionalFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// ParseReviewScore parses a review_score cell. Scores are small positive
// integers; anything else is treated as absent. Exports sometimes carry
// scores as floats ("4.0"), so a float parse is accepted too.
func ParseReviewScore(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != float64(int(f)) {
			return nil
		}
		v = int(f)
	}
	if v <= 0 {
		return nil
	}
	return &v
}
