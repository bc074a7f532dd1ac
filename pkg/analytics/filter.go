package analytics

import (
	"time"

	"github.com/ecomlabs/orderlake/pkg/dataset"
)

// DateRange is an inclusive interval of approval timestamps.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Normalize returns the range with Start and End swapped if they arrive out
// of order. A reversed pair is a caller mistake the pipeline absorbs rather
// than rejects.
func (r DateRange) Normalize() DateRange {
	if r.Start.After(r.End) {
		return DateRange{Start: r.End, End: r.Start}
	}
	return r
}

// Contains reports whether t lies inside the inclusive interval.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// FilterByApproval selects the records whose approval timestamp falls inside
// the inclusive range. Records without an approval timestamp are excluded.
// The result is a fresh slice preserving input order; the source slice and
// its records are never mutated.
func FilterByApproval(records []dataset.OrderLine, r DateRange) []dataset.OrderLine {
	r = r.Normalize()
	out := make([]dataset.OrderLine, 0, len(records))
	for _, rec := range records {
		if !rec.Approved() {
			continue
		}
		if r.Contains(*rec.ApprovedAt) {
			out = append(out, rec)
		}
	}
	return out
}
