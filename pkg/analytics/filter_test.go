package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ecomlabs/orderlake/pkg/dataset"
)

func TestFilterByApproval(t *testing.T) {
	t.Parallel()

	records := []dataset.OrderLine{
		order(t, "a", "2018-01-01 00:00:00", 10),
		order(t, "b", "2018-01-15 12:30:00", 20),
		{OrderID: "o-x", CustomerID: "x", PaymentValue: 5}, // never approved
		order(t, "c", "2018-02-01 00:00:00", 30),
	}

	t.Run("inclusive_both_ends", func(t *testing.T) {
		t.Parallel()

		r := DateRange{
			Start: time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2018, 2, 1, 0, 0, 0, 0, time.UTC),
		}
		got := FilterByApproval(records, r)
		require.Len(t, got, 3)
		for _, rec := range got {
			require.NotNil(t, rec.ApprovedAt)
			require.True(t, r.Contains(*rec.ApprovedAt))
		}
	})

	t.Run("excludes_unapproved_records", func(t *testing.T) {
		t.Parallel()

		r := DateRange{Start: time.Time{}, End: time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC)}
		got := FilterByApproval(records, r)
		for _, rec := range got {
			require.NotEqual(t, "x", rec.CustomerID)
		}
	})

	t.Run("preserves_input_order", func(t *testing.T) {
		t.Parallel()

		r := DateRange{
			Start: time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2018, 2, 1, 0, 0, 0, 0, time.UTC),
		}
		got := FilterByApproval(records, r)
		require.Equal(t, []string{"a", "b", "c"}, []string{got[0].CustomerID, got[1].CustomerID, got[2].CustomerID})
	})

	t.Run("degenerate_instant_range", func(t *testing.T) {
		t.Parallel()

		at := time.Date(2018, 1, 15, 12, 30, 0, 0, time.UTC)
		got := FilterByApproval(records, DateRange{Start: at, End: at})
		require.Len(t, got, 1)
		require.Equal(t, "b", got[0].CustomerID)
	})

	t.Run("reversed_range_is_swapped", func(t *testing.T) {
		t.Parallel()

		r := DateRange{
			Start: time.Date(2018, 2, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC),
		}
		got := FilterByApproval(records, r)
		require.Len(t, got, 3)
	})

	t.Run("idempotent", func(t *testing.T) {
		t.Parallel()

		r := DateRange{
			Start: time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2018, 1, 31, 0, 0, 0, 0, time.UTC),
		}
		once := FilterByApproval(records, r)
		twice := FilterByApproval(once, r)
		require.Equal(t, once, twice)
	})

	t.Run("does_not_share_backing_array_with_source", func(t *testing.T) {
		t.Parallel()

		r := DateRange{
			Start: time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2018, 2, 1, 0, 0, 0, 0, time.UTC),
		}
		got := FilterByApproval(records, r)
		got[0].CustomerID = "mutated"
		require.Equal(t, "a", records[0].CustomerID)
	})

	t.Run("empty_input", func(t *testing.T) {
		t.Parallel()

		got := FilterByApproval(nil, DateRange{})
		require.NotNil(t, got)
		require.Empty(t, got)
	})
}
