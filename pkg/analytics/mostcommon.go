package analytics

import "cmp"

// mostCommon returns the key whose metric value is maximal. Ties are broken
// by ascending key so repeated runs always select the same winner. The second
// return is false when rows is empty.
//
// Every "most common" scalar in this package goes through this one function;
// consumers must not recompute the statistic from raw counts themselves.
func mostCommon[R any, K cmp.Ordered](rows []R, key func(R) K, metric func(R) int) (K, bool) {
	var best K
	if len(rows) == 0 {
		return best, false
	}
	bestMetric := -1
	for _, row := range rows {
		k, m := key(row), metric(row)
		if m > bestMetric || (m == bestMetric && k < best) {
			best, bestMetric = k, m
		}
	}
	return best, true
}
