// Package booking contains the pure booking-domain logic: date range
// merging, input validation, day counting, pricing and availability
// computation.  Nothing in this package performs I/O; repositories and
// services feed it data and persist its results.
package booking

import (
	"sort"
	"time"
)

// Range is a normalized date interval derived from bookings on demand.  It
// is never persisted.  Both bounds are inclusive: a range ending at an
// instant conflicts with a range starting at that same instant.
type Range struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// MergeRanges compresses a set of possibly overlapping or touching ranges
// into the minimal sorted covering set.  Input order does not matter and the
// input slice is not modified.  An empty input yields an empty output.
func MergeRanges(ranges []Range) []Range {
	if len(ranges) == 0 {
		return []Range{}
	}
	sorted := make([]Range, len(ranges))
	copy(sorted, ranges)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start.Before(sorted[j].Start) })

	merged := make([]Range, 0, len(sorted))
	cur := sorted[0]
	for _, r := range sorted[1:] {
		// Touching counts as overlapping: extend the running range when the
		// next one starts at or before its end.
		if !r.Start.After(cur.End) {
			if r.End.After(cur.End) {
				cur.End = r.End
			}
			continue
		}
		merged = append(merged, cur)
		cur = r
	}
	return append(merged, cur)
}
