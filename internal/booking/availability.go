package booking

import (
	"time"

	"github.com/renterra/boxrent/internal/model"
)

// HasDateOverlap reports whether [s1,e1] and [s2,e2] intersect.  Boundaries
// are inclusive on purpose: a booking ending at midnight and one starting at
// that same midnight are treated as conflicting, so back-to-back rentals
// always leave a handover gap.
func HasDateOverlap(s1, e1, s2, e2 time.Time) bool {
	return !s1.After(e2) && !e1.Before(s2)
}

// FindConflictingBookings filters the open bookings (UPCOMING or ACTIVE)
// whose windows overlap the requested range.  Terminal bookings never
// conflict.
func FindConflictingBookings(existing []model.Booking, reqStart, reqEnd time.Time) []model.Booking {
	conflicts := make([]model.Booking, 0)
	for _, b := range existing {
		if !b.IsOpen() {
			continue
		}
		if HasDateOverlap(b.StartAt, b.EndAt, reqStart, reqEnd) {
			conflicts = append(conflicts, b)
		}
	}
	return conflicts
}

// Availability is the result of an availability computation for a single
// box.  NextAvailableAt is a hint only: the earliest instant the box frees
// up relative to the request, nil when the box is free.
type Availability struct {
	IsAvailable     bool       `json:"is_available"`
	NextAvailableAt *time.Time `json:"next_available_at,omitempty"`
}

// CalculateAvailability determines whether a box is free.  With no
// requested range (both zero) the box is available iff it has no open
// bookings at all, and the latest end among them is reported as the
// next-available hint.  With a requested range, the box is available iff no
// open booking conflicts; when conflicts exist, the hint is the latest end
// among the conflicting set only, because that is when this box frees up
// relative to the request.
func CalculateAvailability(bookings []model.Booking, reqStart, reqEnd time.Time) Availability {
	open := make([]model.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.IsOpen() {
			open = append(open, b)
		}
	}
	if len(open) == 0 {
		return Availability{IsAvailable: true}
	}
	if reqStart.IsZero() && reqEnd.IsZero() {
		latest := latestEnd(open)
		return Availability{IsAvailable: false, NextAvailableAt: &latest}
	}
	conflicts := FindConflictingBookings(open, reqStart, reqEnd)
	if len(conflicts) == 0 {
		return Availability{IsAvailable: true}
	}
	latest := latestEnd(conflicts)
	return Availability{IsAvailable: false, NextAvailableAt: &latest}
}

// BlockedRanges projects the open bookings into their date ranges.  The
// result is unmerged; callers aggregating across boxes apply MergeRanges.
func BlockedRanges(bookings []model.Booking) []Range {
	ranges := make([]Range, 0, len(bookings))
	for _, b := range bookings {
		if !b.IsOpen() {
			continue
		}
		ranges = append(ranges, Range{Start: b.StartAt, End: b.EndAt})
	}
	return ranges
}

func latestEnd(bookings []model.Booking) time.Time {
	latest := bookings[0].EndAt
	for _, b := range bookings[1:] {
		if b.EndAt.After(latest) {
			latest = b.EndAt
		}
	}
	return latest
}
