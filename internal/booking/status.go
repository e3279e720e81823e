package booking

import (
	"time"

	"github.com/renterra/boxrent/internal/model"
)

// StatusForWindow derives a booking status from its window relative to now.
// This is the single source of truth for status derivation; creation and
// extension must both use it rather than re-deriving inline.
func StatusForWindow(now, start, end time.Time) string {
	switch {
	case now.Before(start):
		return model.BookingStatusUpcoming
	case now.After(end):
		return model.BookingStatusCompleted
	default:
		return model.BookingStatusActive
	}
}
