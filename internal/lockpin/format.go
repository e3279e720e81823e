package lockpin

import "time"

// FormatLocalHour renders an instant in the lock's local civil time zone
// with hour granularity and an explicit UTC offset, e.g.
// "2025-06-01T14:00:00+02:00".  The provider's PIN validity window is
// hour-granular and zone-sensitive, so minutes and seconds are zeroed in
// local wall-clock time and the offset is taken from the zone database for
// that exact instant, which keeps it correct across daylight-saving
// transitions.
func FormatLocalHour(t time.Time, loc *time.Location) string {
	local := t.In(loc)
	truncated := time.Date(local.Year(), local.Month(), local.Day(), local.Hour(), 0, 0, 0, loc)
	return truncated.Format("2006-01-02T15:04:05-07:00")
}
