package booking

import (
	"errors"
	"math"
	"time"
)

// Date and time input layouts accepted from the payment metadata bag and
// from API requests.  Times are civil wall-clock values combined into UTC
// instants.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Sentinel errors for validation failures.  Handlers translate these into
// 4xx responses; the booking creation transaction treats them as fatal.
var (
	// ErrInvalidDateFormat is returned when a date or time string cannot be
	// parsed with DateLayout / TimeLayout.
	ErrInvalidDateFormat = errors.New("invalid date format")
	// ErrEndBeforeStart is returned when the requested end instant is not
	// strictly after the start instant.
	ErrEndBeforeStart = errors.New("end date must be after start date")
)

// ValidateBookingDates combines the supplied date and time strings into UTC
// instants and checks their ordering.  It never panics and reports failures
// through the error return: ErrInvalidDateFormat when either pair is
// unparseable, ErrEndBeforeStart when end <= start.
func ValidateBookingDates(startDate, endDate, startTime, endTime string) (start, end time.Time, err error) {
	start, err = combineDateTime(startDate, startTime)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidDateFormat
	}
	end, err = combineDateTime(endDate, endTime)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidDateFormat
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, ErrEndBeforeStart
	}
	return start, end, nil
}

// ParseDateTime parses a DateLayout date and a TimeLayout wall-clock time
// into a single UTC instant, reporting ErrInvalidDateFormat on failure.
// An empty clock defaults to midnight.
func ParseDateTime(date, clock string) (time.Time, error) {
	t, err := combineDateTime(date, clock)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return t, nil
}

// combineDateTime parses a DateLayout date and a TimeLayout wall-clock time
// into a single UTC instant.  An empty time defaults to midnight.
func combineDateTime(date, clock string) (time.Time, error) {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, err
	}
	if clock == "" {
		return d.UTC(), nil
	}
	t, err := time.Parse(TimeLayout, clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC), nil
}

// CalculateBookingDays returns the number of billable days for the window,
// ceil((end-start)/24h) floored at 1: a same-day booking still counts as one
// rental day.
func CalculateBookingDays(start, end time.Time) int {
	days := int(math.Ceil(end.Sub(start).Hours() / 24))
	if days < 1 {
		return 1
	}
	return days
}
