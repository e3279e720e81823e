package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renterra/boxrent/internal/model"
)

func TestHasDateOverlap(t *testing.T) {
	tests := []struct {
		name           string
		s1, e1, s2, e2 time.Time
		want           bool
	}{
		{"disjoint before", day(1), day(3), day(5), day(8), false},
		{"disjoint after", day(5), day(8), day(1), day(3), false},
		{"partial overlap", day(1), day(5), day(4), day(8), true},
		{"containment", day(1), day(10), day(3), day(5), true},
		{"identical", day(2), day(4), day(2), day(4), true},
		{"touching boundaries conflict", day(1), day(3), day(3), day(5), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasDateOverlap(tt.s1, tt.e1, tt.s2, tt.e2))
			// Symmetry: overlap(a,b) == overlap(b,a).
			assert.Equal(t, HasDateOverlap(tt.s1, tt.e1, tt.s2, tt.e2), HasDateOverlap(tt.s2, tt.e2, tt.s1, tt.e1))
		})
	}
}

func TestFindConflictingBookings(t *testing.T) {
	existing := []model.Booking{
		{ID: 1, StartAt: day(10), EndAt: day(15), Status: model.BookingStatusUpcoming},
		{ID: 2, StartAt: day(12), EndAt: day(13), Status: model.BookingStatusCancelled},
		{ID: 3, StartAt: day(20), EndAt: day(25), Status: model.BookingStatusActive},
		{ID: 4, StartAt: day(11), EndAt: day(14), Status: model.BookingStatusCompleted},
	}

	conflicts := FindConflictingBookings(existing, day(12), day(21))
	require.Len(t, conflicts, 2)
	assert.Equal(t, uint64(1), conflicts[0].ID)
	assert.Equal(t, uint64(3), conflicts[1].ID)

	assert.Empty(t, FindConflictingBookings(existing, day(16), day(19)))
}

func TestCalculateAvailability(t *testing.T) {
	booked := []model.Booking{
		{ID: 1, StartAt: day(10), EndAt: day(15), Status: model.BookingStatusUpcoming},
	}

	t.Run("no bookings means available", func(t *testing.T) {
		av := CalculateAvailability(nil, day(1), day(2))
		assert.True(t, av.IsAvailable)
		assert.Nil(t, av.NextAvailableAt)
	})

	t.Run("request inside existing booking is unavailable with hint", func(t *testing.T) {
		av := CalculateAvailability(booked, day(12), day(14))
		assert.False(t, av.IsAvailable)
		require.NotNil(t, av.NextAvailableAt)
		assert.Equal(t, day(15), *av.NextAvailableAt)
	})

	t.Run("request after existing booking is available", func(t *testing.T) {
		av := CalculateAvailability(booked, day(16), day(18))
		assert.True(t, av.IsAvailable)
	})

	t.Run("no requested range reports latest end over all bookings", func(t *testing.T) {
		many := append([]model.Booking{}, booked...)
		many = append(many, model.Booking{ID: 2, StartAt: day(20), EndAt: day(28), Status: model.BookingStatusActive})
		av := CalculateAvailability(many, time.Time{}, time.Time{})
		assert.False(t, av.IsAvailable)
		require.NotNil(t, av.NextAvailableAt)
		assert.Equal(t, day(28), *av.NextAvailableAt)
	})

	t.Run("hint comes from conflicting set only", func(t *testing.T) {
		many := []model.Booking{
			{ID: 1, StartAt: day(10), EndAt: day(15), Status: model.BookingStatusUpcoming},
			{ID: 2, StartAt: day(20), EndAt: day(28), Status: model.BookingStatusUpcoming},
		}
		av := CalculateAvailability(many, day(12), day(14))
		assert.False(t, av.IsAvailable)
		require.NotNil(t, av.NextAvailableAt)
		// Booking 2 does not conflict with the request, so its later end
		// must not drive the hint.
		assert.Equal(t, day(15), *av.NextAvailableAt)
	})

	t.Run("cancelled bookings never block", func(t *testing.T) {
		cancelled := []model.Booking{
			{ID: 1, StartAt: day(10), EndAt: day(15), Status: model.BookingStatusCancelled},
		}
		av := CalculateAvailability(cancelled, day(12), day(14))
		assert.True(t, av.IsAvailable)
	})
}

func TestBlockedRanges(t *testing.T) {
	bookings := []model.Booking{
		{StartAt: day(1), EndAt: day(3), Status: model.BookingStatusActive},
		{StartAt: day(2), EndAt: day(5), Status: model.BookingStatusUpcoming},
		{StartAt: day(7), EndAt: day(9), Status: model.BookingStatusCompleted},
	}
	ranges := BlockedRanges(bookings)
	require.Len(t, ranges, 2)

	merged := MergeRanges(ranges)
	require.Len(t, merged, 1)
	assert.Equal(t, Range{Start: day(1), End: day(5)}, merged[0])
}
