package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/renterra/boxrent/internal/model"
	"github.com/renterra/boxrent/internal/repository"
)

func day(d int) time.Time {
	return time.Date(2026, time.January, d, 0, 0, 0, 0, time.UTC)
}

func TestBoxAvailability(t *testing.T) {
	q := new(mockQueries)
	svc := NewAvailabilityService(q, zerolog.Nop())

	existing := *openBooking(1, 7, 42, day(10), day(15))
	q.On("GetBox", mock.Anything, uint64(7)).Return(testBox(), nil)
	q.On("OpenBookingsForBox", mock.Anything, uint64(7), uint64(0)).Return([]model.Booking{existing}, nil)

	av, err := svc.BoxAvailability(context.Background(), 7, day(12), day(14))
	require.NoError(t, err)
	assert.False(t, av.IsAvailable)
	require.NotNil(t, av.NextAvailableAt)
	assert.Equal(t, day(15), *av.NextAvailableAt)

	av, err = svc.BoxAvailability(context.Background(), 7, day(16), day(18))
	require.NoError(t, err)
	assert.True(t, av.IsAvailable)
	assert.Nil(t, av.NextAvailableAt)
}

func TestBoxAvailabilityUnknownBox(t *testing.T) {
	q := new(mockQueries)
	svc := NewAvailabilityService(q, zerolog.Nop())

	q.On("GetBox", mock.Anything, uint64(99)).Return(nil, repository.ErrBoxNotFound)

	_, err := svc.BoxAvailability(context.Background(), 99, day(1), day(2))
	require.ErrorIs(t, err, repository.ErrBoxNotFound)
}

func TestModelAvailabilityOneBoxFree(t *testing.T) {
	q := new(mockQueries)
	svc := NewAvailabilityService(q, zerolog.Nop())

	boxes := []model.Box{{ID: 7, BoxModel: model.BoxModelClassic}, {ID: 8, BoxModel: model.BoxModelClassic}}
	taken := *openBooking(1, 7, 42, day(10), day(15))
	q.On("GetLocation", mock.Anything, uint64(2)).Return(&model.Location{ID: 2}, nil)
	q.On("ActiveBoxesAtLocation", mock.Anything, uint64(2), model.BoxModelClassic).Return(boxes, nil)
	q.On("OpenBookingsForBox", mock.Anything, uint64(7), uint64(0)).Return([]model.Booking{taken}, nil)
	q.On("OpenBookingsForBox", mock.Anything, uint64(8), uint64(0)).Return([]model.Booking{}, nil)

	res, err := svc.ModelAvailability(context.Background(), 2, model.BoxModelClassic, day(12), day(14))
	require.NoError(t, err)
	assert.Equal(t, 2, res.TotalBoxes)
	assert.Equal(t, 1, res.AvailableBoxes)
	assert.False(t, res.IsFullyBooked)
	assert.Nil(t, res.NextAvailableAt)
}

func TestModelAvailabilityFullyBookedReportsMaxEnd(t *testing.T) {
	q := new(mockQueries)
	svc := NewAvailabilityService(q, zerolog.Nop())

	boxes := []model.Box{{ID: 7, BoxModel: model.BoxModelClassic}, {ID: 8, BoxModel: model.BoxModelClassic}}
	q.On("GetLocation", mock.Anything, uint64(2)).Return(&model.Location{ID: 2}, nil)
	q.On("ActiveBoxesAtLocation", mock.Anything, uint64(2), model.BoxModelClassic).Return(boxes, nil)
	q.On("OpenBookingsForBox", mock.Anything, uint64(7), uint64(0)).
		Return([]model.Booking{*openBooking(1, 7, 42, day(10), day(15))}, nil)
	q.On("OpenBookingsForBox", mock.Anything, uint64(8), uint64(0)).
		Return([]model.Booking{*openBooking(2, 8, 43, day(11), day(20))}, nil)

	res, err := svc.ModelAvailability(context.Background(), 2, model.BoxModelClassic, day(12), day(14))
	require.NoError(t, err)
	assert.True(t, res.IsFullyBooked)
	require.NotNil(t, res.NextAvailableAt)
	assert.Equal(t, day(20), *res.NextAvailableAt)
}

func TestModelAvailabilityNoBoxes(t *testing.T) {
	q := new(mockQueries)
	svc := NewAvailabilityService(q, zerolog.Nop())

	q.On("GetLocation", mock.Anything, uint64(2)).Return(&model.Location{ID: 2}, nil)
	q.On("ActiveBoxesAtLocation", mock.Anything, uint64(2), model.BoxModelPro).Return([]model.Box{}, nil)

	res, err := svc.ModelAvailability(context.Background(), 2, model.BoxModelPro, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 0, res.TotalBoxes)
	assert.False(t, res.IsFullyBooked)
}

func TestModelAvailabilityUnknownLocation(t *testing.T) {
	q := new(mockQueries)
	svc := NewAvailabilityService(q, zerolog.Nop())

	q.On("GetLocation", mock.Anything, uint64(9)).Return(nil, repository.ErrLocationNotFound)

	_, err := svc.ModelAvailability(context.Background(), 9, model.BoxModelClassic, time.Time{}, time.Time{})
	require.ErrorIs(t, err, repository.ErrLocationNotFound)
}

func TestModelBlockedRangesMerged(t *testing.T) {
	q := new(mockQueries)
	svc := NewAvailabilityService(q, zerolog.Nop())

	boxes := []model.Box{{ID: 7}, {ID: 8}}
	q.On("GetLocation", mock.Anything, uint64(2)).Return(&model.Location{ID: 2}, nil)
	q.On("ActiveBoxesAtLocation", mock.Anything, uint64(2), model.BoxModelClassic).Return(boxes, nil)
	q.On("OpenBookingsForBox", mock.Anything, uint64(7), uint64(0)).
		Return([]model.Booking{*openBooking(1, 7, 42, day(10), day(15))}, nil)
	q.On("OpenBookingsForBox", mock.Anything, uint64(8), uint64(0)).
		Return([]model.Booking{*openBooking(2, 8, 43, day(13), day(18))}, nil)

	ranges, err := svc.ModelBlockedRanges(context.Background(), 2, model.BoxModelClassic)
	require.NoError(t, err)
	require.Len(t, ranges, 1)
	assert.Equal(t, day(10), ranges[0].Start)
	assert.Equal(t, day(18), ranges[0].End)
}

func TestBoxBlockedRangesUnmerged(t *testing.T) {
	q := new(mockQueries)
	svc := NewAvailabilityService(q, zerolog.Nop())

	q.On("GetBox", mock.Anything, uint64(7)).Return(testBox(), nil)
	q.On("OpenBookingsForBox", mock.Anything, uint64(7), uint64(0)).Return([]model.Booking{
		*openBooking(1, 7, 42, day(10), day(15)),
		*openBooking(2, 7, 43, day(14), day(18)),
	}, nil)

	ranges, err := svc.BoxBlockedRanges(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, ranges, 2)
}
