package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/renterra/boxrent/internal/model"
)

func newExtensionService(q *mockQueries, pins *mockPinIssuer) *ExtensionService {
	svc := NewExtensionService(&fakeTxRunner{q: q}, q, pins, zerolog.Nop())
	svc.now = fixedNow
	return svc
}

func openBooking(id, boxID, paymentID uint64, start, end time.Time) *model.Booking {
	return &model.Booking{
		ID: id, BoxID: boxID, PaymentID: paymentID,
		DisplayCode: "260810-001",
		StartAt:     start, EndAt: end,
		Status:  model.BookingStatusActive,
		LockPin: 1111,
	}
}

// extensionFixture wires the reads that every calcExtension run performs for
// booking 5 on box 7, owned by user 9 via payment 42.
func extensionFixture(q *mockQueries, b *model.Booking, box *model.Box, weekly *int64) {
	q.On("GetBooking", mock.Anything, b.ID).Return(b, nil)
	q.On("GetPayment", mock.Anything, uint64(42)).Return(completedPayment(42, 9), nil)
	q.On("GetBox", mock.Anything, box.ID).Return(box, nil)
	q.On("StandLocationForBox", mock.Anything, box.ID).Return(uint64(3), uint64(2), nil)
	q.On("LocationPricePerWeek", mock.Anything, uint64(2), box.BoxModel).Return(weekly, nil)
}

func TestCalculateExtensionUsesWeeklyLocationPrice(t *testing.T) {
	q := new(mockQueries)
	svc := newExtensionService(q, new(mockPinIssuer))

	start := time.Date(2026, time.August, 10, 10, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.August, 24, 10, 0, 0, 0, time.UTC)
	weekly := int64(2100) // 300/day
	extensionFixture(q, openBooking(5, 7, 42, start, end), testBox(), &weekly)

	quote, err := svc.CalculateExtension(context.Background(), 9, 5, "2026-08-27", "10:00")
	require.NoError(t, err)
	assert.Equal(t, 3, quote.AdditionalDays)
	assert.Equal(t, int64(300), quote.PricePerDayCents)
	assert.Equal(t, int64(900), quote.AdditionalCostCents)
}

func TestCalculateExtensionFallsBackToBoxThenDefault(t *testing.T) {
	start := time.Date(2026, time.August, 10, 10, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.August, 24, 10, 0, 0, 0, time.UTC)

	t.Run("box daily rate", func(t *testing.T) {
		q := new(mockQueries)
		svc := newExtensionService(q, new(mockPinIssuer))
		extensionFixture(q, openBooking(5, 7, 42, start, end), testBox(), nil)

		quote, err := svc.CalculateExtension(context.Background(), 9, 5, "2026-08-25", "10:00")
		require.NoError(t, err)
		assert.Equal(t, int64(300), quote.PricePerDayCents)
	})

	t.Run("documented default", func(t *testing.T) {
		q := new(mockQueries)
		svc := newExtensionService(q, new(mockPinIssuer))
		box := testBox()
		box.PricePerDayCents = nil
		extensionFixture(q, openBooking(5, 7, 42, start, end), box, nil)

		quote, err := svc.CalculateExtension(context.Background(), 9, 5, "2026-08-25", "10:00")
		require.NoError(t, err)
		assert.Equal(t, int64(1500), quote.PricePerDayCents)
	})
}

func TestCalculateExtensionRejectsForeignBooking(t *testing.T) {
	q := new(mockQueries)
	svc := newExtensionService(q, new(mockPinIssuer))

	start := time.Date(2026, time.August, 10, 10, 0, 0, 0, time.UTC)
	b := openBooking(5, 7, 42, start, start.Add(48*time.Hour))
	q.On("GetBooking", mock.Anything, uint64(5)).Return(b, nil)
	q.On("GetPayment", mock.Anything, uint64(42)).Return(completedPayment(42, 9), nil)

	_, err := svc.CalculateExtension(context.Background(), 77, 5, "2026-08-25", "10:00")
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestCalculateExtensionRejectsTerminalBooking(t *testing.T) {
	q := new(mockQueries)
	svc := newExtensionService(q, new(mockPinIssuer))

	start := time.Date(2026, time.August, 10, 10, 0, 0, 0, time.UTC)
	b := openBooking(5, 7, 42, start, start.Add(48*time.Hour))
	b.Status = model.BookingStatusCompleted
	q.On("GetBooking", mock.Anything, uint64(5)).Return(b, nil)
	q.On("GetPayment", mock.Anything, uint64(42)).Return(completedPayment(42, 9), nil)

	_, err := svc.CalculateExtension(context.Background(), 9, 5, "2026-08-25", "10:00")
	require.ErrorIs(t, err, ErrCannotExtend)
}

func TestCalculateExtensionRejectsNonForwardRange(t *testing.T) {
	q := new(mockQueries)
	svc := newExtensionService(q, new(mockPinIssuer))

	start := time.Date(2026, time.August, 10, 10, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.August, 24, 10, 0, 0, 0, time.UTC)
	q.On("GetBooking", mock.Anything, uint64(5)).Return(openBooking(5, 7, 42, start, end), nil)
	q.On("GetPayment", mock.Anything, uint64(42)).Return(completedPayment(42, 9), nil)

	_, err := svc.CalculateExtension(context.Background(), 9, 5, "2026-08-20", "10:00")
	require.ErrorIs(t, err, ErrInvalidExtensionRange)
	q.AssertNotCalled(t, "GetBox", mock.Anything, mock.Anything)
}

func TestRequestExtensionNoDisplacedBookings(t *testing.T) {
	q := new(mockQueries)
	pins := new(mockPinIssuer)
	svc := newExtensionService(q, pins)

	start := time.Date(2026, time.August, 10, 10, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.August, 24, 10, 0, 0, 0, time.UTC)
	newEnd := time.Date(2026, time.August, 27, 10, 0, 0, 0, time.UTC)
	b := openBooking(5, 7, 42, start, end)
	extensionFixture(q, b, testBox(), nil)

	q.On("OpenBookingsForBox", mock.Anything, uint64(7), uint64(5)).Return([]model.Booking{}, nil)
	pins.On("IssuePin", mock.Anything, start, newEnd, "B-07/p42").Return(int64(2222), nil)
	q.On("InsertExtension", mock.Anything, mock.MatchedBy(func(e *model.BookingExtension) bool {
		return e.BookingID == 5 && e.PreviousEndAt.Equal(end) && e.NewEndAt.Equal(newEnd) &&
			e.PreviousPin == 1111 && e.NewPin == 2222 && e.AdditionalDays == 3
	})).Return(nil)
	q.On("UpdateBookingEndAndPin", mock.Anything, uint64(5), newEnd, int64(2222)).Return(nil)
	q.On("InsertNotification", mock.Anything, mock.MatchedBy(func(n *model.Notification) bool {
		return n.UserID == 9 && n.BookingID != nil && *n.BookingID == 5
	})).Return(nil)

	quote, err := svc.RequestExtension(context.Background(), 9, 5, "2026-08-27", "10:00")
	require.NoError(t, err)
	assert.Equal(t, newEnd, quote.NewEndAt)
	q.AssertExpectations(t)
	pins.AssertExpectations(t)
}

func TestRequestExtensionReassignsDisplacedBooking(t *testing.T) {
	q := new(mockQueries)
	pins := new(mockPinIssuer)
	svc := newExtensionService(q, pins)

	start := time.Date(2026, time.August, 10, 10, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.August, 24, 10, 0, 0, 0, time.UTC)
	newEnd := time.Date(2026, time.August, 29, 10, 0, 0, 0, time.UTC)
	b := openBooking(5, 7, 42, start, end)
	extensionFixture(q, b, testBox(), nil)

	// Neighbour starts inside the added window only.
	displaced := *openBooking(6, 7, 43, end.Add(24*time.Hour), end.Add(72*time.Hour))
	q.On("OpenBookingsForBox", mock.Anything, uint64(7), uint64(5)).Return([]model.Booking{displaced}, nil)

	alt := model.Box{ID: 8, DisplayCode: "B-08", BoxModel: model.BoxModelClassic, Status: model.BoxStatusActive}
	q.On("AlternateBoxes", mock.Anything, uint64(2), model.BoxModelClassic, uint64(7)).Return([]model.Box{alt}, nil)
	q.On("OpenBookingsForBox", mock.Anything, uint64(8), uint64(6)).Return([]model.Booking{}, nil)
	q.On("ReassignBookingBox", mock.Anything, uint64(6), uint64(8)).Return(nil)
	other := uint64(11)
	q.On("GetPayment", mock.Anything, uint64(43)).Return(&model.Payment{ID: 43, UserID: &other, Status: model.PaymentStatusCompleted}, nil)

	pins.On("IssuePin", mock.Anything, start, newEnd, "B-07/p42").Return(int64(2222), nil)
	q.On("InsertExtension", mock.Anything, mock.Anything).Return(nil)
	q.On("UpdateBookingEndAndPin", mock.Anything, uint64(5), newEnd, int64(2222)).Return(nil)
	// One notification for the displaced customer, one for the requester.
	q.On("InsertNotification", mock.Anything, mock.Anything).Return(nil).Twice()

	_, err := svc.RequestExtension(context.Background(), 9, 5, "2026-08-29", "10:00")
	require.NoError(t, err)
	q.AssertExpectations(t)
}

func TestRequestExtensionNoAlternateBoxes(t *testing.T) {
	q := new(mockQueries)
	pins := new(mockPinIssuer)
	svc := newExtensionService(q, pins)

	start := time.Date(2026, time.August, 10, 10, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.August, 24, 10, 0, 0, 0, time.UTC)
	b := openBooking(5, 7, 42, start, end)
	extensionFixture(q, b, testBox(), nil)

	displaced := *openBooking(6, 7, 43, end.Add(24*time.Hour), end.Add(72*time.Hour))
	q.On("OpenBookingsForBox", mock.Anything, uint64(7), uint64(5)).Return([]model.Booking{displaced}, nil)
	q.On("AlternateBoxes", mock.Anything, uint64(2), model.BoxModelClassic, uint64(7)).Return([]model.Box{}, nil)

	_, err := svc.RequestExtension(context.Background(), 9, 5, "2026-08-29", "10:00")
	require.ErrorIs(t, err, ErrNoAlternativeBoxes)
	q.AssertNotCalled(t, "UpdateBookingEndAndPin", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	pins.AssertNotCalled(t, "IssuePin", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRequestExtensionAllAlternatesConflict(t *testing.T) {
	q := new(mockQueries)
	pins := new(mockPinIssuer)
	svc := newExtensionService(q, pins)

	start := time.Date(2026, time.August, 10, 10, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.August, 24, 10, 0, 0, 0, time.UTC)
	b := openBooking(5, 7, 42, start, end)
	extensionFixture(q, b, testBox(), nil)

	displaced := *openBooking(6, 7, 43, end.Add(24*time.Hour), end.Add(72*time.Hour))
	q.On("OpenBookingsForBox", mock.Anything, uint64(7), uint64(5)).Return([]model.Booking{displaced}, nil)

	alt := model.Box{ID: 8, DisplayCode: "B-08", BoxModel: model.BoxModelClassic, Status: model.BoxStatusActive}
	q.On("AlternateBoxes", mock.Anything, uint64(2), model.BoxModelClassic, uint64(7)).Return([]model.Box{alt}, nil)
	// The only candidate is taken for the displaced window.
	blocker := *openBooking(20, 8, 44, displaced.StartAt, displaced.EndAt)
	q.On("OpenBookingsForBox", mock.Anything, uint64(8), uint64(6)).Return([]model.Booking{blocker}, nil)

	_, err := svc.RequestExtension(context.Background(), 9, 5, "2026-08-29", "10:00")
	require.ErrorIs(t, err, ErrNoAvailableAlternative)
	q.AssertNotCalled(t, "ReassignBookingBox", mock.Anything, mock.Anything, mock.Anything)
}

func TestRequestExtensionPinFailureAborts(t *testing.T) {
	q := new(mockQueries)
	pins := new(mockPinIssuer)
	svc := newExtensionService(q, pins)

	start := time.Date(2026, time.August, 10, 10, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.August, 24, 10, 0, 0, 0, time.UTC)
	b := openBooking(5, 7, 42, start, end)
	extensionFixture(q, b, testBox(), nil)

	q.On("OpenBookingsForBox", mock.Anything, uint64(7), uint64(5)).Return([]model.Booking{}, nil)
	pins.On("IssuePin", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(int64(0), errors.New("provider down"))

	_, err := svc.RequestExtension(context.Background(), 9, 5, "2026-08-27", "10:00")
	require.Error(t, err)
	q.AssertNotCalled(t, "InsertExtension", mock.Anything, mock.Anything)
	q.AssertNotCalled(t, "UpdateBookingEndAndPin", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	q.AssertNotCalled(t, "InsertNotification", mock.Anything, mock.Anything)
}

// Neighbours already overlapping the original window are not displaced; the
// invalid state predates the extension and is not this flow's to repair.
func TestRequestExtensionIgnoresPreexistingOverlap(t *testing.T) {
	q := new(mockQueries)
	pins := new(mockPinIssuer)
	svc := newExtensionService(q, pins)

	start := time.Date(2026, time.August, 10, 10, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.August, 24, 10, 0, 0, 0, time.UTC)
	newEnd := time.Date(2026, time.August, 27, 10, 0, 0, 0, time.UTC)
	b := openBooking(5, 7, 42, start, end)
	extensionFixture(q, b, testBox(), nil)

	preexisting := *openBooking(6, 7, 43, end.Add(-24*time.Hour), end.Add(48*time.Hour))
	q.On("OpenBookingsForBox", mock.Anything, uint64(7), uint64(5)).Return([]model.Booking{preexisting}, nil)
	pins.On("IssuePin", mock.Anything, start, newEnd, "B-07/p42").Return(int64(2222), nil)
	q.On("InsertExtension", mock.Anything, mock.Anything).Return(nil)
	q.On("UpdateBookingEndAndPin", mock.Anything, uint64(5), newEnd, int64(2222)).Return(nil)
	q.On("InsertNotification", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.RequestExtension(context.Background(), 9, 5, "2026-08-27", "10:00")
	require.NoError(t, err)
	q.AssertNotCalled(t, "AlternateBoxes", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
