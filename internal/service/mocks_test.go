package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/renterra/boxrent/internal/model"
	"github.com/renterra/boxrent/internal/repository"
)

// mockQueries is a testify mock over repository.Queries shared by the
// service tests.
type mockQueries struct {
	mock.Mock
}

func (m *mockQueries) GetPayment(ctx context.Context, id uint64) (*model.Payment, error) {
	args := m.Called(ctx, id)
	if p := args.Get(0); p != nil {
		return p.(*model.Payment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockQueries) CompletePayment(ctx context.Context, id, userID uint64, completedAt time.Time) error {
	return m.Called(ctx, id, userID, completedAt).Error(0)
}

func (m *mockQueries) GetBox(ctx context.Context, id uint64) (*model.Box, error) {
	args := m.Called(ctx, id)
	if b := args.Get(0); b != nil {
		return b.(*model.Box), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockQueries) UpdateBoxScore(ctx context.Context, boxID uint64, score int64) error {
	return m.Called(ctx, boxID, score).Error(0)
}

func (m *mockQueries) StandLocationForBox(ctx context.Context, boxID uint64) (uint64, uint64, error) {
	args := m.Called(ctx, boxID)
	return args.Get(0).(uint64), args.Get(1).(uint64), args.Error(2)
}

func (m *mockQueries) AlternateBoxes(ctx context.Context, locationID uint64, boxModel string, excludeBoxID uint64) ([]model.Box, error) {
	args := m.Called(ctx, locationID, boxModel, excludeBoxID)
	if b := args.Get(0); b != nil {
		return b.([]model.Box), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockQueries) GetLocation(ctx context.Context, id uint64) (*model.Location, error) {
	args := m.Called(ctx, id)
	if l := args.Get(0); l != nil {
		return l.(*model.Location), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockQueries) ActiveBoxesAtLocation(ctx context.Context, locationID uint64, boxModel string) ([]model.Box, error) {
	args := m.Called(ctx, locationID, boxModel)
	if b := args.Get(0); b != nil {
		return b.([]model.Box), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockQueries) LocationPricePerWeek(ctx context.Context, locationID uint64, boxModel string) (*int64, error) {
	args := m.Called(ctx, locationID, boxModel)
	if p := args.Get(0); p != nil {
		return p.(*int64), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockQueries) GetBooking(ctx context.Context, id uint64) (*model.Booking, error) {
	args := m.Called(ctx, id)
	if b := args.Get(0); b != nil {
		return b.(*model.Booking), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockQueries) OpenBookingsForBox(ctx context.Context, boxID, excludeBookingID uint64) ([]model.Booking, error) {
	args := m.Called(ctx, boxID, excludeBookingID)
	if b := args.Get(0); b != nil {
		return b.([]model.Booking), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockQueries) NextDisplayCode(ctx context.Context, day time.Time) (string, error) {
	args := m.Called(ctx, day)
	return args.String(0), args.Error(1)
}

func (m *mockQueries) InsertBooking(ctx context.Context, b *model.Booking) error {
	args := m.Called(ctx, b)
	if args.Error(0) == nil {
		b.ID = 1001
	}
	return args.Error(0)
}

func (m *mockQueries) ReassignBookingBox(ctx context.Context, bookingID, newBoxID uint64) error {
	return m.Called(ctx, bookingID, newBoxID).Error(0)
}

func (m *mockQueries) UpdateBookingEndAndPin(ctx context.Context, bookingID uint64, newEnd time.Time, pin int64) error {
	return m.Called(ctx, bookingID, newEnd, pin).Error(0)
}

func (m *mockQueries) InsertExtension(ctx context.Context, e *model.BookingExtension) error {
	return m.Called(ctx, e).Error(0)
}

func (m *mockQueries) InsertNotification(ctx context.Context, n *model.Notification) error {
	return m.Called(ctx, n).Error(0)
}

// fakeTxRunner hands the supplied mock to the transaction function.  The
// rollback property is asserted by checking which mock calls never happened
// after the failing step.
type fakeTxRunner struct {
	q repository.Queries
}

func (f *fakeTxRunner) WithinTx(_ context.Context, fn func(q repository.Queries) error) error {
	return fn(f.q)
}

// mockPinIssuer is a testify mock over PinIssuer.
type mockPinIssuer struct {
	mock.Mock
}

func (m *mockPinIssuer) IssuePin(ctx context.Context, start, end time.Time, accessName string) (int64, error) {
	args := m.Called(ctx, start, end, accessName)
	return args.Get(0).(int64), args.Error(1)
}
