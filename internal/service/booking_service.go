package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/renterra/boxrent/internal/booking"
	"github.com/renterra/boxrent/internal/model"
	"github.com/renterra/boxrent/internal/repository"
)

// TxRunner executes a function inside one database transaction; any error
// returned by fn rolls the whole transaction back.  repository.Store is
// the production implementation.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(q repository.Queries) error) error
}

// PinIssuer obtains a numeric lock PIN valid for the given window.  The
// lockpin.Client is the production implementation.
type PinIssuer interface {
	IssuePin(ctx context.Context, start, end time.Time, accessName string) (int64, error)
}

// BookingService owns quoting and the atomic booking creation transaction.
type BookingService struct {
	store  TxRunner
	reader repository.Queries
	pins   PinIssuer
	now    func() time.Time
	log    zerolog.Logger
}

// NewBookingService wires a booking service.  reader serves the
// side-effect-free quote path; store runs the creation transaction.
func NewBookingService(store TxRunner, reader repository.Queries, pins PinIssuer, log zerolog.Logger) *BookingService {
	return &BookingService{
		store:  store,
		reader: reader,
		pins:   pins,
		now:    func() time.Time { return time.Now().UTC() },
		log:    log,
	}
}

// BookingQuote is the metadata bag handed to the external payment flow.
// The payment gateway stores it with the payment intent and the
// confirmation webhook feeds it back verbatim as CreateBookingInput.
type BookingQuote struct {
	BoxID      uint64        `json:"box_id"`
	StandID    uint64        `json:"stand_id"`
	LocationID uint64        `json:"location_id"`
	StartDate  string        `json:"start_date"`
	EndDate    string        `json:"end_date"`
	StartTime  string        `json:"start_time"`
	EndTime    string        `json:"end_time"`
	Price      booking.Price `json:"price"`
}

// PrepareBooking validates a requested window against a concrete box and
// computes the price the payment intent should charge.  It has no side
// effects and may be called repeatedly.
func (s *BookingService) PrepareBooking(ctx context.Context, boxID uint64, startDate, endDate, startTime, endTime string) (*BookingQuote, error) {
	box, err := s.reader.GetBox(ctx, boxID)
	if err != nil {
		return nil, err
	}
	if !box.IsBookable() {
		return nil, ErrBoxNotBookable
	}
	start, end, err := booking.ValidateBookingDates(startDate, endDate, startTime, endTime)
	if err != nil {
		return nil, err
	}
	standID, locationID, err := s.reader.StandLocationForBox(ctx, boxID)
	if err != nil {
		return nil, err
	}
	days := booking.CalculateBookingDays(start, end)
	var perDay int64
	if box.PricePerDayCents != nil {
		perDay = *box.PricePerDayCents
	}
	return &BookingQuote{
		BoxID:      boxID,
		StandID:    standID,
		LocationID: locationID,
		StartDate:  startDate,
		EndDate:    endDate,
		StartTime:  startTime,
		EndTime:    endTime,
		Price:      booking.CalculateBookingPrice(days, perDay, box.DepositCents),
	}, nil
}

// CreateBookingInput carries the payment-intent metadata back into the
// booking core after the external gateway confirms the charge.  Date and
// time strings are consumed verbatim from the metadata bag.
type CreateBookingInput struct {
	PaymentID uint64
	UserID    uint64
	BoxID     uint64
	StartDate string
	EndDate   string
	StartTime string
	EndTime   string
}

// CreateBooking is the core write path.  Every step runs inside one
// transaction at repeatable-read isolation; any failure rolls everything
// back, including the payment completion, so a caller can never observe a
// completed payment without its booking.  PIN issuance is mandatory: a
// provider failure aborts the booking outright.  Idempotency is not
// guaranteed here; callers dedupe by payment id before invoking.
func (s *BookingService) CreateBooking(ctx context.Context, in CreateBookingInput) (*model.Booking, error) {
	var created *model.Booking
	err := s.store.WithinTx(ctx, func(q repository.Queries) error {
		now := s.now()

		// Complete the payment first and verify the write stuck.  The
		// verification read runs on the locked row; a mismatch means the
		// store is broken and nothing may be persisted.
		if err := q.CompletePayment(ctx, in.PaymentID, in.UserID, now); err != nil {
			return err
		}
		payment, err := q.GetPayment(ctx, in.PaymentID)
		if err != nil {
			return err
		}
		if payment.UserID == nil || *payment.UserID != in.UserID ||
			payment.CompletedAt == nil || payment.Status != model.PaymentStatusCompleted {
			return ErrDataIntegrity
		}

		start, end, err := booking.ValidateBookingDates(in.StartDate, in.EndDate, in.StartTime, in.EndTime)
		if err != nil {
			return err
		}

		// Re-verify the box still exists and is still bookable; it may
		// have been removed or retired between quote and purchase.
		box, err := q.GetBox(ctx, in.BoxID)
		if err != nil {
			return err
		}
		if !box.IsBookable() {
			return ErrBoxNotBookable
		}

		status := booking.StatusForWindow(now, start, end)

		pin, err := s.pins.IssuePin(ctx, start, end, pinAccessName(box, in.PaymentID))
		if err != nil {
			return err
		}

		code, err := q.NextDisplayCode(ctx, now)
		if err != nil {
			return err
		}

		b := &model.Booking{
			BoxID:       in.BoxID,
			PaymentID:   in.PaymentID,
			DisplayCode: code,
			StartAt:     start,
			EndAt:       end,
			Status:      status,
			LockPin:     pin,
		}
		if err := q.InsertBooking(ctx, b); err != nil {
			return err
		}

		if err := q.UpdateBoxScore(ctx, in.BoxID, rentalScore(start, end)); err != nil {
			return err
		}

		created = b
		return nil
	})
	if err != nil {
		s.log.Error().Err(err).Uint64("payment_id", in.PaymentID).Uint64("box_id", in.BoxID).
			Msg("booking creation rolled back")
		return nil, err
	}
	s.log.Info().Uint64("booking_id", created.ID).Str("display_code", created.DisplayCode).
		Uint64("box_id", created.BoxID).Msg("booking created")
	return created, nil
}

// pinAccessName labels the PIN at the provider so support staff can match
// lock-side entries to payments.
func pinAccessName(box *model.Box, paymentID uint64) string {
	return fmt.Sprintf("%s/p%d", box.DisplayCode, paymentID)
}

// rentalScore is the rental duration in whole hours, used as the box's
// reassignment-preference score.  A degenerate window degrades to 1
// instead of aborting: the score is an optimization hint, not a
// correctness requirement.
func rentalScore(start, end time.Time) int64 {
	hours := int64(end.Sub(start).Hours())
	if hours < 1 {
		return 1
	}
	return hours
}
