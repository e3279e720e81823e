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

// ExtensionService implements the booking extension flow: a side-effect-free
// price calculation and the full extension transaction, which may displace
// neighbouring bookings onto alternate boxes.
type ExtensionService struct {
	store  TxRunner
	reader repository.Queries
	pins   PinIssuer
	now    func() time.Time
	log    zerolog.Logger
}

// NewExtensionService wires an extension service.
func NewExtensionService(store TxRunner, reader repository.Queries, pins PinIssuer, log zerolog.Logger) *ExtensionService {
	return &ExtensionService{
		store:  store,
		reader: reader,
		pins:   pins,
		now:    func() time.Time { return time.Now().UTC() },
		log:    log,
	}
}

// ExtensionQuote is the outcome of an extension price calculation.  After
// RequestExtension it additionally lists the bookings that were moved to
// alternate boxes to make room for the extension.
type ExtensionQuote struct {
	BookingID           uint64    `json:"booking_id"`
	DisplayCode         string    `json:"display_code"`
	CurrentEndAt        time.Time `json:"current_end_at"`
	NewEndAt            time.Time `json:"new_end_at"`
	AdditionalDays      int       `json:"additional_days"`
	PricePerDayCents    int64     `json:"price_per_day_cents"`
	AdditionalCostCents int64     `json:"additional_cost_cents"`

	Reassigned []ReassignedBooking `json:"-"`

	booking *model.Booking
	box     *model.Box
}

// ReassignedBooking identifies one displaced booking and the box move that
// resolved it.
type ReassignedBooking struct {
	BookingID   uint64
	DisplayCode string
	FromBoxID   uint64
	ToBoxID     uint64
}

// CalculateExtension prices an extension of the caller's booking to the new
// end instant without touching any state.  The same computation backs
// RequestExtension, which re-runs it inside the transaction so the quote a
// customer accepted cannot drift from what gets charged.
func (s *ExtensionService) CalculateExtension(ctx context.Context, userID, bookingID uint64, newEndDate, newEndTime string) (*ExtensionQuote, error) {
	return s.calcExtension(ctx, s.reader, userID, bookingID, newEndDate, newEndTime)
}

// calcExtension validates ownership and the requested window and resolves
// the effective daily rate.  q is either the plain reader or a transaction
// scope with row locking.
func (s *ExtensionService) calcExtension(ctx context.Context, q repository.Queries, userID, bookingID uint64, newEndDate, newEndTime string) (*ExtensionQuote, error) {
	b, err := q.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	payment, err := q.GetPayment(ctx, b.PaymentID)
	if err != nil {
		return nil, err
	}
	if payment.UserID == nil || *payment.UserID != userID {
		return nil, ErrUnauthorized
	}
	if b.IsTerminal() {
		return nil, ErrCannotExtend
	}

	newEnd, err := booking.ParseDateTime(newEndDate, newEndTime)
	if err != nil {
		return nil, err
	}
	if !newEnd.After(b.EndAt) {
		return nil, ErrInvalidExtensionRange
	}

	box, err := q.GetBox(ctx, b.BoxID)
	if err != nil {
		return nil, err
	}
	_, locationID, err := q.StandLocationForBox(ctx, b.BoxID)
	if err != nil {
		return nil, err
	}

	perDay, err := s.pricePerDay(ctx, q, locationID, box)
	if err != nil {
		return nil, err
	}
	days := booking.CalculateBookingDays(b.EndAt, newEnd)

	return &ExtensionQuote{
		BookingID:           bookingID,
		DisplayCode:         b.DisplayCode,
		CurrentEndAt:        b.EndAt,
		NewEndAt:            newEnd,
		AdditionalDays:      days,
		PricePerDayCents:    perDay,
		AdditionalCostCents: int64(days) * perDay,
		booking:             b,
		box:                 box,
	}, nil
}

// pricePerDay resolves the daily rate for extension pricing.  A weekly
// location price for the box model wins over the box's own daily rate; with
// neither configured the documented default applies.
func (s *ExtensionService) pricePerDay(ctx context.Context, q repository.Queries, locationID uint64, box *model.Box) (int64, error) {
	weekly, err := q.LocationPricePerWeek(ctx, locationID, box.BoxModel)
	if err != nil {
		return 0, err
	}
	if weekly != nil {
		return *weekly / 7, nil
	}
	if box.PricePerDayCents != nil {
		return *box.PricePerDayCents, nil
	}
	return booking.DefaultPricePerDayCents, nil
}

// RequestExtension extends the caller's booking to the new end instant.
// The whole flow is one transaction: re-pricing, displacing every open
// booking that the extended window would collide with onto an alternate box,
// issuing a replacement PIN covering the full extended window, appending the
// extension history row, and writing notifications.  If any displaced
// booking cannot be reassigned, or the PIN provider fails, everything rolls
// back and the customer keeps the original booking untouched.
func (s *ExtensionService) RequestExtension(ctx context.Context, userID, bookingID uint64, newEndDate, newEndTime string) (*ExtensionQuote, error) {
	var quote *ExtensionQuote
	err := s.store.WithinTx(ctx, func(q repository.Queries) error {
		var err error
		quote, err = s.calcExtension(ctx, q, userID, bookingID, newEndDate, newEndTime)
		if err != nil {
			return err
		}
		b, box := quote.booking, quote.box

		// Bookings displaced by the extension: open bookings on the same
		// box that overlap the added window [current end, new end] but not
		// the original window.  Those overlapping the original window would
		// have been invalid before the extension too and are left alone.
		neighbours, err := q.OpenBookingsForBox(ctx, b.BoxID, b.ID)
		if err != nil {
			return err
		}
		for i := range neighbours {
			n := &neighbours[i]
			if !booking.HasDateOverlap(n.StartAt, n.EndAt, b.StartAt, quote.NewEndAt) {
				continue
			}
			if booking.HasDateOverlap(n.StartAt, n.EndAt, b.StartAt, b.EndAt) {
				continue
			}
			moved, err := s.reassign(ctx, q, n, box)
			if err != nil {
				return err
			}
			quote.Reassigned = append(quote.Reassigned, *moved)
		}

		pin, err := s.pins.IssuePin(ctx, b.StartAt, quote.NewEndAt, pinAccessName(box, b.PaymentID))
		if err != nil {
			return err
		}

		if err := q.InsertExtension(ctx, &model.BookingExtension{
			BookingID:           b.ID,
			PreviousEndAt:       b.EndAt,
			NewEndAt:            quote.NewEndAt,
			PreviousPin:         b.LockPin,
			NewPin:              pin,
			AdditionalDays:      quote.AdditionalDays,
			AdditionalCostCents: quote.AdditionalCostCents,
			BoxStatus:           box.Status,
		}); err != nil {
			return err
		}
		if err := q.UpdateBookingEndAndPin(ctx, b.ID, quote.NewEndAt, pin); err != nil {
			return err
		}

		return q.InsertNotification(ctx, &model.Notification{
			UserID:    userID,
			Title:     "Booking extended",
			Message:   fmt.Sprintf("Your booking %s now ends at %s. Your new access PIN is %d.", b.DisplayCode, quote.NewEndAt.Format(time.RFC3339), pin),
			BookingID: &b.ID,
		})
	})
	if err != nil {
		s.log.Error().Err(err).Uint64("booking_id", bookingID).Msg("extension rolled back")
		return nil, err
	}
	s.log.Info().Uint64("booking_id", bookingID).Time("new_end", quote.NewEndAt).
		Int("additional_days", quote.AdditionalDays).Msg("booking extended")
	return quote, nil
}

// reassign moves a displaced booking onto an alternate box at the same
// location with the same model.  Candidates come back ordered by score so
// less-recently-loaded boxes are preferred; the first candidate whose open
// bookings do not collide with the displaced window wins.
func (s *ExtensionService) reassign(ctx context.Context, q repository.Queries, displaced *model.Booking, from *model.Box) (*ReassignedBooking, error) {
	_, locationID, err := q.StandLocationForBox(ctx, from.ID)
	if err != nil {
		return nil, err
	}
	candidates, err := q.AlternateBoxes(ctx, locationID, from.BoxModel, from.ID)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, ErrNoAlternativeBoxes
	}

	for i := range candidates {
		c := &candidates[i]
		open, err := q.OpenBookingsForBox(ctx, c.ID, displaced.ID)
		if err != nil {
			return nil, err
		}
		if hasConflict(open, displaced.StartAt, displaced.EndAt) {
			continue
		}

		if err := q.ReassignBookingBox(ctx, displaced.ID, c.ID); err != nil {
			return nil, err
		}
		payment, err := q.GetPayment(ctx, displaced.PaymentID)
		if err != nil {
			return nil, err
		}
		if payment.UserID != nil {
			if err := q.InsertNotification(ctx, &model.Notification{
				UserID:    *payment.UserID,
				Title:     "Box changed",
				Message:   fmt.Sprintf("Your booking %s has been moved from box %s to box %s. Your PIN and rental dates are unchanged.", displaced.DisplayCode, from.DisplayCode, c.DisplayCode),
				BookingID: &displaced.ID,
			}); err != nil {
				return nil, err
			}
		}
		s.log.Info().Uint64("booking_id", displaced.ID).
			Uint64("from_box", from.ID).Uint64("to_box", c.ID).Msg("booking reassigned")
		return &ReassignedBooking{
			BookingID:   displaced.ID,
			DisplayCode: displaced.DisplayCode,
			FromBoxID:   from.ID,
			ToBoxID:     c.ID,
		}, nil
	}
	return nil, ErrNoAvailableAlternative
}

func hasConflict(open []model.Booking, start, end time.Time) bool {
	for i := range open {
		if booking.HasDateOverlap(open[i].StartAt, open[i].EndAt, start, end) {
			return true
		}
	}
	return false
}
