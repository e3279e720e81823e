package model

import "time"

// Booking status enumeration.  UPCOMING and ACTIVE bookings are "open":
// they block the box for their date range.  COMPLETED and CANCELLED are
// terminal; bookings are never deleted, only status-transitioned.
const (
	BookingStatusUpcoming  = "UPCOMING"
	BookingStatusActive    = "ACTIVE"
	BookingStatusCompleted = "COMPLETED"
	BookingStatusCancelled = "CANCELLED"
)

// Booking records a customer's rental of a box for a date range.  A booking
// is created only by the booking creation transaction and always carries a
// non-empty display code and a working lock PIN; there is no intermediate
// "booking without PIN" state.  EndAt and LockPin are mutated only by the
// extension engine.
//
// Fields:
//  ID          – primary key identifier.
//  BoxID       – box being rented; may change once if the booking is
//                displaced by a neighbouring extension and reassigned.
//  PaymentID   – payment backing this booking (1:1).
//  DisplayCode – human-facing identifier, format YYMMDD-NNN, unique per
//                calendar day of creation.
//  StartAt     – rental start instant (UTC).
//  EndAt       – rental end instant (UTC).
//  Status      – lifecycle status, see constants above.
//  LockPin     – numeric smart-lock access code issued by the PIN provider.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Booking struct {
	ID          uint64    // bookings.id
	BoxID       uint64    // bookings.box_id
	PaymentID   uint64    // bookings.payment_id
	DisplayCode string    // bookings.display_code
	StartAt     time.Time // bookings.start_at
	EndAt       time.Time // bookings.end_at
	Status      string    // bookings.status
	LockPin     int64     // bookings.lock_pin
	CreatedAt   time.Time // bookings.created_at
	UpdatedAt   time.Time // bookings.updated_at
}

// IsOpen reports whether the booking still blocks its box, i.e. it has not
// reached a terminal status.
func (b *Booking) IsOpen() bool {
	return b.Status == BookingStatusUpcoming || b.Status == BookingStatusActive
}

// IsTerminal reports whether the booking can no longer change dates.
func (b *Booking) IsTerminal() bool {
	return b.Status == BookingStatusCompleted || b.Status == BookingStatusCancelled
}
