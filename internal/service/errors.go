// Package service implements the booking lifecycle flows: quoting, the
// atomic booking creation transaction, availability aggregation and the
// extension engine with displaced-booking reassignment.  Services program
// against the repository.Queries interface and a PIN issuer so the flows
// can be exercised with test doubles.
package service

import "errors"

var (
	// ErrDataIntegrity is returned when the payment-completion write does
	// not read back as written.  It is defensive: a mismatch here means the
	// store is not behaving transactionally and the booking must not exist.
	ErrDataIntegrity = errors.New("payment completion verification failed")

	// ErrBoxNotBookable is returned when the requested box exists but is
	// INACTIVE or UPCOMING and therefore may not receive new bookings.
	ErrBoxNotBookable = errors.New("box is not open for booking")

	// ErrUnauthorized is returned when a caller operates on a booking paid
	// for by someone else.
	ErrUnauthorized = errors.New("booking belongs to another user")

	// ErrCannotExtend is returned when a cancelled or completed booking is
	// asked to extend.
	ErrCannotExtend = errors.New("booking can no longer be extended")

	// ErrInvalidExtensionRange is returned when the requested new end is
	// not strictly after the current end.
	ErrInvalidExtensionRange = errors.New("new end must be after current end")

	// ErrNoAlternativeBoxes is returned when a displaced booking cannot be
	// reassigned because the location has no other box of the model at all.
	// The whole extension is rejected rather than silently dropping a
	// future customer's booking.
	ErrNoAlternativeBoxes = errors.New("no alternative boxes exist at this location")

	// ErrNoAvailableAlternative is returned when alternate boxes exist but
	// every one of them is booked for the displaced booking's period.
	ErrNoAvailableAlternative = errors.New("all alternative boxes are booked")
)
