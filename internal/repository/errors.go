// Package repository implements raw-SQL data access over MySQL.  The
// sentinel errors below let services and handlers distinguish failure
// scenarios without inspecting driver errors; handlers translate them
// into HTTP statuses.
package repository

import "errors"

// ErrBoxNotFound is returned when a box id does not resolve.  It guards
// both quoting and the re-verification inside the booking creation
// transaction (a box can disappear between quote and purchase).
var ErrBoxNotFound = errors.New("box not found")

// ErrBookingNotFound is returned when a booking id does not resolve.
var ErrBookingNotFound = errors.New("booking not found")

// ErrPaymentNotFound is returned when a payment id does not resolve.
var ErrPaymentNotFound = errors.New("payment not found")

// ErrLocationNotFound is returned when a location id does not resolve.
// It is propagated, never swallowed: model-level availability for an
// unknown location is an error, not an empty result.
var ErrLocationNotFound = errors.New("location not found")

// ErrStandNotFound is returned when a stand id does not resolve.
var ErrStandNotFound = errors.New("stand not found")

// ErrForbidden is returned when a caller touches a resource owned by a
// different tenant. Handlers should translate this into an HTTP 403
// response.
var ErrForbidden = errors.New("forbidden")

// ErrSequenceExhausted is returned when the daily display-code sequence
// would exceed 999. It is fatal to the enclosing booking creation
// transaction.
var ErrSequenceExhausted = errors.New("daily booking sequence exhausted")
