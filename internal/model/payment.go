package model

import "time"

// Payment status enumeration.  A payment row is created by the external
// payment flow in PENDING state and moved to COMPLETED exactly once by the
// booking creation transaction.
const (
	PaymentStatusPending   = "PENDING"
	PaymentStatusCompleted = "COMPLETED"
	PaymentStatusFailed    = "FAILED"
)

// Payment mirrors a charge produced by the external payment gateway.  The
// booking core never talks to the gateway itself; it only flips the row to
// COMPLETED inside the booking creation transaction and verifies the write.
//
// Fields:
//  ID          – primary key identifier.
//  UserID      – paying customer; nil until a guest checkout is resolved
//                to a user by the caller.
//  AmountCents – charged amount in cents.
//  Status      – PENDING, COMPLETED or FAILED.
//  CompletedAt – set exactly once when the booking is created.
//  CreatedAt   – creation timestamp.
type Payment struct {
	ID          uint64     // payments.id
	UserID      *uint64    // payments.user_id (nullable)
	AmountCents int64      // payments.amount_cents
	Status      string     // payments.status
	CompletedAt *time.Time // payments.completed_at (nullable)
	CreatedAt   time.Time  // payments.created_at
}
