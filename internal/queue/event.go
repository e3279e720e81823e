// Package queue defines message payloads exchanged over the message broker.
package queue

// Queue names.  One durable queue per event kind; routing key equals the
// queue name on the default exchange.
const (
    BookingConfirmedQueue  = "booking.confirmed"
    BookingExtendedQueue   = "booking.extended"
    BookingReassignedQueue = "booking.reassigned"
)

// BookingConfirmedEvent is published after a booking creation transaction
// commits.  It contains enough information for downstream consumers to log,
// notify, or trigger analytics without querying the primary database.
type BookingConfirmedEvent struct {
    BookingID   uint64 `json:"booking_id"`
    DisplayCode string `json:"display_code"`
    UserID      uint64 `json:"user_id"`
    BoxID       uint64 `json:"box_id"`
    PaymentID   uint64 `json:"payment_id"`
    StartsAt    string `json:"starts_at"`
    EndsAt      string `json:"ends_at"`
    Status      string `json:"status"`
    ConfirmedAt string `json:"confirmed_at"`
}

// BookingExtendedEvent is published after an extension transaction commits.
type BookingExtendedEvent struct {
    BookingID           uint64 `json:"booking_id"`
    DisplayCode         string `json:"display_code"`
    UserID              uint64 `json:"user_id"`
    PreviousEndsAt      string `json:"previous_ends_at"`
    NewEndsAt           string `json:"new_ends_at"`
    AdditionalDays      int    `json:"additional_days"`
    AdditionalCostCents int64  `json:"additional_cost_cents"`
    ExtendedAt          string `json:"extended_at"`
}

// BookingReassignedEvent is published for each booking moved to an alternate
// box while a neighbouring booking was extended.
type BookingReassignedEvent struct {
    BookingID    uint64 `json:"booking_id"`
    DisplayCode  string `json:"display_code"`
    FromBoxID    uint64 `json:"from_box_id"`
    ToBoxID      uint64 `json:"to_box_id"`
    ReassignedAt string `json:"reassigned_at"`
}
