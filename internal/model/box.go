package model

import "time"

// Box model enumeration.  A box model describes the physical size and
// fit-out of a rentable box.  New models must be added here and to the
// boxes.box_model column definition together.
const (
	BoxModelClassic = "CLASSIC"
	BoxModelPro     = "PRO"
)

// Box status enumeration.  Only ACTIVE boxes participate in availability
// computation and reassignment searches.
const (
	BoxStatusActive   = "ACTIVE"
	BoxStatusInactive = "INACTIVE"
	BoxStatusUpcoming = "UPCOMING"
)

// Box represents a physical rentable storage unit installed on a stand.
// The Score field is a heuristic load indicator: it is overwritten with the
// duration in whole hours of the most recent booking and is used to prefer
// less-recently-loaded boxes when a displaced booking must be reassigned.
//
// Fields:
//  ID               – primary key identifier.
//  StandID          – stand the box is mounted on.
//  DisplayCode      – human-facing box label printed on the unit.
//  BoxModel         – model of the box (CLASSIC, PRO).
//  Status           – lifecycle status (ACTIVE, INACTIVE, UPCOMING).
//  PricePerDayCents – configured daily rate in cents; nil when the box has
//                     no own price and pricing falls back to location or
//                     default pricing.
//  DepositCents     – refundable deposit charged on top of the rental price.
//  Score            – reassignment preference hint, lower is preferred.
//  CreatedAt        – creation timestamp.
//  UpdatedAt        – last update timestamp.
type Box struct {
	ID               uint64     // boxes.id
	StandID          uint64     // boxes.stand_id
	DisplayCode      string     // boxes.display_code
	BoxModel         string     // boxes.box_model
	Status           string     // boxes.status
	PricePerDayCents *int64     // boxes.price_per_day_cents (nullable)
	DepositCents     int64      // boxes.deposit_cents
	Score            int64      // boxes.score
	CreatedAt        time.Time  // boxes.created_at
	UpdatedAt        time.Time  // boxes.updated_at
}

// IsBookable reports whether the box may receive new bookings.
func (b *Box) IsBookable() bool { return b.Status == BoxStatusActive }
