package model

import "time"

// Distributor owns one or more locations.  Distributors are the tenants of
// the platform; every owner-facing operation checks that the resource being
// touched chains back to the calling distributor.
type Distributor struct {
	ID        uint64    // distributors.id
	UserID    uint64    // distributors.user_id (identity provider subject)
	Name      string    // distributors.name
	CreatedAt time.Time // distributors.created_at
}

// Location is a distributor-owned site containing one or more stands.
// Model-level availability is aggregated per location.
type Location struct {
	ID            uint64    // locations.id
	DistributorID uint64    // locations.distributor_id
	Name          string    // locations.name
	City          string    // locations.city
	Timezone      string    // locations.timezone (IANA name, informational)
	CreatedAt     time.Time // locations.created_at
}

// LocationPrice is an optional weekly rate a distributor configures per box
// model at a location.  When present it takes precedence over a box's own
// daily rate for extension pricing: price per day = weekly rate / 7.
type LocationPrice struct {
	ID                uint64 // location_prices.id
	LocationID        uint64 // location_prices.location_id
	BoxModel          string // location_prices.box_model
	PricePerWeekCents int64  // location_prices.price_per_week_cents
}

// Stand is a physical grouping of boxes within a location.
type Stand struct {
	ID         uint64    // stands.id
	LocationID uint64    // stands.location_id
	Name       string    // stands.name
	CreatedAt  time.Time // stands.created_at
}
