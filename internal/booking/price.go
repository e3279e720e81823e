package booking

// DefaultPricePerDayCents is the documented fallback daily rate, charged
// when neither the location nor the box has a configured price.  It is a
// real price, not zero: a missing price configuration must never produce a
// free rental.
const DefaultPricePerDayCents int64 = 1500 // 15.00 per day

// Price is the cost breakdown for a booking window.
type Price struct {
	Days             int   `json:"days"`
	PricePerDayCents int64 `json:"price_per_day_cents"`
	SubtotalCents    int64 `json:"subtotal_cents"`
	DepositCents     int64 `json:"deposit_cents"`
	TotalCents       int64 `json:"total_cents"`
}

// CalculateBookingPrice computes subtotal = pricePerDay * days and
// total = subtotal + deposit.  A non-positive pricePerDay falls back to
// DefaultPricePerDayCents; a negative deposit is treated as zero.
func CalculateBookingPrice(days int, pricePerDayCents, depositCents int64) Price {
	if pricePerDayCents <= 0 {
		pricePerDayCents = DefaultPricePerDayCents
	}
	if depositCents < 0 {
		depositCents = 0
	}
	subtotal := pricePerDayCents * int64(days)
	return Price{
		Days:             days,
		PricePerDayCents: pricePerDayCents,
		SubtotalCents:    subtotal,
		DepositCents:     depositCents,
		TotalCents:       subtotal + depositCents,
	}
}
