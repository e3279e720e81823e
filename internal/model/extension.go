package model

import "time"

// BookingExtension is an append-only history record written once per
// successful extension.  It snapshots the state the extension replaced so
// support staff can reconstruct what a customer was told at any point.
//
// Fields:
//  ID                   – primary key identifier.
//  BookingID            – booking that was extended.
//  PreviousEndAt        – end instant before the extension.
//  NewEndAt             – end instant after the extension.
//  PreviousPin          – lock PIN that was replaced.
//  NewPin               – lock PIN issued for the extended window.
//  AdditionalDays       – whole days added by the extension.
//  AdditionalCostCents  – cost charged for the added days.
//  BoxStatus            – box status snapshot at extension time.
//  CreatedAt            – creation timestamp.
type BookingExtension struct {
	ID                  uint64    // booking_extensions.id
	BookingID           uint64    // booking_extensions.booking_id
	PreviousEndAt       time.Time // booking_extensions.previous_end_at
	NewEndAt            time.Time // booking_extensions.new_end_at
	PreviousPin         int64     // booking_extensions.previous_pin
	NewPin              int64     // booking_extensions.new_pin
	AdditionalDays      int       // booking_extensions.additional_days
	AdditionalCostCents int64     // booking_extensions.additional_cost_cents
	BoxStatus           string    // booking_extensions.box_status
	CreatedAt           time.Time // booking_extensions.created_at
}
