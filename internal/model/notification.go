package model

import "time"

// Notification is a message for a customer recorded by the booking core.
// Delivery (push, e-mail, in-app) is handled by downstream consumers; the
// core only guarantees the row is created atomically with the change it
// describes, so a rolled-back extension never leaves a stray notification.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – recipient.
//  Title     – short human-readable subject.
//  Message   – body text.
//  BookingID – booking the notification refers to, when applicable.
//  CreatedAt – creation timestamp.
type Notification struct {
	ID        uint64    // notifications.id
	UserID    uint64    // notifications.user_id
	Title     string    // notifications.title
	Message   string    // notifications.message
	BookingID *uint64   // notifications.booking_id (nullable)
	CreatedAt time.Time // notifications.created_at
}
