package handler

import (
	"context"        // detached contexts for post-commit event publishing
	"database/sql"   // for sentinel errors returned from repository
	"errors"         // for errors.Is comparisons
	"net/http"       // HTTP status codes
	"time"           // timestamp formatting for events

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/renterra/boxrent/internal/booking"
	"github.com/renterra/boxrent/internal/lockpin"
	"github.com/renterra/boxrent/internal/metrics"
	"github.com/renterra/boxrent/internal/queue"
	"github.com/renterra/boxrent/internal/repository"
	"github.com/renterra/boxrent/internal/service"
)

// BookingHandler exposes the customer-facing booking surface: quoting,
// payment confirmation (which creates the booking), and listing the
// caller's bookings with their extension history and notifications.  All
// methods assume that JWT authentication and role validation has already
// been performed by middleware.
type BookingHandler struct {
	Bookings *service.BookingService // booking quote and creation flows
	Store    *repository.Store       // direct reads for listings
}

// NewBookingHandler constructs a BookingHandler.  All dependencies must be
// non-nil.
func NewBookingHandler(bookings *service.BookingService, store *repository.Store) *BookingHandler {
	if bookings == nil || store == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Bookings: bookings, Store: store}
}

// Quote handles POST /v1/boxes/:id/quote.  It validates the requested
// window against the box and returns the metadata bag the payment flow
// stores with the payment intent.  No state is touched.
func (h *BookingHandler) Quote(c echo.Context) error {
	boxID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid box id"})
	}
	var body struct {
		StartDate string `json:"start_date"`
		EndDate   string `json:"end_date"`
		StartTime string `json:"start_time"`
		EndTime   string `json:"end_time"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	quote, err := h.Bookings.PrepareBooking(c.Request().Context(), boxID,
		body.StartDate, body.EndDate, body.StartTime, body.EndTime)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrBoxNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "box not found"})
		case errors.Is(err, service.ErrBoxNotBookable):
			return c.JSON(http.StatusConflict, echo.Map{"error": "box is not open for booking"})
		case errors.Is(err, booking.ErrInvalidDateFormat), errors.Is(err, booking.ErrEndBeforeStart):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to prepare quote"})
	}
	return c.JSON(http.StatusOK, echo.Map{"quote": quote})
}

// ConfirmPayment handles POST /v1/payments/:id/confirm.  The payment
// gateway calls it once a charge succeeds, feeding back the metadata bag
// from the quote; the handler runs the booking creation transaction and
// returns 201 with the new booking on success.  Any failure rolls the
// whole transaction back, payment completion included.
func (h *BookingHandler) ConfirmPayment(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	paymentID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment id"})
	}
	var body struct {
		BoxID     uint64 `json:"box_id"`
		StartDate string `json:"start_date"`
		EndDate   string `json:"end_date"`
		StartTime string `json:"start_time"`
		EndTime   string `json:"end_time"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.BoxID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "box_id is required"})
	}

	b, err := h.Bookings.CreateBooking(c.Request().Context(), service.CreateBookingInput{
		PaymentID: paymentID,
		UserID:    userID,
		BoxID:     body.BoxID,
		StartDate: body.StartDate,
		EndDate:   body.EndDate,
		StartTime: body.StartTime,
		EndTime:   body.EndTime,
	})
	if err != nil {
		return h.confirmError(c, err)
	}
	metrics.IncBookingCreated(b.Status)

	// Post-commit event; a broker outage must not fail the booking.
	ev := queue.BookingConfirmedEvent{
		BookingID:   b.ID,
		DisplayCode: b.DisplayCode,
		UserID:      userID,
		BoxID:       b.BoxID,
		PaymentID:   b.PaymentID,
		StartsAt:    b.StartAt.Format(time.RFC3339),
		EndsAt:      b.EndAt.Format(time.RFC3339),
		Status:      b.Status,
		ConfirmedAt: time.Now().UTC().Format(time.RFC3339),
	}
	go func() { _ = queue.PublishBookingConfirmed(context.Background(), ev) }()

	return c.JSON(http.StatusCreated, echo.Map{
		"booking_id":   b.ID,
		"display_code": b.DisplayCode,
		"status":       b.Status,
		"start_at":     b.StartAt.Format(time.RFC3339),
		"end_at":       b.EndAt.Format(time.RFC3339),
		"lock_pin":     b.LockPin,
	})
}

// confirmError maps booking creation failures onto HTTP responses and
// records the failure reason.
func (h *BookingHandler) confirmError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrPaymentNotFound):
		metrics.IncBookingFailed("payment_not_found")
		return c.JSON(http.StatusNotFound, echo.Map{"error": "payment not found"})
	case errors.Is(err, repository.ErrBoxNotFound):
		metrics.IncBookingFailed("box_not_found")
		return c.JSON(http.StatusNotFound, echo.Map{"error": "box not found"})
	case errors.Is(err, service.ErrBoxNotBookable):
		metrics.IncBookingFailed("box_unavailable")
		return c.JSON(http.StatusConflict, echo.Map{"error": "box is not open for booking"})
	case errors.Is(err, booking.ErrInvalidDateFormat), errors.Is(err, booking.ErrEndBeforeStart):
		metrics.IncBookingFailed("validation")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrSequenceExhausted):
		metrics.IncBookingFailed("sequence_exhausted")
		return c.JSON(http.StatusConflict, echo.Map{"error": "daily booking capacity reached"})
	case errors.Is(err, lockpin.ErrAuthenticationFailed),
		errors.Is(err, lockpin.ErrPinProvider),
		errors.Is(err, lockpin.ErrPinFormat),
		errors.Is(err, lockpin.ErrInvalidRange):
		metrics.IncBookingFailed("pin_provider")
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "lock provider unavailable"})
	case errors.Is(err, service.ErrDataIntegrity):
		metrics.IncBookingFailed("data_integrity")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "payment state verification failed"})
	}
	metrics.IncBookingFailed("internal")
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create booking"})
}

// MyBookings handles GET /v1/my-bookings.  It returns all bookings paid
// for by the current user along with box, stand and location details.
// When no bookings exist, it returns an empty array.
func (h *BookingHandler) MyBookings(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	details, err := h.Store.ListBookingsByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": details})
}

// GetBooking handles GET /v1/bookings/:id.  It returns the details of a
// single booking for the authenticated user.  When the booking does not
// exist, it responds with 404; when it belongs to a different user, 403.
func (h *BookingHandler) GetBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	detail, err := h.Store.GetBookingDetailForUser(c.Request().Context(), bookingID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch booking"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": detail})
}

// ListExtensions handles GET /v1/bookings/:id/extensions.  It returns the
// append-only extension history of one of the caller's bookings.
func (h *BookingHandler) ListExtensions(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	// Ownership check runs through the same path as GetBooking.
	if _, err := h.Store.GetBookingDetailForUser(c.Request().Context(), bookingID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch booking"})
	}
	records, err := h.Store.ListExtensionsByBooking(c.Request().Context(), bookingID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load extensions"})
	}
	items := make([]echo.Map, 0, len(records))
	for _, e := range records {
		items = append(items, echo.Map{
			"id":                    e.ID,
			"previous_end_at":       e.PreviousEndAt.Format(time.RFC3339),
			"new_end_at":            e.NewEndAt.Format(time.RFC3339),
			"additional_days":       e.AdditionalDays,
			"additional_cost_cents": e.AdditionalCostCents,
			"created_at":            e.CreatedAt.Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// MyNotifications handles GET /v1/my-notifications.  It returns the
// notifications recorded for the current user, newest first.
func (h *BookingHandler) MyNotifications(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	records, err := h.Store.ListNotificationsByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load notifications"})
	}
	items := make([]echo.Map, 0, len(records))
	for _, n := range records {
		item := echo.Map{
			"id":         n.ID,
			"title":      n.Title,
			"message":    n.Message,
			"created_at": n.CreatedAt.Format(time.RFC3339),
		}
		if n.BookingID != nil {
			item["booking_id"] = *n.BookingID
		}
		items = append(items, item)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
