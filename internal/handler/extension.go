package handler

import (
	"context"  // detached contexts for post-commit event publishing
	"errors"   // for errors.Is comparisons
	"net/http" // HTTP status codes
	"time"     // timestamp formatting for events

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/renterra/boxrent/internal/booking"
	"github.com/renterra/boxrent/internal/lockpin"
	"github.com/renterra/boxrent/internal/metrics"
	"github.com/renterra/boxrent/internal/queue"
	"github.com/renterra/boxrent/internal/repository"
	"github.com/renterra/boxrent/internal/service"
)

// ExtensionHandler exposes the booking extension surface: a dry-run price
// quote and the extension request itself.
type ExtensionHandler struct {
	Extensions *service.ExtensionService // extension calculation and transaction
}

// NewExtensionHandler constructs an ExtensionHandler.
func NewExtensionHandler(extensions *service.ExtensionService) *ExtensionHandler {
	if extensions == nil {
		panic("nil service passed to NewExtensionHandler")
	}
	return &ExtensionHandler{Extensions: extensions}
}

type extensionRequest struct {
	NewEndDate string `json:"new_end_date"`
	NewEndTime string `json:"new_end_time"`
}

// QuoteExtension handles POST /v1/bookings/:id/extension-quote.  It prices
// an extension of the caller's booking without changing any state, so a
// customer can see the additional cost before committing.
func (h *ExtensionHandler) QuoteExtension(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var body extensionRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	quote, err := h.Extensions.CalculateExtension(c.Request().Context(), userID, bookingID,
		body.NewEndDate, body.NewEndTime)
	if err != nil {
		return extensionError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"quote": quote})
}

// RequestExtension handles POST /v1/bookings/:id/extend.  It runs the full
// extension transaction; on success the booking carries the new end date and
// a fresh lock PIN, and any displaced neighbouring bookings have been moved
// to alternate boxes.
func (h *ExtensionHandler) RequestExtension(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var body extensionRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	quote, err := h.Extensions.RequestExtension(c.Request().Context(), userID, bookingID,
		body.NewEndDate, body.NewEndTime)
	if err != nil {
		return extensionError(c, err)
	}
	metrics.IncExtensionRequested("success")

	now := time.Now().UTC().Format(time.RFC3339)
	for _, r := range quote.Reassigned {
		metrics.IncBookingReassigned()
		rev := queue.BookingReassignedEvent{
			BookingID:    r.BookingID,
			DisplayCode:  r.DisplayCode,
			FromBoxID:    r.FromBoxID,
			ToBoxID:      r.ToBoxID,
			ReassignedAt: now,
		}
		go func() { _ = queue.PublishBookingReassigned(context.Background(), rev) }()
	}

	ev := queue.BookingExtendedEvent{
		BookingID:           bookingID,
		DisplayCode:         quote.DisplayCode,
		UserID:              userID,
		PreviousEndsAt:      quote.CurrentEndAt.Format(time.RFC3339),
		NewEndsAt:           quote.NewEndAt.Format(time.RFC3339),
		AdditionalDays:      quote.AdditionalDays,
		AdditionalCostCents: quote.AdditionalCostCents,
		ExtendedAt:          time.Now().UTC().Format(time.RFC3339),
	}
	go func() { _ = queue.PublishBookingExtended(context.Background(), ev) }()

	return c.JSON(http.StatusOK, echo.Map{
		"booking_id":            bookingID,
		"new_end_at":            quote.NewEndAt.Format(time.RFC3339),
		"additional_days":       quote.AdditionalDays,
		"additional_cost_cents": quote.AdditionalCostCents,
	})
}

// extensionError maps extension failures onto HTTP responses and records
// failed outcomes.
func extensionError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrBookingNotFound):
		metrics.IncExtensionRequested("not_found")
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	case errors.Is(err, service.ErrUnauthorized):
		metrics.IncExtensionRequested("forbidden")
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, service.ErrCannotExtend):
		metrics.IncExtensionRequested("not_extendable")
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking can no longer be extended"})
	case errors.Is(err, service.ErrInvalidExtensionRange), errors.Is(err, booking.ErrInvalidDateFormat):
		metrics.IncExtensionRequested("validation")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrNoAlternativeBoxes), errors.Is(err, service.ErrNoAvailableAlternative):
		metrics.IncExtensionRequested("no_alternative")
		return c.JSON(http.StatusConflict, echo.Map{"error": "a neighbouring booking cannot be relocated"})
	case errors.Is(err, lockpin.ErrAuthenticationFailed),
		errors.Is(err, lockpin.ErrPinProvider),
		errors.Is(err, lockpin.ErrPinFormat),
		errors.Is(err, lockpin.ErrInvalidRange):
		metrics.IncExtensionRequested("pin_provider")
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "lock provider unavailable"})
	}
	metrics.IncExtensionRequested("internal")
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to extend booking"})
}
