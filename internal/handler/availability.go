package handler

import (
	"errors"   // for errors.Is comparisons
	"net/http" // HTTP status codes
	"time"     // range formatting

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/renterra/boxrent/internal/booking"
	"github.com/renterra/boxrent/internal/model"
	"github.com/renterra/boxrent/internal/repository"
	"github.com/renterra/boxrent/internal/service"
)

// AvailabilityHandler exposes unauthenticated browse endpoints: per-box and
// per-model availability checks and blocked-date calendars.  These routes
// are read-only and are the ones fronted by the response cache.
type AvailabilityHandler struct {
	Availability *service.AvailabilityService
}

// NewAvailabilityHandler constructs an AvailabilityHandler.
func NewAvailabilityHandler(availability *service.AvailabilityService) *AvailabilityHandler {
	if availability == nil {
		panic("nil service passed to NewAvailabilityHandler")
	}
	return &AvailabilityHandler{Availability: availability}
}

// requestedRange reads optional start_date/end_date (plus start_time and
// end_time) query parameters.  Both dates absent means "no range"; a single
// date or an unparseable pair is a client error.
func requestedRange(c echo.Context) (start, end time.Time, err error) {
	startDate := c.QueryParam("start_date")
	endDate := c.QueryParam("end_date")
	if startDate == "" && endDate == "" {
		return time.Time{}, time.Time{}, nil
	}
	return booking.ValidateBookingDates(startDate, endDate,
		c.QueryParam("start_time"), c.QueryParam("end_time"))
}

// BoxAvailability handles GET /v1/boxes/:id/availability.
func (h *AvailabilityHandler) BoxAvailability(c echo.Context) error {
	boxID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid box id"})
	}
	start, end, err := requestedRange(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	av, err := h.Availability.BoxAvailability(c.Request().Context(), boxID, start, end)
	if err != nil {
		if errors.Is(err, repository.ErrBoxNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "box not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to compute availability"})
	}
	return c.JSON(http.StatusOK, av)
}

// BoxBlockedRanges handles GET /v1/boxes/:id/blocked-ranges.
func (h *AvailabilityHandler) BoxBlockedRanges(c echo.Context) error {
	boxID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid box id"})
	}
	ranges, err := h.Availability.BoxBlockedRanges(c.Request().Context(), boxID)
	if err != nil {
		if errors.Is(err, repository.ErrBoxNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "box not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load blocked ranges"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": formatRanges(ranges)})
}

// ModelAvailability handles GET /v1/locations/:id/availability.  The
// box model is selected with the required ?model= query parameter.
func (h *AvailabilityHandler) ModelAvailability(c echo.Context) error {
	locationID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid location id"})
	}
	boxModel, ok := queryBoxModel(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid box model"})
	}
	start, end, err := requestedRange(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	res, err := h.Availability.ModelAvailability(c.Request().Context(), locationID, boxModel, start, end)
	if err != nil {
		if errors.Is(err, repository.ErrLocationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "location not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to compute availability"})
	}
	return c.JSON(http.StatusOK, res)
}

// ModelBlockedRanges handles GET /v1/locations/:id/blocked-ranges.
func (h *AvailabilityHandler) ModelBlockedRanges(c echo.Context) error {
	locationID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid location id"})
	}
	boxModel, ok := queryBoxModel(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid box model"})
	}
	ranges, err := h.Availability.ModelBlockedRanges(c.Request().Context(), locationID, boxModel)
	if err != nil {
		if errors.Is(err, repository.ErrLocationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "location not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load blocked ranges"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": formatRanges(ranges)})
}

// queryBoxModel validates the ?model= query parameter against the known
// box models.
func queryBoxModel(c echo.Context) (string, bool) {
	switch m := c.QueryParam("model"); m {
	case model.BoxModelClassic, model.BoxModelPro:
		return m, true
	default:
		return "", false
	}
}

func formatRanges(ranges []booking.Range) []echo.Map {
	items := make([]echo.Map, 0, len(ranges))
	for _, r := range ranges {
		items = append(items, echo.Map{
			"start": r.Start.Format(time.RFC3339),
			"end":   r.End.Format(time.RFC3339),
		})
	}
	return items
}
