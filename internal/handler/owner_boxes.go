package handler

import (
	"errors"   // for errors.Is comparisons
	"net/http" // HTTP status codes
	"time"     // timestamp formatting

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/renterra/boxrent/internal/model"
	"github.com/renterra/boxrent/internal/repository"
)

// OwnerHandler exposes the distributor-facing surface: browsing their
// locations, stands and boxes, registering new boxes, and listing the
// bookings at one of their locations.  Every operation resolves the caller
// to a distributor first; a user without a distributor record gets 403.
type OwnerHandler struct {
	Store *repository.Store
}

// NewOwnerHandler constructs an OwnerHandler.
func NewOwnerHandler(store *repository.Store) *OwnerHandler {
	if store == nil {
		panic("nil store passed to NewOwnerHandler")
	}
	return &OwnerHandler{Store: store}
}

// distributor resolves the authenticated caller to their distributor
// record.
func (h *OwnerHandler) distributor(c echo.Context) (*model.Distributor, error) {
	userID, err := getUserID(c)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	d, err := h.Store.DistributorForUser(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrForbidden) {
			return nil, echo.NewHTTPError(http.StatusForbidden, "not a distributor")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "failed to resolve distributor")
	}
	return d, nil
}

// ListLocations handles GET /v1/owner/locations.
func (h *OwnerHandler) ListLocations(c echo.Context) error {
	d, err := h.distributor(c)
	if err != nil {
		return err
	}
	locations, err := h.Store.ListLocationsByDistributor(c.Request().Context(), d.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load locations"})
	}
	items := make([]echo.Map, 0, len(locations))
	for _, l := range locations {
		items = append(items, echo.Map{
			"id":       l.ID,
			"name":     l.Name,
			"city":     l.City,
			"timezone": l.Timezone,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListStands handles GET /v1/owner/locations/:id/stands.
func (h *OwnerHandler) ListStands(c echo.Context) error {
	d, err := h.distributor(c)
	if err != nil {
		return err
	}
	locationID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid location id"})
	}
	stands, err := h.Store.ListStandsByLocation(c.Request().Context(), locationID, d.ID)
	if err != nil {
		if errors.Is(err, repository.ErrLocationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "location not found"})
		}
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load stands"})
	}
	items := make([]echo.Map, 0, len(stands))
	for _, s := range stands {
		items = append(items, echo.Map{"id": s.ID, "name": s.Name, "location_id": s.LocationID})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListBoxes handles GET /v1/owner/stands/:id/boxes.
func (h *OwnerHandler) ListBoxes(c echo.Context) error {
	d, err := h.distributor(c)
	if err != nil {
		return err
	}
	standID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid stand id"})
	}
	boxes, err := h.Store.ListBoxesByStand(c.Request().Context(), standID, d.ID)
	if err != nil {
		if errors.Is(err, repository.ErrStandNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "stand not found"})
		}
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load boxes"})
	}
	items := make([]echo.Map, 0, len(boxes))
	for _, b := range boxes {
		item := echo.Map{
			"id":            b.ID,
			"display_code":  b.DisplayCode,
			"box_model":     b.BoxModel,
			"status":        b.Status,
			"deposit_cents": b.DepositCents,
			"score":         b.Score,
		}
		if b.PricePerDayCents != nil {
			item["price_per_day_cents"] = *b.PricePerDayCents
		}
		items = append(items, item)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// CreateBox handles POST /v1/owner/stands/:id/boxes.  It registers a new
// box on one of the caller's stands.  New boxes start in UPCOMING status
// and become bookable once the distributor activates them.
func (h *OwnerHandler) CreateBox(c echo.Context) error {
	d, err := h.distributor(c)
	if err != nil {
		return err
	}
	standID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid stand id"})
	}
	var body struct {
		DisplayCode      string `json:"display_code"`
		BoxModel         string `json:"box_model"`
		PricePerDayCents *int64 `json:"price_per_day_cents"`
		DepositCents     int64  `json:"deposit_cents"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.DisplayCode == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "display_code is required"})
	}
	if body.BoxModel != model.BoxModelClassic && body.BoxModel != model.BoxModelPro {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid box model"})
	}
	if body.DepositCents < 0 || (body.PricePerDayCents != nil && *body.PricePerDayCents < 0) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "prices must not be negative"})
	}

	b := &model.Box{
		StandID:          standID,
		DisplayCode:      body.DisplayCode,
		BoxModel:         body.BoxModel,
		Status:           model.BoxStatusUpcoming,
		PricePerDayCents: body.PricePerDayCents,
		DepositCents:     body.DepositCents,
	}
	if err := h.Store.CreateBox(c.Request().Context(), d.ID, b); err != nil {
		if errors.Is(err, repository.ErrStandNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "stand not found"})
		}
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create box"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id":           b.ID,
		"display_code": b.DisplayCode,
		"status":       b.Status,
	})
}

// ListLocationBookings handles GET /v1/owner/locations/:id/bookings.  It
// returns every booking at one of the caller's locations, newest first.
func (h *OwnerHandler) ListLocationBookings(c echo.Context) error {
	d, err := h.distributor(c)
	if err != nil {
		return err
	}
	locationID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid location id"})
	}
	details, err := h.Store.ListBookingsByLocationForOwner(c.Request().Context(), locationID, d.ID)
	if err != nil {
		if errors.Is(err, repository.ErrLocationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "location not found"})
		}
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	items := make([]echo.Map, 0, len(details))
	for _, bd := range details {
		// Lock PINs stay with the customer; owners see schedule and money.
		items = append(items, echo.Map{
			"id":           bd.ID,
			"display_code": bd.DisplayCode,
			"status":       bd.Status,
			"start_at":     bd.StartAt.Format(time.RFC3339),
			"end_at":       bd.EndAt.Format(time.RFC3339),
			"box_id":       bd.BoxID,
			"box_code":     bd.BoxCode,
			"box_model":    bd.BoxModel,
			"stand_id":     bd.StandID,
			"stand_name":   bd.StandName,
			"amount_cents": bd.AmountCents,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
