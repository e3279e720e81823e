package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/renterra/boxrent/internal/handler"    // distributor handlers
	"github.com/renterra/boxrent/internal/middleware" // JWT + role middlewares
)

// RegisterOwner registers DISTRIBUTOR-scoped endpoints under /v1/owner.
// All routes require a valid JWT and the DISTRIBUTOR role; every handler
// additionally verifies that the touched resource chains back to the
// calling distributor.
func RegisterOwner(e *echo.Echo, o *handler.OwnerHandler, jwtSecret string) {
	// Attach middlewares at group construction time for clarity.
	g := e.Group(
		"/v1/owner",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("DISTRIBUTOR"),
	)

	// ---- Locations ----
	g.GET("/locations", o.ListLocations)
	g.GET("/locations/:id/stands", o.ListStands)
	g.GET("/locations/:id/bookings", o.ListLocationBookings)

	// ---- Boxes ----
	g.GET("/stands/:id/boxes", o.ListBoxes)
	g.POST("/stands/:id/boxes", o.CreateBox)
}
