package router // package router defines how HTTP routes are registered for the API

import (
	"database/sql" // database handle passed to the readiness probe

	"github.com/labstack/echo/v4"                               // import the Echo web framework to handle routing
	"github.com/prometheus/client_golang/prometheus/promhttp"   // Prometheus HTTP exposition handler

	"github.com/renterra/boxrent/internal/handler" // import the handlers that implement business logic
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance: the liveness and readiness probes and the
// Prometheus metrics endpoint.
func RegisterRoutes(e *echo.Echo, db *sql.DB) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
	// Readiness additionally verifies database connectivity.
	e.GET("/readyz", handler.Ready(db))
	// Prometheus scrapes metrics here.
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterPublic registers unauthenticated browse endpoints on the provided
// Echo instance.  The availability handler exposes read-only box and model
// availability plus blocked-date calendars.  These routes do not apply any
// JWT or role middleware and are intended for guest users browsing before
// checkout.
func RegisterPublic(e *echo.Echo, av *handler.AvailabilityHandler) {
	// Per-box availability for a requested range (or at all, without one)
	e.GET("/v1/boxes/:id/availability", av.BoxAvailability)
	// Per-box blocked date ranges, one entry per open booking
	e.GET("/v1/boxes/:id/blocked-ranges", av.BoxBlockedRanges)
	// Model availability aggregated across all active boxes at a location
	e.GET("/v1/locations/:id/availability", av.ModelAvailability)
	// Merged blocked-date calendar for a model at a location
	e.GET("/v1/locations/:id/blocked-ranges", av.ModelBlockedRanges)
}
