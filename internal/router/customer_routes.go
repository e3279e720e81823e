package router

import (
	"github.com/labstack/echo/v4"

	"github.com/renterra/boxrent/internal/handler"
	"github.com/renterra/boxrent/internal/middleware"
)

// RegisterCustomer registers customer-scoped endpoints under /v1.  All
// routes require a valid JWT and the CUSTOMER role.  Customers can obtain a
// booking quote, confirm a paid booking, view their bookings with extension
// history and notifications, and extend a running booking.
func RegisterCustomer(e *echo.Echo, b *handler.BookingHandler, x *handler.ExtensionHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("CUSTOMER"),
	)
	// Note: availability and blocked-range endpoints are registered on the
	// public router so that guests can browse before authenticating.
	// Customer-specific endpoints begin here.
	g.POST("/boxes/:id/quote", b.Quote)
	g.POST("/payments/:id/confirm", b.ConfirmPayment)
	g.GET("/my-bookings", b.MyBookings)
	g.GET("/my-notifications", b.MyNotifications)

	// Booking detail, extension quoting and the extension itself.  All
	// three validate ownership inside the handler or service.
	g.GET("/bookings/:id", b.GetBooking)
	g.GET("/bookings/:id/extensions", b.ListExtensions)
	g.POST("/bookings/:id/extension-quote", x.QuoteExtension)
	g.POST("/bookings/:id/extend", x.RequestExtension)
}
