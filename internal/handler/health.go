package handler // declare the package name; contains HTTP handlers

import (
    "context"           // timeout context for the readiness ping
    "database/sql"      // database handle for the readiness probe
    "net/http"          // net/http provides status codes and response helpers
    "time"              // timeout for the readiness ping

    "github.com/labstack/echo/v4" // echo is the web framework used for this project
)

// Health is a simple health‑check endpoint used by load balancers and
// monitoring systems to verify that the service is running.  It returns
// a plain text "ok" message with an HTTP 200 status code.
func Health(c echo.Context) error { // Health handler signature accepts an echo context and returns an error
    return c.String(http.StatusOK, "ok") // write "ok" with a 200 OK status; String writes plain text
}

// Ready returns a readiness handler that additionally pings the database.
// Orchestrators use it to withhold traffic until the store is reachable.
func Ready(db *sql.DB) echo.HandlerFunc {
    return func(c echo.Context) error {
        ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
        defer cancel()
        if err := db.PingContext(ctx); err != nil {
            return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "degraded", "error": "database unreachable"})
        }
        return c.JSON(http.StatusOK, echo.Map{"status": "ready"})
    }
}
