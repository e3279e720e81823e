package middleware // middleware provides shared request processing for handlers

import (
    "net/http" // http package defines standard HTTP status codes
    "github.com/labstack/echo/v4" // echo provides middleware chaining and context
)

// RequireRole returns a middleware function that enforces that the
// authenticated user carries one of the specified roles.  The identity
// provider issues exactly two roles on this platform: "CUSTOMER" for
// renters and "DISTRIBUTOR" for stand owners, and the router attaches the
// matching role to each group.  A caller whose role is not in the allowed
// set is rejected with 403 Forbidden.  It assumes JWTAuth has already
// stored the role claim in the context under the key "role".
func RequireRole(roles ...string) echo.MiddlewareFunc {
    // Build a set of allowed roles for constant‑time lookups.  The map
    // value is a boolean and is always true when present.
    allowed := make(map[string]bool, len(roles))
    for _, r := range roles {
        allowed[r] = true
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            // Retrieve the role from context.  It should have been
            // stored by JWTAuth as a string; a missing or mistyped value
            // means the route was registered without JWTAuth, which is a
            // wiring bug, and the safe answer is to deny.
            v := c.Get("role")
            role, ok := v.(string)
            if !ok || !allowed[role] {
                // If role is missing or not allowed, return 403
                return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
            }
            // Otherwise call the next handler in the chain
            return next(c)
        }
    }
}
