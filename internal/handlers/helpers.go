package handlers

import "github.com/labstack/echo/v4"

// getUserIDFromContext returns the authenticated user's application ID as set
// by the auth middleware, or 0 when the request is unauthenticated.
func getUserIDFromContext(c echo.Context) uint {
	id, ok := c.Get("userID").(uint)
	if !ok {
		return 0
	}
	return id
}
