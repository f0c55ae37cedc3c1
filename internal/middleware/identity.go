package middleware

// identity.go defines helpers shared across middleware files for naming the
// caller in rate limit keys and logs.

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/coffee-shop-auth/internal/model"
)

// userID returns the authenticated user's id, or "guest" when the request
// has not passed the gate.
func userID(c echo.Context) string {
	if p, ok := model.PrincipalFrom(c.Request().Context()); ok && p.UserID != 0 {
		return strconv.FormatUint(p.UserID, 10)
	}
	return "guest"
}
