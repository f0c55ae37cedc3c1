package middleware // middleware provides shared request processing for handlers

import (
	"fmt"

	"github.com/labstack/echo/v4" // echo provides middleware chaining and context

	"github.com/iliyamo/coffee-shop-auth/internal/apperror"
	"github.com/iliyamo/coffee-shop-auth/internal/model"
)

// RoutePolicy maps "METHOD /path" (the registered Echo path) to the roles
// allowed on it. An empty role list admits any authenticated caller.
type RoutePolicy map[string][]model.RoleName

// Key builds the policy key for a method and route path.
func Key(method, path string) string { return method + " " + path }

// Allows reports whether role may call the route. Unknown routes are denied.
func (p RoutePolicy) Allows(method, path string, role model.RoleName) bool {
	roles, ok := p[Key(method, path)]
	if !ok {
		return false
	}
	if len(roles) == 0 {
		return true
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// EnforcePolicy returns a middleware that checks the caller's role against
// the policy entry for the matched route. It must run after JWTAuth.
func EnforcePolicy(policy RoutePolicy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := model.PrincipalFrom(c.Request().Context())
			if !ok {
				return apperror.Unauthorized("Full authentication is required to access this resource", nil)
			}
			if !policy.Allows(c.Request().Method, c.Path(), p.Role) {
				return apperror.Forbidden(fmt.Sprintf("role %s may not access %s", p.Role, c.Path()))
			}
			return next(c)
		}
	}
}
