package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"github.com/iliyamo/coffee-shop-auth/internal/apperror"
	"github.com/iliyamo/coffee-shop-auth/internal/metrics"
	"github.com/iliyamo/coffee-shop-auth/internal/model"
)

// Authenticator resolves a raw access token to the principal it names.
// service.AuthService satisfies it.
type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (model.Principal, error)
}

// JWTAuth returns an Echo middleware that validates a Bearer access token,
// resolves its subject to a user and attaches the resulting principal to
// the request context. Handlers read it back with model.PrincipalFrom, or
// via c.Get("user_id") / c.Get("role").
func JWTAuth(auth Authenticator, m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := BearerToken(c)
			if !ok {
				return reject(m, apperror.Unauthorized("Full authentication is required to access this resource", nil))
			}

			req := c.Request()
			p, err := auth.Authenticate(req.Context(), raw)
			if err != nil {
				return reject(m, err)
			}

			c.SetRequest(req.WithContext(model.WithPrincipal(req.Context(), p)))
			c.Set("user_id", p.UserID)
			c.Set("email", p.Email)
			c.Set("role", p.Role)
			return next(c)
		}
	}
}

// BearerToken extracts the token from "Authorization: Bearer <token>".
func BearerToken(c echo.Context) (string, bool) {
	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	if len(auth) < 7 || !strings.EqualFold(auth[:7], "Bearer ") {
		return "", false
	}
	raw := strings.TrimSpace(auth[7:])
	return raw, raw != ""
}

func reject(m *metrics.Metrics, err error) error {
	if m != nil {
		var appErr *apperror.Error
		status := 500
		if errors.As(err, &appErr) {
			status = appErr.Status()
		}
		m.GateRejectionsTotal.WithLabelValues(strconv.Itoa(status)).Inc()
	}
	return err
}
