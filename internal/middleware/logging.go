package middleware

import (
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/coffee-shop-auth/internal/apperror"
	"github.com/iliyamo/coffee-shop-auth/internal/metrics"
)

// RequestLogger assigns a request id, logs one line per request and
// records the HTTP metrics. Errors are resolved through the Echo error
// handler first so the logged status matches the response.
func RequestLogger(log logrus.FieldLogger, m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			rid := req.Header.Get(echo.HeaderXRequestID)
			if rid == "" {
				rid = uuid.NewString()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, rid)

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			elapsed := time.Since(start)

			if m != nil {
				m.HTTPRequestsTotal.WithLabelValues(req.Method, path, strconv.Itoa(status)).Inc()
				m.HTTPRequestDuration.WithLabelValues(req.Method, path).Observe(elapsed.Seconds())
			}

			entry := log.WithFields(logrus.Fields{
				"request_id":  rid,
				"method":      req.Method,
				"path":        req.URL.Path,
				"status":      status,
				"duration_ms": elapsed.Milliseconds(),
				"remote_ip":   c.RealIP(),
				"user":        userID(c),
			})
			var appErr *apperror.Error
			switch {
			case status >= 500:
				entry.WithError(err).Error("request failed")
			case errors.As(err, &appErr):
				entry.WithField("code", appErr.Code).Info("request rejected")
			default:
				entry.Info("request handled")
			}
			return nil
		}
	}
}
