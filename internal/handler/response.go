package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/coffee-shop-auth/internal/apperror"
)

// Envelope is the body of every JSON response.
type Envelope struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Data        any    `json:"data,omitempty"`
}

func success(c echo.Context, status int, data any) error {
	return c.JSON(status, Envelope{Code: apperror.CodeSuccess, Description: "success", Data: data})
}

// ErrorHandler renders returned errors as an Envelope. Domain errors keep
// their code; Echo errors (404, 405, 413) keep their status; anything else
// is logged and reported as a generic system error.
func ErrorHandler(log logrus.FieldLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var (
			status int
			body   Envelope
		)
		var appErr *apperror.Error
		var httpErr *echo.HTTPError
		switch {
		case errors.As(err, &appErr):
			status = appErr.Status()
			body = Envelope{Code: appErr.Code, Description: appErr.Description, Data: appErr.Data}
			if status >= http.StatusInternalServerError {
				log.WithError(err).WithField("path", c.Request().URL.Path).Error("request failed")
			}
		case errors.As(err, &httpErr):
			status = httpErr.Code
			body = Envelope{Code: codeFromStatus(status), Description: http.StatusText(status)}
			if status == http.StatusUnauthorized {
				body.Code = apperror.CodeUnauthorized
			}
		default:
			log.WithError(err).WithField("path", c.Request().URL.Path).Error("unhandled error")
			status = http.StatusInternalServerError
			body = Envelope{Code: apperror.CodeSystemError, Description: "internal server error"}
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			log.WithError(err).Warn("failed to write error response")
		}
	}
}

// codeFromStatus turns "Method Not Allowed" into "METHOD_NOT_ALLOWED".
func codeFromStatus(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return apperror.CodeSystemError
	}
	return strings.ToUpper(strings.ReplaceAll(text, " ", "_"))
}

// bind decodes the request body and reports malformed input as INVALID_REQUEST.
func bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return apperror.InvalidRequest("invalid request body")
	}
	return nil
}
