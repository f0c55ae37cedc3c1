// Package apperror defines the domain error taxonomy shared by services and
// handlers. Every error that reaches the HTTP boundary is rendered as the
// {code, description, data} envelope; the Code decides the status.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Stable response codes.
const (
	CodeSuccess        = "SUCCESS"
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeForbidden      = "FORBIDDEN"
	CodeFieldNotFound  = "FIELD_NOT_FOUND"
	CodeFieldExisted   = "FIELD_EXISTED"
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeTooManyRequest = "TOO_MANY_REQUESTS"
	CodeSystemError    = "SYSTEM_ERROR"
)

// Error is a domain failure with a stable code and a human description.
// Err keeps the underlying cause for logging; it is never rendered.
type Error struct {
	Code        string
	Description string
	Data        any
	Err         error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Description, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error by code so callers can write
// errors.Is(err, apperror.ErrUnauthorized).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Status maps the code to an HTTP status.
func (e *Error) Status() int {
	return StatusOf(e.Code)
}

// StatusOf maps a response code to an HTTP status.
func StatusOf(code string) int {
	switch code {
	case CodeSuccess:
		return http.StatusOK
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeFieldNotFound, CodeFieldExisted, CodeInvalidRequest:
		return http.StatusBadRequest
	case CodeTooManyRequest:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Sentinels for errors.Is comparisons.
var (
	ErrUnauthorized   = &Error{Code: CodeUnauthorized}
	ErrForbidden      = &Error{Code: CodeForbidden}
	ErrFieldNotFound  = &Error{Code: CodeFieldNotFound}
	ErrFieldExisted   = &Error{Code: CodeFieldExisted}
	ErrInvalidRequest = &Error{Code: CodeInvalidRequest}
	ErrTooManyRequest = &Error{Code: CodeTooManyRequest}
	ErrSystem         = &Error{Code: CodeSystemError}
)

func Unauthorized(desc string, cause error) *Error {
	return &Error{Code: CodeUnauthorized, Description: desc, Err: cause}
}

func Forbidden(desc string) *Error {
	return &Error{Code: CodeForbidden, Description: desc}
}

// FieldNotFound reports that the named field has no matching record.
func FieldNotFound(field string) *Error {
	return &Error{Code: CodeFieldNotFound, Description: field + " not found", Data: field}
}

// FieldExisted reports that the named field collides with an existing record.
func FieldExisted(field string) *Error {
	return &Error{Code: CodeFieldExisted, Description: field + " already exists", Data: field}
}

func InvalidRequest(desc string) *Error {
	return &Error{Code: CodeInvalidRequest, Description: desc}
}

// TooManyRequests reports a rate limit hit; retryAfter is in seconds.
func TooManyRequests(retryAfter int) *Error {
	return &Error{Code: CodeTooManyRequest, Description: "rate limit exceeded", Data: map[string]int{"retryAfter": retryAfter}}
}

// System wraps an unexpected failure. The description stays generic.
func System(cause error) *Error {
	return &Error{Code: CodeSystemError, Description: "internal server error", Err: cause}
}

// From converts any error into an *Error, treating unknown errors as system errors.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return System(err)
}
