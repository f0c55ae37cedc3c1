package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// ResetAPI is the slice of service.PasswordResetService used by the HTTP layer.
type ResetAPI interface {
	RequestReset(ctx context.Context, email string) error
	VerifyAndConsume(ctx context.Context, email, otp, newPassword string) error
}

// PasswordResetHandler serves the public forgot/reset password endpoints.
type PasswordResetHandler struct {
	Resets ResetAPI
}

func NewPasswordResetHandler(r ResetAPI) *PasswordResetHandler {
	return &PasswordResetHandler{Resets: r}
}

type forgotReq struct {
	Email string `json:"email"`
}
type resetReq struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

// Forgot: issue a code and queue the mail.
func (h *PasswordResetHandler) Forgot(c echo.Context) error {
	var req forgotReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Resets.RequestReset(ctx, req.Email); err != nil {
		return err
	}
	return success(c, http.StatusOK, nil)
}

// Reset: redeem a code and set the new password.
func (h *PasswordResetHandler) Reset(c echo.Context) error {
	var req resetReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Resets.VerifyAndConsume(ctx, req.Email, req.OTP, req.NewPassword); err != nil {
		return err
	}
	return success(c, http.StatusOK, nil)
}
