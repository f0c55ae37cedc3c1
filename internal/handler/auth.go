package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/coffee-shop-auth/internal/apperror"
	"github.com/iliyamo/coffee-shop-auth/internal/middleware"
	"github.com/iliyamo/coffee-shop-auth/internal/model"
	"github.com/iliyamo/coffee-shop-auth/internal/service"
)

// AuthAPI is the slice of service.AuthService used by the HTTP layer.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (service.LoginResult, error)
	Register(ctx context.Context, in service.RegisterInput) (service.Profile, error)
	RefreshAccessToken(ctx context.Context, raw string) (service.RefreshResult, error)
	ChangePassword(ctx context.Context, oldPassword, newPassword string) error
	GetProfileByToken(ctx context.Context) (service.Profile, error)
	UpdateProfile(ctx context.Context, in service.ProfileInput) (service.Profile, error)
	UpdateAvatar(ctx context.Context, up service.AvatarUpload) (service.Profile, error)
	ListRoles(ctx context.Context) ([]model.Role, error)
}

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Auth AuthAPI
}

func NewAuthHandler(a AuthAPI) *AuthHandler {
	return &AuthHandler{Auth: a}
}

// ----- DTOs -----

type registerReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type changePasswordReq struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}
type roleResp struct {
	ID   uint8          `json:"id"`
	Name model.RoleName `json:"name"`
}

// Login: verify credentials and return a token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, res)
}

// Register: create an ACTIVE user with the USER role.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Auth.Register(ctx, service.RegisterInput{
		Email: req.Email, Password: req.Password, Name: req.Name, Phone: req.Phone,
	})
	if err != nil {
		return err
	}
	return success(c, http.StatusCreated, p)
}

// RefreshToken: the refresh token travels in the Authorization header.
func (h *AuthHandler) RefreshToken(c echo.Context) error {
	raw, ok := middleware.BearerToken(c)
	if !ok {
		return apperror.Unauthorized("Refresh token is required", nil)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Auth.RefreshAccessToken(ctx, raw)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, res)
}

// ChangePassword: protected; replaces the caller's password.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	var req changePasswordReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Auth.ChangePassword(ctx, req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	return success(c, http.StatusOK, nil)
}

// UserDetails: protected; returns the caller's profile.
func (h *AuthHandler) UserDetails(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Auth.GetProfileByToken(ctx)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, p)
}

// Roles: public list of the fixed roles.
func (h *AuthHandler) Roles(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	roles, err := h.Auth.ListRoles(ctx)
	if err != nil {
		return err
	}
	out := make([]roleResp, 0, len(roles))
	for _, r := range roles {
		out = append(out, roleResp{ID: r.ID, Name: r.Name})
	}
	return success(c, http.StatusOK, out)
}
