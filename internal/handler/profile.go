package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/coffee-shop-auth/internal/apperror"
	"github.com/iliyamo/coffee-shop-auth/internal/service"
)

type profileReq struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// GetProfile: protected; same payload as /auth/user-details.
func (h *AuthHandler) GetProfile(c echo.Context) error {
	return h.UserDetails(c)
}

// UpdateProfile: protected; replaces name and phone.
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	var req profileReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Auth.UpdateProfile(ctx, service.ProfileInput{Name: req.Name, Phone: req.Phone})
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, p)
}

// UploadAvatar: protected; multipart form with a single "file" part.
func (h *AuthHandler) UploadAvatar(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return apperror.InvalidRequest("multipart field \"file\" is required")
	}
	f, err := fh.Open()
	if err != nil {
		return apperror.InvalidRequest("cannot read uploaded file")
	}
	defer f.Close()

	// uploads get a longer budget than plain store calls
	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	p, err := h.Auth.UpdateAvatar(ctx, service.AvatarUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Size:        fh.Size,
		Body:        f,
	})
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, p)
}
