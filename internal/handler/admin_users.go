package handler // handler defines http handlers

import (
	"context"  // context bounds service calls
	"net/http" // net/http provides status codes
	"strconv"  // strconv parses the :id path parameter
	"time"     // time sets request timeouts

	"github.com/labstack/echo/v4" // echo defines request context types

	"github.com/iliyamo/coffee-shop-auth/internal/apperror" // apperror builds INVALID_REQUEST responses
	"github.com/iliyamo/coffee-shop-auth/internal/service"  // service defines the Profile payload
)

// AdminAPI is the slice of service.UserAdminService used by the HTTP layer.
type AdminAPI interface {
	List(ctx context.Context) ([]service.Profile, error)
	Ban(ctx context.Context, id uint64) (service.Profile, error)
	Unban(ctx context.Context, id uint64) (service.Profile, error)
	UpdateRole(ctx context.Context, id uint64, role string) (service.Profile, error)
}

// AdminHandler serves user management for staff and administrators.
type AdminHandler struct {
	Users AdminAPI // Users performs the state changes
}

func NewAdminHandler(u AdminAPI) *AdminHandler { return &AdminHandler{Users: u} }

type roleReq struct {
	Role string `json:"role"` // ADMIN | STAFF | USER
}

// ListUsers returns all non-admin users.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, users)
}

// Ban disables the user identified by :id.
func (h *AdminHandler) Ban(c echo.Context) error {
	return h.withID(c, h.Users.Ban)
}

// Unban re-enables the user identified by :id.
func (h *AdminHandler) Unban(c echo.Context) error {
	return h.withID(c, h.Users.Unban)
}

// UpdateRole assigns the role from the body to the user identified by :id.
func (h *AdminHandler) UpdateRole(c echo.Context) error {
	var req roleReq
	if err := bind(c, &req); err != nil { // reject malformed JSON early
		return err
	}
	return h.withID(c, func(ctx context.Context, id uint64) (service.Profile, error) {
		return h.Users.UpdateRole(ctx, id, req.Role)
	})
}

func (h *AdminHandler) withID(c echo.Context, fn func(context.Context, uint64) (service.Profile, error)) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64) // parse path id
	if err != nil || id == 0 {
		return apperror.InvalidRequest("invalid user id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := fn(ctx, id)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, p)
}
