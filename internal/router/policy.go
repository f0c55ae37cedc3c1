package router

import (
	"net/http"

	"github.com/iliyamo/coffee-shop-auth/internal/middleware"
	"github.com/iliyamo/coffee-shop-auth/internal/model"
)

// Policy lists every protected route and the roles allowed on it. A nil
// role list admits any authenticated caller. Protected routes missing
// from this table are refused by the gate.
var Policy = middleware.RoutePolicy{
	middleware.Key(http.MethodGet, "/v1/auth/user-details"):      nil,
	middleware.Key(http.MethodPost, "/v1/auth/password"):         nil,
	middleware.Key(http.MethodGet, "/v1/profile"):                nil,
	middleware.Key(http.MethodPut, "/v1/profile"):                nil,
	middleware.Key(http.MethodPost, "/v1/profile/avatar"):        nil,
	middleware.Key(http.MethodGet, "/v1/admin/users"):            {model.RoleAdmin, model.RoleStaff},
	middleware.Key(http.MethodPost, "/v1/admin/users/:id/ban"):   {model.RoleAdmin},
	middleware.Key(http.MethodPost, "/v1/admin/users/:id/unban"): {model.RoleAdmin},
	middleware.Key(http.MethodPut, "/v1/admin/users/:id/role"):   {model.RoleAdmin},
}
