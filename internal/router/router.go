package router // package router defines how HTTP routes are registered for the API

import (
	"net"

	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/coffee-shop-auth/internal/config"
	"github.com/iliyamo/coffee-shop-auth/internal/handler"    // handlers that implement each endpoint
	"github.com/iliyamo/coffee-shop-auth/internal/metrics"
	"github.com/iliyamo/coffee-shop-auth/internal/middleware" // JWT authentication and role enforcement
)

// Deps carries everything the route table needs. Redis may be nil, in which
// case rate limiting and response caching are skipped.
type Deps struct {
	Auth          *handler.AuthHandler
	Resets        *handler.PasswordResetHandler
	Admin         *handler.AdminHandler
	Authenticator middleware.Authenticator
	DB            handler.Pinger
	Metrics       *metrics.Metrics
	Redis         *redis.Client
	RateLimit     config.RateLimit
	Cache         config.Cache
	Log           logrus.FieldLogger

	// TrustedProxies are the only peers whose X-Forwarded-For is believed.
	TrustedProxies []*net.IPNet
}

// RegisterRoutes installs the error handler and the full route table on e.
func RegisterRoutes(e *echo.Echo, d Deps) {
	e.HTTPErrorHandler = handler.ErrorHandler(d.Log)
	e.IPExtractor = IPExtractor(d.TrustedProxies)
	e.Use(middleware.RequestLogger(d.Log, d.Metrics))

	// liveness and scrape endpoints stay outside every group
	e.GET("/healthz", handler.Health(d.DB))
	if d.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(d.Metrics.Handler()))
	}

	registerPublic(e, d)
	registerProtected(e, d)
}

// IPExtractor decides the client address used for rate-limit keys. Without
// trusted proxies the socket peer is used and forwarding headers are ignored.
func IPExtractor(trusted []*net.IPNet) echo.IPExtractor {
	if len(trusted) == 0 {
		return echo.ExtractIPDirect()
	}
	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, n := range trusted {
		opts = append(opts, echo.TrustIPRange(n))
	}
	return echo.ExtractIPFromXFFHeader(opts...)
}

// registerPublic maps the unauthenticated endpoints. Credential endpoints
// share a token bucket; the role list is served from the response cache.
func registerPublic(e *echo.Echo, d Deps) {
	limit := middleware.NewTokenBucket(d.RateLimit, d.Redis, d.Metrics, d.Log)

	g := e.Group("/v1/auth")
	g.POST("/login", d.Auth.Login, limit)
	g.POST("/register", d.Auth.Register, limit)
	g.POST("/refresh-token", d.Auth.RefreshToken)
	g.POST("/forgot-password", d.Resets.Forgot, limit)
	g.POST("/reset-password", d.Resets.Reset, limit)

	e.GET("/v1/roles", d.Auth.Roles, middleware.NewRedisCache(d.Cache, d.Redis, d.Metrics))
}

// registerProtected maps routes that need a valid access token. Every route
// here must have an entry in Policy. The gate is attached per route rather
// than per group so unknown paths still answer 404.
func registerProtected(e *echo.Echo, d Deps) {
	gate := []echo.MiddlewareFunc{
		middleware.JWTAuth(d.Authenticator, d.Metrics),
		middleware.EnforcePolicy(Policy),
	}

	auth := e.Group("/v1/auth")
	auth.GET("/user-details", d.Auth.UserDetails, gate...)
	auth.POST("/password", d.Auth.ChangePassword, gate...)

	profile := e.Group("/v1/profile")
	profile.GET("", d.Auth.GetProfile, gate...)
	profile.PUT("", d.Auth.UpdateProfile, gate...)
	profile.POST("/avatar", d.Auth.UploadAvatar, gate...)

	admin := e.Group("/v1/admin")
	admin.GET("/users", d.Admin.ListUsers, gate...)
	admin.POST("/users/:id/ban", d.Admin.Ban, gate...)
	admin.POST("/users/:id/unban", d.Admin.Unban, gate...)
	admin.PUT("/users/:id/role", d.Admin.UpdateRole, gate...)
}
