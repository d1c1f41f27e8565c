package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	"github.com/labstack/echo/v4"
	"github.com/segmentio/encoding/json"
	"github.com/talesforge/talesforge/pkg/config"
	"github.com/talesforge/talesforge/pkg/users"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers the auth routes on g (mounted at /api/auth) and
// returns the middleware guarding the rest of the API.
func RegisterRoutes(g *echo.Group, db *bun.DB, cfg *config.Config) *Middleware {
	authService := NewService(users.NewService(db), cfg.JWTSecret, cfg.SessionTTL)
	m := NewMiddleware(authService)

	h := &handler{
		authService:     authService,
		devLoginEnabled: cfg.DevLoginEnabled,
	}

	g.POST("/login", h.login, loginRateLimit(cfg.LoginRateLimit))
	g.POST("/dev-login", h.devLogin)
	g.POST("/logout", h.logout)
	g.GET("/user", h.user, m.Authenticate)

	return m
}

// loginRateLimit limits login attempts per client IP per minute. A limit of
// zero disables it.
func loginRateLimit(perMinute int) echo.MiddlewareFunc {
	if perMinute <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return echo.WrapMiddleware(httprate.Limit(
		perMinute,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSONCharsetUTF8)
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"error": map[string]interface{}{
					"code":       "too_many_requests",
					"message":    "Too many login attempts. Try again later.",
					"statusCode": http.StatusTooManyRequests,
				},
			})
		}),
	))
}
