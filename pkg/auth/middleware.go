package auth

import (
	"github.com/labstack/echo/v4"
	"github.com/talesforge/talesforge/pkg/errcodes"
	"github.com/talesforge/talesforge/pkg/users"
)

// Context keys set by Authenticate.
const (
	ContextKeyUserID = users.ContextKeyUserID
	ContextKeyClaims = "session"
)

// Middleware provides authentication middleware.
type Middleware struct {
	authService *Service
}

// NewMiddleware creates a new auth middleware.
func NewMiddleware(authService *Service) *Middleware {
	return &Middleware{
		authService: authService,
	}
}

// Authenticate validates the session cookie and stores its claims in the
// context. It does not touch the database. If not authenticated, it returns
// 401.
func (m *Middleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(CookieName)
		if err != nil || cookie.Value == "" {
			return errcodes.Unauthorized("Authentication required")
		}

		claims, err := m.authService.ValidateToken(cookie.Value)
		if err != nil {
			return errcodes.Unauthorized("Invalid or expired session")
		}

		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyClaims, claims)

		return next(c)
	}
}

// RequireAdmin admits sessions flagged admin straight away. Otherwise it reads
// the user row once, so that a user promoted after signing in is let through
// without a new login. Must be used after Authenticate.
func (m *Middleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := c.Get(ContextKeyClaims).(*JWTClaims)
		if !ok {
			return errcodes.Unauthorized("Authentication required")
		}
		if claims.IsAdmin {
			return next(c)
		}

		user, err := m.authService.GetUserByID(c.Request().Context(), claims.UserID)
		if err != nil {
			if errcodes.IsNotFound(err) {
				return errcodes.Forbidden("Admin access")
			}
			return err
		}
		if !user.IsAdmin {
			return errcodes.Forbidden("Admin access")
		}

		return next(c)
	}
}
