package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/talesforge/talesforge/pkg/errcodes"
	"github.com/talesforge/talesforge/pkg/models"
)

// CookieName is the name of the session cookie.
const CookieName = "talesforge_session"

type handler struct {
	authService     *Service
	devLoginEnabled bool
}

func (h *handler) setSessionCookie(c echo.Context, user *models.User) error {
	token, err := h.authService.GenerateToken(user)
	if err != nil {
		return errors.WithStack(err)
	}

	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.authService.sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   isSecureRequest(c),
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func isSecureRequest(c echo.Context) bool {
	return c.Request().TLS != nil || c.Request().Header.Get("X-Forwarded-Proto") == "https"
}

// login handles email and password login.
func (h *handler) login(c echo.Context) error {
	ctx := c.Request().Context()

	params := LoginPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	user, err := h.authService.Authenticate(ctx, params.Email, params.Password)
	if err != nil {
		return err
	}

	if err := h.setSessionCookie(c, user); err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusOK, user))
}

// devLogin signs in without a password. The route answers 404 unless dev
// login is enabled.
func (h *handler) devLogin(c echo.Context) error {
	ctx := c.Request().Context()

	if !h.devLoginEnabled {
		return echo.ErrNotFound
	}

	params := DevLoginPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	user, err := h.authService.DevLogin(ctx, params)
	if err != nil {
		return errors.WithStack(err)
	}

	if err := h.setSessionCookie(c, user); err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusOK, user))
}

// logout clears the session cookie.
func (h *handler) logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   isSecureRequest(c),
		SameSite: http.SameSiteLaxMode,
	})

	return errors.WithStack(c.JSON(http.StatusOK, map[string]bool{"success": true}))
}

// user returns the session user. Runs behind Authenticate.
func (h *handler) user(c echo.Context) error {
	ctx := c.Request().Context()

	userID, _ := c.Get(ContextKeyUserID).(string)
	user, err := h.authService.GetUserByID(ctx, userID)
	if err != nil {
		if errcodes.IsNotFound(err) {
			return errcodes.Unauthorized("User not found")
		}
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, user))
}
