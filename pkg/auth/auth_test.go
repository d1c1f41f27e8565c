package auth

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talesforge/talesforge/pkg/binder"
	"github.com/talesforge/talesforge/pkg/config"
	"github.com/talesforge/talesforge/pkg/errcodes"
	"github.com/talesforge/talesforge/pkg/migrations"
	"github.com/talesforge/talesforge/pkg/models"
	"github.com/talesforge/talesforge/pkg/users"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// newTestServer mounts the auth routes plus an admin-only probe route.
func newTestServer(t *testing.T, db *bun.DB, cfg *config.Config) *echo.Echo {
	t.Helper()

	e := echo.New()
	b, err := binder.New()
	require.NoError(t, err)
	e.Binder = b
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	api := e.Group("/api")
	m := RegisterRoutes(api.Group("/auth"), db, cfg)
	admin := api.Group("/admin", m.Authenticate, m.RequireAdmin)
	admin.GET("/probe", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})
	users.RegisterRoutes(admin, db)
	return e
}

func doRequest(e *echo.Echo, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	e.ServeHTTP(rr, req)
	return rr
}

func sessionCookie(t *testing.T, rr *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	for _, cookie := range rr.Result().Cookies() {
		if cookie.Name == CookieName {
			return cookie
		}
	}
	require.Fail(t, "no session cookie set")
	return nil
}

func tokenCookie(t *testing.T, svc *Service, user *models.User) *http.Cookie {
	t.Helper()

	token, err := svc.GenerateToken(user)
	require.NoError(t, err)
	return &http.Cookie{Name: CookieName, Value: token}
}

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	svc := NewService(nil, "secret", time.Hour)
	token, err := svc.GenerateToken(&models.User{ID: "u-1", IsAdmin: true})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.True(t, claims.IsAdmin)

	other := NewService(nil, "different", time.Hour)
	_, err = other.ValidateToken(token)
	assert.Error(t, err)

	expired := NewService(nil, "secret", -time.Minute)
	token, err = expired.GenerateToken(&models.User{ID: "u-1"})
	require.NoError(t, err)
	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestRequireAdmin(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	e := newTestServer(t, db, config.NewForTest())
	userService := users.NewService(db)
	svc := NewService(userService, "test-secret", time.Hour)
	ctx := context.Background()

	t.Run("no session", func(t *testing.T) {
		rr := doRequest(e, http.MethodGet, "/api/admin/probe", "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		rr := doRequest(e, http.MethodGet, "/api/admin/probe", "", &http.Cookie{Name: CookieName, Value: "nope"})
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("flagged session is admitted without a user row", func(t *testing.T) {
		cookie := tokenCookie(t, svc, &models.User{ID: "not-in-db", IsAdmin: true})
		rr := doRequest(e, http.MethodGet, "/api/admin/probe", "", cookie)
		assert.Equal(t, http.StatusNoContent, rr.Code)
	})

	t.Run("unflagged session promoted since sign in", func(t *testing.T) {
		user, err := userService.Create(ctx, users.CreateUserOptions{Email: "promoted@example.com"})
		require.NoError(t, err)
		cookie := tokenCookie(t, svc, user)

		user.IsAdmin = true
		require.NoError(t, userService.Update(ctx, user, users.UpdateUserOptions{Columns: []string{"is_admin"}}))

		rr := doRequest(e, http.MethodGet, "/api/admin/probe", "", cookie)
		assert.Equal(t, http.StatusNoContent, rr.Code)
	})

	t.Run("unflagged session for a reader", func(t *testing.T) {
		user, err := userService.Create(ctx, users.CreateUserOptions{Email: "reader@example.com"})
		require.NoError(t, err)

		rr := doRequest(e, http.MethodGet, "/api/admin/probe", "", tokenCookie(t, svc, user))
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("unflagged session for a deleted user", func(t *testing.T) {
		rr := doRequest(e, http.MethodGet, "/api/admin/probe", "", tokenCookie(t, svc, &models.User{ID: "gone"}))
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestAdminSessionCannotDemoteItself(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	e := newTestServer(t, db, config.NewForTest())
	userService := users.NewService(db)
	svc := NewService(userService, "test-secret", time.Hour)
	ctx := context.Background()

	self, err := userService.Create(ctx, users.CreateUserOptions{Email: "self@example.com", IsAdmin: true})
	require.NoError(t, err)
	other, err := userService.Create(ctx, users.CreateUserOptions{Email: "other@example.com", IsAdmin: true})
	require.NoError(t, err)
	cookie := tokenCookie(t, svc, self)

	rr := doRequest(e, http.MethodPut, "/api/admin/users/"+self.ID, `{"isAdmin": false}`, cookie)
	assert.Equal(t, http.StatusForbidden, rr.Code, rr.Body.String())

	rr = doRequest(e, http.MethodPut, "/api/admin/users/"+other.ID, `{"isAdmin": false}`, cookie)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	reloaded, err := userService.Retrieve(ctx, other.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsAdmin)
}

func TestDevLoginFlow(t *testing.T) {
	t.Parallel()

	e := newTestServer(t, newTestDB(t), config.NewForTest())

	rr := doRequest(e, http.MethodPost, "/api/auth/dev-login", `{"email": "dev@example.com", "firstName": "Dev", "isAdmin": true}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	cookie := sessionCookie(t, rr)
	assert.True(t, cookie.HttpOnly)

	rr = doRequest(e, http.MethodGet, "/api/auth/user", "", cookie)
	require.Equal(t, http.StatusOK, rr.Code)
	user := models.User{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &user))
	assert.Equal(t, "dev@example.com", user.Email)
	assert.True(t, user.IsAdmin)

	rr = doRequest(e, http.MethodGet, "/api/admin/probe", "", cookie)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = doRequest(e, http.MethodPost, "/api/auth/logout", "")
	require.Equal(t, http.StatusOK, rr.Code)
	cleared := sessionCookie(t, rr)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)

	rr = doRequest(e, http.MethodGet, "/api/auth/user", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestDevLoginDisabled(t *testing.T) {
	t.Parallel()

	cfg := config.NewForTest()
	cfg.DevLoginEnabled = false
	e := newTestServer(t, newTestDB(t), cfg)

	rr := doRequest(e, http.MethodPost, "/api/auth/dev-login", `{"email": "dev@example.com"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestPasswordLogin(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	_, err := users.NewService(db).Create(context.Background(), users.CreateUserOptions{
		Email:    "admin@example.com",
		Password: "correct horse battery",
		IsAdmin:  true,
	})
	require.NoError(t, err)

	e := newTestServer(t, db, config.NewForTest())

	rr := doRequest(e, http.MethodPost, "/api/auth/login", `{"email": "admin@example.com", "password": "wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = doRequest(e, http.MethodPost, "/api/auth/login", `{"email": "admin@example.com", "password": "correct horse battery"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.NotContains(t, rr.Body.String(), "passwordHash")

	rr = doRequest(e, http.MethodGet, "/api/admin/probe", "", sessionCookie(t, rr))
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestPasswordLoginRateLimited(t *testing.T) {
	t.Parallel()

	cfg := config.NewForTest()
	cfg.LoginRateLimit = 2
	e := newTestServer(t, newTestDB(t), cfg)

	body := `{"email": "nobody@example.com", "password": "x"}`
	for i := 0; i < 2; i++ {
		rr := doRequest(e, http.MethodPost, "/api/auth/login", body)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	}

	rr := doRequest(e, http.MethodPost, "/api/auth/login", body)
	require.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Contains(t, rr.Body.String(), "too_many_requests")
}
