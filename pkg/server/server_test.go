package server

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talesforge/talesforge/pkg/config"
	"github.com/talesforge/talesforge/pkg/fallback"
	"github.com/talesforge/talesforge/pkg/migrations"
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

// newTestHandler builds the full server. New sets echo's package level
// NotFoundHandler, so tests using it do not run in parallel.
func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	cfg := config.NewForTest()
	cfg.UploadDir = t.TempDir()
	cfg.FallbackDir = t.TempDir()
	db := newTestDB(t)
	reader := fallback.NewReader(fallback.NewStore(cfg.FallbackDir), fallback.ReaderOptions{})

	srv, err := New(cfg, db, reader)
	require.NoError(t, err)
	return srv.Handler
}

func do(h http.Handler, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestOperationalRoutes(t *testing.T) {
	h := newTestHandler(t)

	rr := do(h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = do(h, http.MethodGet, "/api/config", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"environment": "test", "devLoginEnabled": true, "uploadMaxBytes": 10485760}`, rr.Body.String())

	rr = do(h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "http_requests_total")
}

func TestUnknownRouteIsJSON404(t *testing.T) {
	h := newTestHandler(t)

	rr := do(h, http.MethodGet, "/api/nothing-here", "")
	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), `"code":"not_found"`)
}

func TestAdminRoutesRequireSession(t *testing.T) {
	h := newTestHandler(t)

	rr := do(h, http.MethodPost, "/api/admin/chapters", `{"data": {}}`)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = do(h, http.MethodGet, "/api/admin/users", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = do(h, http.MethodPost, "/api/auth/dev-login", `{"email": "reader@example.com"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	cookies := rr.Result().Cookies()
	require.NotEmpty(t, cookies)

	rr = do(h, http.MethodGet, "/api/admin/users", "", cookies...)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestAdminCreatesContentEndToEnd(t *testing.T) {
	h := newTestHandler(t)

	rr := do(h, http.MethodPost, "/api/auth/dev-login", `{"email": "admin@example.com", "isAdmin": true}`)
	require.Equal(t, http.StatusOK, rr.Code)
	cookies := rr.Result().Cookies()

	rr = do(h, http.MethodPost, "/api/admin/chapters", `{
		"data": {"title": "Prologue", "content": "It began.", "excerpt": "It began.", "chapterNumber": 1}
	}`, cookies...)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	created := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, "prologue", created["slug"])

	rr = do(h, http.MethodGet, "/api/chapters/prologue", "")
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(h, http.MethodPut, "/api/reading-progress", `{"sessionId": "anon-1", "chapterId": 1, "progress": 55}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = do(h, http.MethodGet, "/api/admin/users", "", cookies...)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "admin@example.com")
}

func TestTestRoutesOnlyInTestEnvironment(t *testing.T) {
	h := newTestHandler(t)
	rr := do(h, http.MethodDelete, "/test/data", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)

	cfg := config.NewForTest()
	cfg.Environment = config.EnvironmentProduction
	cfg.UploadDir = t.TempDir()
	srv, err := New(cfg, newTestDB(t), nil)
	require.NoError(t, err)

	rr = do(srv.Handler, http.MethodDelete, "/test/data", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCORSConfig(t *testing.T) {
	t.Parallel()

	wildcard := corsConfig([]string{"*"})
	assert.Equal(t, []string{"*"}, wildcard.AllowOrigins)
	assert.False(t, wildcard.AllowCredentials)

	explicit := corsConfig([]string{"https://talesforge.example"})
	assert.Equal(t, []string{"https://talesforge.example"}, explicit.AllowOrigins)
	assert.True(t, explicit.AllowCredentials)
}

func TestExporters(t *testing.T) {
	t.Parallel()

	store := fallback.NewStore(t.TempDir())
	require.NoError(t, fallback.ExportAll(context.Background(), store, Exporters(newTestDB(t))...))

	for _, collection := range []string{
		fallback.CollectionChapters,
		fallback.CollectionCharacters,
		fallback.CollectionLocations,
		fallback.CollectionCodex,
		fallback.CollectionBlog,
	} {
		items, err := fallback.LoadList[map[string]interface{}](store, collection)
		require.NoError(t, err, collection)
		assert.Empty(t, items, collection)
	}
}
