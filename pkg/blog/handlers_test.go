package blog

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talesforge/talesforge/pkg/binder"
	"github.com/talesforge/talesforge/pkg/errcodes"
	"github.com/talesforge/talesforge/pkg/migrations"
	"github.com/talesforge/talesforge/pkg/models"
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

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	e := echo.New()
	b, err := binder.New()
	require.NoError(t, err)
	e.Binder = b
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	api := e.Group("/api")
	RegisterRoutes(api, api.Group("/admin"), newTestDB(t), nil)
	return e
}

func doRequest(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rr := httptest.NewRecorder()
	e.ServeHTTP(rr, req)
	return rr
}

func createPost(t *testing.T, e *echo.Echo, body string) *models.BlogPost {
	t.Helper()

	rr := doRequest(e, http.MethodPost, "/api/admin/blog", body)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	post := &models.BlogPost{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), post))
	return post
}

func TestListPosts_NewestFirstWithCategory(t *testing.T) {
	t.Parallel()

	e := newTestServer(t)

	createPost(t, e, `{"data": {"title": "Old News", "content": "c", "excerpt": "e", "category": "updates", "publishedAt": "2024-01-01T00:00:00Z"}}`)
	createPost(t, e, `{"data": {"title": "Fresh News", "content": "c", "excerpt": "e", "category": "Updates", "publishedAt": "2025-01-01T00:00:00Z"}}`)
	createPost(t, e, `{"data": {"title": "Behind the Scenes", "content": "c", "excerpt": "e", "category": "craft", "publishedAt": "2024-06-01T00:00:00Z"}}`)

	rr := doRequest(e, http.MethodGet, "/api/blog", "")
	require.Equal(t, http.StatusOK, rr.Code)
	posts := []*models.BlogPost{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &posts))
	require.Len(t, posts, 3)
	assert.Equal(t, "Fresh News", posts[0].Title)
	assert.Equal(t, "Behind the Scenes", posts[1].Title)
	assert.Equal(t, "Old News", posts[2].Title)

	rr = doRequest(e, http.MethodGet, "/api/blog?category=updates", "")
	require.Equal(t, http.StatusOK, rr.Code)
	posts = []*models.BlogPost{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &posts))
	assert.Len(t, posts, 2)

	rr = doRequest(e, http.MethodGet, "/api/blog?category=%20Updates", "")
	require.Equal(t, http.StatusOK, rr.Code)
	posts = []*models.BlogPost{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &posts))
	assert.Len(t, posts, 2)

	rr = doRequest(e, http.MethodGet, "/api/blog?sort=asc", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCreatePost_ExplicitSlug(t *testing.T) {
	t.Parallel()

	e := newTestServer(t)

	first := createPost(t, e, `{"data": {"title": "Launch Day", "slug": "launch", "content": "c", "excerpt": "e", "category": "updates"}}`)
	second := createPost(t, e, `{"data": {"title": "Another Launch", "slug": "launch", "content": "c", "excerpt": "e", "category": "updates"}}`)
	assert.Equal(t, "launch", first.Slug)
	assert.Equal(t, "launch-2", second.Slug)

	rr := doRequest(e, http.MethodPost, "/api/admin/blog", `{"data": {"title": "Bad", "slug": "Not A Slug!", "content": "c", "excerpt": "e", "category": "x"}}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), `"path":"data.slug"`)

	rr = doRequest(e, http.MethodGet, "/api/blog/launch-2", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Another Launch")
}

func TestUpdateAndDeletePost(t *testing.T) {
	t.Parallel()

	e := newTestServer(t)
	post := createPost(t, e, `{"data": {"title": "Draft", "content": "c", "excerpt": "e", "category": "updates"}}`)
	path := "/api/admin/blog/" + strconv.Itoa(post.ID)

	rr := doRequest(e, http.MethodPut, path, `{"data": {"title": "Final", "slug": "final"}, "translations": {"fr": {"content": "contenu"}}}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	updated := models.BlogPost{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
	assert.Equal(t, "Final", updated.Title)
	assert.Equal(t, "final", updated.Slug)
	assert.Equal(t, "contenu", updated.ContentI18n["fr"])

	rr = doRequest(e, http.MethodGet, "/api/blog/draft", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doRequest(e, http.MethodDelete, path, "")
	require.Equal(t, http.StatusOK, rr.Code)
	rr = doRequest(e, http.MethodDelete, "/api/admin/blog/12345", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
