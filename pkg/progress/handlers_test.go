package progress

import (
	"context"
	"database/sql"
	"math"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

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

func insertChapter(t *testing.T, db *bun.DB, slug string, number int) *models.Chapter {
	t.Helper()

	now := time.Now()
	chapter := &models.Chapter{
		CreatedAt:     now,
		UpdatedAt:     now,
		Title:         slug,
		Slug:          slug,
		Content:       "c",
		Excerpt:       "e",
		ChapterNumber: number,
		PublishedAt:   now,
	}
	_, err := db.NewInsert().Model(chapter).Returning("*").Exec(context.Background())
	require.NoError(t, err)
	return chapter
}

func newTestServer(t *testing.T, db *bun.DB) *echo.Echo {
	t.Helper()

	e := echo.New()
	b, err := binder.New()
	require.NoError(t, err)
	e.Binder = b
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	RegisterRoutes(e.Group("/api"), db)
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

func TestClamp(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, Clamp(-5))
	assert.Equal(t, 0, Clamp(math.NaN()))
	assert.Equal(t, 43, Clamp(42.6))
	assert.Equal(t, 100, Clamp(100))
	assert.Equal(t, 100, Clamp(250))
}

func TestUpsertProgress_Idempotent(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	chapter := insertChapter(t, db, "one", 1)
	e := newTestServer(t, db)
	body := `{"sessionId": "sess-abc", "chapterId": ` + strconv.Itoa(chapter.ID) + `, "progress": 40}`

	for i := 0; i < 3; i++ {
		rr := doRequest(e, http.MethodPut, "/api/reading-progress", body)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	}

	count, err := db.NewSelect().Model((*models.ReadingProgress)(nil)).Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	rr := doRequest(e, http.MethodPut, "/api/reading-progress",
		`{"sessionId": "sess-abc", "chapterId": `+strconv.Itoa(chapter.ID)+`, "progress": 180}`)
	require.Equal(t, http.StatusOK, rr.Code)
	rp := models.ReadingProgress{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rp))
	assert.Equal(t, 100, rp.Progress)

	rr = doRequest(e, http.MethodGet, "/api/reading-progress/sess-abc/"+strconv.Itoa(chapter.ID), "")
	require.Equal(t, http.StatusOK, rr.Code)
	fetched := models.ReadingProgress{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &fetched))
	assert.Equal(t, 100, fetched.Progress)
	assert.Equal(t, "sess-abc", fetched.SessionID)
}

func TestUpsertProgress_UnknownChapter(t *testing.T) {
	t.Parallel()

	e := newTestServer(t, newTestDB(t))

	rr := doRequest(e, http.MethodPut, "/api/reading-progress", `{"sessionId": "s", "chapterId": 77, "progress": 10}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestUpsertProgress_Validation(t *testing.T) {
	t.Parallel()

	e := newTestServer(t, newTestDB(t))

	rr := doRequest(e, http.MethodPut, "/api/reading-progress", `{"chapterId": 1}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `"path":"sessionId"`)
	assert.Contains(t, body, `"path":"progress"`)
}

func TestListProgress(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	one := insertChapter(t, db, "one", 1)
	two := insertChapter(t, db, "two", 2)
	svc := NewService(db)
	ctx := context.Background()

	earlier := time.Now().Add(-time.Hour)
	require.NoError(t, svc.UpsertProgress(ctx, &models.ReadingProgress{SessionID: "a", ChapterID: one.ID, Progress: 100, LastReadAt: earlier}))
	require.NoError(t, svc.UpsertProgress(ctx, &models.ReadingProgress{SessionID: "a", ChapterID: two.ID, Progress: 20}))
	require.NoError(t, svc.UpsertProgress(ctx, &models.ReadingProgress{SessionID: "b", ChapterID: one.ID, Progress: 5}))

	e := newTestServer(t, db)
	rr := doRequest(e, http.MethodGet, "/api/reading-progress/a", "")
	require.Equal(t, http.StatusOK, rr.Code)
	rows := []*models.ReadingProgress{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, two.ID, rows[0].ChapterID)
	assert.Equal(t, one.ID, rows[1].ChapterID)

	rr = doRequest(e, http.MethodGet, "/api/reading-progress/nobody", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())

	rr = doRequest(e, http.MethodGet, "/api/reading-progress/a/999", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
