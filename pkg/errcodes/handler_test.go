package errcodes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type errorBody struct {
	Error struct {
		Code       string  `json:"code"`
		Message    string  `json:"message"`
		StatusCode int     `json:"statusCode"`
		Issues     []Issue `json:"issues"`
	} `json:"error"`
}

func handle(t *testing.T, err error) (*httptest.ResponseRecorder, errorBody) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	c := e.NewContext(req, rr)

	NewHandler().Handle(err, c)

	var body errorBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return rr, body
}

func TestHandle_NotFound(t *testing.T) {
	t.Parallel()

	rr, body := handle(t, errors.WithStack(NotFound("Chapter")))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "not_found", body.Error.Code)
	assert.Equal(t, "Chapter not found.", body.Error.Message)
	assert.Equal(t, http.StatusNotFound, body.Error.StatusCode)
	assert.Empty(t, body.Error.Issues)
}

func TestHandle_ValidationIssues(t *testing.T) {
	t.Parallel()

	err := ValidationIssues([]Issue{
		{Path: "data.title", Message: `"title" is required`},
		{Path: "data.slug", Message: `"slug" is required`},
	})
	rr, body := handle(t, err)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "validation_error", body.Error.Code)
	assert.Equal(t, `"title" is required`, body.Error.Message)
	require.Len(t, body.Error.Issues, 2)
	assert.Equal(t, "data.slug", body.Error.Issues[1].Path)
}

func TestHandle_GenericErrorIsInternal(t *testing.T) {
	t.Parallel()

	rr, body := handle(t, errors.New("disk on fire"))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "internal_server_error", body.Error.Code)
	assert.Equal(t, "Internal Server Error", body.Error.Message)
}

func TestHandle_EchoHTTPError(t *testing.T) {
	t.Parallel()

	rr, body := handle(t, echo.NewHTTPError(http.StatusMethodNotAllowed, "Method Not Allowed"))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, "method_not_allowed", body.Error.Code)
}

func TestErrorIs_IgnoresIssues(t *testing.T) {
	t.Parallel()

	err := errors.WithStack(NotFound("Location"))
	assert.True(t, errors.Is(err, NotFound("Location")))
	assert.False(t, errors.Is(err, NotFound("Chapter")))
}

func TestIsNotFound(t *testing.T) {
	t.Parallel()

	assert.True(t, IsNotFound(errors.WithStack(NotFound("User"))))
	assert.False(t, IsNotFound(Forbidden("Admin access")))
	assert.False(t, IsNotFound(errors.New("boom")))
}
