package errcodes

import (
	"fmt"
	"net/http"

	"github.com/iancoleman/strcase"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/errutils"
)

// Body is the JSON error envelope every failed request receives.
type Body struct {
	Error BodyError `json:"error"`
}

type BodyError struct {
	Code       string  `json:"code"`
	Message    string  `json:"message"`
	StatusCode int     `json:"statusCode"`
	Issues     []Issue `json:"issues,omitempty"`
}

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// Handle is an echo error handler. Echo HTTP errors and *Error values keep
// their status; anything else is a 500 whose details only go to the log.
func (h *Handler) Handle(err error, c echo.Context) {
	log := logger.FromEchoContext(c)

	if errutils.IsIgnorableErr(err) {
		log.Err(err).Warn("broken pipe")
		return
	}
	if c.Response().Committed {
		log.Err(err).Error("error after response was committed")
		return
	}

	body := toBody(err)
	if body.Error.StatusCode == http.StatusInternalServerError {
		log.Err(err).Error("server error")
	}

	if err := c.JSON(body.Error.StatusCode, body); err != nil {
		log.Err(errors.WithStack(err)).Error("error handler json error")
	}
}

func toBody(err error) Body {
	out := BodyError{StatusCode: http.StatusInternalServerError}

	var e *Error
	var he *echo.HTTPError
	switch {
	case errors.As(err, &e):
		out.StatusCode = e.HTTPCode
		out.Code = e.Code
		out.Message = e.Message
		out.Issues = e.Issues
	case errors.As(err, &he):
		out.StatusCode = he.Code
		out.Message = fmt.Sprint(he.Message)
		out.Code = strcase.ToSnake(out.Message)
	}

	if out.StatusCode == http.StatusInternalServerError && out.Message == "" {
		out.Code = "internal_server_error"
		out.Message = "Internal Server Error"
	}

	return Body{Error: out}
}
