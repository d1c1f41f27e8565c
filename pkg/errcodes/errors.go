package errcodes

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// Issue points at a single invalid field of a request payload.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

type Error struct {
	HTTPCode int
	Message  string
	Code     string
	Issues   []Issue
}

func (err *Error) Error() string {
	return err.Message
}

func (err *Error) As(target interface{}) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	te.HTTPCode = err.HTTPCode
	te.Message = err.Message
	te.Code = err.Code
	te.Issues = err.Issues
	return true
}

// Is compares status, message and code. Issues are ignored so that callers
// can match on errcodes.NotFound("Chapter") and friends.
func (err *Error) Is(target error) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	return te.HTTPCode == err.HTTPCode &&
		te.Message == err.Message &&
		te.Code == err.Code
}

// IsNotFound reports whether err carries a 404.
func IsNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.HTTPCode == http.StatusNotFound
}

// Unauthorized returns a 401 error for requests without a usable session.
func Unauthorized(msg string) error {
	return &Error{
		HTTPCode: http.StatusUnauthorized,
		Message:  msg,
		Code:     "unauthorized",
	}
}

// Forbidden returns a 403 error with a message indicating the action is
// forbidden.
func Forbidden(action string) error {
	return &Error{
		HTTPCode: http.StatusForbidden,
		Message:  action + " is not allowed.",
		Code:     "forbidden",
	}
}

// NotFound returns a 404 error with a message indicating the given resource.
func NotFound(resource string) error {
	return &Error{
		HTTPCode: http.StatusNotFound,
		Message:  resource + " not found.",
		Code:     "not_found",
	}
}

func UnsupportedMediaType() error {
	return &Error{
		HTTPCode: http.StatusUnsupportedMediaType,
		Message:  "Unsupported Media Type",
		Code:     "unsupported_media_type",
	}
}

func PayloadTooLarge(limit int64) error {
	return &Error{
		HTTPCode: http.StatusRequestEntityTooLarge,
		Message:  fmt.Sprintf("Payload exceeds the limit of %d bytes", limit),
		Code:     "payload_too_large",
	}
}

func UnknownParameter(param string) error {
	msg := fmt.Sprintf("Unknown Parameter %q", param)
	return &Error{
		HTTPCode: http.StatusBadRequest,
		Message:  msg,
		Code:     "unknown_parameter",
		Issues:   []Issue{{Path: param, Message: msg}},
	}
}

func ValidationTypeError(msg string) error {
	return &Error{
		HTTPCode: http.StatusBadRequest,
		Message:  msg,
		Code:     "validation_type_error",
		Issues:   []Issue{{Message: msg}},
	}
}

// ValidationError returns a 400 error for a single invalid value.
func ValidationError(msg string) error {
	return &Error{
		HTTPCode: http.StatusBadRequest,
		Message:  msg,
		Code:     "validation_error",
		Issues:   []Issue{{Message: msg}},
	}
}

// ValidationIssues returns a 400 error listing every invalid field. The
// message is taken from the first issue.
func ValidationIssues(issues []Issue) error {
	msg := "Validation failed"
	if len(issues) > 0 {
		msg = issues[0].Message
	}
	return &Error{
		HTTPCode: http.StatusBadRequest,
		Message:  msg,
		Code:     "validation_error",
		Issues:   issues,
	}
}

func MalformedPayload() error {
	return &Error{
		HTTPCode: http.StatusBadRequest,
		Message:  "Malformed Payload",
		Code:     "malformed_payload",
	}
}

func EmptyRequestBody() error {
	return &Error{
		HTTPCode: http.StatusBadRequest,
		Message:  "Request body can't be empty.",
		Code:     "empty_request_body",
	}
}
