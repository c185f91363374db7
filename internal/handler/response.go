package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Envelope status values. Every endpoint answers with exactly one of the
// two envelope shapes below.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// APIResponse is the uniform success envelope.
type APIResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// APIError is the uniform error envelope. StatusCode repeats the HTTP
// status so clients reading only the body still see it.
type APIError struct {
	Status     string `json:"status"`
	StatusCode int    `json:"status_code"`
	Detail     string `json:"detail"`
}

func respond(c echo.Context, code int, message string, data any) error {
	return c.JSON(code, APIResponse{Status: StatusSuccess, Message: message, Data: data})
}

func fail(c echo.Context, code int, detail string) error {
	return c.JSON(code, APIError{Status: StatusError, StatusCode: code, Detail: detail})
}

// ErrorHandler converts every error escaping a handler or middleware into
// an error envelope. Known *echo.HTTPError values (auth rejections,
// routing 404s, method 405s) keep their status code and message; anything
// else is an unhandled error: it is logged with the error's type and
// message and answered as a 500 envelope, and the process keeps serving
// other requests.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		_ = fail(c, he.Code, fmt.Sprintf("%v", he.Message))
		return
	}

	c.Logger().Errorf("unhandled error on %s %s: (%T) %v",
		c.Request().Method, c.Request().URL.Path, err, err)
	_ = fail(c, http.StatusInternalServerError,
		fmt.Sprintf("(%T) An error occurred: %v", err, err))
}
