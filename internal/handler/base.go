package handler // handler defines HTTP handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Root answers the unauthenticated index route.
func Root(c echo.Context) error {
	return respond(c, http.StatusOK, "Hello World", nil)
}

// Ping is a trivial liveness probe for clients.
func Ping(c echo.Context) error {
	return respond(c, http.StatusOK, "pong", nil)
}

// Health is a plain-text health check used by load balancers and
// monitoring systems to verify that the service is running.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
