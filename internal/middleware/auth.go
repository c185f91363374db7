package middleware // middleware provides reusable HTTP middleware functions

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ollama-chat-api/internal/model"
	"github.com/iliyamo/ollama-chat-api/internal/utils"
)

// UserContextKey is where the authenticated user record is stored on the
// request context for downstream handlers.
const UserContextKey = "user"

// CredentialsDetail is the single detail string for every authentication
// rejection. Missing token, bad signature, expired token and unknown
// subject are deliberately indistinguishable to the caller.
const CredentialsDetail = "Could not validate credentials"

// UserLoader is the slice of the user repository this middleware needs.
type UserLoader interface {
	GetByName(ctx context.Context, name string) (*model.User, error)
}

// Auth returns an Echo middleware implementing the full authorization
// chain: it extracts the bearer token, verifies it, resolves the subject
// to a user record, rejects disabled accounts and stores the user under
// UserContextKey. Rejections are returned as *echo.HTTPError so the
// global error handler shapes them into the uniform error envelope. The
// chain is stateless across requests and performs no writes.
func Auth(secret, alg string, users UserLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return echo.NewHTTPError(http.StatusUnauthorized, CredentialsDetail)
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			sub, err := utils.VerifyToken(secret, alg, raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, CredentialsDetail)
			}

			u, err := users.GetByName(c.Request().Context(), sub)
			if err != nil {
				return err
			}
			if u == nil {
				// Token subject no longer resolves to a user; same
				// rejection shape as a bad token.
				return echo.NewHTTPError(http.StatusUnauthorized, CredentialsDetail)
			}
			if u.Disabled {
				return echo.NewHTTPError(http.StatusBadRequest, "Inactive user")
			}

			c.Set(UserContextKey, u)
			return next(c)
		}
	}
}

// CurrentUser returns the authenticated user stored by Auth, or nil when
// the route was not protected.
func CurrentUser(c echo.Context) *model.User {
	u, _ := c.Get(UserContextKey).(*model.User)
	return u
}
