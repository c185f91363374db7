package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ollama-chat-api/internal/handler"
)

// Middlewares carries the cross-cutting middleware the routes need. Auth
// is mandatory; RateLimit and Cache may be pass-throughs when Redis is
// not configured.
type Middlewares struct {
	Auth      echo.MiddlewareFunc // bearer token -> active user
	RateLimit echo.MiddlewareFunc // credential endpoint protection
	Cache     echo.MiddlewareFunc // per-user GET response cache
}

// Register wires every route of the API onto the provided Echo instance.
// Unauthenticated surface: the base routes and the credential endpoints.
// Everything else runs behind the authorization chain.
func Register(e *echo.Echo, auth *handler.AuthHandler, assistants *handler.AssistantHandler, conversations *handler.ConversationHandler, chat *handler.ChatHandler, mw Middlewares) {
	// Base routes, no authentication.
	e.GET("/", handler.Root)
	e.GET("/ping", handler.Ping)
	e.GET("/healthz", handler.Health)

	// Credential endpoints live under /auth and are rate limited to slow
	// down brute-force attempts. /auth/users/me is the one bearer-only
	// route in the group.
	g := e.Group("/auth", mw.RateLimit)
	g.POST("/token", auth.Token)
	g.POST("/register", auth.Register)
	g.GET("/users/me", auth.Me, mw.Auth)

	// Protected surface: every route below resolves the bearer token to
	// an active user before the handler runs.
	p := e.Group("", mw.Auth)

	p.GET("/assistants", assistants.List, mw.Cache)
	p.POST("/assistant", assistants.Create)
	p.PUT("/assistant/:id", assistants.Update)
	p.DELETE("/assistant/:id", assistants.Delete)

	p.GET("/conversations", conversations.List, mw.Cache)
	p.GET("/conversation/:id", conversations.Get)
	p.POST("/conversation", conversations.Create)
	p.DELETE("/conversation/:id", conversations.Delete)

	p.POST("/chat", chat.Chat)
	p.POST("/generate", chat.Generate)
}
