package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ollama-chat-api/internal/config"
	"github.com/iliyamo/ollama-chat-api/internal/middleware"
	"github.com/iliyamo/ollama-chat-api/internal/model"
	"github.com/iliyamo/ollama-chat-api/internal/repository"
	"github.com/iliyamo/ollama-chat-api/internal/utils"
)

// UserStore is the slice of the user repository the auth endpoints need.
type UserStore interface {
	GetByName(ctx context.Context, name string) (*model.User, error)
	Create(ctx context.Context, u *model.User) error
}

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users UserStore
}

func NewAuthHandler(cfg config.Config, users UserStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users}
}

// ----- DTOs -----

type registerReq struct {
	Username string  `json:"username"`
	Password string  `json:"password"`
	Email    *string `json:"email"`
}

type tokenData struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Token handles POST /auth/token. Credentials arrive as form fields
// (username, password); on success the response carries a signed bearer
// token whose subject is the username. Unknown user and wrong password
// produce the identical 401 so the endpoint cannot be used as a username
// oracle.
func (h *AuthHandler) Token(c echo.Context) error {
	username := strings.TrimSpace(c.FormValue("username"))
	password := c.FormValue("password")
	if username == "" || password == "" {
		return fail(c, http.StatusUnauthorized, "Incorrect username or password")
	}

	u, err := h.Users.GetByName(c.Request().Context(), username)
	if err != nil {
		return err
	}
	if u == nil || !utils.VerifyPassword(u.HashedPassword, password) {
		return fail(c, http.StatusUnauthorized, "Incorrect username or password")
	}

	ttl := time.Duration(h.Cfg.AccessTTLMin) * time.Minute
	access, err := utils.NewAccessToken(h.Cfg.SecretKey, h.Cfg.Algorithm, u.Name, ttl)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Token created successfully",
		tokenData{AccessToken: access.Token, TokenType: "bearer"})
}

// Register handles POST /auth/register. The password is hashed before it
// reaches the repository; a taken username yields a 400.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusUnprocessableEntity, "invalid request body")
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return fail(c, http.StatusUnprocessableEntity, "username and password are required")
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email == "" {
			req.Email = nil
		} else {
			req.Email = &email
		}
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return err
	}
	u := &model.User{Name: req.Username, Email: req.Email, HashedPassword: hash}
	if err := h.Users.Create(c.Request().Context(), u); err != nil {
		if err == repository.ErrNameExists {
			return fail(c, http.StatusBadRequest, "Username already taken")
		}
		return err
	}
	return respond(c, http.StatusCreated, "User registered successfully", u.Public())
}

// Me handles GET /auth/users/me and returns the authenticated user's
// public projection.
func (h *AuthHandler) Me(c echo.Context) error {
	u := middleware.CurrentUser(c)
	if u == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, middleware.CredentialsDetail)
	}
	return respond(c, http.StatusOK, "User fetched successfully", u.Public())
}
