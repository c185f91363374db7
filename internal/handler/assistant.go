package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ollama-chat-api/internal/middleware"
	"github.com/iliyamo/ollama-chat-api/internal/model"
)

// AssistantStore is the slice of the assistant repository these endpoints
// need.
type AssistantStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Assistant, error)
	ListByUser(ctx context.Context, userID uint64) ([]*model.Assistant, error)
	Create(ctx context.Context, a *model.Assistant) error
	Update(ctx context.Context, a *model.Assistant) error
	Delete(ctx context.Context, id uint64) error
}

// AssistantHandler implements the assistant CRUD endpoints.
type AssistantHandler struct {
	Assistants AssistantStore
}

func NewAssistantHandler(assistants AssistantStore) *AssistantHandler {
	return &AssistantHandler{Assistants: assistants}
}

type assistantReq struct {
	Name  string `json:"name"`
	Model string `json:"model"`
}

// List handles GET /assistants.
func (h *AssistantHandler) List(c echo.Context) error {
	u := middleware.CurrentUser(c)
	if u == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, middleware.CredentialsDetail)
	}
	assistants, err := h.Assistants.ListByUser(c.Request().Context(), u.ID)
	if err != nil {
		return err
	}
	out := make([]model.AssistantPublic, 0, len(assistants))
	for _, a := range assistants {
		out = append(out, a.Public())
	}
	return respond(c, http.StatusOK, "Assistants fetched successfully", out)
}

// Create handles POST /assistant.
func (h *AssistantHandler) Create(c echo.Context) error {
	u := middleware.CurrentUser(c)
	if u == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, middleware.CredentialsDetail)
	}
	var req assistantReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusUnprocessableEntity, "invalid request body")
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Model = strings.TrimSpace(req.Model)
	if req.Name == "" || req.Model == "" {
		return fail(c, http.StatusUnprocessableEntity, "name and model are required")
	}

	a := &model.Assistant{UserID: u.ID, Name: req.Name, Model: req.Model}
	if err := h.Assistants.Create(c.Request().Context(), a); err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Assistant created successfully", a.Public())
}

// Update handles PUT /assistant/:id. Existence is checked before
// ownership: an id that does not resolve is a 404 no matter who asks, a
// resolved assistant owned by someone else is a 403.
func (h *AssistantHandler) Update(c echo.Context) error {
	u := middleware.CurrentUser(c)
	if u == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, middleware.CredentialsDetail)
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusUnprocessableEntity, "invalid assistant id")
	}
	var req assistantReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusUnprocessableEntity, "invalid request body")
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Model = strings.TrimSpace(req.Model)
	if req.Name == "" || req.Model == "" {
		return fail(c, http.StatusUnprocessableEntity, "name and model are required")
	}

	a, err := h.Assistants.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if a == nil {
		return fail(c, http.StatusNotFound, "Assistant not found")
	}
	if a.UserID != u.ID {
		return fail(c, http.StatusForbidden, "User does not have access to this assistant")
	}

	a.Name = req.Name
	a.Model = req.Model
	if err := h.Assistants.Update(c.Request().Context(), a); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Assistant updated successfully", a.Public())
}

// Delete handles DELETE /assistant/:id. The repository removes the
// assistant's conversations and their messages in the same transaction.
func (h *AssistantHandler) Delete(c echo.Context) error {
	u := middleware.CurrentUser(c)
	if u == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, middleware.CredentialsDetail)
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusUnprocessableEntity, "invalid assistant id")
	}

	a, err := h.Assistants.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if a == nil {
		return fail(c, http.StatusNotFound, "Assistant not found")
	}
	if a.UserID != u.ID {
		return fail(c, http.StatusForbidden, "User does not have access to this assistant")
	}

	if err := h.Assistants.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Assistant deleted successfully", nil)
}
