package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ollama-chat-api/internal/middleware"
	"github.com/iliyamo/ollama-chat-api/internal/model"
)

// ConversationStore is the slice of the conversation repository these
// endpoints need.
type ConversationStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Conversation, error)
	ListByUser(ctx context.Context, userID uint64) ([]*model.Conversation, error)
	Create(ctx context.Context, conv *model.Conversation) error
	Delete(ctx context.Context, id uint64) error
}

// MessageLister loads a conversation's ordered history.
type MessageLister interface {
	ListByConversation(ctx context.Context, conversationID uint64) ([]*model.Message, error)
}

// AssistantGetter resolves an assistant id, used to validate the foreign
// key before a conversation is created and to embed the assistant in the
// detail response.
type AssistantGetter interface {
	GetByID(ctx context.Context, id uint64) (*model.Assistant, error)
}

// ConversationHandler implements the conversation endpoints.
type ConversationHandler struct {
	Conversations ConversationStore
	Messages      MessageLister
	Assistants    AssistantGetter
}

func NewConversationHandler(conversations ConversationStore, messages MessageLister, assistants AssistantGetter) *ConversationHandler {
	return &ConversationHandler{Conversations: conversations, Messages: messages, Assistants: assistants}
}

type createConversationReq struct {
	Title       string `json:"title"`
	AssistantID uint64 `json:"assistant_id"`
}

// conversationDetail is the GET /conversation/:id response shape: the
// conversation with its ordered messages and the owning assistant
// embedded. The foreign keys are dropped because both ends are inlined.
type conversationDetail struct {
	ID        uint64                 `json:"id"`
	Title     string                 `json:"title"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
	Messages  []model.MessagePublic `json:"messages"`
	Assistant model.AssistantPublic `json:"assistant"`
}

// List handles GET /conversations.
func (h *ConversationHandler) List(c echo.Context) error {
	u := middleware.CurrentUser(c)
	if u == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, middleware.CredentialsDetail)
	}
	convs, err := h.Conversations.ListByUser(c.Request().Context(), u.ID)
	if err != nil {
		return err
	}
	out := make([]model.ConversationPublic, 0, len(convs))
	for _, conv := range convs {
		out = append(out, conv.Public())
	}
	return respond(c, http.StatusOK, "Conversations fetched successfully", out)
}

// Get handles GET /conversation/:id. Existence is checked before
// ownership (404 before 403).
func (h *ConversationHandler) Get(c echo.Context) error {
	u := middleware.CurrentUser(c)
	if u == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, middleware.CredentialsDetail)
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusUnprocessableEntity, "invalid conversation id")
	}

	ctx := c.Request().Context()
	conv, err := h.Conversations.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if conv == nil {
		return fail(c, http.StatusNotFound, "Conversation not found")
	}
	if conv.UserID != u.ID {
		return fail(c, http.StatusForbidden, "User does not have access to this conversation")
	}

	msgs, err := h.Messages.ListByConversation(ctx, conv.ID)
	if err != nil {
		return err
	}
	assistant, err := h.Assistants.GetByID(ctx, conv.AssistantID)
	if err != nil {
		return err
	}
	if assistant == nil {
		return fmt.Errorf("assistant %d missing for conversation %d", conv.AssistantID, conv.ID)
	}

	detail := conversationDetail{
		ID:        conv.ID,
		Title:     conv.Title,
		CreatedAt: conv.CreatedAt,
		UpdatedAt: conv.UpdatedAt,
		Messages:  make([]model.MessagePublic, 0, len(msgs)),
		Assistant: assistant.Public(),
	}
	for _, m := range msgs {
		detail.Messages = append(detail.Messages, m.Public())
	}
	return respond(c, http.StatusOK, "Conversation fetched successfully", detail)
}

// Create handles POST /conversation. The referenced assistant must exist
// (404) and belong to the caller (403) before the row is created.
func (h *ConversationHandler) Create(c echo.Context) error {
	u := middleware.CurrentUser(c)
	if u == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, middleware.CredentialsDetail)
	}
	var req createConversationReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusUnprocessableEntity, "invalid request body")
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || req.AssistantID == 0 {
		return fail(c, http.StatusUnprocessableEntity, "title and assistant_id are required")
	}

	ctx := c.Request().Context()
	assistant, err := h.Assistants.GetByID(ctx, req.AssistantID)
	if err != nil {
		return err
	}
	if assistant == nil {
		return fail(c, http.StatusNotFound, "Assistant not found")
	}
	if assistant.UserID != u.ID {
		return fail(c, http.StatusForbidden, "User does not have access to this assistant")
	}

	conv := &model.Conversation{UserID: u.ID, AssistantID: req.AssistantID, Title: req.Title}
	if err := h.Conversations.Create(ctx, conv); err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Conversation created successfully", conv.Public())
}

// Delete handles DELETE /conversation/:id. The repository removes the
// conversation's messages in the same transaction.
func (h *ConversationHandler) Delete(c echo.Context) error {
	u := middleware.CurrentUser(c)
	if u == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, middleware.CredentialsDetail)
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusUnprocessableEntity, "invalid conversation id")
	}

	conv, err := h.Conversations.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if conv == nil {
		return fail(c, http.StatusNotFound, "Conversation not found")
	}
	if conv.UserID != u.ID {
		return fail(c, http.StatusForbidden, "User does not have access to this conversation")
	}

	if err := h.Conversations.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Conversation deleted successfully", nil)
}
