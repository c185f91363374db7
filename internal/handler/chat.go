package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ollama-chat-api/internal/middleware"
	"github.com/iliyamo/ollama-chat-api/internal/model"
	"github.com/iliyamo/ollama-chat-api/internal/ollama"
	"github.com/iliyamo/ollama-chat-api/internal/queue"
	queue_publisher "github.com/iliyamo/ollama-chat-api/internal/service"
)

// ChatStore is the slice of the conversation repository the chat endpoint
// needs: resolving the conversation and persisting one round trip as a
// single unit of work.
type ChatStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Conversation, error)
	AppendExchange(ctx context.Context, conversationID uint64, userContent, assistantContent string) error
}

// Inference is the outbound LLM surface. A single best-effort attempt:
// no retry, no timeout beyond the request context.
type Inference interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
	Chat(ctx context.Context, model string, messages []ollama.Message) (string, error)
}

// ChatHandler implements the /chat and /generate endpoints.
type ChatHandler struct {
	Conversations ChatStore
	Messages      MessageLister
	LLM           Inference
	// Publish emits the chat.completed event after a persisted exchange.
	// Failures are ignored; the reply is already durable at that point.
	Publish func(ctx context.Context, event queue.ChatCompletedEvent) error
}

func NewChatHandler(conversations ChatStore, messages MessageLister, llm Inference) *ChatHandler {
	return &ChatHandler{
		Conversations: conversations,
		Messages:      messages,
		LLM:           llm,
		Publish:       queue_publisher.PublishChatCompleted,
	}
}

type generateReq struct {
	Model   string `json:"model"`
	Message string `json:"message"`
}

type chatReq struct {
	Model          string `json:"model"`
	Message        string `json:"message"`
	ConversationID uint64 `json:"conversation_id"`
}

type replyData struct {
	Response string `json:"response"`
}

// Generate handles POST /generate: a stateless passthrough to the
// inference server with no persistence.
func (h *ChatHandler) Generate(c echo.Context) error {
	u := middleware.CurrentUser(c)
	if u == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, middleware.CredentialsDetail)
	}
	var req generateReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusUnprocessableEntity, "invalid request body")
	}
	if strings.TrimSpace(req.Model) == "" || req.Message == "" {
		return fail(c, http.StatusUnprocessableEntity, "model and message are required")
	}

	c.Logger().Debugf("generate request from user %s, model %s", u.Name, req.Model)
	reply, err := h.LLM.Generate(c.Request().Context(), req.Model, req.Message)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Response generated", replyData{Response: reply})
}

// Chat handles POST /chat. The flow: resolve the conversation (404
// before 403), build the ordered history with the new user message
// appended, make one inference call, then persist the user message and
// the reply in a single transaction. An inference failure therefore
// leaves the conversation untouched.
func (h *ChatHandler) Chat(c echo.Context) error {
	u := middleware.CurrentUser(c)
	if u == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, middleware.CredentialsDetail)
	}
	var req chatReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusUnprocessableEntity, "invalid request body")
	}
	if strings.TrimSpace(req.Model) == "" || req.Message == "" || req.ConversationID == 0 {
		return fail(c, http.StatusUnprocessableEntity, "model, message and conversation_id are required")
	}

	ctx := c.Request().Context()
	conv, err := h.Conversations.GetByID(ctx, req.ConversationID)
	if err != nil {
		return err
	}
	if conv == nil {
		return fail(c, http.StatusNotFound, "Conversation not found")
	}
	if conv.UserID != u.ID {
		return fail(c, http.StatusForbidden, "User does not have access to this conversation")
	}

	stored, err := h.Messages.ListByConversation(ctx, conv.ID)
	if err != nil {
		return err
	}
	history := make([]ollama.Message, 0, len(stored)+1)
	for _, m := range stored {
		role := model.RoleUser
		if m.Role == model.RoleAssistant {
			role = model.RoleAssistant
		}
		history = append(history, ollama.Message{Role: role, Content: m.Content})
	}
	history = append(history, ollama.Message{Role: model.RoleUser, Content: req.Message})

	c.Logger().Debugf("chat request from user %s, conversation %d, %d messages", u.Name, conv.ID, len(history))
	reply, err := h.LLM.Chat(ctx, req.Model, history)
	if err != nil {
		return err
	}

	if err := h.Conversations.AppendExchange(ctx, conv.ID, req.Message, reply); err != nil {
		return err
	}

	_ = h.Publish(ctx, queue.ChatCompletedEvent{
		UserID:         u.ID,
		UserName:       u.Name,
		ConversationID: conv.ID,
		AssistantID:    conv.AssistantID,
		Model:          req.Model,
		PromptChars:    len(req.Message),
		ReplyChars:     len(reply),
		CompletedAt:    time.Now().UTC().Format(time.RFC3339),
	})

	return respond(c, http.StatusOK, "Chat response generated", replyData{Response: reply})
}
