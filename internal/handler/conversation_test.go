package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ollama-chat-api/internal/model"
)

// fakeConversationStore is an in-memory ConversationStore that also
// records AppendExchange calls for the chat tests.
type fakeConversationStore struct {
	conversations map[uint64]*model.Conversation
	nextID        uint64
	deleted       []uint64
	exchanges     [][3]any // conversationID, userContent, assistantContent
}

func newFakeConversationStore() *fakeConversationStore {
	return &fakeConversationStore{conversations: map[uint64]*model.Conversation{}, nextID: 1}
}

func (f *fakeConversationStore) GetByID(_ context.Context, id uint64) (*model.Conversation, error) {
	return f.conversations[id], nil
}

func (f *fakeConversationStore) ListByUser(_ context.Context, userID uint64) ([]*model.Conversation, error) {
	var out []*model.Conversation
	for id := uint64(1); id < f.nextID; id++ {
		if conv, ok := f.conversations[id]; ok && conv.UserID == userID {
			out = append(out, conv)
		}
	}
	return out, nil
}

func (f *fakeConversationStore) Create(_ context.Context, conv *model.Conversation) error {
	conv.ID = f.nextID
	f.nextID++
	f.conversations[conv.ID] = conv
	return nil
}

func (f *fakeConversationStore) Delete(_ context.Context, id uint64) error {
	delete(f.conversations, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeConversationStore) AppendExchange(_ context.Context, conversationID uint64, userContent, assistantContent string) error {
	f.exchanges = append(f.exchanges, [3]any{conversationID, userContent, assistantContent})
	return nil
}

// fakeMessages is an in-memory MessageLister.
type fakeMessages map[uint64][]*model.Message

func (f fakeMessages) ListByConversation(_ context.Context, conversationID uint64) ([]*model.Message, error) {
	return f[conversationID], nil
}

func TestConversationListScopedToUser(t *testing.T) {
	convs := newFakeConversationStore()
	_ = convs.Create(context.Background(), &model.Conversation{UserID: 1, AssistantID: 1, Title: "Mine"})
	_ = convs.Create(context.Background(), &model.Conversation{UserID: 2, AssistantID: 1, Title: "Theirs"})
	h := NewConversationHandler(convs, fakeMessages{}, newFakeAssistantStore())
	e := echo.New()

	c, rec := request(e, http.MethodGet, "/conversations", "", &model.User{ID: 1})
	if err := h.List(c); err != nil {
		t.Fatalf("List: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", rec.Code)
	}
	resp := decodeSuccess(t, rec)
	items := resp.Data.([]any)
	if len(items) != 1 {
		t.Fatalf("listed %d conversations, want 1", len(items))
	}
	if title := items[0].(map[string]any)["title"]; title != "Mine" {
		t.Fatalf("title = %v, want Mine", title)
	}
}

func TestConversationGetDetail(t *testing.T) {
	assistants := newFakeAssistantStore()
	_ = assistants.Create(context.Background(), &model.Assistant{UserID: 1, Name: "Gerald", Model: "llama3.2:1b"})
	convs := newFakeConversationStore()
	_ = convs.Create(context.Background(), &model.Conversation{UserID: 1, AssistantID: 1, Title: "Trip planning"})
	msgs := fakeMessages{1: {
		{ID: 1, ConversationID: 1, Role: model.RoleUser, Content: "hi"},
		{ID: 2, ConversationID: 1, Role: model.RoleAssistant, Content: "hello"},
	}}
	h := NewConversationHandler(convs, msgs, assistants)
	e := echo.New()

	c, rec := request(e, http.MethodGet, "/conversation/1", "", &model.User{ID: 1}, "id", "1")
	if err := h.Get(c); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", rec.Code)
	}
	resp := decodeSuccess(t, rec)
	data := resp.Data.(map[string]any)
	if data["title"] != "Trip planning" {
		t.Fatalf("title = %v", data["title"])
	}
	history := data["messages"].([]any)
	if len(history) != 2 {
		t.Fatalf("embedded %d messages, want 2", len(history))
	}
	first := history[0].(map[string]any)
	if first["role"] != model.RoleUser || first["content"] != "hi" {
		t.Fatalf("first message = %v, history order lost", first)
	}
	assistant := data["assistant"].(map[string]any)
	if assistant["name"] != "Gerald" {
		t.Fatalf("embedded assistant = %v", assistant)
	}
}

func TestConversationGetNotFoundBeforeForbidden(t *testing.T) {
	convs := newFakeConversationStore()
	_ = convs.Create(context.Background(), &model.Conversation{UserID: 2, AssistantID: 1, Title: "Theirs"})
	h := NewConversationHandler(convs, fakeMessages{}, newFakeAssistantStore())
	e := echo.New()
	intruder := &model.User{ID: 1}

	c, rec := request(e, http.MethodGet, "/conversation/99", "", intruder, "id", "99")
	if err := h.Get(c); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("code = %d for unknown id, want 404", rec.Code)
	}

	c, rec = request(e, http.MethodGet, "/conversation/1", "", intruder, "id", "1")
	if err := h.Get(c); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("code = %d for foreign id, want 403", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Detail != "User does not have access to this conversation" {
		t.Fatalf("detail = %q", resp.Detail)
	}
}

func TestConversationCreateValidatesAssistant(t *testing.T) {
	assistants := newFakeAssistantStore()
	_ = assistants.Create(context.Background(), &model.Assistant{UserID: 2, Name: "Other", Model: "m"})
	convs := newFakeConversationStore()
	h := NewConversationHandler(convs, fakeMessages{}, assistants)
	e := echo.New()
	caller := &model.User{ID: 1}

	// Unknown assistant: 404.
	c, rec := request(e, http.MethodPost, "/conversation", `{"title":"t","assistant_id":99}`, caller)
	if err := h.Create(c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("code = %d for unknown assistant, want 404", rec.Code)
	}

	// Foreign assistant: 403.
	c, rec = request(e, http.MethodPost, "/conversation", `{"title":"t","assistant_id":1}`, caller)
	if err := h.Create(c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("code = %d for foreign assistant, want 403", rec.Code)
	}
	if len(convs.conversations) != 0 {
		t.Fatal("conversation was created despite failed assistant checks")
	}
}

func TestConversationCreateSuccess(t *testing.T) {
	assistants := newFakeAssistantStore()
	_ = assistants.Create(context.Background(), &model.Assistant{UserID: 1, Name: "Gerald", Model: "m"})
	convs := newFakeConversationStore()
	h := NewConversationHandler(convs, fakeMessages{}, assistants)
	e := echo.New()

	c, rec := request(e, http.MethodPost, "/conversation", `{"title":"Trip planning","assistant_id":1}`, &model.User{ID: 1})
	if err := h.Create(c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("code = %d, want 201", rec.Code)
	}
	resp := decodeSuccess(t, rec)
	data := resp.Data.(map[string]any)
	if data["title"] != "Trip planning" || data["assistant_id"].(float64) != 1 {
		t.Fatalf("unexpected conversation payload: %v", data)
	}
	if convs.conversations[1] == nil || convs.conversations[1].UserID != 1 {
		t.Fatal("conversation not stored for the caller")
	}
}

func TestConversationDelete(t *testing.T) {
	convs := newFakeConversationStore()
	_ = convs.Create(context.Background(), &model.Conversation{UserID: 1, AssistantID: 1, Title: "Mine"})
	h := NewConversationHandler(convs, fakeMessages{}, newFakeAssistantStore())
	e := echo.New()

	c, rec := request(e, http.MethodDelete, "/conversation/1", "", &model.User{ID: 1}, "id", "1")
	if err := h.Delete(c); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", rec.Code)
	}
	if len(convs.deleted) != 1 || convs.deleted[0] != 1 {
		t.Fatalf("deleted ids = %v, want [1]", convs.deleted)
	}
}
