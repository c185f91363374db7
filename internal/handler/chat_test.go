package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ollama-chat-api/internal/model"
	"github.com/iliyamo/ollama-chat-api/internal/ollama"
	"github.com/iliyamo/ollama-chat-api/internal/queue"
)

// fakeLLM records the last call and returns canned replies.
type fakeLLM struct {
	generateReply string
	chatReply     string
	err           error

	lastModel   string
	lastPrompt  string
	lastHistory []ollama.Message
}

func (f *fakeLLM) Generate(_ context.Context, model, prompt string) (string, error) {
	f.lastModel, f.lastPrompt = model, prompt
	return f.generateReply, f.err
}

func (f *fakeLLM) Chat(_ context.Context, model string, messages []ollama.Message) (string, error) {
	f.lastModel, f.lastHistory = model, messages
	return f.chatReply, f.err
}

func newChatHandler(convs *fakeConversationStore, msgs fakeMessages, llm *fakeLLM) (*ChatHandler, *[]queue.ChatCompletedEvent) {
	h := NewChatHandler(convs, msgs, llm)
	var published []queue.ChatCompletedEvent
	h.Publish = func(_ context.Context, event queue.ChatCompletedEvent) error {
		published = append(published, event)
		return nil
	}
	return h, &published
}

func TestGenerate(t *testing.T) {
	llm := &fakeLLM{generateReply: "because the sky scatters blue light"}
	h, _ := newChatHandler(newFakeConversationStore(), fakeMessages{}, llm)
	e := echo.New()

	c, rec := request(e, http.MethodPost, "/generate", `{"model":"llama3.2:1b","message":"why is the sky blue"}`, &model.User{ID: 1, Name: "alice"})
	if err := h.Generate(c); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", rec.Code)
	}
	resp := decodeSuccess(t, rec)
	if resp.Data.(map[string]any)["response"] != llm.generateReply {
		t.Fatalf("response = %v", resp.Data)
	}
	if llm.lastModel != "llama3.2:1b" || llm.lastPrompt != "why is the sky blue" {
		t.Fatalf("inference call got model=%q prompt=%q", llm.lastModel, llm.lastPrompt)
	}
}

func TestGenerateValidation(t *testing.T) {
	h, _ := newChatHandler(newFakeConversationStore(), fakeMessages{}, &fakeLLM{})
	e := echo.New()

	c, rec := request(e, http.MethodPost, "/generate", `{"model":"","message":"x"}`, &model.User{ID: 1})
	if err := h.Generate(c); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("code = %d, want 422", rec.Code)
	}
}

func TestChatPersistsExchange(t *testing.T) {
	convs := newFakeConversationStore()
	_ = convs.Create(context.Background(), &model.Conversation{UserID: 1, AssistantID: 5, Title: "Trip"})
	msgs := fakeMessages{1: {
		{ID: 1, ConversationID: 1, Role: model.RoleUser, Content: "hi"},
		{ID: 2, ConversationID: 1, Role: model.RoleAssistant, Content: "hello"},
	}}
	llm := &fakeLLM{chatReply: "sure, where to?"}
	h, published := newChatHandler(convs, msgs, llm)
	e := echo.New()

	c, rec := request(e, http.MethodPost, "/chat", `{"model":"llama3.2:1b","message":"plan a trip","conversation_id":1}`, &model.User{ID: 1, Name: "alice"})
	if err := h.Chat(c); err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200", rec.Code)
	}
	resp := decodeSuccess(t, rec)
	if resp.Data.(map[string]any)["response"] != "sure, where to?" {
		t.Fatalf("response = %v", resp.Data)
	}

	// Outbound history: stored messages in order plus the new user turn,
	// exactly once.
	want := []ollama.Message{
		{Role: model.RoleUser, Content: "hi"},
		{Role: model.RoleAssistant, Content: "hello"},
		{Role: model.RoleUser, Content: "plan a trip"},
	}
	if len(llm.lastHistory) != len(want) {
		t.Fatalf("sent %d messages, want %d: %v", len(llm.lastHistory), len(want), llm.lastHistory)
	}
	for i, m := range want {
		if llm.lastHistory[i] != m {
			t.Fatalf("history[%d] = %v, want %v", i, llm.lastHistory[i], m)
		}
	}

	// Both sides of the exchange persisted in one call.
	if len(convs.exchanges) != 1 {
		t.Fatalf("AppendExchange called %d times, want 1", len(convs.exchanges))
	}
	ex := convs.exchanges[0]
	if ex[0].(uint64) != 1 || ex[1].(string) != "plan a trip" || ex[2].(string) != "sure, where to?" {
		t.Fatalf("exchange = %v", ex)
	}

	// Completion event published with the conversation's coordinates.
	if len(*published) != 1 {
		t.Fatalf("published %d events, want 1", len(*published))
	}
	ev := (*published)[0]
	if ev.UserID != 1 || ev.ConversationID != 1 || ev.AssistantID != 5 || ev.Model != "llama3.2:1b" {
		t.Fatalf("event = %+v", ev)
	}
}

func TestChatInferenceFailureLeavesConversationUntouched(t *testing.T) {
	convs := newFakeConversationStore()
	_ = convs.Create(context.Background(), &model.Conversation{UserID: 1, AssistantID: 5, Title: "Trip"})
	llm := &fakeLLM{err: errors.New("model not loaded")}
	h, published := newChatHandler(convs, fakeMessages{}, llm)
	e := echo.New()

	c, _ := request(e, http.MethodPost, "/chat", `{"model":"m","message":"hi","conversation_id":1}`, &model.User{ID: 1})
	if err := h.Chat(c); err == nil {
		t.Fatal("expected the inference error to propagate")
	}
	if len(convs.exchanges) != 0 {
		t.Fatal("exchange persisted despite inference failure")
	}
	if len(*published) != 0 {
		t.Fatal("event published despite inference failure")
	}
}

func TestChatNotFoundBeforeForbidden(t *testing.T) {
	convs := newFakeConversationStore()
	_ = convs.Create(context.Background(), &model.Conversation{UserID: 2, AssistantID: 1, Title: "Theirs"})
	h, _ := newChatHandler(convs, fakeMessages{}, &fakeLLM{})
	e := echo.New()
	intruder := &model.User{ID: 1}

	c, rec := request(e, http.MethodPost, "/chat", `{"model":"m","message":"hi","conversation_id":99}`, intruder)
	if err := h.Chat(c); err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("code = %d for unknown conversation, want 404", rec.Code)
	}

	c, rec = request(e, http.MethodPost, "/chat", `{"model":"m","message":"hi","conversation_id":1}`, intruder)
	if err := h.Chat(c); err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("code = %d for foreign conversation, want 403", rec.Code)
	}
	if len(convs.exchanges) != 0 {
		t.Fatal("exchange persisted for a rejected request")
	}
}

func TestChatValidation(t *testing.T) {
	h, _ := newChatHandler(newFakeConversationStore(), fakeMessages{}, &fakeLLM{})
	e := echo.New()

	for _, body := range []string{
		`{"model":"","message":"hi","conversation_id":1}`,
		`{"model":"m","message":"","conversation_id":1}`,
		`{"model":"m","message":"hi","conversation_id":0}`,
	} {
		c, rec := request(e, http.MethodPost, "/chat", body, &model.User{ID: 1})
		if err := h.Chat(c); err != nil {
			t.Fatalf("Chat: %v", err)
		}
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("code = %d for %s, want 422", rec.Code, body)
		}
	}
}
