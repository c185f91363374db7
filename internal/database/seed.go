package database

import (
	"context"
	"database/sql"

	"github.com/iliyamo/ollama-chat-api/internal/model"
	"github.com/iliyamo/ollama-chat-api/internal/repository"
	"github.com/iliyamo/ollama-chat-api/internal/utils"
)

// BootstrapDev resets the schema and seeds a guest account with one
// assistant and two canned conversations. Development only: it drops
// every table first so each start begins from a clean state.
func BootstrapDev(ctx context.Context, db *sql.DB) error {
	if err := DropTables(ctx, db); err != nil {
		return err
	}
	if err := CreateTables(ctx, db); err != nil {
		return err
	}

	users := repository.NewUserRepo(db)
	assistants := repository.NewAssistantRepo(db)
	conversations := repository.NewConversationRepo(db)
	messages := repository.NewMessageRepo(db)

	hash, err := utils.HashPassword("password")
	if err != nil {
		return err
	}
	email := "user@example.com"
	guest := &model.User{Name: "user", Email: &email, HashedPassword: hash}
	if err := users.Create(ctx, guest); err != nil {
		return err
	}

	gerald := &model.Assistant{UserID: guest.ID, Name: "Gerald", Model: "llama3.2:1b"}
	if err := assistants.Create(ctx, gerald); err != nil {
		return err
	}

	seedConvos := []struct {
		title    string
		exchange [][2]string // role, content pairs in order
	}{
		{
			title: "First Conversation",
			exchange: [][2]string{
				{model.RoleUser, "If x = 2, what is x^2?"},
				{model.RoleAssistant, "It is 4"},
			},
		},
		{
			title: "Second Conversation",
			exchange: [][2]string{
				{model.RoleUser, "What is the weather in Tokyo?"},
				{model.RoleAssistant, "The weather in Tokyo is currently sunny with a temperature of 75 degrees Fahrenheit."},
				{model.RoleUser, "Oh, that's great! Thank you!"},
				{model.RoleAssistant, "You're welcome! If you have any other questions, feel free to ask."},
			},
		},
	}
	for _, sc := range seedConvos {
		conv := &model.Conversation{UserID: guest.ID, AssistantID: gerald.ID, Title: sc.title}
		if err := conversations.Create(ctx, conv); err != nil {
			return err
		}
		for _, msg := range sc.exchange {
			m := &model.Message{ConversationID: conv.ID, Role: msg[0], Content: msg[1]}
			if err := messages.Create(ctx, m); err != nil {
				return err
			}
		}
	}
	return nil
}
