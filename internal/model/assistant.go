package model

import "time"

// Assistant represents a configured chat assistant owned by a user. The
// Model field is the identifier passed to the inference backend (for
// example "llama3.2:1b"). Deleting an assistant removes its conversations
// and their messages; the cascade is performed by the repository layer.
type Assistant struct {
	ID        uint64    // assistants.id
	UserID    uint64    // assistants.user_id
	Name      string    // assistants.name
	Model     string    // assistants.model
	CreatedAt time.Time // assistants.created_at
}

// AssistantPublic is the wire projection of an Assistant.
type AssistantPublic struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"user_id"`
	Name      string    `json:"name"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
}

// Public returns the outward-facing projection of the assistant.
func (a *Assistant) Public() AssistantPublic {
	return AssistantPublic{
		ID:        a.ID,
		UserID:    a.UserID,
		Name:      a.Name,
		Model:     a.Model,
		CreatedAt: a.CreatedAt,
	}
}
