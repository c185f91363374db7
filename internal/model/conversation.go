package model

import "time"

// Conversation represents a thread of messages between a user and one of
// their assistants. Both foreign keys must reference existing rows; the
// ownership check (conversation.user_id == caller.id) belongs to the
// handler layer, not here.
type Conversation struct {
	ID          uint64    // conversations.id
	UserID      uint64    // conversations.user_id
	AssistantID uint64    // conversations.assistant_id
	Title       string    // conversations.title
	CreatedAt   time.Time // conversations.created_at
	UpdatedAt   time.Time // conversations.updated_at
}

// ConversationPublic is the wire projection of a Conversation as used in
// list responses.
type ConversationPublic struct {
	ID          uint64    `json:"id"`
	UserID      uint64    `json:"user_id"`
	AssistantID uint64    `json:"assistant_id"`
	Title       string    `json:"title"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Public returns the outward-facing projection of the conversation.
func (c *Conversation) Public() ConversationPublic {
	return ConversationPublic{
		ID:          c.ID,
		UserID:      c.UserID,
		AssistantID: c.AssistantID,
		Title:       c.Title,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
