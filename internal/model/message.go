package model

import "time"

// Message roles. A message role is exactly one of these two values;
// anything else is rejected before it reaches the database.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a single utterance inside a conversation. Messages
// are ordered by insertion (ascending id) and are never reordered.
type Message struct {
	ID             uint64    // messages.id
	ConversationID uint64    // messages.conversation_id
	Role           string    // messages.role ("user" | "assistant")
	Content        string    // messages.content
	CreatedAt      time.Time // messages.created_at
}

// MessagePublic is the wire projection of a Message as embedded in a
// conversation detail response; the conversation id is implied by the
// surrounding object and therefore omitted.
type MessagePublic struct {
	ID        uint64    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Public returns the outward-facing projection of the message.
func (m *Message) Public() MessagePublic {
	return MessagePublic{
		ID:        m.ID,
		Role:      m.Role,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}
