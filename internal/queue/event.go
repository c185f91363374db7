package queue

// ChatCompletedEvent is published after a chat round trip has been
// persisted. It carries enough information for downstream consumers to
// log or feed analytics without querying the primary database.
type ChatCompletedEvent struct {
	UserID         uint64 `json:"user_id"`
	UserName       string `json:"user_name"`
	ConversationID uint64 `json:"conversation_id"`
	AssistantID    uint64 `json:"assistant_id"`
	Model          string `json:"model"`
	PromptChars    int    `json:"prompt_chars"`
	ReplyChars     int    `json:"reply_chars"`
	CompletedAt    string `json:"completed_at"`
}
