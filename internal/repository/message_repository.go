package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/ollama-chat-api/internal/model"
)

const messageCols = "id,conversation_id,role,content,created_at"

// MessageRepo manages persistence for messages. Messages belong to
// exactly one conversation and keep their insertion order forever.
type MessageRepo struct{ DB *sql.DB }

func NewMessageRepo(db *sql.DB) *MessageRepo { return &MessageRepo{DB: db} }

// Create inserts a message and populates the generated id and the
// server-computed created_at on the given struct.
func (r *MessageRepo) Create(ctx context.Context, m *model.Message) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO messages (conversation_id, role, content) VALUES (?,?,?)",
		m.ConversationID, m.Role, m.Content)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return r.DB.QueryRowContext(ctx,
		"SELECT "+messageCols+" FROM messages WHERE id=?", m.ID).
		Scan(&m.ID, &m.ConversationID, &m.Role, &m.Content, &m.CreatedAt)
}

// GetByID fetches a message by id. Returns (nil, nil) when no row
// matches.
func (r *MessageRepo) GetByID(ctx context.Context, id uint64) (*model.Message, error) {
	var m model.Message
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+messageCols+" FROM messages WHERE id=? LIMIT 1", id).
		Scan(&m.ID, &m.ConversationID, &m.Role, &m.Content, &m.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListByConversation returns a conversation's messages in insertion
// order (ascending id).
func (r *MessageRepo) ListByConversation(ctx context.Context, conversationID uint64) ([]*model.Message, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+messageCols+" FROM messages WHERE conversation_id=? ORDER BY id", conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Message{}
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

// Delete removes a single message row.
func (r *MessageRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM messages WHERE id=?", id)
	return err
}
