package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/ollama-chat-api/internal/model"
)

const conversationCols = "id,user_id,assistant_id,title,created_at,updated_at"

// ConversationRepo manages persistence for conversations.
type ConversationRepo struct{ DB *sql.DB }

func NewConversationRepo(db *sql.DB) *ConversationRepo { return &ConversationRepo{DB: db} }

// Create inserts a conversation and populates the generated id and the
// server-computed timestamps on the given struct.
func (r *ConversationRepo) Create(ctx context.Context, c *model.Conversation) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO conversations (user_id, assistant_id, title) VALUES (?,?,?)",
		c.UserID, c.AssistantID, c.Title)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return r.DB.QueryRowContext(ctx,
		"SELECT "+conversationCols+" FROM conversations WHERE id=?", c.ID).
		Scan(&c.ID, &c.UserID, &c.AssistantID, &c.Title, &c.CreatedAt, &c.UpdatedAt)
}

// GetByID fetches a conversation by id. Returns (nil, nil) when no row
// matches.
func (r *ConversationRepo) GetByID(ctx context.Context, id uint64) (*model.Conversation, error) {
	var c model.Conversation
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+conversationCols+" FROM conversations WHERE id=? LIMIT 1", id).
		Scan(&c.ID, &c.UserID, &c.AssistantID, &c.Title, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListByUser returns all conversations owned by the given user, oldest
// first.
func (r *ConversationRepo) ListByUser(ctx context.Context, userID uint64) ([]*model.Conversation, error) {
	return r.list(ctx,
		"SELECT "+conversationCols+" FROM conversations WHERE user_id=? ORDER BY id", userID)
}

// ListByAssistant returns all conversations attached to the given
// assistant, oldest first.
func (r *ConversationRepo) ListByAssistant(ctx context.Context, assistantID uint64) ([]*model.Conversation, error) {
	return r.list(ctx,
		"SELECT "+conversationCols+" FROM conversations WHERE assistant_id=? ORDER BY id", assistantID)
}

// Update persists the mutable title and re-reads the row so the
// database-maintained updated_at lands back on the struct.
func (r *ConversationRepo) Update(ctx context.Context, c *model.Conversation) error {
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE conversations SET title=? WHERE id=?", c.Title, c.ID); err != nil {
		return err
	}
	return r.DB.QueryRowContext(ctx,
		"SELECT "+conversationCols+" FROM conversations WHERE id=?", c.ID).
		Scan(&c.ID, &c.UserID, &c.AssistantID, &c.Title, &c.CreatedAt, &c.UpdatedAt)
}

// Delete removes a conversation and its messages, messages first, inside
// one transaction.
func (r *ConversationRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()
	if _, err = tx.ExecContext(ctx, `DELETE FROM messages WHERE conversation_id = ?`, id); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `DELETE FROM conversations WHERE id = ?`, id)
	return err
}

// AppendExchange persists one chat round trip: the user's message
// followed by the assistant's reply, in a single transaction with one
// commit. Insertion order fixes the message ordering; the conversation's
// updated_at is touched in the same unit of work. Either both rows land
// or neither does.
func (r *ConversationRepo) AppendExchange(ctx context.Context, conversationID uint64, userContent, assistantContent string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()
	if _, err = tx.ExecContext(ctx,
		"INSERT INTO messages (conversation_id, role, content) VALUES (?,?,?)",
		conversationID, model.RoleUser, userContent); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx,
		"INSERT INTO messages (conversation_id, role, content) VALUES (?,?,?)",
		conversationID, model.RoleAssistant, assistantContent); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		"UPDATE conversations SET updated_at=CURRENT_TIMESTAMP WHERE id=?", conversationID)
	return err
}

func (r *ConversationRepo) list(ctx context.Context, query string, arg uint64) ([]*model.Conversation, error) {
	rows, err := r.DB.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Conversation{}
	for rows.Next() {
		var c model.Conversation
		if err := rows.Scan(&c.ID, &c.UserID, &c.AssistantID, &c.Title, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}
