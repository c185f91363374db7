package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/ollama-chat-api/internal/model"
)

const assistantCols = "id,user_id,name,model,created_at"

// AssistantRepo manages persistence for assistants.
type AssistantRepo struct{ DB *sql.DB }

func NewAssistantRepo(db *sql.DB) *AssistantRepo { return &AssistantRepo{DB: db} }

// Create inserts an assistant and populates the generated id and the
// server-computed created_at on the given struct.
func (r *AssistantRepo) Create(ctx context.Context, a *model.Assistant) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO assistants (user_id, name, model) VALUES (?,?,?)",
		a.UserID, a.Name, a.Model)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return r.DB.QueryRowContext(ctx,
		"SELECT "+assistantCols+" FROM assistants WHERE id=?", a.ID).
		Scan(&a.ID, &a.UserID, &a.Name, &a.Model, &a.CreatedAt)
}

// GetByID fetches an assistant by id. Returns (nil, nil) when no row
// matches.
func (r *AssistantRepo) GetByID(ctx context.Context, id uint64) (*model.Assistant, error) {
	var a model.Assistant
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+assistantCols+" FROM assistants WHERE id=? LIMIT 1", id).
		Scan(&a.ID, &a.UserID, &a.Name, &a.Model, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListByUser returns all assistants owned by the given user, oldest
// first.
func (r *AssistantRepo) ListByUser(ctx context.Context, userID uint64) ([]*model.Assistant, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+assistantCols+" FROM assistants WHERE user_id=? ORDER BY id", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Assistant{}
	for rows.Next() {
		var a model.Assistant
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.Model, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

// Update persists the mutable fields (name, model) and re-reads the row.
func (r *AssistantRepo) Update(ctx context.Context, a *model.Assistant) error {
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE assistants SET name=?, model=? WHERE id=?", a.Name, a.Model, a.ID); err != nil {
		return err
	}
	return r.DB.QueryRowContext(ctx,
		"SELECT "+assistantCols+" FROM assistants WHERE id=?", a.ID).
		Scan(&a.ID, &a.UserID, &a.Name, &a.Model, &a.CreatedAt)
}

// Delete removes an assistant and every conversation (and message)
// attached to it. The dependents go first, child-first, inside one
// transaction so no orphaned rows can survive a partial failure.
func (r *AssistantRepo) Delete(ctx context.Context, id uint64) error {
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
		`DELETE m FROM messages m
		 JOIN conversations c ON c.id = m.conversation_id
		 WHERE c.assistant_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx,
		`DELETE FROM conversations WHERE assistant_id = ?`, id); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `DELETE FROM assistants WHERE id = ?`, id)
	return err
}
