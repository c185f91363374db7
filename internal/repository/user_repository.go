package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/ollama-chat-api/internal/model"
)

const userCols = "id,name,email,hashed_password,created_at,last_login,disabled"

// UserRepo manages persistence for users.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user and populates the generated id and the
// server-computed timestamps on the given struct. The caller provides
// the bcrypt hash; plaintext never reaches this layer. A duplicate name
// yields ErrNameExists.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	u.Name = strings.TrimSpace(u.Name)
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name, email, hashed_password) VALUES (?,?,?)",
		u.Name, u.Email, u.HashedPassword)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrNameExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	return r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE id=?", u.ID).
		Scan(&u.ID, &u.Name, &u.Email, &u.HashedPassword, &u.CreatedAt, &u.LastLogin, &u.Disabled)
}

// GetByID fetches a user by id. Returns (nil, nil) when no row matches.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE id=? LIMIT 1", id))
}

// GetByName fetches a user by login name. Returns (nil, nil) when no row
// matches.
func (r *UserRepo) GetByName(ctx context.Context, name string) (*model.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE name=? LIMIT 1", strings.TrimSpace(name)))
}

// GetByEmail fetches a user by email. Returns (nil, nil) when no row
// matches.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE email=? LIMIT 1", strings.ToLower(strings.TrimSpace(email))))
}

// Update persists mutable fields and re-reads the row so server-computed
// values stay in sync on the struct.
func (r *UserRepo) Update(ctx context.Context, u *model.User) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET name=?, email=?, hashed_password=?, disabled=? WHERE id=?",
		u.Name, u.Email, u.HashedPassword, u.Disabled, u.ID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrNameExists
		}
		return err
	}
	return r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE id=?", u.ID).
		Scan(&u.ID, &u.Name, &u.Email, &u.HashedPassword, &u.CreatedAt, &u.LastLogin, &u.Disabled)
}

// Delete removes a user row. Deleting a user with assistants or
// conversations still referencing it fails on the foreign keys; callers
// are expected to remove those aggregates first.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	return err
}

func (r *UserRepo) scanOne(row *sql.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.HashedPassword, &u.CreatedAt, &u.LastLogin, &u.Disabled)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
