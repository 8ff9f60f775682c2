package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/oksasatya/digital-legacy/internal/domain/entity"
	"github.com/oksasatya/digital-legacy/internal/domain/repository"
)

const userColumns = `id, email, password_hash, name, is_deceased, created_at, updated_at`

type UserRepository struct {
	db dbtx
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	ts := now()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO users (email, password_hash, name, is_deceased, created_at, updated_at)
		VALUES (?, ?, ?, 0, ?, ?)
	`, u.Email, u.Password, u.Name, ts, ts)
	if err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID, u.IsDeceased, u.CreatedAt, u.UpdatedAt = id, false, ts, ts
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email))
}

// LockByID is a plain read: SQLite has no row locks.
func (r *UserRepository) LockByID(ctx context.Context, id int64) (*entity.User, error) {
	return r.GetByID(ctx, id)
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	u.UpdatedAt = now()
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET email = ?, password_hash = ?, name = ?, updated_at = ? WHERE id = ?
	`, u.Email, u.Password, u.Name, u.UpdatedAt, u.ID)
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}
	return affectedOrNotFound(res)
}

func (r *UserRepository) MarkDeceased(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET is_deceased = 1, updated_at = ? WHERE id = ?`, now(), id)
	if err != nil {
		return fmt.Errorf("marking user deceased: %w", err)
	}
	return affectedOrNotFound(res)
}

func scanUser(row *sql.Row) (*entity.User, error) {
	u := &entity.User{}
	if err := row.Scan(&u.ID, &u.Email, &u.Password, &u.Name, &u.IsDeceased, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	return u, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
