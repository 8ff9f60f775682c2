package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/oksasatya/digital-legacy/internal/domain/entity"
	"github.com/oksasatya/digital-legacy/internal/domain/repository"
)

const accountColumns = `id, user_id, service_name, category, identifier, action, notes, status, created_at, updated_at`

type AccountRepository struct {
	db dbtx
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func (r *AccountRepository) Create(ctx context.Context, a *entity.Account) error {
	if a.Status == "" {
		a.Status = entity.StatusActive
	}
	ts := now()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (user_id, service_name, category, identifier, action, notes, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, a.UserID, a.ServiceName, a.Category, a.Identifier, string(a.Action), a.Notes, string(a.Status), ts, ts)
	if err != nil {
		return fmt.Errorf("inserting account: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID, a.CreatedAt, a.UpdatedAt = id, ts, ts
	return nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*entity.Account, error) {
	a, err := scanAccount(r.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return a, err
}

func (r *AccountRepository) ListByUser(ctx context.Context, userID int64) ([]entity.Account, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE user_id = ? ORDER BY id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	defer rows.Close()

	out := make([]entity.Account, 0)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (r *AccountRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM accounts WHERE user_id = ?`, userID).Scan(&n)
	return n, err
}

func (r *AccountRepository) Update(ctx context.Context, a *entity.Account) error {
	a.UpdatedAt = now()
	res, err := r.db.ExecContext(ctx, `
		UPDATE accounts
		SET service_name = ?, category = ?, identifier = ?, action = ?, notes = ?, updated_at = ?
		WHERE id = ?
	`, a.ServiceName, a.Category, a.Identifier, string(a.Action), a.Notes, a.UpdatedAt, a.ID)
	if err != nil {
		return fmt.Errorf("updating account: %w", err)
	}
	return affectedOrNotFound(res)
}

func (r *AccountRepository) UpdateStatus(ctx context.Context, id int64, status entity.Status) error {
	res, err := r.db.ExecContext(ctx, `UPDATE accounts SET status = ?, updated_at = ? WHERE id = ?`, string(status), now(), id)
	if err != nil {
		return fmt.Errorf("updating account status: %w", err)
	}
	return affectedOrNotFound(res)
}

func (r *AccountRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting account: %w", err)
	}
	return affectedOrNotFound(res)
}

func scanAccount(row rowScanner) (*entity.Account, error) {
	var (
		a      entity.Account
		action string
		status string
	)
	if err := row.Scan(&a.ID, &a.UserID, &a.ServiceName, &a.Category, &a.Identifier,
		&action, &a.Notes, &status, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.Action = entity.Action(action)
	a.Status = entity.Status(status)
	return &a, nil
}

var _ repository.AccountRepository = (*AccountRepository)(nil)
