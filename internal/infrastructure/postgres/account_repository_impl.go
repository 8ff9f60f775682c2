package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/digital-legacy/internal/domain/entity"
	"github.com/oksasatya/digital-legacy/internal/domain/repository"
)

const accountColumns = `id, user_id, service_name, category, identifier, action, notes, status, created_at, updated_at`

type AccountRepository struct {
	db querier
}

func (r *AccountRepository) Create(ctx context.Context, a *entity.Account) error {
	if a.Status == "" {
		a.Status = entity.StatusActive
	}
	row := r.db.QueryRow(ctx, `
		INSERT INTO accounts (user_id, service_name, category, identifier, action, notes, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, a.UserID, a.ServiceName, a.Category, a.Identifier, string(a.Action), a.Notes, string(a.Status))
	return row.Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*entity.Account, error) {
	a, err := scanAccount(r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return a, err
}

func (r *AccountRepository) ListByUser(ctx context.Context, userID int64) ([]entity.Account, error) {
	rows, err := r.db.Query(ctx, `SELECT `+accountColumns+` FROM accounts WHERE user_id = $1 ORDER BY id ASC`, userID)
	if err != nil {
		return nil, err
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
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM accounts WHERE user_id = $1`, userID).Scan(&n)
	return n, err
}

func (r *AccountRepository) Update(ctx context.Context, a *entity.Account) error {
	a.UpdatedAt = time.Now()
	res, err := r.db.Exec(ctx, `
		UPDATE accounts
		SET service_name = $1, category = $2, identifier = $3, action = $4, notes = $5, updated_at = $6
		WHERE id = $7
	`, a.ServiceName, a.Category, a.Identifier, string(a.Action), a.Notes, a.UpdatedAt, a.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *AccountRepository) UpdateStatus(ctx context.Context, id int64, status entity.Status) error {
	res, err := r.db.Exec(ctx, `UPDATE accounts SET status = $1, updated_at = now() WHERE id = $2`, string(status), id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *AccountRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanAccount(row pgx.Row) (*entity.Account, error) {
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
