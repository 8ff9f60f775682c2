package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/digital-legacy/internal/domain/entity"
	"github.com/oksasatya/digital-legacy/internal/domain/repository"
)

const contactColumns = `id, user_id, name, relationship, email, is_primary, created_at, updated_at`

type TrustedContactRepository struct {
	db querier
}

func (r *TrustedContactRepository) Create(ctx context.Context, c *entity.TrustedContact) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO trusted_contacts (user_id, name, relationship, email, is_primary)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, c.UserID, c.Name, c.Relationship, c.Email, c.IsPrimary)
	return row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *TrustedContactRepository) GetByID(ctx context.Context, id int64) (*entity.TrustedContact, error) {
	return scanContactRow(r.db.QueryRow(ctx, `SELECT `+contactColumns+` FROM trusted_contacts WHERE id = $1`, id))
}

func (r *TrustedContactRepository) FindByUserAndEmail(ctx context.Context, userID int64, email string) (*entity.TrustedContact, error) {
	return scanContactRow(r.db.QueryRow(ctx, `
		SELECT `+contactColumns+` FROM trusted_contacts
		WHERE user_id = $1 AND email = $2
		ORDER BY id ASC
		LIMIT 1
	`, userID, email))
}

func (r *TrustedContactRepository) ListByUser(ctx context.Context, userID int64) ([]entity.TrustedContact, error) {
	rows, err := r.db.Query(ctx, `SELECT `+contactColumns+` FROM trusted_contacts WHERE user_id = $1 ORDER BY id ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entity.TrustedContact, 0)
	for rows.Next() {
		var c entity.TrustedContact
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Relationship, &c.Email, &c.IsPrimary,
			&c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *TrustedContactRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM trusted_contacts WHERE user_id = $1`, userID).Scan(&n)
	return n, err
}

func (r *TrustedContactRepository) Update(ctx context.Context, c *entity.TrustedContact) error {
	c.UpdatedAt = time.Now()
	res, err := r.db.Exec(ctx, `
		UPDATE trusted_contacts
		SET name = $1, relationship = $2, email = $3, is_primary = $4, updated_at = $5
		WHERE id = $6
	`, c.Name, c.Relationship, c.Email, c.IsPrimary, c.UpdatedAt, c.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *TrustedContactRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.Exec(ctx, `DELETE FROM trusted_contacts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanContactRow(row pgx.Row) (*entity.TrustedContact, error) {
	c := &entity.TrustedContact{}
	if err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Relationship, &c.Email, &c.IsPrimary,
		&c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

var _ repository.TrustedContactRepository = (*TrustedContactRepository)(nil)
