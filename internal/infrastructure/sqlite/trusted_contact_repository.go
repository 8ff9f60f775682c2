package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/oksasatya/digital-legacy/internal/domain/entity"
	"github.com/oksasatya/digital-legacy/internal/domain/repository"
)

const contactColumns = `id, user_id, name, relationship, email, is_primary, created_at, updated_at`

type TrustedContactRepository struct {
	db dbtx
}

func (r *TrustedContactRepository) Create(ctx context.Context, c *entity.TrustedContact) error {
	ts := now()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO trusted_contacts (user_id, name, relationship, email, is_primary, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, c.UserID, c.Name, c.Relationship, c.Email, c.IsPrimary, ts, ts)
	if err != nil {
		return fmt.Errorf("inserting trusted contact: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID, c.CreatedAt, c.UpdatedAt = id, ts, ts
	return nil
}

func (r *TrustedContactRepository) GetByID(ctx context.Context, id int64) (*entity.TrustedContact, error) {
	return scanContact(r.db.QueryRowContext(ctx, `SELECT `+contactColumns+` FROM trusted_contacts WHERE id = ?`, id))
}

func (r *TrustedContactRepository) FindByUserAndEmail(ctx context.Context, userID int64, email string) (*entity.TrustedContact, error) {
	return scanContact(r.db.QueryRowContext(ctx, `
		SELECT `+contactColumns+` FROM trusted_contacts
		WHERE user_id = ? AND email = ?
		ORDER BY id ASC
		LIMIT 1
	`, userID, email))
}

func (r *TrustedContactRepository) ListByUser(ctx context.Context, userID int64) ([]entity.TrustedContact, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+contactColumns+` FROM trusted_contacts WHERE user_id = ? ORDER BY id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing trusted contacts: %w", err)
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
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM trusted_contacts WHERE user_id = ?`, userID).Scan(&n)
	return n, err
}

func (r *TrustedContactRepository) Update(ctx context.Context, c *entity.TrustedContact) error {
	c.UpdatedAt = now()
	res, err := r.db.ExecContext(ctx, `
		UPDATE trusted_contacts
		SET name = ?, relationship = ?, email = ?, is_primary = ?, updated_at = ?
		WHERE id = ?
	`, c.Name, c.Relationship, c.Email, c.IsPrimary, c.UpdatedAt, c.ID)
	if err != nil {
		return fmt.Errorf("updating trusted contact: %w", err)
	}
	return affectedOrNotFound(res)
}

func (r *TrustedContactRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM trusted_contacts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting trusted contact: %w", err)
	}
	return affectedOrNotFound(res)
}

func scanContact(row *sql.Row) (*entity.TrustedContact, error) {
	c := &entity.TrustedContact{}
	if err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Relationship, &c.Email, &c.IsPrimary,
		&c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scanning trusted contact: %w", err)
	}
	return c, nil
}

var _ repository.TrustedContactRepository = (*TrustedContactRepository)(nil)
