package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/oksasatya/digital-legacy/internal/domain/entity"
	"github.com/oksasatya/digital-legacy/internal/domain/repository"
)

type ExecutionLogRepository struct {
	db dbtx
}

func (r *ExecutionLogRepository) Append(ctx context.Context, l *entity.ExecutionLog) error {
	l.Timestamp = l.Timestamp.UTC()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO execution_logs (user_id, account_id, action_taken, created_at)
		VALUES (?, ?, ?, ?)
	`, l.UserID, l.AccountID, l.ActionTaken, l.Timestamp)
	if err != nil {
		return fmt.Errorf("appending execution log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	l.ID = id
	return nil
}

func (r *ExecutionLogRepository) ListByUser(ctx context.Context, userID int64) ([]entity.ExecutionLog, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, account_id, action_taken, created_at
		FROM execution_logs
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing execution logs: %w", err)
	}
	defer rows.Close()

	out := make([]entity.ExecutionLog, 0)
	for rows.Next() {
		var l entity.ExecutionLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.AccountID, &l.ActionTaken, &l.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *ExecutionLogRepository) LatestTimestamp(ctx context.Context, userID int64) (time.Time, error) {
	var at time.Time
	err := r.db.QueryRowContext(ctx, `
		SELECT created_at
		FROM execution_logs
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`, userID).Scan(&at)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("latest execution log: %w", err)
	}
	return at.UTC(), nil
}

var _ repository.ExecutionLogRepository = (*ExecutionLogRepository)(nil)
