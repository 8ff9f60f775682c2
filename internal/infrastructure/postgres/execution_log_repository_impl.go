package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/digital-legacy/internal/domain/entity"
	"github.com/oksasatya/digital-legacy/internal/domain/repository"
)

type ExecutionLogRepository struct {
	db querier
}

func (r *ExecutionLogRepository) Append(ctx context.Context, l *entity.ExecutionLog) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO execution_logs (user_id, account_id, action_taken, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, l.UserID, l.AccountID, l.ActionTaken, l.Timestamp).Scan(&l.ID)
}

func (r *ExecutionLogRepository) ListByUser(ctx context.Context, userID int64) ([]entity.ExecutionLog, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, account_id, action_taken, created_at
		FROM execution_logs
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, err
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
	err := r.db.QueryRow(ctx, `
		SELECT created_at
		FROM execution_logs
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`, userID).Scan(&at)
	if errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return at.UTC(), nil
}

var _ repository.ExecutionLogRepository = (*ExecutionLogRepository)(nil)
