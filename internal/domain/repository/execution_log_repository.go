package repository

import (
	"context"
	"time"

	"github.com/oksasatya/digital-legacy/internal/domain/entity"
)

// ExecutionLogRepository is append-only: there is no update or delete.
type ExecutionLogRepository interface {
	Append(ctx context.Context, l *entity.ExecutionLog) error
	// ListByUser returns entries most recent first, newest insert first on equal timestamps.
	ListByUser(ctx context.Context, userID int64) ([]entity.ExecutionLog, error)
	// LatestTimestamp is the zero time when the user has no entries.
	LatestTimestamp(ctx context.Context, userID int64) (time.Time, error)
}
