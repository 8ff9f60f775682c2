package application

import (
	"context"
	"time"

	"github.com/oksasatya/digital-legacy/internal/domain/entity"
)

// Trigger records who started an execution.
type Trigger string

const (
	TriggerSelf     Trigger = "self"
	TriggerExecutor Trigger = "executor"
)

// ExecutionReport describes one committed execution.
type ExecutionReport struct {
	User       entity.User
	Trigger    Trigger
	ExecutedBy string // executor contact email, empty for self runs
	Accounts   []entity.Account
	Contacts   []entity.TrustedContact
	Logs       []entity.ExecutionLog
	ExecutedAt time.Time
}

// ExecutionHook runs after an execution has committed. Failures are logged and
// never undo the execution.
type ExecutionHook interface {
	Name() string
	AfterExecute(ctx context.Context, report ExecutionReport) error
}

// ContactNotifier tells a newly designated contact about their role.
type ContactNotifier interface {
	ContactDesignated(ctx context.Context, owner *entity.User, contact *entity.TrustedContact) error
}

// LogSearcher finds execution log entries for one user by free text.
type LogSearcher interface {
	SearchLogs(ctx context.Context, userID int64, q string, size int) ([]map[string]any, error)
}
