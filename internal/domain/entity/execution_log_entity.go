package entity

import "time"

// ExecutionLog is one immutable line of the audit trail written by plan execution.
// AccountID is nil for entries not tied to an account, or once the account is deleted.
type ExecutionLog struct {
	ID          int64
	UserID      int64
	AccountID   *int64
	ActionTaken string
	Timestamp   time.Time
}
