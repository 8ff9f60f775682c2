package repository

import (
	"context"
	"errors"
)

// ErrNotFound is returned by every repository when a row does not exist.
var ErrNotFound = errors.New("not found")

// Repositories groups repositories bound to the same connection or transaction.
type Repositories struct {
	Users    UserRepository
	Accounts AccountRepository
	Contacts TrustedContactRepository
	Logs     ExecutionLogRepository
}

// UnitOfWork hands out repositories and runs work atomically.
// If fn returns an error nothing it wrote is kept.
type UnitOfWork interface {
	Repos() Repositories
	WithinTx(ctx context.Context, fn func(r Repositories) error) error
}
