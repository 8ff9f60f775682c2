package repository

import (
	"context"

	"github.com/oksasatya/digital-legacy/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	// LockByID loads the user and, where the store supports it, holds a row lock
	// until the surrounding transaction ends.
	LockByID(ctx context.Context, id int64) (*entity.User, error)
	MarkDeceased(ctx context.Context, id int64) error
}
