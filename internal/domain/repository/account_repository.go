package repository

import (
	"context"

	"github.com/oksasatya/digital-legacy/internal/domain/entity"
)

// AccountRepository stores the accounts of a plan.
// ListByUser returns accounts in ascending id order.
type AccountRepository interface {
	Create(ctx context.Context, a *entity.Account) error
	GetByID(ctx context.Context, id int64) (*entity.Account, error)
	ListByUser(ctx context.Context, userID int64) ([]entity.Account, error)
	CountByUser(ctx context.Context, userID int64) (int, error)
	Update(ctx context.Context, a *entity.Account) error
	UpdateStatus(ctx context.Context, id int64, status entity.Status) error
	Delete(ctx context.Context, id int64) error
}
