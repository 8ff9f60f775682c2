package repository

import (
	"context"

	"github.com/oksasatya/digital-legacy/internal/domain/entity"
)

type TrustedContactRepository interface {
	Create(ctx context.Context, c *entity.TrustedContact) error
	GetByID(ctx context.Context, id int64) (*entity.TrustedContact, error)
	ListByUser(ctx context.Context, userID int64) ([]entity.TrustedContact, error)
	CountByUser(ctx context.Context, userID int64) (int, error)
	// FindByUserAndEmail returns ErrNotFound when the email is not registered for userID.
	FindByUserAndEmail(ctx context.Context, userID int64, email string) (*entity.TrustedContact, error)
	Update(ctx context.Context, c *entity.TrustedContact) error
	Delete(ctx context.Context, id int64) error
}
