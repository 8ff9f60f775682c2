package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/digital-legacy/internal/domain/entity"
	repo "github.com/oksasatya/digital-legacy/internal/domain/repository"
)

// CategoryOther makes the manually typed category win over the select box.
const CategoryOther = "other"

// ResolveCategory picks the manual category when "other" was selected.
func ResolveCategory(selected, manual string) string {
	if strings.EqualFold(strings.TrimSpace(selected), CategoryOther) {
		return strings.TrimSpace(manual)
	}
	return strings.TrimSpace(selected)
}

type AccountInput struct {
	ServiceName string
	Category    string
	Identifier  string
	Action      string
	Notes       string
}

func (in AccountInput) validate() (entity.Action, error) {
	if strings.TrimSpace(in.ServiceName) == "" || strings.TrimSpace(in.Identifier) == "" ||
		strings.TrimSpace(in.Action) == "" || strings.TrimSpace(in.Category) == "" {
		return "", fmt.Errorf("%w: service_name, identifier, action and category are required", ErrMissingInput)
	}
	action, err := entity.ParseAction(in.Action)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidAction, err)
	}
	return action, nil
}

// AccountService is the account registry. Every mutation goes through the ownership guard.
type AccountService struct {
	Store  repo.UnitOfWork
	Logger *logrus.Logger
}

func NewAccountService(store repo.UnitOfWork, logger *logrus.Logger) *AccountService {
	return &AccountService{Store: store, Logger: logger}
}

func (s *AccountService) List(ctx context.Context, callerID int64) ([]entity.Account, error) {
	return s.Store.Repos().Accounts.ListByUser(ctx, callerID)
}

// Get returns the account only if the caller owns it.
func (s *AccountService) Get(ctx context.Context, callerID, id int64) (*entity.Account, error) {
	a, err := s.Store.Repos().Accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := ensureOwner(callerID, a.UserID); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AccountService) Create(ctx context.Context, callerID int64, in AccountInput) (*entity.Account, error) {
	action, err := in.validate()
	if err != nil {
		return nil, err
	}
	a := &entity.Account{
		UserID:      callerID,
		ServiceName: strings.TrimSpace(in.ServiceName),
		Category:    strings.TrimSpace(in.Category),
		Identifier:  strings.TrimSpace(in.Identifier),
		Action:      action,
		Notes:       in.Notes,
		Status:      entity.StatusActive,
	}
	if err := s.Store.Repos().Accounts.Create(ctx, a); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": callerID, "account_id": a.ID}).Debug("account added")
	}
	return a, nil
}

// Update edits the declaration only; status is left to plan execution.
func (s *AccountService) Update(ctx context.Context, callerID, id int64, in AccountInput) (*entity.Account, error) {
	a, err := s.Get(ctx, callerID, id)
	if err != nil {
		return nil, err
	}
	action, err := in.validate()
	if err != nil {
		return nil, err
	}
	a.ServiceName = strings.TrimSpace(in.ServiceName)
	a.Category = strings.TrimSpace(in.Category)
	a.Identifier = strings.TrimSpace(in.Identifier)
	a.Action = action
	a.Notes = in.Notes
	if err := s.Store.Repos().Accounts.Update(ctx, a); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (s *AccountService) Delete(ctx context.Context, callerID, id int64) error {
	if _, err := s.Get(ctx, callerID, id); err != nil {
		return err
	}
	if err := s.Store.Repos().Accounts.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
