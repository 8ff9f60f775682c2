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

type ContactInput struct {
	Name         string
	Relationship string
	Email        string
	IsPrimary    bool
}

func (in ContactInput) validate() error {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" {
		return fmt.Errorf("%w: name and email are required", ErrMissingInput)
	}
	return nil
}

// ContactService is the trusted contact registry. Several contacts may be
// primary at once; nothing enforces a single one.
type ContactService struct {
	Store    repo.UnitOfWork
	Notifier ContactNotifier
	Logger   *logrus.Logger
}

func NewContactService(store repo.UnitOfWork, notifier ContactNotifier, logger *logrus.Logger) *ContactService {
	return &ContactService{Store: store, Notifier: notifier, Logger: logger}
}

func (s *ContactService) List(ctx context.Context, callerID int64) ([]entity.TrustedContact, error) {
	return s.Store.Repos().Contacts.ListByUser(ctx, callerID)
}

func (s *ContactService) Get(ctx context.Context, callerID, id int64) (*entity.TrustedContact, error) {
	c, err := s.Store.Repos().Contacts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := ensureOwner(callerID, c.UserID); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *ContactService) Create(ctx context.Context, callerID int64, in ContactInput) (*entity.TrustedContact, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	c := &entity.TrustedContact{
		UserID:       callerID,
		Name:         strings.TrimSpace(in.Name),
		Relationship: strings.TrimSpace(in.Relationship),
		Email:        strings.TrimSpace(in.Email),
		IsPrimary:    in.IsPrimary,
	}
	r := s.Store.Repos()
	if err := r.Contacts.Create(ctx, c); err != nil {
		return nil, err
	}

	if s.Notifier != nil {
		owner, err := r.Users.GetByID(ctx, callerID)
		if err == nil {
			err = s.Notifier.ContactDesignated(ctx, owner, c)
		}
		if err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithFields(logrus.Fields{"user_id": callerID, "contact_id": c.ID}).Warn("contact notification failed")
		}
	}
	return c, nil
}

func (s *ContactService) Update(ctx context.Context, callerID, id int64, in ContactInput) (*entity.TrustedContact, error) {
	c, err := s.Get(ctx, callerID, id)
	if err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	c.Name = strings.TrimSpace(in.Name)
	c.Relationship = strings.TrimSpace(in.Relationship)
	c.Email = strings.TrimSpace(in.Email)
	c.IsPrimary = in.IsPrimary
	if err := s.Store.Repos().Contacts.Update(ctx, c); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (s *ContactService) Delete(ctx context.Context, callerID, id int64) error {
	if _, err := s.Get(ctx, callerID, id); err != nil {
		return err
	}
	if err := s.Store.Repos().Contacts.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
