package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/digital-legacy/internal/domain/entity"
	repo "github.com/oksasatya/digital-legacy/internal/domain/repository"
)

// ExecutorService is the executor portal: a trusted contact triggers the plan
// of a deceased user. Membership in the user's contact list is the only proof
// required. Nothing is remembered between calls.
type ExecutorService struct {
	Store  repo.UnitOfWork
	Plan   *PlanService
	Logger *logrus.Logger
}

func NewExecutorService(store repo.UnitOfWork, plan *PlanService, logger *logrus.Logger) *ExecutorService {
	return &ExecutorService{Store: store, Plan: plan, Logger: logger}
}

type ExecutorRequest struct {
	ContactEmail  string
	DeceasedEmail string
	Message       string
}

// ExecutorResult carries the executor's message back for the confirmation view; it is never stored.
type ExecutorResult struct {
	Deceased *entity.User
	Contact  *entity.TrustedContact
	Accounts []entity.Account
	Logs     []entity.ExecutionLog
	Message  string
}

// AuthorizeAndExecute checks each gate in order and runs the plan only when all pass.
// An unknown deceased email is reported as such, which reveals whether the
// address belongs to a registered user.
func (s *ExecutorService) AuthorizeAndExecute(ctx context.Context, req ExecutorRequest) (*ExecutorResult, error) {
	contactEmail := strings.TrimSpace(req.ContactEmail)
	deceasedEmail := strings.TrimSpace(req.DeceasedEmail)
	if contactEmail == "" || deceasedEmail == "" {
		return nil, s.reject(ErrMissingInput, "missing_input", 0)
	}

	r := s.Store.Repos()
	deceased, err := r.Users.GetByEmail(ctx, deceasedEmail)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, s.reject(ErrUnknownDeceasedUser, "unknown_deceased_user", 0)
		}
		return nil, err
	}

	contact, err := r.Contacts.FindByUserAndEmail(ctx, deceased.ID, contactEmail)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, s.reject(ErrNotTrustedContact, "not_trusted_contact", deceased.ID)
		}
		return nil, err
	}

	if _, err := s.Plan.execute(ctx, deceased, TriggerExecutor, contact.Email); err != nil {
		return nil, err
	}

	accounts, err := s.Plan.ListAccounts(ctx, deceased.ID)
	if err != nil {
		return nil, err
	}
	logs, err := s.Plan.ListLogs(ctx, deceased.ID)
	if err != nil {
		return nil, err
	}

	return &ExecutorResult{
		Deceased: deceased,
		Contact:  contact,
		Accounts: accounts,
		Logs:     logs,
		Message:  req.Message,
	}, nil
}

func (s *ExecutorService) reject(err error, reason string, userID int64) error {
	executorRejections.Add(reason, 1)
	if s.Logger != nil {
		fields := logrus.Fields{"reason": reason}
		if userID != 0 {
			fields["user_id"] = userID
		}
		s.Logger.WithFields(fields).Warn("executor request rejected")
	}
	return err
}
