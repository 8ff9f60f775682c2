package application

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/digital-legacy/internal/domain/entity"
	repo "github.com/oksasatya/digital-legacy/internal/domain/repository"
)

const defaultLockTimeout = 10 * time.Second

// PlanService is the plan execution engine plus the read side of the plan.
type PlanService struct {
	Store       repo.UnitOfWork
	Locker      Locker
	Clock       Clock
	Logger      *logrus.Logger
	Hooks       []ExecutionHook
	Search      LogSearcher
	LockTimeout time.Duration
}

func NewPlanService(store repo.UnitOfWork, locker Locker, clock Clock, logger *logrus.Logger, hooks ...ExecutionHook) *PlanService {
	if clock == nil {
		clock = RealClock{}
	}
	return &PlanService{
		Store:       store,
		Locker:      locker,
		Clock:       clock,
		Logger:      logger,
		Hooks:       hooks,
		LockTimeout: defaultLockTimeout,
	}
}

// PlanView is everything a user has declared.
type PlanView struct {
	Accounts []entity.Account
	Contacts []entity.TrustedContact
}

// ExecutionResult is the post-execution view: logs most recent first.
type ExecutionResult struct {
	Logs     []entity.ExecutionLog
	Accounts []entity.Account
}

func userLockKey(userID int64) string {
	return "plan:execute:" + strconv.FormatInt(userID, 10)
}

// ExecutePlan applies every account's action, appends one log entry per
// account and marks the user deceased, all in one transaction. It does not
// check authorization; callers do.
func (s *PlanService) ExecutePlan(ctx context.Context, user *entity.User) ([]entity.ExecutionLog, error) {
	return s.execute(ctx, user, TriggerSelf, "")
}

// ExecuteForCaller is the self-test path: the caller can only run their own plan.
func (s *PlanService) ExecuteForCaller(ctx context.Context, callerID int64) ([]entity.ExecutionLog, error) {
	u, err := s.Store.Repos().Users.GetByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.execute(ctx, u, TriggerSelf, "")
}

func (s *PlanService) execute(ctx context.Context, user *entity.User, trigger Trigger, executedBy string) ([]entity.ExecutionLog, error) {
	if user == nil {
		return nil, ErrUserNotFound
	}
	logs, accounts, err := s.commit(ctx, user)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithFields(logrus.Fields{"user_id": user.ID, "trigger": trigger}).Error("plan execution failed")
		}
		return nil, err
	}

	user.IsDeceased = true
	planExecutions.Add(1)
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{
			"user_id":  user.ID,
			"accounts": len(accounts),
			"trigger":  trigger,
		}).Info("plan executed")
	}

	s.runHooks(ctx, ExecutionReport{
		User:       *user,
		Trigger:    trigger,
		ExecutedBy: executedBy,
		Accounts:   accounts,
		Logs:       logs,
		ExecutedAt: s.Clock.Now().UTC(),
	})
	return logs, nil
}

// commit holds the per-user lock only for the transaction; hooks run after
// it is released.
func (s *PlanService) commit(ctx context.Context, user *entity.User) ([]entity.ExecutionLog, []entity.Account, error) {
	unlock, err := s.acquire(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	defer unlock()

	var (
		logs     []entity.ExecutionLog
		accounts []entity.Account
	)
	err = s.Store.WithinTx(ctx, func(r repo.Repositories) error {
		if _, err := r.Users.LockByID(ctx, user.ID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		// Entries never sort before ones already stored, even if the clock
		// stepped back since the previous run.
		floor, err := r.Logs.LatestTimestamp(ctx, user.ID)
		if err != nil {
			return err
		}

		accounts, err = r.Accounts.ListByUser(ctx, user.ID)
		if err != nil {
			return err
		}

		logs = make([]entity.ExecutionLog, 0, len(accounts))
		for i := range accounts {
			acc := &accounts[i]
			text := acc.Execute()
			if err := r.Accounts.UpdateStatus(ctx, acc.ID, acc.Status); err != nil {
				return fmt.Errorf("account %d: %w", acc.ID, err)
			}
			ts := s.Clock.Now().UTC()
			if ts.Before(floor) {
				ts = floor
			}
			floor = ts
			accountID := acc.ID
			entry := entity.ExecutionLog{
				UserID:      user.ID,
				AccountID:   &accountID,
				ActionTaken: text,
				Timestamp:   ts,
			}
			if err := r.Logs.Append(ctx, &entry); err != nil {
				return fmt.Errorf("account %d: %w", acc.ID, err)
			}
			logs = append(logs, entry)
		}

		return r.Users.MarkDeceased(ctx, user.ID)
	})
	if err != nil {
		return nil, nil, err
	}
	return logs, accounts, nil
}

func (s *PlanService) acquire(ctx context.Context, userID int64) (func(), error) {
	if s.Locker == nil {
		return func() {}, nil
	}
	timeout := s.LockTimeout
	if timeout <= 0 {
		timeout = defaultLockTimeout
	}
	c, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	unlock, err := s.Locker.Lock(c, userLockKey(userID))
	if err != nil {
		return nil, fmt.Errorf("acquire execution lock: %w", err)
	}
	return unlock, nil
}

func (s *PlanService) runHooks(ctx context.Context, report ExecutionReport) {
	if len(s.Hooks) == 0 {
		return
	}
	contacts, err := s.Store.Repos().Contacts.ListByUser(ctx, report.User.ID)
	if err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", report.User.ID).Warn("load contacts for hooks failed")
	}
	report.Contacts = contacts
	for _, h := range s.Hooks {
		if err := h.AfterExecute(ctx, report); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithFields(logrus.Fields{"hook": h.Name(), "user_id": report.User.ID}).Warn("execution hook failed")
		}
	}
}

// ListLogs returns a user's execution log, most recent first.
func (s *PlanService) ListLogs(ctx context.Context, userID int64) ([]entity.ExecutionLog, error) {
	return s.Store.Repos().Logs.ListByUser(ctx, userID)
}

// ListAccounts returns a user's accounts in ascending id order.
func (s *PlanService) ListAccounts(ctx context.Context, userID int64) ([]entity.Account, error) {
	return s.Store.Repos().Accounts.ListByUser(ctx, userID)
}

func (s *PlanService) ViewPlan(ctx context.Context, callerID int64) (*PlanView, error) {
	r := s.Store.Repos()
	accounts, err := r.Accounts.ListByUser(ctx, callerID)
	if err != nil {
		return nil, err
	}
	contacts, err := r.Contacts.ListByUser(ctx, callerID)
	if err != nil {
		return nil, err
	}
	return &PlanView{Accounts: accounts, Contacts: contacts}, nil
}

func (s *PlanService) Result(ctx context.Context, callerID int64) (*ExecutionResult, error) {
	logs, err := s.ListLogs(ctx, callerID)
	if err != nil {
		return nil, err
	}
	accounts, err := s.ListAccounts(ctx, callerID)
	if err != nil {
		return nil, err
	}
	return &ExecutionResult{Logs: logs, Accounts: accounts}, nil
}

// SearchLogs runs a free-text query over the caller's indexed log entries.
func (s *PlanService) SearchLogs(ctx context.Context, callerID int64, q string, size int) ([]map[string]any, error) {
	if s.Search == nil {
		return []map[string]any{}, nil
	}
	return s.Search.SearchLogs(ctx, callerID, q, size)
}
