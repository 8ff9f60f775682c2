package router

import (
	"context"

	"github.com/oksasatya/digital-legacy/internal/application"
	"github.com/oksasatya/digital-legacy/internal/container"
	"github.com/oksasatya/digital-legacy/internal/infrastructure/archive"
	"github.com/oksasatya/digital-legacy/internal/infrastructure/notify"
	"github.com/oksasatya/digital-legacy/internal/infrastructure/search"
	handlers "github.com/oksasatya/digital-legacy/internal/interface/http"
	"github.com/oksasatya/digital-legacy/internal/router/modules"
)

// Services groups the application services built from the container.
type Services struct {
	Users    *application.UserService
	Accounts *application.AccountService
	Contacts *application.ContactService
	Plan     *application.PlanService
	Executor *application.ExecutorService
}

// BuildServices wires services and execution hooks from the container singletons.
// Optional infrastructure that is not configured is simply left out.
func BuildServices() Services {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	store := container.GetStore()

	var (
		hooks    []application.ExecutionHook
		notifier application.ContactNotifier
		searcher application.LogSearcher
	)
	if pub := container.GetRabbitPub(); pub != nil && cfg.MailSendEnabled {
		email := notify.NewEmailNotifier(pub, cfg, logger)
		hooks = append(hooks, email)
		notifier = email
	}
	if es := container.GetES(); es != nil {
		idx := search.NewLogIndex(es, cfg.ESLogsIndex, logger)
		if err := idx.EnsureIndex(context.Background()); err != nil {
			logger.WithError(err).Warn("elasticsearch index not ready; log search may be empty")
		}
		hooks = append(hooks, idx)
		searcher = idx
	}
	if gcs := container.GetGCS(); gcs != nil && cfg.GCSBucket != "" {
		hooks = append(hooks, archive.NewGCSReportArchive(gcs, cfg.GCSBucket, logger))
	}

	plan := application.NewPlanService(store, container.GetLocker(), application.RealClock{}, logger, hooks...)
	plan.LockTimeout = cfg.ExecutionLockTimeout
	plan.Search = searcher

	return Services{
		Users:    application.NewUserService(store, container.GetJWT(), container.GetRedis(), logger),
		Accounts: application.NewAccountService(store, logger),
		Contacts: application.NewContactService(store, notifier, logger),
		Plan:     plan,
		Executor: application.NewExecutorService(store, plan, logger),
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	jwt := container.GetJWT()
	svc := BuildServices()

	r.Add(modules.NewUserModule(handlers.NewUserHandler(svc.Users, logger, cfg.CookieDomain, cfg.CookieSecure), jwt))
	r.Add(modules.NewRegistryModule(
		handlers.NewAccountHandler(svc.Accounts, logger),
		handlers.NewContactHandler(svc.Contacts, logger),
		jwt,
	))
	r.Add(modules.NewPlanModule(
		handlers.NewPlanHandler(svc.Plan, logger),
		handlers.NewExecutorHandler(svc.Executor, logger),
		jwt,
	))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
