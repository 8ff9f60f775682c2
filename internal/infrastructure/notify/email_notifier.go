package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/digital-legacy/config"
	"github.com/oksasatya/digital-legacy/internal/application"
	"github.com/oksasatya/digital-legacy/internal/domain/entity"
	"github.com/oksasatya/digital-legacy/pkg/mailer"
	mailtpl "github.com/oksasatya/digital-legacy/pkg/mailer/templates"
)

// Publisher puts a JSON message on the email queue. *helpers.RabbitPublisher satisfies it.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// EmailNotifier enqueues emails for the email worker.
type EmailNotifier struct {
	Publisher Publisher
	Config    *config.Config
	Logger    *logrus.Logger
}

func NewEmailNotifier(pub Publisher, cfg *config.Config, logger *logrus.Logger) *EmailNotifier {
	return &EmailNotifier{Publisher: pub, Config: cfg, Logger: logger}
}

func (n *EmailNotifier) Name() string { return "email" }

// AfterExecute sends one plan_executed email to every trusted contact of the user.
func (n *EmailNotifier) AfterExecute(ctx context.Context, r application.ExecutionReport) error {
	var errs []error
	for _, c := range r.Contacts {
		data := mailtpl.NewPlanExecutedData(n.Config, c, r.User,
			mailtpl.WithAccounts(r.Accounts),
			mailtpl.WithExecutedBy(r.ExecutedBy),
			mailtpl.WithTime(r.ExecutedAt),
		)
		job := mailer.EmailJob{To: c.Email, Template: mailtpl.PlanExecuted, Data: data}
		if err := n.Publisher.PublishJSON(ctx, job); err != nil {
			errs = append(errs, fmt.Errorf("contact %d: %w", c.ID, err))
		}
	}
	if n.Logger != nil {
		n.Logger.WithFields(logrus.Fields{"user_id": r.User.ID, "contacts": len(r.Contacts), "failed": len(errs)}).Debug("execution emails queued")
	}
	return errors.Join(errs...)
}

// ContactDesignated tells a new trusted contact where the executor portal is.
func (n *EmailNotifier) ContactDesignated(ctx context.Context, owner *entity.User, contact *entity.TrustedContact) error {
	data := mailtpl.NewContactDesignatedData(n.Config, *contact, *owner)
	return n.Publisher.PublishJSON(ctx, mailer.EmailJob{To: contact.Email, Template: mailtpl.ContactDesignated, Data: data})
}

var (
	_ application.ExecutionHook   = (*EmailNotifier)(nil)
	_ application.ContactNotifier = (*EmailNotifier)(nil)
)
