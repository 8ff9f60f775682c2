package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/digital-legacy/config"
	"github.com/oksasatya/digital-legacy/internal/application"
	"github.com/oksasatya/digital-legacy/internal/domain/entity"
	"github.com/oksasatya/digital-legacy/pkg/mailer"
	mailtpl "github.com/oksasatya/digital-legacy/pkg/mailer/templates"
)

type fakePublisher struct {
	jobs   []mailer.EmailJob
	failTo string
}

func (p *fakePublisher) PublishJSON(_ context.Context, body any) error {
	job := body.(mailer.EmailJob)
	if job.To == p.failTo {
		return errors.New("channel closed")
	}
	p.jobs = append(p.jobs, job)
	return nil
}

func TestAfterExecute_OneJobPerContact(t *testing.T) {
	pub := &fakePublisher{failTo: "dan@example.com"}
	n := NewEmailNotifier(pub, &config.Config{AppName: "digital-legacy"}, nil)

	report := application.ExecutionReport{
		User:       entity.User{ID: 1, Name: "Ada", Email: "ada@example.com", IsDeceased: true},
		Trigger:    application.TriggerExecutor,
		ExecutedBy: "carol@example.com",
		Accounts:   []entity.Account{{ServiceName: "Gmail", Status: entity.StatusMarkedForDeletion}},
		Contacts: []entity.TrustedContact{
			{ID: 10, Name: "Carol", Email: "carol@example.com"},
			{ID: 11, Name: "Dan", Email: "dan@example.com"},
		},
		ExecutedAt: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
	}

	err := n.AfterExecute(context.Background(), report)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "contact 11")

	require.Len(t, pub.jobs, 1)
	job := pub.jobs[0]
	assert.Equal(t, "carol@example.com", job.To)
	assert.Equal(t, mailtpl.PlanExecuted, job.Template)
	assert.Equal(t, "Ada", job.Data["OwnerName"])
	assert.Equal(t, "carol@example.com", job.Data["ExecutedBy"])
}

func TestContactDesignated(t *testing.T) {
	pub := &fakePublisher{}
	n := NewEmailNotifier(pub, &config.Config{ExecutorPortalURL: "https://legacy.test/executor"}, nil)

	err := n.ContactDesignated(context.Background(),
		&entity.User{Name: "Ada", Email: "ada@example.com"},
		&entity.TrustedContact{Name: "Carol", Email: "carol@example.com"},
	)
	require.NoError(t, err)
	require.Len(t, pub.jobs, 1)
	assert.Equal(t, mailtpl.ContactDesignated, pub.jobs[0].Template)
	assert.Equal(t, "https://legacy.test/executor", pub.jobs[0].Data["PortalURL"])
}
