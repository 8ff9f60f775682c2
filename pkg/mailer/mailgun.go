package mailer

import (
	"context"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

const sendTimeout = 10 * time.Second

// Mailgun sends rendered emails through one reusable Mailgun client.
type Mailgun struct {
	Sender string
	client *mg.MailgunImpl
}

func NewMailgun(domain, apiKey, sender string) *Mailgun {
	return &Mailgun{Sender: sender, client: mg.NewMailgun(domain, apiKey)}
}

// Send delivers one message. html is optional. Tags (the template name for
// templated jobs) show up in Mailgun analytics.
func (m *Mailgun) Send(ctx context.Context, to, subject, text, html string, tags ...string) (string, error) {
	msg := m.client.NewMessage(m.Sender, subject, text, to)
	if html != "" {
		msg.SetHtml(html)
	}
	for _, tag := range tags {
		if tag == "" {
			continue
		}
		if err := msg.AddTag(tag); err != nil {
			return "", err
		}
	}
	c, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	_, id, err := m.client.Send(c, msg)
	return id, err
}
