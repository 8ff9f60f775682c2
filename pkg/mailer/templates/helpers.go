package templates

import (
	"strings"
	"time"

	"github.com/oksasatya/digital-legacy/config"
	"github.com/oksasatya/digital-legacy/internal/domain/entity"
)

// Option pattern
type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04 MST")
	}
}

func WithOwner(u entity.User) Option {
	return func(d *EmailData) {
		d.OwnerName = u.Name
		d.OwnerEmail = u.Email
	}
}

func WithExecutedBy(email string) Option {
	return func(d *EmailData) { d.ExecutedBy = strings.TrimSpace(email) }
}

func WithAccounts(accounts []entity.Account) Option {
	return func(d *EmailData) {
		lines := make([]AccountLine, 0, len(accounts))
		for _, a := range accounts {
			lines = append(lines, AccountLine{ServiceName: a.ServiceName, Action: string(a.Action), Status: string(a.Status)})
		}
		d.Accounts = lines
	}
}

// NewBaseEmailData fills the common fields from config, then applies options.
func NewBaseEmailData(cfg *config.Config, typ string, name, recipient string, opts ...Option) EmailData {
	d := EmailData{
		Name:           name,
		Email:          recipient,
		RecipientEmail: recipient,
		Type:           typ,

		CompanyName:    cfg.CompanyName,
		CompanyAddress: cfg.CompanyAddress,
		AppName:        cfg.AppName,

		LogoURL:    cfg.LogoURL,
		SupportURL: cfg.SupportURL,
		PrivacyURL: cfg.PrivacyURL,
		PortalURL:  cfg.ExecutorPortalURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// NewPlanExecutedData tells a trusted contact that owner's plan has been carried out.
func NewPlanExecutedData(cfg *config.Config, contact entity.TrustedContact, owner entity.User, opts ...Option) map[string]any {
	opts = append([]Option{WithOwner(owner)}, opts...)
	d := NewBaseEmailData(cfg, PlanExecuted, contact.Name, contact.Email, opts...)
	return ToMap(d)
}

// NewContactDesignatedData tells a newly added contact how to reach the executor portal.
func NewContactDesignatedData(cfg *config.Config, contact entity.TrustedContact, owner entity.User, opts ...Option) map[string]any {
	opts = append([]Option{WithOwner(owner)}, opts...)
	d := NewBaseEmailData(cfg, ContactDesignated, contact.Name, contact.Email, opts...)
	return ToMap(d)
}
