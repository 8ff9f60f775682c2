package helpers

import (
	"fmt"
	"strings"

	"github.com/oksasatya/digital-legacy/pkg/mailer"
	mailtpl "github.com/oksasatya/digital-legacy/pkg/mailer/templates"
)

// SubjectFor is the fallback subject when a job carries none and the subject template is empty.
func SubjectFor(data map[string]any) string {
	typeStr := fmt.Sprintf("%v", data["Type"])
	switch strings.ToLower(typeStr) {
	case mailtpl.PlanExecuted:
		return "A digital legacy plan has been carried out"
	case mailtpl.ContactDesignated:
		return "You have been named a trusted contact"
	default:
		return "Notification"
	}
}

func EnsureRecipientAndEmail(job *mailer.EmailJob) {
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["Email"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["Email"] = job.To
	}
	if v, ok := job.Data["RecipientEmail"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["RecipientEmail"] = job.To
	}
}

// EnsureType copies the template name into Data["Type"] for jobs that only set Template.
func EnsureType(job *mailer.EmailJob) {
	if job.Template == "" {
		return
	}
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["Type"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["Type"] = strings.ToLower(job.Template)
	}
}

// ComposeEmail normalizes job and renders its template when one is set.
// Explicit subject/text/html on the job are used as-is when no template is given.
func ComposeEmail(job *mailer.EmailJob) (subject, text, html string, err error) {
	EnsureRecipientAndEmail(job)
	EnsureType(job)
	if job.Template == "" {
		subject = job.Subject
		if subject == "" {
			subject = SubjectFor(job.Data)
		}
		return subject, job.Text, job.HTML, nil
	}
	subject, text, html, err = mailtpl.Render(strings.ToLower(job.Template), job.Data)
	if err != nil {
		return "", "", "", err
	}
	subject = strings.TrimSpace(subject)
	if job.Subject != "" {
		subject = job.Subject
	}
	if subject == "" {
		subject = SubjectFor(job.Data)
	}
	return subject, text, html, nil
}
