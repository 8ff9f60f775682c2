package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either Template with Data, or Subject with Text and optional HTML.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // "plan_executed" or "contact_designated"
	Data     map[string]any `json:"data,omitempty"`
}

// MessageType is the AMQP type property: email.<template>, or email.raw.
func (j EmailJob) MessageType() string {
	if j.Template == "" {
		return "email.raw"
	}
	return "email." + j.Template
}
