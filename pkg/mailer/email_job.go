package mailer

import (
	tpl "grocerylist-api/pkg/mailer/templates"
)

// EmailJob is the JSON payload put on the RabbitMQ queue for non-critical
// notification mail. Template names one of the bundled template sets
// (e.g. "login_notification"); Data feeds its placeholders. When Template
// is empty the literal Subject/Text/HTML fields are sent as-is.
type EmailJob struct {
	To       string        `json:"to"`
	Subject  string        `json:"subject,omitempty"`
	Text     string        `json:"text,omitempty"`
	HTML     string        `json:"html,omitempty"`
	Template string        `json:"template,omitempty"`
	Data     tpl.EmailData `json:"data,omitempty"`
}
