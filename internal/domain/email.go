package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// Notification is an out-of-band message to a single recipient.
// Template selects the embedded email template rendered with Data.
type Notification struct {
	Recipient string
	Template  string
	Data      any
}

// ConferenceCreatedEmailData holds data for the conference creation confirmation.
type ConferenceCreatedEmailData struct {
	Email          string
	DisplayName    string
	ConferenceName string
	ConferenceInfo string
}

// NotificationDispatcher delivers notifications without blocking the caller.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, n Notification)
}
