package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"conferencecentral/internal/domain"
)

type emailDispatcher struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
	timeout  time.Duration
	runTask  func(func())
}

// NewEmailDispatcher returns a NotificationDispatcher that renders the notification's
// template and sends it through mailer on a background goroutine. Failures are logged.
func NewEmailDispatcher(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger, timeout time.Duration) domain.NotificationDispatcher {
	return &emailDispatcher{
		mailer:   mailer,
		renderer: renderer,
		logger:   logger,
		timeout:  timeout,
		runTask:  func(f func()) { go f() },
	}
}

func (d *emailDispatcher) Dispatch(ctx context.Context, n domain.Notification) {
	ctx = context.WithoutCancel(ctx)
	d.runTask(func() {
		ctx, cancel := context.WithTimeout(ctx, d.timeout)
		defer cancel()
		if err := d.send(ctx, n); err != nil {
			d.logger.ErrorContext(ctx, "notification failed", "template", n.Template, "recipient", n.Recipient, "err", err)
			return
		}
		d.logger.InfoContext(ctx, "notification sent", "template", n.Template, "recipient", n.Recipient)
	})
}

func (d *emailDispatcher) send(ctx context.Context, n domain.Notification) error {
	if n.Recipient == "" {
		return fmt.Errorf("notification recipient is empty")
	}
	subject, htmlBody, textBody, err := d.renderer.Render(n.Template, n.Data)
	if err != nil {
		return fmt.Errorf("render %s template: %w", n.Template, err)
	}
	if err := d.mailer.Send(ctx, n.Recipient, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("send %s email: %w", n.Template, err)
	}
	return nil
}
