// Package notify provides outbound mail notification for resource events.
//
// The API dispatches a notification when a point of interest is deleted.
// Delivery is best-effort and asynchronous; a failed send never fails the
// request that triggered it.
package notify

import (
	"context"
	"log/slog"
)

// Mailer sends a notification message to the configured operations address.
type Mailer interface {
	Send(ctx context.Context, subject, body string) error
}

// LogMailer writes notifications to the structured log instead of sending
// mail. Used in development and tests.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer creates a log-only mailer.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (l *LogMailer) Send(_ context.Context, subject, body string) error {
	l.logger.Info("mail notification",
		"subject", subject,
		"body", body,
	)
	return nil
}

var _ Mailer = (*LogMailer)(nil)
