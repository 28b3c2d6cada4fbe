package notify

import (
	"context"
	"crypto/tls"
	"fmt"

	mail "github.com/go-mail/mail"
)

// SMTPMailer delivers notifications over SMTP.
type SMTPMailer struct {
	host string
	port int
	user string
	pass string
	from string
	to   string
}

// NewSMTPMailer creates an SMTP-backed mailer. from and to are fixed per
// deployment; the notification surface has a single operations recipient.
func NewSMTPMailer(host string, port int, user, pass, from, to string) *SMTPMailer {
	return &SMTPMailer{host: host, port: port, user: user, pass: pass, from: from, to: to}
}

func (s *SMTPMailer) Send(ctx context.Context, subject, body string) error {
	m := mail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", s.to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := mail.NewDialer(s.host, s.port, s.user, s.pass)
	d.TLSConfig = &tls.Config{ServerName: s.host}

	// go-mail has no context-aware send; honor cancellation before dialing.
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

var _ Mailer = (*SMTPMailer)(nil)
