package notifications

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/openlots/parking-reservation/pkg/config"
)

// SMTPSender delivers plain-text email through an SMTP relay
type SMTPSender struct {
	addr string
	from string
	auth smtp.Auth
}

// NewSMTPSender creates a new SMTP sender from configuration
func NewSMTPSender(cfg *config.SMTPConfig) (*SMTPSender, error) {
	if cfg.From == "" {
		return nil, fmt.Errorf("SMTP_FROM must be set")
	}

	return &SMTPSender{
		addr: cfg.Addr(),
		from: cfg.From,
		auth: smtp.PlainAuth("", cfg.From, cfg.Password, cfg.Host),
	}, nil
}

// Send delivers a single message. SendMail blocks until the relay
// accepts or rejects the message; the context is only consulted before
// dialing.
func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if to == "" {
		return fmt.Errorf("recipient address is empty")
	}

	msg := buildMessage(s.from, to, subject, body)
	if err := smtp.SendMail(s.addr, s.auth, s.from, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

// buildMessage assembles an RFC 5322 style message with CRLF line endings
func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
