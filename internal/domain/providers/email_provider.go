package providers

import (
	"context"
)

// EmailSender defines the interface for outbound email delivery
type EmailSender interface {
	// Send delivers a single plain-text message
	Send(ctx context.Context, to, subject, body string) error
}
