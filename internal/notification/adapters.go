package notification

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Channel is an outbound messaging adapter. Send failures are logged by the
// caller and never block acknowledgment: delivery is best-effort, not
// transactional.
type Channel interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

// EmailChannel is the default channel every notification handler uses.
type EmailChannel struct {
	log *zap.Logger
}

// NewEmailChannel wraps log for send-time reporting.
func NewEmailChannel(log *zap.Logger) *EmailChannel {
	return &EmailChannel{log: log}
}

// Send simulates dispatching an email, matching the reference adapter's
// fixed processing delay.
func (c *EmailChannel) Send(ctx context.Context, recipient, subject, body string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(300 * time.Millisecond):
	}
	c.log.Info("email sent", zap.String("to", recipient), zap.String("subject", subject))
	return nil
}

// SMSChannel exists as a second injectable channel, matching the
// reference's SMS adapter, but no baseline handler calls it — the
// reference's own message-construction paths only ever call its email
// equivalent.
type SMSChannel struct {
	log *zap.Logger
}

// NewSMSChannel wraps log for send-time reporting.
func NewSMSChannel(log *zap.Logger) *SMSChannel {
	return &SMSChannel{log: log}
}

// Send simulates dispatching an SMS.
func (c *SMSChannel) Send(ctx context.Context, recipient, subject, body string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(200 * time.Millisecond):
	}
	c.log.Info("sms sent", zap.String("to", recipient))
	return nil
}
