// Package email renders and delivers transactional email for the matching
// pipeline. Delivery runs behind the Sender interface so the outbox worker
// and tests never touch SMTP directly.
package email

import (
	"context"

	"advisormatch_backend/platform/config"
)

// Sender delivers the notification emails the pipeline produces.
type Sender interface {
	// SendNewLeadEmail notifies the admin address that a consumer
	// submission arrived.
	SendNewLeadEmail(ctx context.Context, toEmail, consumerName, state, portfolioBucket string) error
	// SendLeadAssignedEmail notifies an advisor that a lead was routed to
	// them.
	SendLeadAssignedEmail(ctx context.Context, toEmail, consumerName, consumerEmail, consumerPhone string) error
	// SendLeadScheduledEmail notifies an advisor of a booked appointment.
	SendLeadScheduledEmail(ctx context.Context, toEmail, consumerName, scheduledDate string) error
}

// NewSender selects the delivery backend from configuration. Without SMTP
// settings it returns a NoopSender so callers never branch on email being
// enabled.
func NewSender(cfg config.EmailConfig) Sender {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}
	}
	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	)
}

// NoopSender is used when email delivery is not configured. Every send
// succeeds without doing anything.
type NoopSender struct{}

func (NoopSender) SendNewLeadEmail(ctx context.Context, toEmail, consumerName, state, portfolioBucket string) error {
	return nil
}

func (NoopSender) SendLeadAssignedEmail(ctx context.Context, toEmail, consumerName, consumerEmail, consumerPhone string) error {
	return nil
}

func (NoopSender) SendLeadScheduledEmail(ctx context.Context, toEmail, consumerName, scheduledDate string) error {
	return nil
}
