package notify

import (
	"context"
	"time"

	"foodshare/internal/models"
	"foodshare/pkg/logger"
	"foodshare/pkg/mailer"
)

// DeliveryLog persists the outcome of each delivery attempt.
type DeliveryLog interface {
	Record(ctx context.Context, entry *models.NotificationLog) error
}

// Deliverer makes a single send attempt per notification and records it.
type Deliverer struct {
	mailer  mailer.Mailer
	log     DeliveryLog
	timeout time.Duration
}

func NewDeliverer(m mailer.Mailer, log DeliveryLog) *Deliverer {
	return &Deliverer{
		mailer:  m,
		log:     log,
		timeout: 30 * time.Second,
	}
}

// Deliver sends n once. The send error is returned after the outcome has
// been recorded.
func (d *Deliverer) Deliver(ctx context.Context, n Notification) error {
	sendCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	err := d.mailer.Send(sendCtx, n.To, n.ToName, n.Subject, n.Body)
	if err != nil {
		d.RecordFailure(ctx, n, err)
		return err
	}

	logger.InfoContext(ctx, "notification sent", "id", n.ID, "kind", n.Kind, "request_id", n.RequestID, "to", n.To)
	d.record(ctx, n, models.DeliverySent, "")
	return nil
}

// RecordFailure logs and stores a notification that could not be delivered.
func (d *Deliverer) RecordFailure(ctx context.Context, n Notification, cause error) {
	logger.ErrorContext(ctx, "notification delivery failed",
		"id", n.ID, "kind", n.Kind, "request_id", n.RequestID, "to", n.To, "error", cause)
	d.record(ctx, n, models.DeliveryFailed, cause.Error())
}

func (d *Deliverer) record(ctx context.Context, n Notification, status models.DeliveryStatus, errText string) {
	if d.log == nil {
		return
	}
	entry := &models.NotificationLog{
		MessageID: n.ID,
		RequestID: n.RequestID,
		Kind:      string(n.Kind),
		Recipient: n.To,
		Subject:   n.Subject,
		Status:    status,
		Error:     errText,
	}
	if err := d.log.Record(context.WithoutCancel(ctx), entry); err != nil {
		logger.ErrorContext(ctx, "failed to record notification outcome", "id", n.ID, "error", err)
	}
}
