package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"foodshare/pkg/logger"

	"github.com/streadway/amqp"
)

// Publisher is the part of the RabbitMQ client the dispatcher needs.
type Publisher interface {
	Publish(messageID string, body []byte) error
}

// AMQPPublisher is a Sender that publishes notifications to a broker queue;
// a consumer running ConsumeHandler delivers them. Publishing can block under
// broker flow control, so it runs behind a Queue rather than on the request
// path.
type AMQPPublisher struct {
	publisher Publisher
	deliverer *Deliverer
}

func NewAMQPPublisher(publisher Publisher, deliverer *Deliverer) *AMQPPublisher {
	return &AMQPPublisher{publisher: publisher, deliverer: deliverer}
}

// Deliver publishes n once. Failures are recorded as failed deliveries and
// not retried.
func (p *AMQPPublisher) Deliver(ctx context.Context, n Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		err = fmt.Errorf("failed to marshal notification: %w", err)
		p.deliverer.RecordFailure(ctx, n, err)
		return err
	}
	if err := p.publisher.Publish(n.ID, body); err != nil {
		p.deliverer.RecordFailure(ctx, n, err)
		return err
	}
	logger.InfoContext(ctx, "notification published", "id", n.ID, "kind", n.Kind, "request_id", n.RequestID)
	return nil
}

func (p *AMQPPublisher) RecordFailure(ctx context.Context, n Notification, cause error) {
	p.deliverer.RecordFailure(ctx, n, cause)
}

// ConsumeHandler decodes a published notification and delivers it once.
func ConsumeHandler(deliverer *Deliverer) func(msg amqp.Delivery) error {
	return func(msg amqp.Delivery) error {
		var n Notification
		if err := json.Unmarshal(msg.Body, &n); err != nil {
			return fmt.Errorf("failed to decode notification %s: %w", msg.MessageId, err)
		}
		return deliverer.Deliver(context.Background(), n)
	}
}
