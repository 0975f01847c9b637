package messaging

import (
	"context"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/hostelmess/mess-service/internal/core/ports"
)

var _ ports.EventPublisher = (*RabbitMQBroker)(nil)

// Publish routes evt through the events exchange by its type. The outbox row
// id travels as the message id so consumers can drop redeliveries.
func (b *RabbitMQBroker) Publish(ctx context.Context, evt ports.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    evt.ID,
		Type:         evt.EventType,
		AppId:        "mess-relay",
		Timestamp:    time.Now().UTC(),
		Body:         evt.Payload,
	}
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.ch.PublishWithContext(ctx, EventsExchange, evt.EventType, false, false, msg)
	})
	return err
}
