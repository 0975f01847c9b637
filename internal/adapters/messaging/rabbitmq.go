// Package messaging publishes relayed outbox events to RabbitMQ.
package messaging

import (
	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/hostelmess/mess-service/internal/config"
)

// EventsExchange is the topic exchange every mess event is published to,
// routed by event type ("complaint.submitted", "notification.published", ...).
const EventsExchange = "mess.events"

// bindings are the routing patterns the events queue subscribes to.
var bindings = []string{"complaint.*", "notification.*"}

// RabbitMQBroker implements ports.EventPublisher.
type RabbitMQBroker struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
	cb    *gobreaker.CircuitBreaker
	log   *zap.Logger
}

// NewRabbitMQBroker declares the exchange, the durable events queue and its
// bindings. All declarations are idempotent.
func NewRabbitMQBroker(amqpURL, queueName string, log *zap.Logger) (*RabbitMQBroker, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, errors.Wrap(err, "dialing rabbitmq")
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "opening channel")
	}

	if err := declareTopology(ch, queueName); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	b := &RabbitMQBroker{
		conn:  conn,
		ch:    ch,
		queue: queueName,
		cb:    config.NewCircuitBreaker(config.BreakerPublisher, log),
		log:   log,
	}
	go b.watch(conn.NotifyClose(make(chan *amqp.Error, 1)))
	return b, nil
}

func declareTopology(ch *amqp.Channel, queueName string) error {
	if err := ch.ExchangeDeclare(EventsExchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return errors.Wrapf(err, "declaring exchange %s", EventsExchange)
	}
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		return errors.Wrapf(err, "declaring queue %s", queueName)
	}
	for _, key := range bindings {
		if err := ch.QueueBind(queueName, key, EventsExchange, false, nil); err != nil {
			return errors.Wrapf(err, "binding %s to %s", queueName, key)
		}
	}
	return nil
}

// watch logs an unexpected connection loss; publishes then fail and trip the breaker.
func (b *RabbitMQBroker) watch(closed <-chan *amqp.Error) {
	if err, ok := <-closed; ok && err != nil {
		b.log.Error("rabbitmq connection lost", zap.String("reason", err.Reason), zap.Int("code", err.Code))
	}
}

func (b *RabbitMQBroker) Close() error {
	if b.ch != nil {
		if err := b.ch.Close(); err != nil {
			return err
		}
	}
	if b.conn != nil {
		return b.conn.Close()
	}
	return nil
}
