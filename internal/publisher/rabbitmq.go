package publisher

import (
	"context"
	"errors"
	"fmt"

	"github.com/fjod/sandwich_shop/internal/repository"
	"github.com/rabbitmq/amqp091-go"
)

// RabbitSink publishes to a durable topic exchange, routed by event type.
type RabbitSink struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
}

func DialRabbit(url, exchange string) (*RabbitSink, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // kind
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	return &RabbitSink{conn: conn, channel: ch, exchange: exchange}, nil
}

func (r *RabbitSink) Publish(ctx context.Context, event *repository.OutboxEvent) error {
	return r.channel.PublishWithContext(ctx,
		r.exchange,      // exchange
		event.EventType, // routing key
		false,           // mandatory
		false,           // immediate
		amqp091.Publishing{
			DeliveryMode: amqp091.Persistent,
			ContentType:  "application/json",
			MessageId:    fmt.Sprint(event.ID),
			Headers:      amqp091.Table{"aggregate_id": event.AggregateID},
			Body:         event.Payload,
			Timestamp:    event.CreatedAt,
		})
}

func (r *RabbitSink) Close() error {
	return errors.Join(r.channel.Close(), r.conn.Close())
}
