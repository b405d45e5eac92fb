package rabbitmq

//go:generate go run go.uber.org/mock/mockgen -source=./rabbitmq.go -destination=./mocks/rabbitmq_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"hotel/config"
	"hotel/shared/constant"
	"hotel/shared/event"
	"hotel/shared/timezone"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

const (
	exchangeKind     = "topic"
	bindingAll       = "#"
	consumerPrefetch = 50
)

var ErrNack = errors.New("publish nacked by broker")

type Client interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
	Consume(ctx context.Context, queue, bindingKey string, handler func(delivery amqp.Delivery) error) error
	Close() error
}

type clientImpl struct {
	config   *config.Config
	conn     *amqp.Connection
	channel  *amqp.Channel
	confirms <-chan amqp.Confirmation
	mu       sync.Mutex
}

// New dials the broker, declares the topic exchange and enables publisher confirms.
func New(config *config.Config) (Client, error) {
	conn, err := amqp.Dial(config.RabbitMQ.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial rabbitmq: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()

		return nil, fmt.Errorf("failed to open rabbitmq channel: %w", err)
	}

	if err = channel.ExchangeDeclare(config.RabbitMQ.Exchange, exchangeKind, true, false, false, false, nil); err != nil {
		_ = channel.Close()
		_ = conn.Close()

		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	if err = channel.Confirm(false); err != nil {
		_ = channel.Close()
		_ = conn.Close()

		return nil, fmt.Errorf("failed to enable publisher confirms: %w", err)
	}

	log.Info().Str("exchange", config.RabbitMQ.Exchange).Msg("Connected to RabbitMQ")

	return &clientImpl{
		config:   config,
		conn:     conn,
		channel:  channel,
		confirms: channel.NotifyPublish(make(chan amqp.Confirmation, 1)),
	}, nil
}

// Publish sends a persistent message and waits for the broker confirm.
func (c *clientImpl) Publish(ctx context.Context, routingKey string, body []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.channel.PublishWithContext(ctx, c.config.RabbitMQ.Exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  constant.ContentTypeJSON,
		DeliveryMode: amqp.Persistent,
		Timestamp:    timezone.Now(),
		Body:         body,
	})
	if err != nil {
		log.Error().Err(err).Str("routing_key", routingKey).Msg("Failed to publish to RabbitMQ.")

		return fmt.Errorf("failed to publish message: %w", err)
	}

	select {
	case confirm := <-c.confirms:
		if !confirm.Ack {
			return ErrNack
		}

		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for publish confirm: %w", ctx.Err())
	}
}

// Consume binds queue to the exchange and hands every delivery to handler until
// ctx is done. Deliveries whose handler fails are rejected without requeue.
func (c *clientImpl) Consume(ctx context.Context, queue, bindingKey string, handler func(delivery amqp.Delivery) error) error {
	channel, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open consumer channel: %w", err)
	}
	defer channel.Close()

	if err = channel.Qos(consumerPrefetch, 0, false); err != nil {
		log.Warn().Err(err).Msg("Failed to set consumer prefetch")
	}

	if _, err = channel.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	if bindingKey == constant.Empty {
		bindingKey = bindingAll
	}

	if err = channel.QueueBind(queue, bindingKey, c.config.RabbitMQ.Exchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}

	deliveries, err := channel.Consume(queue, constant.Empty, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to consume queue: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("queue", queue).Msg("Consumer context done.")

			return nil
		case delivery, ok := <-deliveries:
			if !ok {
				return errors.New("delivery channel closed")
			}

			if err := handler(delivery); err != nil {
				log.Error().Err(err).Str("queue", queue).Str("routing_key", delivery.RoutingKey).Msg("Failed to handle delivery.")

				_ = delivery.Nack(false, false)

				continue
			}

			_ = delivery.Ack(false)
		}
	}
}

func (c *clientImpl) Close() error {
	var errs []error

	if c.channel != nil {
		errs = append(errs, c.channel.Close())
	}

	if c.conn != nil {
		errs = append(errs, c.conn.Close())
	}

	return errors.Join(errs...)
}

type publisher struct {
	client Client
}

// NewPublisher routes each event by its type, e.g. booking.status_changed.
func NewPublisher(client Client) event.Publisher {
	return &publisher{client: client}
}

func (p *publisher) Publish(ctx context.Context, events ...event.Event) error {
	for _, evt := range events {
		body, err := json.Marshal(evt)
		if err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}

		if err = p.client.Publish(ctx, string(evt.Type), body); err != nil {
			return err
		}
	}

	return nil
}

// DecodeEvent reads an event envelope from a delivery body.
func DecodeEvent(delivery amqp.Delivery) (event.Event, error) {
	var evt event.Event

	if err := json.Unmarshal(delivery.Body, &evt); err != nil {
		return evt, fmt.Errorf("failed to decode event: %w", err)
	}

	return evt, nil
}
