// Package kafka carries domain events over a kafka topic for the notification worker.
package kafka

//go:generate go run go.uber.org/mock/mockgen -source=./kafka.go -destination=./mocks/kafka_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"hotel/config"
	"hotel/shared/event"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
)

const (
	headerEventType = "event-type"
	batchTimeout    = 50 * time.Millisecond
)

var ErrNoTopic = errors.New("kafka topic is required")

// Handler processes one message. The offset is committed only when it returns nil.
type Handler func(ctx context.Context, msg kafkaGo.Message) error

type Client interface {
	Send(ctx context.Context, topic string, messages ...kafkaGo.Message) error
	Consume(ctx context.Context, group, topic string, handler Handler) error
	Close() error
}

type client struct {
	brokers   []string
	group     string
	dialer    *kafkaGo.Dialer
	transport *kafkaGo.Transport

	mu      sync.Mutex
	writers map[string]*kafkaGo.Writer
}

func New(cfg *config.Config) Client {
	var mechanism sasl.Mechanism
	if cfg.Kafka.SASL.Username != "" {
		mechanism = plain.Mechanism{Username: cfg.Kafka.SASL.Username, Password: cfg.Kafka.SASL.Password}
	}

	log.Info().Strs("brokers", cfg.Kafka.Brokers).Bool("sasl", mechanism != nil).Msg("Kafka client initialized")

	return &client{
		brokers:   cfg.Kafka.Brokers,
		group:     cfg.Kafka.ConsumerGroup,
		dialer:    &kafkaGo.Dialer{DualStack: true, SASLMechanism: mechanism},
		transport: &kafkaGo.Transport{SASL: mechanism},
		writers:   map[string]*kafkaGo.Writer{},
	}
}

func (c *client) writer(topic string) *kafkaGo.Writer {
	c.mu.Lock()
	defer c.mu.Unlock()

	w, ok := c.writers[topic]
	if !ok {
		w = &kafkaGo.Writer{
			Addr:                   kafkaGo.TCP(c.brokers...),
			Topic:                  topic,
			Transport:              c.transport,
			Balancer:               &kafkaGo.Hash{},
			BatchTimeout:           batchTimeout,
			RequiredAcks:           kafkaGo.RequireOne,
			AllowAutoTopicCreation: true,
		}
		c.writers[topic] = w
	}

	return w
}

func (c *client) Send(ctx context.Context, topic string, messages ...kafkaGo.Message) error {
	if topic == "" {
		return ErrNoTopic
	}

	if len(messages) == 0 {
		return nil
	}

	if err := c.writer(topic).WriteMessages(ctx, messages...); err != nil {
		log.Error().Err(err).Str("topic", topic).Int("count", len(messages)).Msg("Failed to write kafka messages")

		return fmt.Errorf("failed to write to %s: %w", topic, err)
	}

	log.Debug().Str("topic", topic).Int("count", len(messages)).Msg("Kafka messages written")

	return nil
}

// Consume blocks until ctx is done. Messages are handled in partition order and a
// failed message is logged and left uncommitted so the group retries it after a rebalance.
func (c *client) Consume(ctx context.Context, group, topic string, handler Handler) error {
	if topic == "" {
		return ErrNoTopic
	}

	if group == "" {
		group = c.group
	}

	reader := kafkaGo.NewReader(kafkaGo.ReaderConfig{
		Brokers:     c.brokers,
		Topic:       topic,
		GroupID:     group,
		Dialer:      c.dialer,
		StartOffset: kafkaGo.FirstOffset,
	})
	defer func() {
		if err := reader.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close kafka reader")
		}
	}()

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}

			return fmt.Errorf("failed to fetch from %s: %w", topic, err)
		}

		if err = handler(ctx, msg); err != nil {
			log.Error().Err(err).Str("topic", topic).Int64("offset", msg.Offset).Str("key", string(msg.Key)).Msg("Kafka message not handled")

			continue
		}

		if err = reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			log.Warn().Err(err).Int64("offset", msg.Offset).Msg("Failed to commit kafka offset")
		}
	}
}

// Close flushes and closes every topic writer.
func (c *client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error

	for topic, w := range c.writers {
		if err := w.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close writer for %s: %w", topic, err))
		}

		delete(c.writers, topic)
	}

	return errors.Join(errs...)
}

// Encode wraps evt in a message keyed by entity so one record's events share a partition.
func Encode(evt event.Event) (kafkaGo.Message, error) {
	body, err := json.Marshal(evt)
	if err != nil {
		return kafkaGo.Message{}, fmt.Errorf("failed to encode event %s: %w", evt.ID, err)
	}

	return kafkaGo.Message{
		Key:     []byte(evt.Key()),
		Value:   body,
		Headers: []kafkaGo.Header{{Key: headerEventType, Value: []byte(evt.Type)}},
		Time:    evt.OccurredAt,
	}, nil
}

func Decode(msg kafkaGo.Message) (event.Event, error) {
	var evt event.Event

	if err := json.Unmarshal(msg.Value, &evt); err != nil {
		return evt, fmt.Errorf("failed to decode event at offset %d: %w", msg.Offset, err)
	}

	return evt, nil
}

// EventType reads the type header without decoding the body.
func EventType(msg kafkaGo.Message) event.Type {
	for _, h := range msg.Headers {
		if h.Key == headerEventType {
			return event.Type(h.Value)
		}
	}

	return ""
}

type publisher struct {
	client Client
	topic  string
}

func NewPublisher(client Client, topic string) event.Publisher {
	return &publisher{client: client, topic: topic}
}

func (p *publisher) Publish(ctx context.Context, events ...event.Event) error {
	messages := make([]kafkaGo.Message, 0, len(events))

	for _, evt := range events {
		msg, err := Encode(evt)
		if err != nil {
			return err
		}

		messages = append(messages, msg)
	}

	return p.client.Send(ctx, p.topic, messages...)
}
