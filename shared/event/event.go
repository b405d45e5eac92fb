package event

//go:generate go run go.uber.org/mock/mockgen -source=./event.go -destination=./mocks/event_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"hotel/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Type string

const (
	BookingCreated              Type = "booking.created"
	BookingUpdated              Type = "booking.updated"
	BookingStatusChanged        Type = "booking.status_changed"
	BookingPaymentStatusChanged Type = "booking.payment_status_changed"
	BookingDeleted              Type = "booking.deleted"

	OrderCreated              Type = "order.created"
	OrderStatusChanged        Type = "order.status_changed"
	OrderPaymentStatusChanged Type = "order.payment_status_changed"
	OrderDeleted              Type = "order.deleted"

	PaymentRecorded Type = "payment.recorded"
	PaymentRefunded Type = "payment.refunded"

	InvoiceIssued        Type = "invoice.issued"
	InvoiceStatusChanged Type = "invoice.status_changed"

	RoomStatusChanged  Type = "room.status_changed"
	TableStatusChanged Type = "table.status_changed"
	StaffStatusChanged Type = "staff.status_changed"
)

// Event is the envelope written to the broker and pushed to dashboard sockets.
type Event struct {
	ID         string          `json:"id"`
	Type       Type            `json:"type"`
	Entity     string          `json:"entity"`
	EntityID   string          `json:"entity_id"`
	Actor      string          `json:"actor"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// New builds an event; a payload that cannot be encoded is dropped with a log line.
func New(eventType Type, entity, entityID, actor string, payload any) Event {
	evt := Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		Entity:     entity,
		EntityID:   entityID,
		Actor:      actor,
		OccurredAt: timezone.Now(),
	}

	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			log.Error().Err(err).Str("type", string(eventType)).Msg("failed to encode event payload")
		} else {
			evt.Payload = raw
		}
	}

	return evt
}

func (e Event) Key() string {
	return fmt.Sprintf("%s:%s", e.Entity, e.EntityID)
}

// Decode reads the payload into target.
func (e Event) Decode(target any) error {
	if len(e.Payload) == 0 {
		return errors.New("event has no payload")
	}

	if err := json.Unmarshal(e.Payload, target); err != nil {
		return fmt.Errorf("failed to decode event payload: %w", err)
	}

	return nil
}

type Publisher interface {
	Publish(ctx context.Context, events ...Event) error
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, ...Event) error { return nil }

// Noop discards every event.
func Noop() Publisher {
	return noopPublisher{}
}

type fanout []Publisher

// Fanout delivers to every publisher and joins their errors.
func Fanout(publishers ...Publisher) Publisher {
	return fanout(publishers)
}

func (f fanout) Publish(ctx context.Context, events ...Event) error {
	var errs []error

	for _, publisher := range f {
		if publisher == nil {
			continue
		}

		if err := publisher.Publish(ctx, events...); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Dispatch publishes in the background so request latency never depends on the broker.
func Dispatch(ctx context.Context, publisher Publisher, events ...Event) {
	c := context.WithoutCancel(ctx)

	go func() {
		if err := publisher.Publish(c, events...); err != nil {
			for _, evt := range events {
				log.Error().Err(err).Str("type", string(evt.Type)).Str("key", evt.Key()).Msg("failed to publish event")
			}
		}
	}()
}

// StatusChange is the payload of every *.status_changed event.
type StatusChange struct {
	From string `json:"from"`
	To   string `json:"to"`
}
