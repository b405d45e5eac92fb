package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"hotel/infras/kafka"
	"hotel/infras/otel"
	"hotel/infras/rabbitmq"
	"hotel/shared/constant"
	"hotel/shared/event"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

var ErrInvalidEvent = errors.New("event has no type or entity")

// Notifier is the hook the worker calls for every domain event read from the broker.
type Notifier struct {
	otel otel.Otel

	mu   sync.Mutex
	seen map[event.Type]int
}

func NewNotifier(otel otel.Otel) *Notifier {
	return &Notifier{
		otel: otel,
		seen: map[event.Type]int{},
	}
}

func (n *Notifier) Handle(ctx context.Context, evt event.Event) (err error) {
	_, scope := n.otel.NewScope(ctx, constant.OtelEventScopeName, "worker.handle")
	defer scope.End()
	defer scope.TraceIfError(err)

	if evt.Type == "" || evt.Entity == "" {
		return ErrInvalidEvent
	}

	scope.SetAttributes(map[string]any{
		"event.type":      string(evt.Type),
		"event.entity_id": evt.EntityID,
	})

	logEvent := log.Info().
		Str("type", string(evt.Type)).
		Str("entity", evt.Entity).
		Str("entity_id", evt.EntityID).
		Str("actor", evt.Actor)

	if isStatusChange(evt.Type) {
		var change event.StatusChange
		if err = evt.Decode(&change); err != nil {
			return fmt.Errorf("failed to decode status change: %w", err)
		}

		logEvent = logEvent.Str("from", change.From).Str("to", change.To)
	}

	logEvent.Msg(notification(evt.Type))

	n.mu.Lock()
	n.seen[evt.Type]++
	n.mu.Unlock()

	return nil
}

// HandleKafka adapts Handle to the kafka consumer; an error leaves the offset uncommitted.
func (n *Notifier) HandleKafka(ctx context.Context, msg kafkaGo.Message) error {
	evt, err := kafka.Decode(msg)
	if err != nil {
		return err
	}

	return n.Handle(ctx, evt)
}

// HandleDelivery adapts Handle to the rabbitmq consumer; an error rejects the delivery.
func (n *Notifier) HandleDelivery(delivery amqp.Delivery) error {
	evt, err := rabbitmq.DecodeEvent(delivery)
	if err != nil {
		return err
	}

	return n.Handle(context.Background(), evt)
}

// Seen returns how many events of eventType were handled.
func (n *Notifier) Seen(eventType event.Type) int {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.seen[eventType]
}

func isStatusChange(eventType event.Type) bool {
	switch eventType {
	case event.BookingStatusChanged, event.BookingPaymentStatusChanged,
		event.OrderStatusChanged, event.OrderPaymentStatusChanged,
		event.InvoiceStatusChanged, event.RoomStatusChanged,
		event.TableStatusChanged, event.StaffStatusChanged:
		return true
	}

	return false
}

func notification(eventType event.Type) string {
	switch eventType {
	case event.BookingCreated:
		return "New booking received"
	case event.BookingStatusChanged:
		return "Booking status changed"
	case event.OrderCreated:
		return "New cafe order"
	case event.OrderStatusChanged:
		return "Cafe order moved"
	case event.PaymentRecorded:
		return "Payment recorded"
	case event.PaymentRefunded:
		return "Payment refunded"
	case event.InvoiceIssued:
		return "Invoice issued"
	default:
		return "Domain event"
	}
}
