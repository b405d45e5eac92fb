package worker_test

import (
	"context"
	"encoding/json"
	"testing"

	otelMocks "hotel/infras/otel/mocks"
	"hotel/internal/worker"
	"hotel/shared/event"

	amqp "github.com/rabbitmq/amqp091-go"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifier_Handle(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		evt     event.Event
		wantErr error
		decode  bool
	}{
		{
			name: "status change",
			evt:  event.New(event.BookingStatusChanged, "booking", "bk-1", "admin", event.StatusChange{From: "confirmed", To: "checked-in"}),
		},
		{
			name: "plain event",
			evt:  event.New(event.PaymentRecorded, "payment", "pay-1", "admin", map[string]string{"amount": "100"}),
		},
		{
			name:    "missing type",
			evt:     event.Event{Entity: "booking"},
			wantErr: worker.ErrInvalidEvent,
		},
		{
			name:   "status change with broken payload",
			evt:    event.Event{Type: event.OrderStatusChanged, Entity: "order", Payload: json.RawMessage(`"oops"`)},
			decode: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notifier := worker.NewNotifier(otelMocks.NewOtel())

			err := notifier.Handle(ctx, tt.evt)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Zero(t, notifier.Seen(tt.evt.Type))
			case tt.decode:
				assert.Error(t, err)
				assert.Zero(t, notifier.Seen(tt.evt.Type))
			default:
				require.NoError(t, err)
				assert.Equal(t, 1, notifier.Seen(tt.evt.Type))
			}
		})
	}
}

func TestNotifier_HandleDelivery(t *testing.T) {
	otl := otelMocks.NewOtel()
	notifier := worker.NewNotifier(otl)

	body, err := json.Marshal(event.New(event.InvoiceIssued, "invoice", "inv-1", "admin", nil))
	require.NoError(t, err)

	require.NoError(t, notifier.HandleDelivery(amqp.Delivery{Body: body}))
	assert.Equal(t, 1, notifier.Seen(event.InvoiceIssued))
	assert.Equal(t, []string{"worker.handle"}, otl.Spans())

	assert.Error(t, notifier.HandleDelivery(amqp.Delivery{Body: []byte("not json")}))
}

func TestNotifier_HandleKafka(t *testing.T) {
	notifier := worker.NewNotifier(otelMocks.NewOtel())

	value, err := json.Marshal(event.New(event.OrderCreated, "order", "od-1", "admin", nil))
	require.NoError(t, err)

	ctx := context.Background()

	require.NoError(t, notifier.HandleKafka(ctx, kafkaGo.Message{Key: []byte("order:od-1"), Value: value}))
	assert.Error(t, notifier.HandleKafka(ctx, kafkaGo.Message{Value: []byte("{")}))

	assert.Equal(t, 1, notifier.Seen(event.OrderCreated))
}
