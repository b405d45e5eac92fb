package kafka_test

import (
	"context"
	"errors"
	"testing"

	"hotel/config"
	"hotel/infras/kafka"
	"hotel/infras/kafka/mocks"
	"hotel/shared/event"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestEncodeDecode(t *testing.T) {
	evt := event.New(event.OrderCreated, "order", "od-1", "staff", map[string]int{"table": 4})

	msg, err := kafka.Encode(evt)
	require.NoError(t, err)
	assert.Equal(t, []byte("order:od-1"), msg.Key)
	assert.Equal(t, event.OrderCreated, kafka.EventType(msg))
	assert.Equal(t, evt.OccurredAt, msg.Time)

	got, err := kafka.Decode(msg)
	require.NoError(t, err)
	assert.Equal(t, evt.ID, got.ID)
	assert.JSONEq(t, `{"table":4}`, string(got.Payload))

	_, err = kafka.Decode(kafkaGo.Message{Value: []byte("{")})
	assert.Error(t, err)
	assert.Empty(t, kafka.EventType(kafkaGo.Message{}))
}

func TestPublisher_Publish(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)

	first := event.New(event.BookingCreated, "booking", "bk-1", "admin", nil)
	second := event.New(event.PaymentRecorded, "payment", "pm-1", "admin", nil)

	client.EXPECT().
		Send(gomock.Any(), "hotel.events", gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, msgs ...kafkaGo.Message) error {
			assert.Equal(t, "booking:bk-1", string(msgs[0].Key))
			assert.Equal(t, event.PaymentRecorded, kafka.EventType(msgs[1]))

			return nil
		})

	assert.NoError(t, kafka.NewPublisher(client, "hotel.events").Publish(context.Background(), first, second))
}

func TestPublisher_SendError(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)

	client.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("leader not available"))

	err := kafka.NewPublisher(client, "hotel.events").
		Publish(context.Background(), event.New(event.InvoiceIssued, "invoice", "in-1", "admin", nil))
	assert.Error(t, err)
}

func TestClient_RequiresTopic(t *testing.T) {
	client := kafka.New(&config.Config{})
	defer client.Close()

	ctx := context.Background()

	assert.ErrorIs(t, client.Send(ctx, "", kafkaGo.Message{}), kafka.ErrNoTopic)
	assert.ErrorIs(t, client.Consume(ctx, "", "", nil), kafka.ErrNoTopic)
	assert.NoError(t, client.Send(ctx, "hotel.events"))
}
