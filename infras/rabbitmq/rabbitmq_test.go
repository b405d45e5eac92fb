package rabbitmq_test

import (
	"context"
	"errors"
	"testing"

	"hotel/infras/rabbitmq"
	"hotel/infras/rabbitmq/mocks"
	"hotel/shared/event"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestPublisher_Publish(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	created := event.New(event.PaymentRecorded, "payment", "py-1", "admin", nil)
	refunded := event.New(event.PaymentRefunded, "payment", "py-1", "admin", nil)

	tests := []struct {
		name      string
		setupMock func(client *mocks.MockClient)
		wantErr   bool
	}{
		{
			name: "routes every event by type",
			setupMock: func(client *mocks.MockClient) {
				gomock.InOrder(
					client.EXPECT().Publish(gomock.Any(), "payment.recorded", gomock.Any()).Return(nil),
					client.EXPECT().Publish(gomock.Any(), "payment.refunded", gomock.Any()).Return(nil),
				)
			},
		},
		{
			name: "stops at the first failure",
			setupMock: func(client *mocks.MockClient) {
				client.EXPECT().Publish(gomock.Any(), "payment.recorded", gomock.Any()).Return(errors.New("nack"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := mocks.NewMockClient(ctrl)
			tt.setupMock(client)

			err := rabbitmq.NewPublisher(client).Publish(context.Background(), created, refunded)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDecodeEvent(t *testing.T) {
	evt, err := rabbitmq.DecodeEvent(amqp.Delivery{Body: []byte(`{"id":"e-1","type":"order.created","entity":"order","entity_id":"od-1"}`)})

	assert.NoError(t, err)
	assert.Equal(t, event.OrderCreated, evt.Type)
	assert.Equal(t, "order:od-1", evt.Key())

	_, err = rabbitmq.DecodeEvent(amqp.Delivery{Body: []byte("not json")})
	assert.Error(t, err)
}
