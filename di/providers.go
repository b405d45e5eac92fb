package di

import (
	"hotel/config"
	"hotel/infras/kafka"
	"hotel/infras/rabbitmq"
	"hotel/shared/event"
	"hotel/transport/http/ws"

	"github.com/rs/zerolog/log"
)

// NewPublisher always feeds the websocket hub and adds the configured broker on top.
// A broker that cannot be reached downgrades to hub-only delivery instead of failing startup.
func NewPublisher(cfg *config.Config, hub *ws.Hub) event.Publisher {
	switch cfg.Event.Broker {
	case config.EventBrokerKafka:
		return event.Fanout(hub, kafka.NewPublisher(kafka.New(cfg), cfg.Event.Topic))
	case config.EventBrokerRabbitMQ:
		client, err := rabbitmq.New(cfg)
		if err != nil {
			log.Error().Err(err).Msg("RabbitMQ unavailable, events stay in-process")

			return hub
		}

		return event.Fanout(hub, rabbitmq.NewPublisher(client))
	default:
		return hub
	}
}
