package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"hotel/config"
	"hotel/infras/kafka"
	"hotel/infras/otel"
	"hotel/infras/rabbitmq"
	"hotel/internal/worker"
	"hotel/shared/logger"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	otl := otel.New(cfg)
	defer otel.Shutdown(context.Background(), otl)

	notifier := worker.NewNotifier(otl)

	switch cfg.Event.Broker {
	case config.EventBrokerKafka:
		client := kafka.New(cfg)
		defer client.Close()

		log.Info().Str("topic", cfg.Event.Topic).Str("group", cfg.Kafka.ConsumerGroup).Msg("Worker consuming kafka")

		if err := client.Consume(ctx, cfg.Kafka.ConsumerGroup, cfg.Event.Topic, notifier.HandleKafka); err != nil {
			log.Error().Err(err).Msg("Kafka consumer stopped")
		}
	case config.EventBrokerRabbitMQ:
		client, err := rabbitmq.New(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to RabbitMQ")
		}
		defer client.Close()

		log.Info().Str("queue", cfg.RabbitMQ.Queue).Msg("Worker consuming rabbitmq")

		if err = client.Consume(ctx, cfg.RabbitMQ.Queue, "", notifier.HandleDelivery); err != nil {
			log.Error().Err(err).Msg("RabbitMQ consumer stopped")
		}
	default:
		log.Fatal().Str("broker", cfg.Event.Broker).Msg("Worker needs EVENT_BROKER=kafka or rabbitmq")
	}

	log.Info().Msg("Worker stopped")
}
