package redis

import (
	"context"
	"net"
	"time"

	"hotel/config"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const pingTimeout = 5 * time.Second

// Options maps the primary node settings onto the client options.
func Options(cfg *config.Config) *goRedis.Options {
	node := cfg.Cache.Redis.Primary

	return &goRedis.Options{
		Addr:     net.JoinHostPort(node.Host, node.Port),
		Password: node.Password,
		DB:       node.DB,
	}
}

// New returns nil when caching is disabled; the cache layer then falls back to a no-op store.
func New(cfg *config.Config) *goRedis.Client {
	if !cfg.Cache.Redis.Enable {
		log.Warn().Msg("Redis cache disabled")

		return nil
	}

	opts := Options(cfg)
	client := goRedis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Str("addr", opts.Addr).Msg("Failed to connect to Redis")
	}

	log.Info().Str("addr", opts.Addr).Int("db", opts.DB).Msg("Connected to Redis")

	return client
}
