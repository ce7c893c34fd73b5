package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"siswa/internal/config"
	"siswa/internal/logger"
	"siswa/internal/queue"
	"siswa/internal/store"
)

// Worker drains the Redis notification queue the API publishes to and logs
// every outcome message.
func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env, "siswa-worker")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info().Msg("shutdown signal received")
		cancel()
	}()

	if cfg.QueueBackend != "redis" {
		log.Fatal().Str("backend", cfg.QueueBackend).Msg("worker needs QUEUE_BACKEND=redis")
	}

	rdb := store.NewRedis(cfg.RedisAddr, "")
	defer rdb.Close()
	if !rdb.Healthy(ctx) {
		log.Fatal().Str("addr", cfg.RedisAddr).Msg("redis not reachable")
	}

	q := queue.NewRedisQueue(rdb.Client, cfg.QueueKey)
	messages, err := q.Consume(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("queue consume init failed")
	}

	log.Info().Str("key", cfg.QueueKey).Msg("worker started, waiting for messages")
	counts := map[string]int{}
	for msg := range messages {
		counts[msg.Type]++
		log.Info().
			Str("event", msg.Type).
			Int("seen", counts[msg.Type]).
			Msg(string(msg.Body))
	}

	log.Info().Interface("totals", counts).Msg("worker stopped")
}
