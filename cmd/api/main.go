package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"siswa/internal/config"
	"siswa/internal/datastore"
	"siswa/internal/httpapi"
	"siswa/internal/logger"
	"siswa/internal/metrics"
	"siswa/internal/queue"
	"siswa/internal/store"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env, "siswa-api")

	// Set Gin mode based on environment
	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := runHTTP(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("http server failed")
	}
}

func runHTTP(cfg config.App, log zerolog.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	slots, err := store.Open(ctx, store.Options{
		Backend:     cfg.StorageBackend,
		DBPath:      cfg.DBPath,
		DatabaseURL: cfg.DatabaseURL,
		RedisAddr:   cfg.RedisAddr,
		RedisPrefix: cfg.RedisPrefix,
	})
	if err != nil {
		return err
	}
	log.Info().Str("backend", cfg.StorageBackend).Msg("slot store ready")

	q, closeQueue := openQueue(ctx, cfg, log)
	defer closeQueue()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	opts := []datastore.Option{
		datastore.WithLogger(log.With().Str("component", "datastore").Logger()),
		datastore.WithMetrics(metrics.New(reg)),
	}
	if q != nil {
		opts = append(opts, datastore.WithQueue(q))
	}
	ds, err := datastore.Open(ctx, slots, opts...)
	if err != nil {
		_ = slots.Close()
		return err
	}

	h := httpapi.New(ds, log.With().Str("component", "http").Logger())
	r := httpapi.NewRouter(h, httpapi.RouterConfig{
		CORSOrigins:     cfg.CORSOrigins,
		RateLimitPerMin: cfg.RateLimitPerMin,
		Gatherer:        reg,
	}, log)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	// Give outstanding requests 10 seconds to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced shutdown")
	}
	if err := ds.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("datastore close failed")
	}

	log.Info().Msg("server exited")
	return nil
}

// openQueue builds the notification queue. The in-memory queue is drained
// by a local consumer that logs every notification.
func openQueue(ctx context.Context, cfg config.App, log zerolog.Logger) (queue.Queue, func()) {
	switch cfg.QueueBackend {
	case "memory":
		q := queue.NewInMemory(64)
		go logNotifications(ctx, q, log)
		return q, func() {}
	case "redis":
		rdb := store.NewRedis(cfg.RedisAddr, "")
		if !rdb.Healthy(ctx) {
			log.Warn().Str("addr", cfg.RedisAddr).Msg("redis not reachable, notifications disabled")
			_ = rdb.Close()
			return nil, func() {}
		}
		return queue.NewRedisQueue(rdb.Client, cfg.QueueKey), func() { _ = rdb.Close() }
	default:
		log.Info().Str("backend", cfg.QueueBackend).Msg("notifications disabled")
		return nil, func() {}
	}
}

func logNotifications(ctx context.Context, q queue.Queue, log zerolog.Logger) {
	messages, err := q.Consume(ctx)
	if err != nil {
		log.Error().Err(err).Msg("notification consumer failed")
		return
	}
	for msg := range messages {
		log.Info().Str("event", msg.Type).Msg(string(msg.Body))
	}
}
