// cmd/api/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/thecodersourabh/salvatore-api/cache"
	"github.com/thecodersourabh/salvatore-api/internal/accounts"
	"github.com/thecodersourabh/salvatore-api/internal/catalog"
	"github.com/thecodersourabh/salvatore-api/internal/config"
	"github.com/thecodersourabh/salvatore-api/internal/httpapi"
	"github.com/thecodersourabh/salvatore-api/internal/orders"
	"github.com/thecodersourabh/salvatore-api/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := cfg.ValidateAPI(); err != nil {
		log.Fatalf("config error: %v", err)
	}

	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		logger = logger.Level(lvl)
	}

	// DB
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	defer pool.Close()
	st := store.New(pool)

	// Cache: one instance per process, shared by every service.
	metrics := &cache.Counters{}
	c := cache.New(cache.WithLogger(logger), cache.WithMetrics(metrics))
	defer c.Close()

	// Background job client
	queue := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := queue.Close(); err != nil {
			logger.Error().Err(err).Msg("close asynq client")
		}
	}()

	// Router / server
	s := httpapi.New(httpapi.Options{
		Accounts: accounts.New(st, c, logger),
		Catalog:  catalog.New(st, c, logger),
		Orders:   orders.New(st, c, queue, logger),
		Cache:    c,
		Metrics:  metrics,
		Log:      logger,
	})
	h := hlog.NewHandler(logger)(s.Router)

	logger.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("api listening")
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: h}
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
}
