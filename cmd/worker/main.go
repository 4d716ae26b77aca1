package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/thecodersourabh/salvatore-api/cache"
	"github.com/thecodersourabh/salvatore-api/internal/config"
	"github.com/thecodersourabh/salvatore-api/internal/jobs"
	"github.com/thecodersourabh/salvatore-api/internal/notify"
	"github.com/thecodersourabh/salvatore-api/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := cfg.ValidateWorker(); err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("app", "worker").Logger()
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		logger = logger.Level(lvl)
	}

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	defer pool.Close()
	st := store.New(pool)

	// Worker-local cache instance. Invalidations here do not propagate
	// to the api process; each process owns its own in-memory store and
	// relies on TTLs for cross-process staleness.
	c := cache.New(cache.WithLogger(logger))
	defer c.Close()

	sender := notify.LogSender{Log: logger}

	srv := asynq.NewServer(asynq.RedisClientOpt{Addr: cfg.RedisAddr}, asynq.Config{
		Concurrency:    8,
		StrictPriority: false,
		Queues: map[string]int{
			jobs.QueueStats:   10, // higher priority
			jobs.QueueDefault: 5,
		},
	})
	mux := asynq.NewServeMux()

	mux.HandleFunc(jobs.TaskStatsRecompute, func(ctx context.Context, t *asynq.Task) error {
		var p jobs.StatsRecomputePayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			logger.Error().Err(err).Msg("bad stats payload, dropping job")
			return nil // a malformed payload will never succeed
		}
		sellerID, err := uuid.Parse(p.SellerID)
		if err != nil {
			logger.Error().Err(err).Str("seller", p.SellerID).Msg("bad seller id, dropping job")
			return nil
		}

		start := time.Now()
		if err := st.RecomputeSellerStats(ctx, sellerID); err != nil {
			if isRetryableError(err) {
				logger.Warn().Err(err).Str("seller", p.SellerID).Msg("stats recompute failed, retrying")
				return err
			}
			logger.Error().Err(err).Str("seller", p.SellerID).Msg("stats recompute failed, dropping job")
			return nil
		}
		c.InvalidateID(cache.NSStats, p.SellerID)
		logger.Info().Str("seller", p.SellerID).Dur("duration", time.Since(start)).Msg("stats recomputed")
		return nil
	})

	mux.HandleFunc(jobs.TaskNotifyOrder, func(ctx context.Context, t *asynq.Task) error {
		var p jobs.NotifyOrderPayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			logger.Error().Err(err).Msg("bad notify payload, dropping job")
			return nil
		}
		n := notify.Notification{
			To:      p.SellerID,
			Subject: "New order",
			Body:    "Order " + p.OrderID + " placed by " + p.BuyerID,
		}
		if err := sender.Send(ctx, n); err != nil {
			logger.Warn().Err(err).Str("order", p.OrderID).Msg("notification failed, retrying")
			return err
		}
		return nil
	})

	logger.Info().Str("redis", cfg.RedisAddr).Msg("worker running")
	if err := srv.Run(mux); err != nil {
		logger.Fatal().Err(err).Msg("worker exited")
	}
}

// isRetryableError determines if an error should trigger a job retry.
func isRetryableError(err error) bool {
	errStr := strings.ToLower(err.Error())

	// Network/connectivity issues - should retry
	if strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "connection") ||
		strings.Contains(errStr, "network") ||
		strings.Contains(errStr, "dns") {
		return true
	}

	// Postgres shutting down or failing over - should retry later
	if strings.Contains(errStr, "the database system is starting up") ||
		strings.Contains(errStr, "the database system is shutting down") ||
		strings.Contains(errStr, "too many clients") {
		return true
	}

	// Everything else (bad data, constraint violations) - don't retry
	return false
}
